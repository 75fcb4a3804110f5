// Package lifecycle holds shared start/stop constants for fx-managed components.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup and shutdown of every delivery.
const DefaultTimeout = 10 * time.Second
