// Package worker contains background deliveries that run alongside the HTTP
// server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"roam/config"
	"roam/internal/delivery"
	"roam/internal/usecase"

	"go.uber.org/fx"
)

// sweeper periodically purges expired refresh tokens and revoked tokens past
// the audit retention window.
type sweeper struct {
	interval       time.Duration
	sessionUsecase usecase.SessionUsecase
	logger         *slog.Logger
	stop           chan struct{}
	done           chan struct{}
}

// SweeperParams holds dependencies for the purge sweeper
type SweeperParams struct {
	fx.In

	Lc             fx.Lifecycle
	Cfg            *config.Config
	SessionUsecase usecase.SessionUsecase
	Logger         *slog.Logger
}

// NewSweeper creates the periodic session purge worker. A zero or negative
// purge interval disables the sweep; purges can still be triggered through
// the admin endpoint.
func NewSweeper(params SweeperParams) (delivery.Delivery, error) {
	s := &sweeper{
		interval:       params.Cfg.Auth.PurgeInterval,
		sessionUsecase: params.SessionUsecase,
		logger:         params.Logger,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.shutdown,
	})

	return s, nil
}

// Serve runs the purge loop until shutdown.
func (s *sweeper) Serve(ctx context.Context) error {
	defer close(s.done)

	if s.interval <= 0 {
		s.logger.Info("Session purge sweeper disabled")
		<-s.stop

		return nil
	}

	s.logger.Info("Starting session purge sweeper", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	purged, err := s.sessionUsecase.PurgeStaleSessions(ctx)
	if err != nil {
		s.logger.Error("Session purge sweep failed", slog.Any("error", err))

		return
	}

	if purged > 0 {
		s.logger.Info("Session purge sweep completed", slog.Int64("purged", purged))
	}
}

func (s *sweeper) shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down session purge sweeper")
	close(s.stop)

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	return nil
}
