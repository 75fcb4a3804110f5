package qrcode

import (
	"fmt"

	"roam/config"
	"roam/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := defaultQRSize
	levelName := ""
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		levelName = cfg.QRCode.ErrorCorrectionLevel
	}

	// Set error correction level
	var level qrcode.RecoveryLevel
	switch levelName {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePNG encodes the content into a PNG image. A non-positive size falls
// back to the configured default.
func (s *qrcodeService) GeneratePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = s.size
	}

	qrCode, err := qrcode.New(content, s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
