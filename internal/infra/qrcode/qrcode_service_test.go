package qrcode

import (
	"testing"

	"roam/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(&config.Config{
				QRCode: &config.QRCodeConfig{
					Size:                 tt.size,
					ErrorCorrectionLevel: tt.errorCorrectionLevel,
				},
			})
			assert.NotNil(t, service)
		})
	}
}

func TestQRCodeService_GeneratePNG(t *testing.T) {
	service := NewQRCodeService(&config.Config{})

	qrBytes, err := service.GeneratePNG("https://booking.example.com/verify-email?token=abc", 256)
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_GeneratePNG_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(&config.Config{})

			qrBytes, err := service.GeneratePNG("https://booking.example.com/reset-password?token=xyz", tt.size)
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestQRCodeService_GeneratePNG_DefaultSize(t *testing.T) {
	service := NewQRCodeService(&config.Config{
		QRCode: &config.QRCodeConfig{Size: 128},
	})

	// A non-positive size falls back to the configured default.
	qrBytes, err := service.GeneratePNG("https://booking.example.com", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)
}

func TestQRCodeService_GeneratePNG_EmptyContent(t *testing.T) {
	service := NewQRCodeService(&config.Config{})

	_, err := service.GeneratePNG("", 256)
	assert.Error(t, err)
}
