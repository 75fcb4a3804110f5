package service

// QRCodeService renders action links as QR images so verification and reset
// emails can carry a scannable code next to the plain URL.
type QRCodeService interface {
	// GeneratePNG encodes the content into a PNG image of the given size.
	GeneratePNG(content string, size int) ([]byte, error)
}
