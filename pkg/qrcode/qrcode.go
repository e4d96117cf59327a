package qrcode

import (
	"encoding/base64"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Renderer produces QR images for redemption payloads. The base64 form is
// embedded directly in API responses so mobile clients can display it
// without a second fetch.
type Renderer struct {
	size int
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = defaultSize
	}
	return &Renderer{size: size}
}

// RenderBase64 encodes the payload as a PNG QR code and returns it as a
// base64 data URI.
func (r *Renderer) RenderBase64(payload string) (string, error) {
	png, err := qr.Encode(payload, qr.Medium, r.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderPNG returns the raw PNG bytes, for callers serving the image over
// HTTP instead of inline.
func (r *Renderer) RenderPNG(payload string) ([]byte, error) {
	png, err := qr.Encode(payload, qr.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
