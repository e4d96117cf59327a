package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const jpegQuality = 85

// NormalizeImage decodes raw upload bytes and scales the image down so it
// fits within maxWidth x maxHeight, preserving aspect ratio. Images already
// within bounds pass through a re-encode, so the stored bytes are always a
// decoded-and-re-encoded PNG or JPEG regardless of what the client sent.
// Returns the processed bytes and their content type.
func NormalizeImage(data []byte, maxWidth, maxHeight uint) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) > maxWidth || uint(bounds.Dy()) > maxHeight {
		img = resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encode image: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", fmt.Errorf("encode image: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
