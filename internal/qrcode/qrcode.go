// Package qrcode renders ticket payloads as PNG images.
package qrcode

import (
	"errors"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length of generated images in pixels
const DefaultSize = 256

var ErrEmptyPayload = errors.New("qr payload is empty")

// PNG encodes payload as a medium error-correction QR code
func PNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qr.Encode(payload, qr.Medium, size)
}
