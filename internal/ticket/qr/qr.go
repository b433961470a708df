// Package qr renders ticket ids as PNG QR codes.
package qr

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

var ErrGeneration = errors.New("qr code generation failed")

type Generator struct {
	level qrcode.RecoveryLevel
}

func New() *Generator {
	return &Generator{level: qrcode.Medium}
}

// PNG encodes payload as a square PNG of size pixels.
func (g *Generator) PNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrGeneration)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrGeneration, size)
	}

	png, err := qrcode.Encode(payload, g.level, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return png, nil
}

// Generate returns the QR code as base64-encoded PNG. QR codes are square,
// so the larger of width and height is used.
func (g *Generator) Generate(payload string, width, height int) (string, error) {
	png, err := g.PNG(payload, max(width, height))
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
