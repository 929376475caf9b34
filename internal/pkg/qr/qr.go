// Package qr renders QR code images for provisioning URIs.
package qr

import (
	"encoding/base64"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when the content is empty or whitespace.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrEncodeFailed is returned when the QR code cannot be encoded.
	ErrEncodeFailed = errors.New("failed to encode qr code")
)

// DefaultSize is the image size in pixels used when none is configured.
const DefaultSize = 256

// Generator renders QR codes.
type Generator interface {
	// PNG encodes content into a PNG image.
	PNG(content string) ([]byte, error)
	// Base64PNG encodes content into a base64-encoded PNG image.
	Base64PNG(content string) (string, error)
}

// Encoder implements Generator using PNG output at a fixed size.
type Encoder struct {
	size int
}

// NewEncoder creates an Encoder. A non-positive size uses DefaultSize.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}

	return &Encoder{size: size}
}

// PNG encodes content into a PNG image.
func (e *Encoder) PNG(content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	png, err := qrcode.Encode(content, qrcode.Medium, e.size)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailed, err)
	}

	return png, nil
}

// Base64PNG encodes content into a base64-encoded PNG image, suitable for
// embedding in an HTML img tag as a data URI.
func (e *Encoder) Base64PNG(content string) (string, error) {
	png, err := e.PNG(content)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
