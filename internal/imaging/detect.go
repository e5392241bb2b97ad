// Package imaging implements the image pipeline behind the MCP tools:
// container-format detection from magic bytes, resolution of upstream
// image references into bytes, and normalization into artifacts.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// Format is an image container format, used as the suffix of a MIME type.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	riffMagic = []byte("RIFF")
	webpTag   = []byte("WEBP")
)

// DetectFormat classifies the container format of a base64-encoded image by
// its magic bytes. Only the first 32 base64 characters (24 raw bytes) are
// decoded, enough to disambiguate PNG, JPEG and WebP without touching the
// rest of the payload. Anything that matches no known signature, including
// input too short to carry one, classifies as PNG. Malformed base64 is the
// only error.
func DetectFormat(b64 string) (Format, error) {
	prefix := b64
	if len(prefix) > 32 {
		prefix = prefix[:32]
	}
	header, err := base64.StdEncoding.DecodeString(prefix)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	switch {
	case bytes.HasPrefix(header, pngMagic):
		return FormatPNG, nil
	case bytes.HasPrefix(header, jpegMagic):
		return FormatJPEG, nil
	case bytes.HasPrefix(header, riffMagic) && len(header) >= 12 && bytes.Equal(header[8:12], webpTag):
		return FormatWebP, nil
	}
	return FormatPNG, nil
}

// DataURL renders a base64 payload as an inline data URL for multimodal
// upstream calls.
func DataURL(format Format, b64 string) string {
	return "data:image/" + string(format) + ";base64," + b64
}
