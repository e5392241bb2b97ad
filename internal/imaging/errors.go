package imaging

import "errors"

// Error kinds surfaced by the image pipeline. Callers match with errors.Is;
// wrapped errors carry the operation context.
var (
	// ErrInvalidInput marks a missing or empty required argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecode marks malformed base64 image data.
	ErrDecode = errors.New("malformed base64 image data")

	// ErrFetch marks a failed download of a URL-based image reference.
	ErrFetch = errors.New("image fetch failed")

	// ErrNoImageData marks an upstream response with zero images, or a
	// reference carrying neither a URL nor an inline payload.
	ErrNoImageData = errors.New("no image data in response")

	// ErrUpstream marks any other failure surfaced by the upstream API.
	ErrUpstream = errors.New("upstream API error")
)
