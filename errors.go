package imagetone

import "errors"

var (
	// ErrInvalidImage indicates a pixel buffer that breaks its own invariants:
	// non-positive dimensions, an unsupported channel order, or too few bytes.
	ErrInvalidImage = errors.New("imagetone: invalid image")

	// ErrImageTooLarge indicates an encoded image whose declared pixel count
	// exceeds Config.MaxPixels.
	ErrImageTooLarge = errors.New("imagetone: image too large")

	// errNotFetched is returned internally when Download yields no usable body.
	errNotFetched = errors.New("imagetone: image not fetched")
)
