package imagetone

import (
	"fmt"
	"math"
)

// ChannelOrder describes where the red, green and blue bytes sit inside one
// pixel and how wide a pixel is. Alpha bytes, when present, are never read.
type ChannelOrder int

const (
	OrderRGBA ChannelOrder = iota // R,G,B,A, 4 bytes (default)
	OrderBGRA                     // B,G,R,A, 4 bytes
	OrderARGB                     // A,R,G,B, 4 bytes
	OrderABGR                     // A,B,G,R, 4 bytes
	OrderRGB                      // R,G,B, 3 bytes
	OrderBGR                      // B,G,R, 3 bytes
)

// channelLayout holds byte offsets of each color channel and the pixel width.
type channelLayout struct {
	r, g, b int
	size    int
}

var channelLayouts = [...]channelLayout{
	OrderRGBA: {r: 0, g: 1, b: 2, size: 4},
	OrderBGRA: {r: 2, g: 1, b: 0, size: 4},
	OrderARGB: {r: 1, g: 2, b: 3, size: 4},
	OrderABGR: {r: 3, g: 2, b: 1, size: 4},
	OrderRGB:  {r: 0, g: 1, b: 2, size: 3},
	OrderBGR:  {r: 2, g: 1, b: 0, size: 3},
}

var channelOrderNames = [...]string{
	OrderRGBA: "RGBA",
	OrderBGRA: "BGRA",
	OrderARGB: "ARGB",
	OrderABGR: "ABGR",
	OrderRGB:  "RGB",
	OrderBGR:  "BGR",
}

func (o ChannelOrder) valid() bool {
	return o >= 0 && int(o) < len(channelLayouts)
}

func (o ChannelOrder) layout() channelLayout {
	return channelLayouts[o]
}

// BytesPerPixel returns the pixel stride for o, or 0 for an unknown order.
func (o ChannelOrder) BytesPerPixel() int {
	if !o.valid() {
		return 0
	}
	return channelLayouts[o].size
}

func (o ChannelOrder) String() string {
	if !o.valid() {
		return fmt.Sprintf("ChannelOrder(%d)", int(o))
	}
	return channelOrderNames[o]
}

// OrderForBytesPerPixel maps a bare pixel width to the channel order callers
// get when they only know the stride: 4 → RGBA, 3 → RGB.
func OrderForBytesPerPixel(bpp int) (ChannelOrder, error) {
	switch bpp {
	case 4:
		return OrderRGBA, nil
	case 3:
		return OrderRGB, nil
	default:
		return 0, fmt.Errorf("%w: unsupported bytes per pixel %d", ErrInvalidImage, bpp)
	}
}

// PixelBuffer is a decoded, row-major raster with no row padding.
// The caller owns Data; nothing in this package writes to it or keeps it.
type PixelBuffer struct {
	Data   []byte
	Width  int
	Height int
	Order  ChannelOrder
}

// BytesPerPixel returns the pixel stride implied by b.Order.
func (b PixelBuffer) BytesPerPixel() int {
	return b.Order.BytesPerPixel()
}

// Pixels returns the declared pixel count Width*Height.
func (b PixelBuffer) Pixels() int {
	return b.Width * b.Height
}

// Validate reports whether b can be scanned. Every failure wraps ErrInvalidImage.
func (b PixelBuffer) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: non-positive dimensions %dx%d", ErrInvalidImage, b.Width, b.Height)
	}
	if !b.Order.valid() {
		return fmt.Errorf("%w: unsupported channel order %s", ErrInvalidImage, b.Order)
	}
	bpp := b.Order.BytesPerPixel()
	if b.Width > math.MaxInt/b.Height/bpp {
		return fmt.Errorf("%w: dimensions %dx%d overflow", ErrInvalidImage, b.Width, b.Height)
	}
	if need := b.Width * b.Height * bpp; len(b.Data) < need {
		return fmt.Errorf("%w: %dx%d %s needs %d bytes, buffer holds %d",
			ErrInvalidImage, b.Width, b.Height, b.Order, need, len(b.Data))
	}
	return nil
}
