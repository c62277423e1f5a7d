package imagetone

import "context"

const (
	// LuminanceCutoff is the luma below which a pixel counts as dark.
	LuminanceCutoff = 150.0

	// DarkFraction is the share of all pixels that dark pixels must exceed
	// for the image to be dark.
	DarkFraction = 0.45
)

// Integer forms of the constants above. 299r + 587g + 114b < 150000 is exactly
// Luminance(r, g, b) < 150 without float rounding at the cutoff.
const (
	weightR           = 299
	weightG           = 587
	weightB           = 114
	lumaCutoffMilli   = 150 * 1000
	darkFractionPct   = 45
	cancelCheckPixels = 4096 // ctx is polled once per this many pixels
)

// Luminance returns the perceptual luma 0.299R + 0.587G + 0.114B in [0, 255].
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

func isDarkPixel(r, g, b byte) bool {
	return weightR*int(r)+weightG*int(g)+weightB*int(b) < lumaCutoffMilli
}

// DarkThreshold returns floor(totalPixels * DarkFraction). An image is dark
// once its dark pixel count is strictly greater than this value.
func DarkThreshold(totalPixels int) int {
	if totalPixels <= 0 {
		return 0
	}
	return int(int64(totalPixels) * darkFractionPct / 100)
}

// IsDark reports whether more than 45% of the pixels in buf have a luma
// below 150. The scan stops as soon as that majority is reached, so uniformly
// dark images cost about half a pass while light images cost a full one.
//
// Malformed buffers return an error wrapping ErrInvalidImage and never a verdict.
func IsDark(buf PixelBuffer) (bool, error) {
	return IsDarkContext(context.Background(), buf)
}

// IsDarkContext is IsDark with cooperative cancellation. ctx is checked once
// every 4096 pixels; cancellation does not change the verdict of a scan that
// completes.
func IsDarkContext(ctx context.Context, buf PixelBuffer) (bool, error) {
	if err := buf.Validate(); err != nil {
		return false, err
	}
	dark, _, err := scanDark(ctx, buf)
	return dark, err
}

// scanDark walks buf once and also returns how many pixels it visited.
// buf must already be validated.
func scanDark(ctx context.Context, buf PixelBuffer) (bool, int, error) {
	l := buf.Order.layout()
	total := buf.Pixels()
	threshold := DarkThreshold(total)

	// Bound by whole strides too; Validate guarantees they agree, scanDark
	// must not read past Data even if they don't.
	n := min(total, len(buf.Data)/l.size)

	done := ctx.Done()
	data := buf.Data
	dark := 0
	for i := range n {
		if done != nil && i%cancelCheckPixels == 0 {
			if err := ctx.Err(); err != nil {
				return false, i, err
			}
		}
		off := i * l.size
		if !isDarkPixel(data[off+l.r], data[off+l.g], data[off+l.b]) {
			continue
		}
		dark++
		if dark > threshold {
			return true, i + 1, nil
		}
	}
	return false, n, nil
}
