package imagetone

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FromImage flattens img into a 4-byte PixelBuffer holding the decoder's own
// channel values.
//
// Tightly packed *image.RGBA and *image.NRGBA are shared without copying;
// padded strides and sub-images are compacted row by row. Opaque models are
// rendered onto an RGBA canvas. Models with straight alpha land on an NRGBA
// canvas, so alpha never scales the color channels the scan reads.
func FromImage(img image.Image) (PixelBuffer, error) {
	if img == nil {
		return PixelBuffer{}, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return PixelBuffer{}, fmt.Errorf("%w: empty bounds %v", ErrInvalidImage, b)
	}

	var pix []byte
	switch src := img.(type) {
	case *image.RGBA:
		data, err := packPix(src.Pix, src.Stride, w, h)
		if err != nil {
			return PixelBuffer{}, err
		}
		pix = data
	case *image.NRGBA:
		data, err := packPix(src.Pix, src.Stride, w, h)
		if err != nil {
			return PixelBuffer{}, err
		}
		pix = data
	default:
		if isOpaque(img) {
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
			pix = dst.Pix
		} else {
			pix = toNRGBA(img).Pix
		}
	}
	return PixelBuffer{Data: pix, Width: w, Height: h, Order: OrderRGBA}, nil
}

// packPix returns w×h 4-byte pixels from pix without row padding.
func packPix(pix []byte, stride, w, h int) ([]byte, error) {
	row := w * 4
	if stride < row || len(pix) < (h-1)*stride+row {
		return nil, fmt.Errorf("%w: %d pixel bytes at stride %d cannot hold %dx%d",
			ErrInvalidImage, len(pix), stride, w, h)
	}
	if stride == row {
		return pix[:row*h], nil
	}
	out := make([]byte, row*h)
	for y := range h {
		copy(out[y*row:], pix[y*stride:y*stride+row])
	}
	return out, nil
}

func isOpaque(img image.Image) bool {
	o, ok := img.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

// toNRGBA copies img onto a zero-origin NRGBA canvas. Straight-alpha sources
// keep their color bytes even where alpha is zero.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.NRGBA64:
		for y := range h {
			for x := range w {
				c := src.NRGBA64At(b.Min.X+x, b.Min.Y+y)
				dst.SetNRGBA(x, y, color.NRGBA{
					R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: uint8(c.A >> 8),
				})
			}
		}
	case *image.Paletted:
		pal := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			pal[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		for y := range h {
			for x := range w {
				if i := int(src.ColorIndexAt(b.Min.X+x, b.Min.Y+y)); i < len(pal) {
					dst.SetNRGBA(x, y, pal[i])
				}
			}
		}
	default:
		// Premultiplied sources have already folded alpha into color.
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}

// opaqueView presents an NRGBA image with every alpha at 0xff, so scaling
// into a premultiplied canvas leaves the color channels untouched.
type opaqueView struct {
	img *image.NRGBA
}

func (v opaqueView) ColorModel() color.Model { return color.NRGBAModel }
func (v opaqueView) Bounds() image.Rectangle { return v.img.Rect }
func (v opaqueView) At(x, y int) color.Color {
	c := v.img.NRGBAAt(x, y)
	c.A = 0xff
	return c
}

// Decode reads an encoded image (gif, jpeg, png, webp, bmp or tiff) and
// returns its pixels along with the format name.
func Decode(r io.Reader) (PixelBuffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return PixelBuffer{}, "", fmt.Errorf("decode image: %w", err)
	}
	buf, err := FromImage(img)
	return buf, format, err
}

// Downsample shrinks img so its longer side is at most maxSide, keeping the
// aspect ratio. Images already within bounds, and maxSide <= 0, return img as is.
// Straight-alpha images are scaled as if opaque; the result is always opaque
// except for premultiplied *image.RGBA input.
func Downsample(img image.Image, maxSide int) image.Image {
	if img == nil || !exceedsSide(img.Bounds(), maxSide) {
		return img
	}

	src := img
	if _, premul := img.(*image.RGBA); !premul && !isOpaque(img) {
		n, ok := img.(*image.NRGBA)
		if !ok {
			n = toNRGBA(img)
		}
		src = opaqueView{img: n}
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	nw, nh := maxSide, maxSide
	if w >= h {
		nh = max(1, h*maxSide/w)
	} else {
		nw = max(1, w*maxSide/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func exceedsSide(b image.Rectangle, maxSide int) bool {
	return maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide)
}
