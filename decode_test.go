package imagetone

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestFromImage_PackedRGBAIsShared(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	buf, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if buf.Width != 5 || buf.Height != 3 || buf.Order != OrderRGBA {
		t.Errorf("FromImage = %dx%d %s, want 5x3 RGBA", buf.Width, buf.Height, buf.Order)
	}
	if &buf.Data[0] != &img.Pix[0] {
		t.Error("packed RGBA was copied, want shared pixels")
	}
}

func TestFromImage_SubImageCompacted(t *testing.T) {
	t.Parallel()

	// Left half black, right half white.
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := range 4 {
		for x := range 8 {
			v := uint8(0)
			if x >= 4 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	tests := []struct {
		name string
		rect image.Rectangle
		want bool
	}{
		{name: "left half", rect: image.Rect(0, 0, 4, 4), want: true},
		{name: "right half", rect: image.Rect(4, 0, 8, 4), want: false},
		{name: "inner strip", rect: image.Rect(5, 1, 7, 3), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			buf, err := FromImage(img.SubImage(tc.rect))
			if err != nil {
				t.Fatalf("FromImage: %v", err)
			}
			if want := tc.rect.Dx() * tc.rect.Dy() * 4; len(buf.Data) != want {
				t.Errorf("len(Data) = %d, want %d", len(buf.Data), want)
			}
			got, err := IsDark(buf)
			if err != nil {
				t.Fatalf("IsDark: %v", err)
			}
			if got != tc.want {
				t.Errorf("IsDark(%v) = %v, want %v", tc.rect, got, tc.want)
			}
		})
	}
}

func TestFromImage_ConvertsOtherModels(t *testing.T) {
	t.Parallel()

	gray := image.NewGray(image.Rect(0, 0, 6, 6))
	for i := range gray.Pix {
		gray.Pix[i] = 20
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for i := 0; i < len(nrgba.Pix); i += 4 {
		nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2], nrgba.Pix[i+3] = 240, 240, 240, 255
	}

	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{name: "gray", img: gray, want: true},
		{name: "nrgba", img: nrgba, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			buf, err := FromImage(tc.img)
			if err != nil {
				t.Fatalf("FromImage: %v", err)
			}
			if err := buf.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			got, _ := IsDark(buf)
			if got != tc.want {
				t.Errorf("IsDark(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestFromImage_Invalid(t *testing.T) {
	t.Parallel()

	for name, img := range map[string]image.Image{
		"nil":   nil,
		"empty": image.NewRGBA(image.Rect(0, 0, 0, 10)),
	} {
		if _, err := FromImage(img); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("FromImage(%s) error = %v, want ErrInvalidImage", name, err)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, gradientImage(32, 16, 0, 90))
	buf, format, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if buf.Width != 32 || buf.Height != 16 {
		t.Errorf("Decode size = %dx%d, want 32x16", buf.Width, buf.Height)
	}
	if dark, _ := IsDark(buf); !dark {
		t.Error("dark gradient decoded as light")
	}
}

func TestDecode_Garbage(t *testing.T) {
	t.Parallel()

	_, _, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	if err == nil {
		t.Fatal("Decode(garbage) error = nil, want error")
	}
	if errors.Is(err, ErrInvalidImage) {
		t.Error("decode failure reported as ErrInvalidImage")
	}
}

func TestDownsample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		w, h, side   int
		wantW, wantH int
	}{
		{name: "landscape", w: 1000, h: 500, side: 100, wantW: 100, wantH: 50},
		{name: "portrait", w: 300, h: 900, side: 90, wantW: 30, wantH: 90},
		{name: "thin strip keeps one row", w: 1000, h: 2, side: 100, wantW: 100, wantH: 1},
		{name: "already small", w: 50, h: 40, side: 100, wantW: 50, wantH: 40},
		{name: "disabled", w: 500, h: 500, side: 0, wantW: 500, wantH: 500},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			img := image.NewRGBA(image.Rect(0, 0, tc.w, tc.h))
			got := Downsample(img, tc.side)
			b := got.Bounds()
			if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
				t.Errorf("Downsample(%dx%d, %d) = %dx%d, want %dx%d",
					tc.w, tc.h, tc.side, b.Dx(), b.Dy(), tc.wantW, tc.wantH)
			}
		})
	}
}

func TestDownsample_PreservesVerdict(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		from, to uint8
		want     bool
	}{
		{from: 0, to: 100, want: true},
		{from: 170, to: 255, want: false},
	} {
		small := Downsample(gradientImage(640, 480, tc.from, tc.to), 64)
		buf, err := FromImage(small)
		if err != nil {
			t.Fatalf("FromImage: %v", err)
		}
		if got, _ := IsDark(buf); got != tc.want {
			t.Errorf("gradient %d→%d downsampled: IsDark = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

// straightAlphaImages returns the same v-gray square in every straight-alpha
// model the decoders produce, all at alpha a.
func straightAlphaImages(side int, v, a uint8) map[string]image.Image {
	r := image.Rect(0, 0, side, side)
	nrgba := image.NewNRGBA(r)
	nrgba64 := image.NewNRGBA64(r)
	pal := image.NewPaletted(r, color.Palette{color.NRGBA{R: v, G: v, B: v, A: a}})
	for y := range side {
		for x := range side {
			nrgba.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: a})
			nrgba64.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(v) * 0x101, G: uint16(v) * 0x101, B: uint16(v) * 0x101, A: uint16(a) * 0x101,
			})
		}
	}
	return map[string]image.Image{"nrgba": nrgba, "nrgba64": nrgba64, "paletted": pal}
}

func TestFromImage_AlphaDoesNotDarken(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		v    uint8
		want bool
	}{
		{v: 255, want: false},
		{v: 0, want: true},
	} {
		for _, a := range []uint8{255, 128, 0} {
			for name, img := range straightAlphaImages(10, tc.v, a) {
				buf, err := FromImage(img)
				if err != nil {
					t.Fatalf("FromImage(%s): %v", name, err)
				}
				if got, _ := IsDark(buf); got != tc.want {
					t.Errorf("%s gray %d alpha %d: IsDark = %v, want %v", name, tc.v, a, got, tc.want)
				}
			}
		}
	}
}

func TestDownsample_AlphaDoesNotDarken(t *testing.T) {
	t.Parallel()

	for _, a := range []uint8{255, 128, 0} {
		for name, img := range straightAlphaImages(64, 255, a) {
			small := Downsample(img, 16)
			if b := small.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
				t.Fatalf("Downsample(%s) = %v, want 16x16", name, b)
			}
			buf, err := FromImage(small)
			if err != nil {
				t.Fatalf("FromImage(%s): %v", name, err)
			}
			if dark, _ := IsDark(buf); dark {
				t.Errorf("%s white alpha %d downsampled: IsDark = true, want false", name, a)
			}
		}
	}
}

func TestFromImage_TruncatedPix(t *testing.T) {
	t.Parallel()

	r := image.Rect(0, 0, 4, 4)
	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "rgba short", img: &image.RGBA{Pix: make([]byte, 10), Stride: 16, Rect: r}},
		{name: "rgba last row short", img: &image.RGBA{Pix: make([]byte, 3*16+15), Stride: 16, Rect: r}},
		{name: "rgba stride below row", img: &image.RGBA{Pix: make([]byte, 64), Stride: 8, Rect: r}},
		{name: "nrgba short", img: &image.NRGBA{Pix: make([]byte, 10), Stride: 16, Rect: r}},
		{name: "nrgba padded short", img: &image.NRGBA{Pix: make([]byte, 3*20+15), Stride: 20, Rect: r}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := FromImage(tc.img); !errors.Is(err, ErrInvalidImage) {
				t.Errorf("FromImage error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestFromImage_PaddedStrideWithoutTrailingPadding(t *testing.T) {
	t.Parallel()

	// Last row ends at the pixel data; the final stride padding is absent.
	r := image.Rect(0, 0, 4, 4)
	pix := make([]byte, 3*20+16)
	for i := range pix {
		pix[i] = 255
	}
	buf, err := FromImage(&image.NRGBA{Pix: pix, Stride: 20, Rect: r})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if len(buf.Data) != 64 {
		t.Errorf("len(Data) = %d, want 64", len(buf.Data))
	}
}
