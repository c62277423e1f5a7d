package imagetone

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

// solidBuffer returns a w×h buffer in the given order with every pixel set to (r, g, b).
// Alpha bytes, when the order has them, are set to alpha.
func solidBuffer(w, h int, order ChannelOrder, r, g, b, alpha byte) PixelBuffer {
	l := order.layout()
	data := make([]byte, w*h*l.size)
	for off := 0; off < len(data); off += l.size {
		if l.size == 4 {
			for i := range 4 {
				data[off+i] = alpha
			}
		}
		data[off+l.r] = r
		data[off+l.g] = g
		data[off+l.b] = b
	}
	return PixelBuffer{Data: data, Width: w, Height: h, Order: order}
}

// setPixel writes (r, g, b) into pixel i of buf.
func setPixel(buf PixelBuffer, i int, r, g, b byte) {
	l := buf.Order.layout()
	off := i * l.size
	buf.Data[off+l.r] = r
	buf.Data[off+l.g] = g
	buf.Data[off+l.b] = b
}

// gradientImage returns a w×h RGBA image whose gray level runs from `from`
// at the left edge to `to` at the right edge.
func gradientImage(w, h int, from, to uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		v := int(from) + (int(to)-int(from))*x/max(1, w-1)
		c := color.RGBA{R: uint8(v), G: uint8(v), B: uint8(v), A: 255}
		for y := range h {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// newImageServer serves body with contentType on every path.
func newImageServer(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
