package imagetone

import (
	"bytes"
	"fmt"
	"image"

	"github.com/bep/imagemeta"
)

// ColorInfo holds color-space hints read from EXIF.
type ColorInfo struct {
	ColorSpace string // "sRGB", "AdobeRGB", "Uncalibrated" or a hex tag value
}

// IsSRGB reports whether the pixels can be treated as sRGB.
// A nil ColorInfo (no EXIF) is assumed to be sRGB.
func (c *ColorInfo) IsSRGB() bool {
	return c == nil || c.ColorSpace == "sRGB"
}

// ExtractColorInfo parses the EXIF ColorSpace tag from raw image bytes.
// Returns nil if the data is empty, has no EXIF, or cannot be parsed.
func ExtractColorInfo(data []byte) *ColorInfo {
	if len(data) == 0 {
		return nil
	}
	format, ok := metaFormat(data)
	if !ok {
		return nil
	}

	var info *ColorInfo
	_, err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: format,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Source == imagemeta.EXIF && ti.Tag == "ColorSpace"
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if name := colorSpaceName(ti.Value); name != "" {
				info = &ColorInfo{ColorSpace: name}
			}
			return nil
		},
	})
	if err != nil {
		return nil
	}
	return info
}

// metaFormat sniffs data with the registered decoders and maps the result to
// an imagemeta format. Formats imagemeta cannot read report false.
func metaFormat(data []byte) (imagemeta.ImageFormat, bool) {
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return imagemeta.ImageFormatAuto, false
	}
	switch name {
	case "jpeg":
		return imagemeta.JPEG, true
	case "png":
		return imagemeta.PNG, true
	case "webp":
		return imagemeta.WebP, true
	case "tiff":
		return imagemeta.TIFF, true
	default:
		return imagemeta.ImageFormatAuto, false
	}
}

// colorSpaceName maps an EXIF ColorSpace value to a readable name.
func colorSpaceName(v any) string {
	var n uint64
	switch val := v.(type) {
	case uint16:
		n = uint64(val)
	case uint32:
		n = uint64(val)
	case int:
		if val < 0 {
			return ""
		}
		n = uint64(val)
	case int64:
		if val < 0 {
			return ""
		}
		n = uint64(val)
	case string:
		return val
	default:
		return ""
	}

	switch n {
	case 1:
		return "sRGB"
	case 2:
		return "AdobeRGB"
	case 0xFFFF:
		return "Uncalibrated"
	default:
		return fmt.Sprintf("0x%X", n)
	}
}
