package imagetone

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
)

// checkHeader reads only the image header and rejects images that are empty or
// larger than cfg.MaxPixels, so oversized payloads are never fully decoded.
func (cfg *Config) checkHeader(data []byte) (image.Config, string, error) {
	imgCfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("decode config: %w", err)
	}
	if imgCfg.Width <= 0 || imgCfg.Height <= 0 {
		return imgCfg, format, fmt.Errorf("%w: declared size %dx%d", ErrInvalidImage, imgCfg.Width, imgCfg.Height)
	}
	if int64(imgCfg.Width)*int64(imgCfg.Height) > int64(cfg.MaxPixels) {
		slog.Debug("imagetone: too large", "format", format,
			"width", imgCfg.Width, "height", imgCfg.Height, "max_pixels", cfg.MaxPixels)
		return imgCfg, format, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrImageTooLarge, imgCfg.Width, imgCfg.Height, cfg.MaxPixels)
	}
	return imgCfg, format, nil
}
