package imagetone

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
)

// Tone is the outcome of classifying an image at the application boundary.
// ToneUnknown is reserved for images that could not be obtained or decoded;
// it is never a stand-in for "light".
type Tone int

const (
	ToneUnknown Tone = iota
	ToneLight
	ToneDark
)

func (t Tone) String() string {
	switch t {
	case ToneLight:
		return "light"
	case ToneDark:
		return "dark"
	default:
		return "unknown"
	}
}

func parseTone(s string) Tone {
	switch s {
	case "light":
		return ToneLight
	case "dark":
		return ToneDark
	default:
		return ToneUnknown
	}
}

func toneOf(dark bool) Tone {
	if dark {
		return ToneDark
	}
	return ToneLight
}

// ToneOfImage classifies an already decoded image.
// Returns ToneUnknown with an error wrapping ErrInvalidImage for empty images.
func (cfg *Config) ToneOfImage(ctx context.Context, img image.Image) (Tone, error) {
	cfg.defaults()
	return cfg.classify(ctx, img, "")
}

// ToneOfBytes decodes an encoded image and classifies it.
// Images declaring more than cfg.MaxPixels fail with ErrImageTooLarge
// before decoding.
func (cfg *Config) ToneOfBytes(ctx context.Context, data []byte) (Tone, error) {
	cfg.defaults()
	img, err := cfg.decodeBytes(data)
	if err != nil {
		return ToneUnknown, err
	}
	return cfg.classify(ctx, img, "")
}

// ToneOfURL downloads and classifies the image at imageURL.
// Returns ToneUnknown on any failure instead of an error, so callers can
// treat the verdict as a hint. Known verdicts are cached when cfg.Cache is set.
func (cfg *Config) ToneOfURL(ctx context.Context, imageURL string) Tone {
	cfg.defaults()

	if cfg.Cache == nil {
		return cfg.toneOfURL(ctx, imageURL)
	}

	cacheKey := cfg.Cache.Key("tone", imageURL)
	var cached string
	if cfg.Cache.Get(ctx, cacheKey, &cached) {
		if t := parseTone(cached); t != ToneUnknown {
			return t
		}
	}
	t := cfg.toneOfURL(ctx, imageURL)
	if t != ToneUnknown {
		cfg.Cache.Set(ctx, cacheKey, t.String())
	}
	return t
}

// IsDarkURL reports whether the image at imageURL is dark.
// Images that cannot be fetched or decoded report false.
func (cfg *Config) IsDarkURL(ctx context.Context, imageURL string) bool {
	return cfg.ToneOfURL(ctx, imageURL) == ToneDark
}

func (cfg *Config) toneOfURL(ctx context.Context, imageURL string) Tone {
	img, err := cfg.fetchImage(ctx, imageURL)
	if err != nil {
		slog.Debug("imagetone: fetch failed", "url", imageURL, "error", err.Error())
		return ToneUnknown
	}
	t, err := cfg.classify(ctx, img, imageURL)
	if err != nil {
		slog.Debug("imagetone: classify failed", "url", imageURL, "error", err.Error())
		return ToneUnknown
	}
	slog.Debug("imagetone: verdict", "url", imageURL, "tone", t.String())
	return t
}

// fetchImage downloads and decodes imageURL.
func (cfg *Config) fetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	r, err := cfg.Download(ctx, imageURL, DownloadOpts{})
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errNotFetched
	}
	return cfg.decodeBytes(r.Data)
}

func (cfg *Config) decodeBytes(data []byte) (image.Image, error) {
	if _, _, err := cfg.checkHeader(data); err != nil {
		return nil, err
	}
	if info := ExtractColorInfo(data); !info.IsSRGB() {
		slog.Debug("imagetone: non-sRGB color space, luma uses raw channel values",
			"color_space", info.ColorSpace)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// classify downsamples img if configured, flattens it and runs IsDarkContext.
func (cfg *Config) classify(ctx context.Context, img image.Image, imageURL string) (Tone, error) {
	sampled := img != nil && exceedsSide(img.Bounds(), cfg.MaxSampleSide)
	buf, err := FromImage(Downsample(img, cfg.MaxSampleSide))
	if err != nil {
		return ToneUnknown, err
	}
	dark, err := IsDarkContext(ctx, buf)
	if err != nil {
		return ToneUnknown, err
	}

	t := toneOf(dark)
	if cfg.OnVerdict != nil {
		cfg.OnVerdict(VerdictEvent{
			URL:     imageURL,
			Tone:    t,
			Width:   buf.Width,
			Height:  buf.Height,
			Sampled: sampled,
		})
	}
	return t, nil
}
