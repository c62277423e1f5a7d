// Package imagetone classifies images as visually dark or light so callers can
// pick matching UI chrome (light text on dark artwork and vice versa).
//
// The core, IsDark, is a pure single-pass scan over a decoded pixel buffer.
// Config layers decoding, downloading, caching and batching on top of it.
package imagetone

import (
	"context"
	"net/http"
)

const (
	// DefaultMaxPixels caps the declared size of an encoded image before decoding.
	DefaultMaxPixels = 40_000_000

	// DefaultConcurrency is the number of parallel workers used by ToneOfURLs.
	DefaultConcurrency = 3
)

// Cache abstracts key-value caching (Redis, sync.Map, etc.)
type Cache interface {
	Key(prefix, value string) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
}

// VerdictEvent describes one classification decision, for audit logging.
type VerdictEvent struct {
	URL     string // empty for in-memory images
	Tone    Tone
	Width   int  // scanned buffer width
	Height  int  // scanned buffer height
	Sampled bool // the image was downsampled before scanning
}

// Config holds all dependencies injected by the consumer.
type Config struct {
	Cache         Cache        // optional: caches ToneOfURL verdicts (nil = no caching)
	StealthClient *http.Client // optional: TLS-fingerprinted client for downloads
	HTTPClient    *http.Client // optional: default http client (nil = http.DefaultClient)
	UserAgent     string       // default: "Mozilla/5.0 (compatible; go-imagetone/1.0)"

	// MaxPixels rejects encoded images whose declared width*height is larger,
	// before any pixel data is decoded. Default: DefaultMaxPixels.
	MaxPixels int

	// MaxSampleSide downsamples images whose longer side exceeds it before
	// scanning. Zero scans every pixel at full resolution.
	MaxSampleSide int

	// MaxBytes caps downloaded image bodies. Default: defaultMaxBytes (8 MiB).
	MaxBytes int64

	// Concurrency bounds parallel downloads in ToneOfURLs. Default: DefaultConcurrency.
	Concurrency int

	// Optional callbacks for metrics/logging.
	OnPanic func(tag string, r any)

	// OnVerdict is called once per classified image. ToneOfURLs calls it
	// from up to Concurrency goroutines at once, so it must be safe for
	// concurrent use.
	OnVerdict func(VerdictEvent)
}

// defaults fills zero-value fields with sensible defaults.
func (c *Config) defaults() {
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; go-imagetone/1.0)"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.MaxPixels <= 0 {
		c.MaxPixels = DefaultMaxPixels
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = defaultMaxBytes
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
}
