package imagetone

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DownloadOpts configures an image download.
type DownloadOpts struct {
	MaxBytes  int64         // reject bodies larger than this (default: cfg.MaxBytes)
	Timeout   time.Duration // per-request timeout (default: 10s)
	UserAgent string        // override config user agent
}

const (
	defaultMaxBytes = 8 << 20 // 8MiB
	defaultTimeout  = 10 * time.Second
)

// DownloadResult holds downloaded image data.
type DownloadResult struct {
	Data     []byte
	MIMEType string
}

// Download fetches an image from url. Tries cfg.StealthClient first (if set),
// falls back to cfg.HTTPClient.
// Returns nil result (not error) on recoverable failures (404, non-image,
// oversized body, etc.) for graceful degradation.
func (cfg *Config) Download(ctx context.Context, url string, opts DownloadOpts) (*DownloadResult, error) {
	cfg.defaults()

	if opts.MaxBytes <= 0 {
		opts.MaxBytes = cfg.MaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = cfg.UserAgent
	}

	if cfg.StealthClient != nil {
		if r := fetchImageData(ctx, cfg.StealthClient, url, opts); r != nil {
			return r, nil
		}
	}

	return fetchImageData(ctx, cfg.HTTPClient, url, opts), nil
}

func fetchImageData(ctx context.Context, client *http.Client, imageURL string, opts DownloadOpts) *DownloadResult {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req) //nolint:gosec // G704: URL is caller-supplied; SSRF checks belong to the caller
	if err != nil {
		slog.Debug("imagetone: download failed", "url", imageURL, "error", err.Error())
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("imagetone: download status", "url", imageURL, "status", resp.StatusCode)
		return nil
	}

	ct := resp.Header.Get("Content-Type")
	// Strip MIME parameters: "image/jpeg; charset=utf-8" → "image/jpeg"
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil
	}
	if resp.ContentLength > opts.MaxBytes {
		return nil
	}

	// Read one byte past the cap: a truncated image would decode as garbage.
	data, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes+1))
	if err != nil || len(data) == 0 {
		return nil
	}
	if int64(len(data)) > opts.MaxBytes {
		slog.Debug("imagetone: body over limit", "url", imageURL, "max_bytes", opts.MaxBytes)
		return nil
	}

	return &DownloadResult{Data: data, MIMEType: ct}
}
