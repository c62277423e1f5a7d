package imagetone

import (
	"context"
	"log/slog"

	"github.com/corona10/goimagehash"
	"golang.org/x/sync/errgroup"
)

// URLTone is one entry of a ToneOfURLs result.
type URLTone struct {
	URL  string
	Tone Tone

	// Duplicate is set when the image is perceptually identical to an
	// earlier entry of the same batch. Its Tone is still computed.
	Duplicate bool
}

// ToneOfURLs classifies urls concurrently, at most cfg.Concurrency at a time.
// Results keep the input order. Failed entries carry ToneUnknown; they never
// fail the batch. The cache is not consulted since deduplication needs the
// decoded pixels of every entry.
func (cfg *Config) ToneOfURLs(ctx context.Context, urls []string) []URLTone {
	cfg.defaults()

	results := make([]URLTone, len(urls))
	hashes := make([]*goimagehash.ImageHash, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, u := range urls {
		results[i].URL = u
		g.Go(func() error {
			results[i].Tone, hashes[i] = cfg.toneAndHash(gctx, u)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	// First occurrence wins, so dedup runs in input order.
	dedup := &dedupFilter{}
	for i, h := range hashes {
		results[i].Duplicate = dedup.isDuplicate(h)
	}
	return results
}

// toneAndHash classifies a single URL and hashes its pixels.
// Recovers from panics to protect the worker pool.
func (cfg *Config) toneAndHash(ctx context.Context, imageURL string) (t Tone, hash *goimagehash.ImageHash) {
	defer func() {
		if r := recover(); r != nil {
			t, hash = ToneUnknown, nil
			if cfg.OnPanic != nil {
				cfg.OnPanic("toneOfURLs", r)
			}
		}
	}()

	img, err := cfg.fetchImage(ctx, imageURL)
	if err != nil {
		slog.Debug("imagetone: batch fetch failed", "url", imageURL, "error", err.Error())
		return ToneUnknown, nil
	}
	t, err = cfg.classify(ctx, img, imageURL)
	if err != nil {
		slog.Debug("imagetone: batch classify failed", "url", imageURL, "error", err.Error())
		return ToneUnknown, nil
	}
	return t, perceptualHash(img)
}
