package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"

	"github.com/local/pagereorder/internal/reorder"
)

// Cache stores recognized text by key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, text string) error
}

// Cached wraps a recognizer with a text cache keyed by the image digest, so
// re-running a document skips recognition of footers already seen.
type Cached struct {
	next      reorder.Recognizer
	cache     Cache
	namespace string
}

// NewCached decorates next. namespace separates entries produced with
// different recognition settings.
func NewCached(next reorder.Recognizer, cache Cache, namespace string) *Cached {
	return &Cached{next: next, cache: cache, namespace: namespace}
}

func (c *Cached) Available() bool { return c.next.Available() }

func (c *Cached) Recognize(ctx context.Context, img []byte) (string, error) {
	key := c.key(img)
	if text, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Msg("ocr cache lookup failed")
	} else if ok {
		log.Debug().Str("key", key).Msg("ocr cache hit")
		return text, nil
	}
	text, err := c.next.Recognize(ctx, img)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, text); err != nil {
		log.Warn().Err(err).Msg("ocr cache store failed")
	}
	return text, nil
}

func (c *Cached) key(img []byte) string {
	sum := sha256.Sum256(img)
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}
