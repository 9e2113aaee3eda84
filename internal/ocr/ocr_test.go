package ocr

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/pagereorder/internal/reorder"
)

type memCache struct {
	mu     sync.Mutex
	m      map[string]string
	getErr error
}

func (c *memCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]string{}
	}
	c.m[key] = text
	return nil
}

type countingRecognizer struct {
	calls int
	text  string
	err   error
}

func (r *countingRecognizer) Available() bool { return true }

func (r *countingRecognizer) Recognize(context.Context, []byte) (string, error) {
	r.calls++
	return r.text, r.err
}

func TestCachedRecognizesOncePerImage(t *testing.T) {
	next := &countingRecognizer{text: "4-2"}
	c := NewCached(next, &memCache{}, "tesseract:eng:psm6")

	for i := 0; i < 3; i++ {
		got, err := c.Recognize(context.Background(), []byte("footer"))
		require.NoError(t, err)
		assert.Equal(t, "4-2", got)
	}
	assert.Equal(t, 1, next.calls)

	_, err := c.Recognize(context.Background(), []byte("other footer"))
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
	assert.True(t, c.Available())
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	next := &countingRecognizer{err: errors.New("engine crashed")}
	cache := &memCache{}
	c := NewCached(next, cache, "ns")
	_, err := c.Recognize(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Empty(t, cache.m)
}

func TestCachedFallsThroughOnCacheError(t *testing.T) {
	next := &countingRecognizer{text: "1-1"}
	c := NewCached(next, &memCache{getErr: errors.New("redis down")}, "ns")
	got, err := c.Recognize(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "1-1", got)
}

func TestTesseractMissingBinary(t *testing.T) {
	tess := NewTesseract(TesseractOptions{Command: filepath.Join(t.TempDir(), "no-such-tesseract")})
	assert.False(t, tess.Available())
	_, err := tess.Recognize(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, reorder.ErrRecognizerUnavailable)
	assert.Equal(t, "tesseract:eng:psm6", tess.Fingerprint())
}
