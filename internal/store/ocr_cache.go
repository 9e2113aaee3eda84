package store

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// OCRCache keeps recognized footer text in Redis so repeated runs over the
// same document skip recognition.
type OCRCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOCRCache connects to redisURL and verifies the connection. A
// non-positive ttl keeps entries forever.
func NewOCRCache(ctx context.Context, redisURL string, ttl time.Duration) (*OCRCache, error) {
	c, err := OpenOCRCache(redisURL, ttl)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// OpenOCRCache builds the client without contacting the server.
func OpenOCRCache(redisURL string, ttl time.Duration) (*OCRCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &OCRCache{client: redis.NewClient(opt), ttl: ttl}, nil
}

func (s *OCRCache) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *OCRCache) Close() error { return s.client.Close() }

func cacheKey(key string) string { return fmt.Sprintf("ocr:%s", key) }

// Get returns the cached text for key, reporting whether it was present.
func (s *OCRCache) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := s.client.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return res, true, nil
}

// Set stores text under key.
func (s *OCRCache) Set(ctx context.Context, key, text string) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, cacheKey(key), text, ttl).Err()
}
