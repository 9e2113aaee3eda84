package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Options configures reference resolution.
type Options struct {
	HTTPTimeout time.Duration
}

// Client resolves document references to local files and publishes
// results. Supported references:
//   - plain filesystem paths and file://path
//   - http(s):// URLs (download only)
//   - s3://bucket/key (download and upload, default AWS credential chain)
type Client struct {
	http *http.Client

	mu  sync.Mutex
	s3c *s3.Client
}

// New creates a storage client.
func New(opts Options) *Client {
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 2 * time.Minute
	}
	return &Client{http: &http.Client{Timeout: opts.HTTPTimeout}}
}

// IsRemote reports whether ref must be transferred rather than used in place.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "s3://") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// LocalPath strips a file:// scheme and any #fragment.
func LocalPath(ref string) string {
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[:i]
	}
	return strings.TrimPrefix(ref, "file://")
}

// Fetch returns a local path for ref and a cleanup func removing any
// temporary download.
func (c *Client) Fetch(ctx context.Context, ref string) (string, func(), error) {
	noop := func() {}
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[:i]
	}
	var (
		p   string
		err error
	)
	switch {
	case strings.HasPrefix(ref, "s3://"):
		p, err = c.downloadS3(ctx, ref)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		p, err = c.downloadHTTP(ctx, ref)
	default:
		p = LocalPath(ref)
		if _, err := os.Stat(p); err != nil {
			return "", noop, fmt.Errorf("input %s: %w", p, err)
		}
		return p, noop, nil
	}
	if err != nil {
		return "", noop, err
	}
	return p, func() { _ = os.Remove(p) }, nil
}

// Store publishes the file at localPath to ref. Local refs are written in
// place by the caller, so only s3:// refs are transferred.
func (c *Client) Store(ctx context.Context, localPath, ref string) error {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		return c.uploadS3(ctx, localPath, ref)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return fmt.Errorf("cannot publish to %s: http outputs are not supported", ref)
	default:
		return nil
	}
}

func (c *Client) client(ctx context.Context) (*s3.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.s3c != nil {
		return c.s3c, nil
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	c.s3c = s3.NewFromConfig(cfg)
	return c.s3c, nil
}

// ParseS3 splits s3://bucket/key.
func ParseS3(ref string) (bucket, key string, err error) {
	path := strings.TrimPrefix(ref, "s3://")
	slash := strings.Index(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return "", "", fmt.Errorf("invalid s3 url: %s", ref)
	}
	return path[:slash], path[slash+1:], nil
}

func (c *Client) downloadS3(ctx context.Context, ref string) (string, error) {
	bucket, key, err := ParseS3(ref)
	if err != nil {
		return "", err
	}
	cli, err := c.client(ctx)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "s3doc-*"+filepath.Ext(key))
	if err != nil {
		return "", err
	}
	defer f.Close()
	n, err := manager.NewDownloader(cli).Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to download from S3: %w", err)
	}
	log.Info().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Str("file", filepath.Base(f.Name())).Msg("downloaded s3 object to temp")
	return f.Name(), nil
}

func (c *Client) uploadS3(ctx context.Context, localPath, ref string) error {
	bucket, key, err := ParseS3(ref)
	if err != nil {
		return err
	}
	cli, err := c.client(ctx)
	if err != nil {
		return err
	}
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = manager.NewUploader(cli).Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	log.Info().Str("bucket", bucket).Str("key", key).Msg("uploaded result to s3")
	return nil
}

func (c *Client) downloadHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: http %d", url, resp.StatusCode)
	}
	f, err := os.CreateTemp("", "httpdoc-*")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
