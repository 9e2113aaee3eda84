package statuscheck

import (
	"context"
	"errors"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// RedisPinger models the minimal Redis capability we need for status checks.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// Probe reports whether a local capability is present.
type Probe interface {
	Available() bool
}

// BucketHeader is the part of the S3 API used to check a bucket.
type BucketHeader interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Checker aggregates readiness checks for the optional dependencies of a run.
type Checker struct {
	ocr      Probe
	redis    RedisPinger
	s3       BucketHeader
	s3Bucket string
}

// Options configures the Checker. Nil Redis or an empty S3Bucket mean the
// dependency is not configured.
type Options struct {
	OCR      Probe
	Redis    RedisPinger
	S3       BucketHeader // defaults to a client from the AWS default chain
	S3Bucket string
}

// Status represents the readiness of a subsystem.
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
	OCR   Status `json:"ocr"`
	Redis Status `json:"redis"`
	S3    Status `json:"s3"`
}

// Healthy reports whether every subsystem is usable.
func (s Summary) Healthy() bool { return s.OCR.OK && s.Redis.OK && s.S3.OK }

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
	return &Checker{ocr: opts.OCR, redis: opts.Redis, s3: opts.S3, s3Bucket: opts.S3Bucket}
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
	return Summary{
		OCR:   c.checkOCR(),
		Redis: c.checkRedis(ctx),
		S3:    c.checkS3(ctx),
	}
}

// OCR is optional for a run, but a doctor run asks for it explicitly.
func (c *Checker) checkOCR() Status {
	if c.ocr == nil || !c.ocr.Available() {
		return Status{OK: false, Message: "Binary not found"}
	}
	return Status{OK: true, Message: "Available"}
}

func (c *Checker) checkRedis(ctx context.Context) Status {
	if c.redis == nil {
		return Status{OK: true, Message: "Not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.redis.Ping(ctx); err != nil {
		return Status{OK: false, Message: trimError(err)}
	}
	return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkS3(ctx context.Context) Status {
	if c.s3Bucket == "" {
		return Status{OK: true, Message: "Not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cli := c.s3
	if cli == nil {
		cfg, err := awscfg.LoadDefaultConfig(ctx)
		if err != nil {
			return Status{OK: false, Message: trimError(err)}
		}
		cli = s3.NewFromConfig(cfg)
	}
	if _, err := cli.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &c.s3Bucket}); err != nil {
		return Status{OK: false, Message: trimError(err)}
	}
	return Status{OK: true, Message: "Connected"}
}

func trimError(err error) string {
	if err == nil {
		return ""
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	msg := err.Error()
	if len(msg) > 120 {
		return msg[:120]
	}
	return msg
}
