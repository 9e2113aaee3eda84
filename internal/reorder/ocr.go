package reorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultFooterFraction is the share of page height, measured from the
// bottom edge, that is rendered for recognition.
const DefaultFooterFraction = 0.2

// Recognizer turns an encoded image into text.
type Recognizer interface {
	// Available reports whether the recognition engine can run here.
	Available() bool
	Recognize(ctx context.Context, image []byte) (string, error)
}

// FooterSource renders the bottom fraction of a page as an encoded image.
type FooterSource interface {
	FooterImage(index int, fraction float64) ([]byte, error)
}

// OCRAttempt describes one recognition attempt on an unclassified page.
type OCRAttempt struct {
	Index    int
	RawText  string
	Matched  bool
	Match    string
	Label    Label
	Err      error
	Duration time.Duration
}

// Outcome buckets the attempt for logs and metrics.
func (a OCRAttempt) Outcome() string {
	switch {
	case a.Matched:
		return "matched"
	case errors.Is(a.Err, context.DeadlineExceeded):
		return "timeout"
	case a.Err != nil:
		return "error"
	default:
		return "no_match"
	}
}

// AttemptRecorder receives OCR attempts once a resolve pass has finished,
// in page order.
type AttemptRecorder interface {
	Record(OCRAttempt)
}

// RecorderFunc adapts a function to AttemptRecorder.
type RecorderFunc func(OCRAttempt)

func (f RecorderFunc) Record(a OCRAttempt) { f(a) }

// OCROptions tunes the OCR fallback pass.
type OCROptions struct {
	FooterFraction float64
	Workers        int
	PageTimeout    time.Duration
	Recorder       AttemptRecorder
}

// OCRResolver retries classification of unclassified pages by recognizing
// the text of their footer region.
type OCRResolver struct {
	rec  Recognizer
	src  FooterSource
	opts OCROptions
}

// NewOCRResolver builds a resolver. A nil recognizer behaves as an
// unavailable one.
func NewOCRResolver(rec Recognizer, src FooterSource, opts OCROptions) *OCRResolver {
	if opts.FooterFraction <= 0 || opts.FooterFraction > 1 {
		opts.FooterFraction = DefaultFooterFraction
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &OCRResolver{rec: rec, src: src, opts: opts}
}

// Resolve returns a copy of pages where unclassified pages whose footer
// carries a label are reclassified with ProvenanceOCR. Per-page failures
// leave the page unclassified. If no recognizer is available the pass is a
// no-op and a warning is logged.
func (r *OCRResolver) Resolve(ctx context.Context, pages []Page) ([]Page, error) {
	out := make([]Page, len(pages))
	copy(out, pages)

	var targets []int
	for slot, p := range pages {
		if !p.IsClassified() {
			targets = append(targets, slot)
		}
	}
	if len(targets) == 0 {
		return out, nil
	}
	if r.rec == nil || !r.rec.Available() {
		log.Warn().Int("pages", len(targets)).Msg("text recognition not available; skipping OCR pass")
		return out, nil
	}

	attempts := make([]OCRAttempt, len(targets))
	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for k, slot := range targets {
		k, slot := k, slot
		g.Go(func() error {
			a := r.attempt(ctx, pages[slot].Index())
			attempts[k] = a
			if a.Matched {
				out[slot] = Classified(a.Index, a.Label, ProvenanceOCR)
			}
			return nil
		})
	}
	_ = g.Wait()

	if r.opts.Recorder != nil {
		for _, a := range attempts {
			r.opts.Recorder.Record(a)
		}
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func (r *OCRResolver) attempt(ctx context.Context, index int) (a OCRAttempt) {
	a.Index = index
	start := time.Now()
	defer func() { a.Duration = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		a.Err = err
		return a
	}
	img, err := r.src.FooterImage(index, r.opts.FooterFraction)
	if err != nil {
		a.Err = fmt.Errorf("render footer of page %d: %w", index+1, err)
		return a
	}

	pctx := ctx
	if r.opts.PageTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, r.opts.PageTimeout)
		defer cancel()
	}
	text, err := r.rec.Recognize(pctx, img)
	if err != nil {
		if errors.Is(pctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		a.Err = fmt.Errorf("recognize page %d: %w", index+1, err)
		log.Debug().Err(a.Err).Int("page", index+1).Msg("ocr attempt failed")
		return a
	}
	a.RawText = text
	label, match, ok := MatchLabel(OCRLabelPattern, text)
	a.Match = match
	if ok {
		a.Matched = true
		a.Label = label
	}
	log.Debug().Int("page", index+1).Bool("matched", ok).Str("match", match).Msg("ocr attempt")
	return a
}
