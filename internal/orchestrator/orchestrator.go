package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/local/pagereorder/internal/corrections"
	"github.com/local/pagereorder/internal/filetype"
	"github.com/local/pagereorder/internal/metrics"
	"github.com/local/pagereorder/internal/reorder"
	"github.com/local/pagereorder/internal/storage"
)

// Document is an open source PDF.
type Document interface {
	reorder.TextSource
	reorder.FooterSource
	Close() error
}

type Opener interface {
	Open(path string) (Document, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Document, error)

func (f OpenerFunc) Open(path string) (Document, error) { return f(path) }

// Assembler counts pages and writes reordered documents.
type Assembler interface {
	PageCount(path string) (int, error)
	Collect(in, out string, order reorder.Order) error
}

// Storage resolves input references to local files and publishes outputs.
type Storage interface {
	Fetch(ctx context.Context, ref string) (string, func(), error)
	Store(ctx context.Context, localPath, ref string) error
}

type Dependencies struct {
	Opener     Opener
	Recognizer reorder.Recognizer
	Assembler  Assembler
	Storage    Storage
}

type Orchestrator struct {
	deps Dependencies
}

func New(deps Dependencies) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// OCRSettings tunes the footer recognition pass of a run.
type OCRSettings struct {
	Enabled        bool
	FooterFraction float64
	Workers        int
	PageTimeout    time.Duration
	LogPath        string // diagnostic log; written only if a page was attempted
}

// ClassifyRequest labels the pages of Input without writing a document.
type ClassifyRequest struct {
	Input     string
	Overrides string // optional reference to an overrides JSON file
	OCR       OCRSettings
}

// SortRequest writes Input to Output ordered by page label.
type SortRequest struct {
	ClassifyRequest
	Output string
	Report string // optional local path for the classification report
}

// MoveRequest writes Input to Output with the pages of a move list relocated.
type MoveRequest struct {
	Input  string
	Output string
	Moves  string // reference to a move-list JSON file
}

// Result describes a completed run.
type Result struct {
	RunID string
	// Pages holds one entry per physical page in original order. Empty for moves.
	Pages []reorder.Page
	// Order is the output sequence of 1-based source page numbers.
	Order reorder.Order
	// Attempts lists OCR attempts in page order.
	Attempts []reorder.OCRAttempt
	Output   string
}

// Classify runs the classification path and returns the labelled pages.
func (o *Orchestrator) Classify(ctx context.Context, req ClassifyRequest) (*Result, error) {
	id, l := newRun("classify")
	res := &Result{RunID: id}
	in, cleanup, err := o.fetchPDF(ctx, l, req.Input)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	if err := o.classify(ctx, l, in, req, res); err != nil {
		return nil, err
	}
	l.Info().Int("pages", len(res.Pages)).Msg("classification complete")
	return res, nil
}

// Sort classifies every page, orders the pages and writes the output document.
func (o *Orchestrator) Sort(ctx context.Context, req SortRequest) (*Result, error) {
	id, l := newRun("sort")
	res := &Result{RunID: id, Output: req.Output}
	in, cleanup, err := o.fetchPDF(ctx, l, req.Input)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	if err := o.classify(ctx, l, in, req.ClassifyRequest, res); err != nil {
		return nil, err
	}

	start := time.Now()
	res.Order = reorder.OrderOf(res.Pages)
	if err := res.Order.Validate(len(res.Pages)); err != nil {
		return nil, err
	}
	stageDone(l, "order", start)

	if req.Report != "" {
		if err := writeFile(req.Report, func(f *os.File) error { return reorder.WriteReport(f, res.Pages) }); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
		l.Info().Str("report", req.Report).Msg("classification report written")
	}

	if err := o.publish(ctx, l, in, req.Output, res.Order, "sort"); err != nil {
		return nil, err
	}
	return res, nil
}

// Move applies a move list to Input and writes the output document.
func (o *Orchestrator) Move(ctx context.Context, req MoveRequest) (*Result, error) {
	id, l := newRun("move")
	res := &Result{RunID: id, Output: req.Output}
	in, cleanup, err := o.fetchPDF(ctx, l, req.Input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	start := time.Now()
	n, err := o.deps.Assembler.PageCount(in)
	if err != nil {
		return nil, err
	}
	moves, err := o.loadMoves(ctx, req.Moves)
	if err != nil {
		return nil, err
	}
	res.Order, err = reorder.ApplyMoves(n, moves)
	if err != nil {
		return nil, err
	}
	applied, _ := moves.Moves(n)
	metrics.AddMovesApplied(len(applied))
	l.Info().Int("pages", n).Int("moves", len(applied)).Msg("move list applied")
	stageDone(l, "moves", start)

	if err := o.publish(ctx, l, in, req.Output, res.Order, "move"); err != nil {
		return nil, err
	}
	return res, nil
}

func (o *Orchestrator) classify(ctx context.Context, l zerolog.Logger, in string, req ClassifyRequest, res *Result) error {
	start := time.Now()
	doc, err := o.deps.Opener.Open(in)
	if err != nil {
		return err
	}
	defer doc.Close()

	pages := reorder.NewClassifier().ClassifyAll(doc)
	l.Info().Int("pages", len(pages)).Int("labelled", countClassified(pages)).Msg("text pass done")
	stageDone(l, "text", start)

	if req.OCR.Enabled {
		start = time.Now()
		resolver := reorder.NewOCRResolver(o.deps.Recognizer, doc, reorder.OCROptions{
			FooterFraction: req.OCR.FooterFraction,
			Workers:        req.OCR.Workers,
			PageTimeout:    req.OCR.PageTimeout,
			Recorder: reorder.RecorderFunc(func(a reorder.OCRAttempt) {
				metrics.ObserveOCR(a.Outcome(), a.Duration)
				res.Attempts = append(res.Attempts, a)
			}),
		})
		pages, err = resolver.Resolve(ctx, pages)
		if err != nil {
			return err
		}
		if len(res.Attempts) > 0 && req.OCR.LogPath != "" {
			if err := writeFile(req.OCR.LogPath, func(f *os.File) error { return reorder.WriteOCRLog(f, res.Attempts) }); err != nil {
				l.Warn().Err(err).Str("file", req.OCR.LogPath).Msg("failed to write OCR log")
			}
		}
		l.Info().Int("attempted", len(res.Attempts)).Int("labelled", countClassified(pages)).Msg("ocr pass done")
		stageDone(l, "ocr", start)
	}

	if req.Overrides != "" {
		overrides, err := o.loadOverrides(ctx, req.Overrides)
		if err != nil {
			return err
		}
		if pages, err = reorder.ApplyOverrides(pages, overrides); err != nil {
			return err
		}
		l.Info().Int("overrides", len(overrides)).Msg("manual overrides applied")
	}

	for _, p := range pages {
		metrics.IncClassified(p.Provenance().String())
	}
	res.Pages = pages
	return nil
}

func (o *Orchestrator) fetchPDF(ctx context.Context, l zerolog.Logger, ref string) (string, func(), error) {
	start := time.Now()
	in, cleanup, err := o.deps.Storage.Fetch(ctx, ref)
	if err != nil {
		return "", nil, fmt.Errorf("fetch input: %w", err)
	}
	if err := filetype.EnsurePDF(in); err != nil {
		cleanup()
		return "", nil, err
	}
	l.Info().Str("input", ref).Msg("input ready")
	stageDone(l, "fetch", start)
	return in, cleanup, nil
}

func (o *Orchestrator) loadOverrides(ctx context.Context, ref string) (reorder.Overrides, error) {
	p, cleanup, err := o.deps.Storage.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch overrides: %w", err)
	}
	defer cleanup()
	return corrections.LoadOverrides(p)
}

func (o *Orchestrator) loadMoves(ctx context.Context, ref string) (reorder.MoveSet, error) {
	p, cleanup, err := o.deps.Storage.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch moves: %w", err)
	}
	defer cleanup()
	return corrections.LoadMoves(p)
}

// publish assembles the output next to its destination and renames it into
// place; remote destinations are uploaded from a temporary file.
func (o *Orchestrator) publish(ctx context.Context, l zerolog.Logger, in, outRef string, order reorder.Order, mode string) error {
	if outRef == "" {
		return fmt.Errorf("no output given")
	}
	start := time.Now()
	remote := storage.IsRemote(outRef)
	dir := os.TempDir()
	if !remote {
		dir = filepath.Dir(storage.LocalPath(outRef))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".pagereorder-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	if err := o.deps.Assembler.Collect(in, tmpPath, order); err != nil {
		return err
	}
	if remote {
		if err := o.deps.Storage.Store(ctx, tmpPath, outRef); err != nil {
			return fmt.Errorf("publish output: %w", err)
		}
	} else if err := os.Rename(tmpPath, storage.LocalPath(outRef)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	metrics.IncDocumentWritten(mode)
	l.Info().Str("output", outRef).Int("pages", len(order)).Msg("output written")
	stageDone(l, "write", start)
	return nil
}

// newRun allocates a run id and a logger carrying it.
func newRun(op string) (string, zerolog.Logger) {
	id := uuid.NewString()
	return id, log.With().Str("run_id", id).Str("op", op).Logger()
}

func stageDone(l zerolog.Logger, stage string, start time.Time) {
	d := time.Since(start)
	metrics.ObserveStage(stage, d)
	l.Info().Str("stage", stage).Int64("dur_ms", d.Milliseconds()).Msg("stage finished")
}

func countClassified(pages []reorder.Page) int {
	n := 0
	for _, p := range pages {
		if p.IsClassified() {
			n++
		}
	}
	return n
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
