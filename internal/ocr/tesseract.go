package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/pagereorder/internal/reorder"
)

// TesseractOptions configures the tesseract command line.
type TesseractOptions struct {
	Command  string // binary name or path, default "tesseract"
	Language string // default "eng"
	PSM      int    // page segmentation mode, default 6 (single block)
}

// Tesseract recognizes text by piping images through the tesseract CLI.
type Tesseract struct {
	opts      TesseractOptions
	path      string
	available bool
}

// NewTesseract resolves the tesseract binary once. A missing binary yields
// a recognizer whose Available reports false.
func NewTesseract(opts TesseractOptions) *Tesseract {
	if opts.Command == "" {
		opts.Command = "tesseract"
	}
	if opts.Language == "" {
		opts.Language = "eng"
	}
	if opts.PSM <= 0 {
		opts.PSM = 6
	}
	t := &Tesseract{opts: opts}
	if p, err := exec.LookPath(opts.Command); err == nil {
		t.path = p
		t.available = true
	} else {
		log.Debug().Err(err).Str("cmd", opts.Command).Msg("tesseract not found")
	}
	return t
}

// Available reports whether the tesseract binary was found.
func (t *Tesseract) Available() bool { return t.available }

// Fingerprint identifies the recognition settings, for cache keys.
func (t *Tesseract) Fingerprint() string {
	return fmt.Sprintf("tesseract:%s:psm%d", t.opts.Language, t.opts.PSM)
}

// Recognize runs tesseract on an encoded image read from stdin.
func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	if !t.available {
		return "", reorder.ErrRecognizerUnavailable
	}
	cmd := exec.CommandContext(ctx, t.path, "stdin", "stdout",
		"-l", t.opts.Language, "--psm", strconv.Itoa(t.opts.PSM))
	cmd.Stdin = bytes.NewReader(img)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("tesseract failed: %s", strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to run tesseract: %w", err)
	}
	return stdout.String(), nil
}
