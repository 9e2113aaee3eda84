package mupdf

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"

	"github.com/local/pagereorder/internal/imagerender"
)

// Options controls footer rendering.
type Options struct {
	DPI       float64
	ColorMode imagerender.ColorMode
}

// Document is an open PDF backed by go-fitz (MuPDF). It serves per-page
// text and footer crops to the reorder engine. go-fitz serializes access
// to the underlying document, so methods may be called concurrently.
type Document struct {
	doc  *fitz.Document
	path string
	opts Options
}

// Open opens the PDF at path.
func Open(path string, opts Options) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	if opts.DPI <= 0 {
		opts.DPI = imagerender.DefaultDPI
	}
	if opts.ColorMode == "" {
		opts.ColorMode = imagerender.ColorGray
	}
	log.Debug().Str("pdf", path).Int("pages", doc.NumPage()).Msg("opened PDF with go-fitz")
	return &Document{doc: doc, path: path, opts: opts}, nil
}

// NumPage returns the number of pages.
func (d *Document) NumPage() int { return d.doc.NumPage() }

// Text returns the raw text layer of the page at the 0-based index.
// Whitespace-only text is reported as empty.
func (d *Document) Text(index int) (string, error) {
	if err := d.checkRange(index); err != nil {
		return "", err
	}
	text, err := d.doc.Text(index)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", index+1, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	log.Debug().Int("page", index+1).Int("chars", len(text)).Msg("extracted page text")
	return text, nil
}

// FooterImage renders the bottom fraction of the page as PNG.
func (d *Document) FooterImage(index int, fraction float64) ([]byte, error) {
	if err := d.checkRange(index); err != nil {
		return nil, err
	}
	return imagerender.RenderFooterPNG(d.doc, index, d.opts.DPI, fraction, d.opts.ColorMode)
}

// Close releases the MuPDF document.
func (d *Document) Close() error { return d.doc.Close() }

func (d *Document) checkRange(index int) error {
	if index < 0 || index >= d.doc.NumPage() {
		return fmt.Errorf("page %d out of range (document has %d pages)", index+1, d.doc.NumPage())
	}
	return nil
}
