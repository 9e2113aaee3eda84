package orchestrator

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"

	"github.com/local/pagereorder/internal/reorder"
)

// ErrEmptyOrder is returned when asked to assemble a document with no pages.
var ErrEmptyOrder = errors.New("no pages to write")

// PDFCPU counts pages and assembles output documents with pdfcpu.
type PDFCPU struct {
	conf *model.Configuration
}

// NewPDFCPU returns an assembler that never touches the pdfcpu user config dir.
func NewPDFCPU() *PDFCPU {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPU{conf: conf}
}

// PageCount returns the number of pages of the PDF at path.
func (p *PDFCPU) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdf page count failed: %w", err)
	}
	return n, nil
}

// Collect writes to out the pages of in, in the sequence given by order
// (1-based page numbers).
func (p *PDFCPU) Collect(in, out string, order reorder.Order) error {
	if len(order) == 0 {
		return ErrEmptyOrder
	}
	if err := api.CollectFile(in, out, pageSelection(order), p.conf); err != nil {
		return fmt.Errorf("pdf collect failed: %w", err)
	}
	log.Debug().Str("in", in).Str("out", out).Int("pages", len(order)).Msg("assembled reordered PDF")
	return nil
}

func pageSelection(order reorder.Order) []string {
	sel := make([]string, len(order))
	for i, n := range order {
		sel[i] = strconv.Itoa(n)
	}
	return sel
}
