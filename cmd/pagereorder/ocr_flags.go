package main

import (
	"github.com/spf13/cobra"

	"github.com/local/pagereorder/internal/orchestrator"
)

func addOCRFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("no-ocr", false, "Skip the OCR fallback (overrides OCR_ENABLED)")
	f.Int("ocr-workers", 0, "Pages recognized in parallel (overrides OCR_WORKERS)")
	f.Duration("ocr-timeout", 0, "Per-page recognition timeout (overrides OCR_PAGE_TIMEOUT)")
	f.String("ocr-log", "", "OCR diagnostic log path (overrides OCR_LOG_FILE)")
	f.String("overrides", "", "JSON file of manual labels: {\"<page>\": [<chapter>, <chapter_page>]}")
}

// ocrSettings resolves OCR flags over the environment configuration.
func ocrSettings(cmd *cobra.Command, a *application) orchestrator.OCRSettings {
	s := orchestrator.OCRSettings{
		Enabled:        a.cfg.OCR.Enabled,
		FooterFraction: a.cfg.OCR.FooterFraction,
		Workers:        a.cfg.OCR.Workers,
		PageTimeout:    a.cfg.OCR.PageTimeout,
		LogPath:        a.cfg.OCR.LogFile,
	}
	f := cmd.Flags()
	if off, _ := f.GetBool("no-ocr"); off {
		s.Enabled = false
	}
	if f.Changed("ocr-workers") {
		s.Workers, _ = f.GetInt("ocr-workers")
	}
	if f.Changed("ocr-timeout") {
		s.PageTimeout, _ = f.GetDuration("ocr-timeout")
	}
	if v, _ := f.GetString("ocr-log"); v != "" {
		s.LogPath = v
	}
	return s
}
