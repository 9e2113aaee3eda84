package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cfgpkg "github.com/local/pagereorder/internal/config"
	"github.com/local/pagereorder/internal/imagerender"
	logpkg "github.com/local/pagereorder/internal/logger"
	"github.com/local/pagereorder/internal/metrics"
	"github.com/local/pagereorder/internal/mupdf"
	"github.com/local/pagereorder/internal/ocr"
	"github.com/local/pagereorder/internal/orchestrator"
	"github.com/local/pagereorder/internal/reorder"
	"github.com/local/pagereorder/internal/storage"
	"github.com/local/pagereorder/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "pagereorder",
	Short:         "Restore the logical page order of scanned PDFs",
	Long:          "pagereorder reads the chapter-page label printed on each page (falling back to OCR of the footer) and writes the pages in logical order, or applies an explicit move list.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit (overrides METRICS_FILE)")

	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(doctorCmd)
}

// application is the wired set of dependencies for one invocation.
type application struct {
	cfg     cfgpkg.Config
	orch    *orchestrator.Orchestrator
	closers []func()
}

var current *application

func setup(ctx context.Context, cmd *cobra.Command) (*application, error) {
	cfg := cfgpkg.FromEnv()
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("metrics-file"); v != "" {
		cfg.Metrics.File = v
	}

	if err := logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	}); err != nil {
		return nil, err
	}
	a := &application{cfg: cfg, closers: []func(){logpkg.Close}}

	docOpts := mupdf.Options{DPI: cfg.OCR.DPI, ColorMode: imagerender.ColorMode(cfg.OCR.ColorMode)}
	opener := orchestrator.OpenerFunc(func(path string) (orchestrator.Document, error) {
		doc, err := mupdf.Open(path, docOpts)
		if err != nil {
			return nil, err
		}
		return doc, nil
	})

	a.orch = orchestrator.New(orchestrator.Dependencies{
		Opener:     opener,
		Recognizer: a.recognizer(ctx),
		Assembler:  orchestrator.NewPDFCPU(),
		Storage:    storage.New(storage.Options{HTTPTimeout: cfg.Storage.HTTPTimeout}),
	})
	return a, nil
}

// recognizer builds the tesseract recognizer, fronted by the Redis cache
// when one is configured and reachable.
func (a *application) recognizer(ctx context.Context) reorder.Recognizer {
	tess := ocr.NewTesseract(ocr.TesseractOptions{
		Command:  a.cfg.OCR.Command,
		Language: a.cfg.OCR.Language,
		PSM:      a.cfg.OCR.PSM,
	})
	if a.cfg.Cache.RedisURL == "" {
		return tess
	}
	cache, err := store.NewOCRCache(ctx, a.cfg.Cache.RedisURL, a.cfg.Cache.TTL)
	if err != nil {
		log.Warn().Err(err).Msg("ocr cache disabled")
		return tess
	}
	a.closers = append(a.closers, func() { _ = cache.Close() })
	return ocr.NewCached(tess, cache, tess.Fingerprint())
}

func (a *application) close() {
	if a == nil {
		return
	}
	if a.cfg.Metrics.File != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
			log.Warn().Err(err).Str("file", a.cfg.Metrics.File).Msg("failed to write metrics")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
