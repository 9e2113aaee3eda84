package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/local/pagereorder/internal/ocr"
	"github.com/local/pagereorder/internal/statuscheck"
	"github.com/local/pagereorder/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check OCR, cache and S3 readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := current.cfg
		opts := statuscheck.Options{
			OCR: ocr.NewTesseract(ocr.TesseractOptions{
				Command:  cfg.OCR.Command,
				Language: cfg.OCR.Language,
				PSM:      cfg.OCR.PSM,
			}),
			S3Bucket: cfg.Storage.S3Bucket,
		}
		if cfg.Cache.RedisURL != "" {
			cache, err := store.OpenOCRCache(cfg.Cache.RedisURL, cfg.Cache.TTL)
			if err != nil {
				return err
			}
			defer cache.Close()
			opts.Redis = cache
		}

		sum := statuscheck.New(opts).Summary(cmd.Context())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return err
		}
		if !sum.Healthy() {
			return errors.New("some dependencies are not ready")
		}
		return nil
	},
}
