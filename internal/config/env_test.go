package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"OCR_ENABLED", "OCR_FOOTER_FRACTION", "OCR_WORKERS", "OCR_PAGE_TIMEOUT", "REDIS_URL", "AXIOM_DATASET", "ENVIRONMENT", "LOG_PRETTY"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	assert.True(t, cfg.OCR.Enabled)
	assert.Equal(t, "tesseract", cfg.OCR.Command)
	assert.Equal(t, 0.2, cfg.OCR.FooterFraction)
	assert.Equal(t, 4, cfg.OCR.Workers)
	assert.Equal(t, 30*time.Second, cfg.OCR.PageTimeout)
	assert.Empty(t, cfg.Cache.RedisURL)
	assert.Equal(t, "dev_pagereorder", cfg.Axiom.Dataset)
	assert.False(t, cfg.Logging.Pretty)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("OCR_ENABLED", "no")
	t.Setenv("OCR_WORKERS", "0")
	t.Setenv("OCR_FOOTER_FRACTION", "1.5")
	t.Setenv("OCR_PAGE_TIMEOUT", "2s")
	t.Setenv("OCR_COLOR_MODE", "RGB")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("ENVIRONMENT", "local")
	t.Setenv("LOG_PRETTY", "")

	cfg := FromEnv()
	assert.False(t, cfg.OCR.Enabled)
	assert.Equal(t, 1, cfg.OCR.Workers)
	assert.Equal(t, 0.2, cfg.OCR.FooterFraction)
	assert.Equal(t, 2*time.Second, cfg.OCR.PageTimeout)
	assert.Equal(t, "rgb", cfg.OCR.ColorMode)
	assert.Equal(t, "redis://cache:6379/2", cfg.Cache.RedisURL)
	assert.True(t, cfg.Logging.Pretty)
}

func TestParseHelpersFallBack(t *testing.T) {
	assert.Equal(t, 7, parseInt("x", 7))
	assert.Equal(t, 1.5, parseFloat("", 1.5))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.True(t, parseBool(" ON "))
	assert.False(t, parseBool("0"))
}
