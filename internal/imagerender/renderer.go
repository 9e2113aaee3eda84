package imagerender

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/rs/zerolog/log"
)

// ColorMode defines the color mode for rendering
type ColorMode string

const (
	ColorRGB  ColorMode = "rgb"
	ColorGray ColorMode = "gray"
)

// DefaultDPI is high enough for footer numerals to survive recognition.
const DefaultDPI = 200

// PageRenderer rasterizes a page (0-based index) at the given DPI.
// *fitz.Document satisfies it.
type PageRenderer interface {
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
}

// CropBottom returns the lowest fraction of img's height as a new image.
// fraction is clamped to (0, 1].
func CropBottom(img image.Image, fraction float64) image.Image {
	if fraction <= 0 || fraction > 1 {
		fraction = 1
	}
	b := img.Bounds()
	h := int(math.Ceil(float64(b.Dy()) * fraction))
	if h < 1 && b.Dy() > 0 {
		h = 1
	}
	rect := image.Rect(b.Min.X, b.Max.Y-h, b.Max.X, b.Max.Y)
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// EncodePNG encodes img as PNG, converting to grayscale when asked.
func EncodePNG(img image.Image, mode ColorMode) ([]byte, error) {
	final := img
	if mode == ColorGray {
		gray := image.NewGray(img.Bounds())
		draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
		final = gray
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFooterPNG renders page index of r and returns the bottom fraction
// of it encoded as PNG.
func RenderFooterPNG(r PageRenderer, index int, dpi, fraction float64, mode ColorMode) ([]byte, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	img, err := r.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index+1, err)
	}
	crop := CropBottom(img, fraction)
	out, err := EncodePNG(crop, mode)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("page", index+1).
		Int("width", crop.Bounds().Dx()).
		Int("height", crop.Bounds().Dy()).
		Str("color", string(mode)).
		Int("png_size", len(out)).
		Msg("rendered page footer")
	return out, nil
}
