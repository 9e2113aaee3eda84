package imagerender

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripes paints the top half white and the bottom half black.
type stripes struct {
	w, h int
	err  error
	dpi  float64
}

func (s *stripes) ImageDPI(_ int, dpi float64) (*image.RGBA, error) {
	s.dpi = dpi
	if s.err != nil {
		return nil, s.err
	}
	img := image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	for y := 0; y < s.h; y++ {
		c := color.RGBA{255, 255, 255, 255}
		if y >= s.h/2 {
			c = color.RGBA{0, 0, 0, 255}
		}
		for x := 0; x < s.w; x++ {
			img.Set(x, y, c)
		}
	}
	return img, nil
}

func TestCropBottom(t *testing.T) {
	src, _ := (&stripes{w: 10, h: 100}).ImageDPI(0, 72)
	crop := CropBottom(src, 0.2)
	assert.Equal(t, image.Rect(0, 0, 10, 20), crop.Bounds())
	r, g, b, _ := crop.At(0, 0).RGBA()
	assert.Zero(t, r+g+b, "crop comes from the bottom of the page")

	assert.Equal(t, 100, CropBottom(src, 0).Bounds().Dy())
	assert.Equal(t, 100, CropBottom(src, 2).Bounds().Dy())
	assert.Equal(t, 1, CropBottom(src, 0.001).Bounds().Dy())
}

func TestRenderFooterPNG(t *testing.T) {
	r := &stripes{w: 40, h: 50}
	data, err := RenderFooterPNG(r, 0, 0, 0.2, ColorGray)
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultDPI), r.dpi)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
	_, isGray := img.(*image.Gray)
	assert.True(t, isGray)
}

func TestRenderFooterPNGRenderError(t *testing.T) {
	_, err := RenderFooterPNG(&stripes{err: errors.New("boom")}, 3, 150, 0.2, ColorRGB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 4")
}
