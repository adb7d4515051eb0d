package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// SwatchSpec describes a themed background to preview.
type SwatchSpec struct {
	Width  int
	Height int

	// Base is the opaque surface the tint is laid over.
	Base RGBColor

	// Tint is the sampled color and Alpha its opacity (0-1) at full strength.
	Tint  RGBColor
	Alpha float64

	// Gradient fades the tint in along a 135 degree diagonal, from fully
	// transparent at the top-left corner to Alpha at the bottom-right.
	Gradient bool
}

// SwatchResult contains the rendered preview image.
type SwatchResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderSwatch paints the background described by spec and returns it as a
// base64-encoded PNG.
func RenderSwatch(spec SwatchSpec) (*SwatchResult, error) {
	img, err := renderSwatchImage(spec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode swatch: %w", err)
	}

	return &SwatchResult{
		Width:       spec.Width,
		Height:      spec.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func renderSwatchImage(spec SwatchSpec) (*image.RGBA, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("invalid swatch size %dx%d", spec.Width, spec.Height)
	}
	if spec.Alpha < 0 || spec.Alpha > 1 {
		return nil, fmt.Errorf("invalid tint alpha %v: must be within 0-1", spec.Alpha)
	}

	base := imaging.New(spec.Width, spec.Height, color.NRGBA{R: spec.Base.R, G: spec.Base.G, B: spec.Base.B, A: 255})

	tint := image.NewNRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	span := float64(spec.Width - 1 + spec.Height - 1)
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			strength := 1.0
			if spec.Gradient && span > 0 {
				strength = float64(x+y) / span
			}
			tint.SetNRGBA(x, y, color.NRGBA{
				R: spec.Tint.R,
				G: spec.Tint.G,
				B: spec.Tint.B,
				A: uint8(math.Round(spec.Alpha * strength * 255)),
			})
		}
	}

	return blend.Normal(base, tint), nil
}
