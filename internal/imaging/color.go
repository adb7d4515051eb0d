package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrNoOpaquePixels is returned when every pixel of the sampled area is
	// fully transparent, leaving nothing to average.
	ErrNoOpaquePixels = errors.New("no opaque pixels to average")

	// ErrEmptyImage is returned for a nil image or one with zero width or height.
	ErrEmptyImage = errors.New("image has no pixels")
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color as "#RRGGBB".
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components, always opaque for averages
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// NewColorResult expands an opaque RGB color into every supported format.
func NewColorResult(c RGBColor) ColorResult {
	return ColorResult{
		Hex:  c.Hex(),
		RGB:  c,
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: 255},
		HSL:  rgbToHSL(c),
	}
}

// ParseHexColor parses "#RRGGBB" or "#RGB" (leading '#' optional).
func ParseHexColor(s string) (RGBColor, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// AverageResult is the outcome of an alpha-aware average over an image.
type AverageResult struct {
	Color        ColorResult  `json:"color"`
	Contrast     ContrastName `json:"contrast"`
	Luma         float64      `json:"luma"`
	OpaquePixels int          `json:"opaque_pixels"`
	TotalPixels  int          `json:"total_pixels"`
}

// AverageColor computes the mean color over every pixel of img whose alpha is
// non-zero. Fully transparent pixels are skipped entirely.
//
// Channel values are read non-premultiplied, the way a browser canvas reports
// them, and each result channel is the truncated integer quotient of its sum
// by the number of opaque pixels.
//
// # Errors
//
//   - ErrEmptyImage if img is nil or has zero width or height
//   - ErrNoOpaquePixels if every pixel is fully transparent; the returned
//     color is the zero value in that case
func AverageColor(img image.Image) (RGBColor, error) {
	c, _, err := averageImage(img)
	return c, err
}

// AverageColorRegion is AverageColor restricted to a sub-rectangle. A nil
// region averages the whole image.
func AverageColorRegion(img image.Image, region *Region) (RGBColor, error) {
	sub, err := cropRegion(img, region)
	if err != nil {
		return RGBColor{}, err
	}
	return AverageColor(sub)
}

// AverageColorDetail averages img (or a region of it) and reports the result
// together with its contrast color, luma and pixel counts.
func AverageColorDetail(img image.Image, region *Region) (*AverageResult, error) {
	sub, err := cropRegion(img, region)
	if err != nil {
		return nil, err
	}
	c, opaque, err := averageImage(sub)
	if err != nil {
		return nil, err
	}
	b := sub.Bounds()
	return &AverageResult{
		Color:        NewColorResult(c),
		Contrast:     ContrastColor(c),
		Luma:         Luma(c),
		OpaquePixels: opaque,
		TotalPixels:  b.Dx() * b.Dy(),
	}, nil
}

func averageImage(img image.Image) (RGBColor, int, error) {
	if img == nil {
		return RGBColor{}, 0, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return RGBColor{}, 0, ErrEmptyImage
	}
	// Clone always yields a tightly packed, non-premultiplied buffer whose
	// bounds start at (0,0).
	buf := imaging.Clone(img)
	return averagePixels(buf.Pix, buf.Stride, b.Dx(), b.Dy())
}

// averagePixels scans a row-major RGBA byte buffer.
func averagePixels(pix []uint8, stride, width, height int) (RGBColor, int, error) {
	if width <= 0 || height <= 0 || len(pix) < (height-1)*stride+width*4 {
		return RGBColor{}, 0, ErrEmptyImage
	}

	var sumR, sumG, sumB uint64
	count := 0
	for y := 0; y < height; y++ {
		row := pix[y*stride : y*stride+width*4]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			sumR += uint64(row[i])
			sumG += uint64(row[i+1])
			sumB += uint64(row[i+2])
			count++
		}
	}

	if count == 0 {
		return RGBColor{}, 0, ErrNoOpaquePixels
	}

	n := uint64(count)
	return RGBColor{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
	}, count, nil
}

func cropRegion(img image.Image, region *Region) (image.Image, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	if region == nil {
		return img, nil
	}
	bounds := img.Bounds()
	if region.X1 < bounds.Min.X || region.Y1 < bounds.Min.Y || region.X2 > bounds.Max.X || region.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			region.X1, region.Y1, region.X2, region.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
		return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, image.Rect(region.X1, region.Y1, region.X2, region.Y2)), nil
}

// rgbToHSL converts an 8-bit RGB color to whole-number HSL.
func rgbToHSL(c RGBColor) HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
