package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createRowImage creates a width x 1 image from the given pixels
func createRowImage(pixels ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(pixels), 1))
	for x, p := range pixels {
		img.SetNRGBA(x, 0, p)
	}
	return img
}

func TestAverageColor_UniformOpaque(t *testing.T) {
	tests := []struct {
		name string
		c    RGBColor
	}{
		{"black", RGBColor{0, 0, 0}},
		{"white", RGBColor{255, 255, 255}},
		{"orange", RGBColor{255, 128, 64}},
		{"odd values", RGBColor{13, 201, 77}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(17, 9, color.NRGBA{tt.c.R, tt.c.G, tt.c.B, 255})
			got, err := AverageColor(img)
			if err != nil {
				t.Fatalf("AverageColor failed: %v", err)
			}
			if got != tt.c {
				t.Errorf("got %+v, want %+v", got, tt.c)
			}
		})
	}
}

func TestAverageColor_IgnoresTransparentPixels(t *testing.T) {
	pixels := []color.NRGBA{{200, 0, 0, 255}}
	for i := 0; i < 20; i++ {
		pixels = append(pixels, color.NRGBA{uint8(i * 10), 255, uint8(i), 0})
	}
	img := createRowImage(pixels...)

	got, err := AverageColor(img)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	if want := (RGBColor{200, 0, 0}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAverageColor_RedAndTransparentBlue(t *testing.T) {
	img := createRowImage(color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 0})

	got, err := AverageColor(img)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	if want := (RGBColor{255, 0, 0}); got != want {
		t.Fatalf("average: got %+v, want %+v", got, want)
	}
	if c := ContrastColor(got); c != ContrastWhite {
		t.Errorf("contrast: got %s, want white", c)
	}
}

func TestAverageColor_Truncates(t *testing.T) {
	img := createRowImage(color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 255})

	got, err := AverageColor(img)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	if want := (RGBColor{127, 127, 127}); got != want {
		t.Fatalf("average: got %+v, want %+v", got, want)
	}
	if c := ContrastColor(got); c != ContrastWhite {
		t.Errorf("contrast: got %s, want white", c)
	}
}

func TestAverageColor_PartialAlphaUsesStraightColor(t *testing.T) {
	// A half-transparent pixel counts with its full, non-premultiplied color.
	img := createRowImage(color.NRGBA{100, 50, 200, 128}, color.NRGBA{100, 50, 200, 255})

	got, err := AverageColor(img)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	if want := (RGBColor{100, 50, 200}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAverageColor_AllTransparent(t *testing.T) {
	img := createInMemoryImage(8, 8, color.NRGBA{10, 20, 30, 0})

	got, err := AverageColor(img)
	if !errors.Is(err, ErrNoOpaquePixels) {
		t.Fatalf("expected ErrNoOpaquePixels, got %v", err)
	}
	if got != (RGBColor{}) {
		t.Errorf("expected zero color, got %+v", got)
	}
}

func TestAverageColor_EmptyImage(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"nil", nil},
		{"zero width", image.NewNRGBA(image.Rect(0, 0, 0, 10))},
		{"zero height", image.NewRGBA(image.Rect(0, 0, 10, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AverageColor(tt.img)
			if !errors.Is(err, ErrEmptyImage) {
				t.Errorf("expected ErrEmptyImage, got %v", err)
			}
		})
	}
}

func TestAverageColor_NonZeroOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.SetNRGBA(5, 5, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(6, 5, color.NRGBA{30, 40, 50, 255})

	got, err := AverageColor(img)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	if want := (RGBColor{20, 30, 40}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAverageColor_SubImageStride(t *testing.T) {
	parent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			parent.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	parent.SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 255})
	parent.SetNRGBA(2, 1, color.NRGBA{0, 0, 0, 255})

	sub := parent.SubImage(image.Rect(1, 1, 3, 2))
	got, err := AverageColor(sub)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	if want := (RGBColor{}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAverageColor_Deterministic(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 7), uint8(y * 5), uint8(x ^ y), uint8((x + y) % 3 * 100)})
		}
	}

	first, err := AverageColor(img)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := AverageColor(img)
		if err != nil {
			t.Fatalf("AverageColor failed: %v", err)
		}
		if again != first {
			t.Fatalf("run %d: got %+v, want %+v", i, again, first)
		}
	}
}

func TestAveragePixels_ShortBuffer(t *testing.T) {
	_, _, err := averagePixels(make([]uint8, 7), 8, 2, 1)
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage for short buffer, got %v", err)
	}
}

func TestAverageColorRegion(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{0, 0, 255, 255}
			if x < 5 {
				c = color.NRGBA{255, 0, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	got, err := AverageColorRegion(img, &Region{X1: 0, Y1: 0, X2: 5, Y2: 10})
	if err != nil {
		t.Fatalf("AverageColorRegion failed: %v", err)
	}
	if want := (RGBColor{255, 0, 0}); got != want {
		t.Errorf("left half: got %+v, want %+v", got, want)
	}

	whole, err := AverageColorRegion(img, nil)
	if err != nil {
		t.Fatalf("AverageColorRegion(nil) failed: %v", err)
	}
	if want := (RGBColor{127, 0, 127}); whole != want {
		t.Errorf("whole image: got %+v, want %+v", whole, want)
	}
}

func TestAverageColorRegion_Invalid(t *testing.T) {
	img := createInMemoryImage(10, 10, color.NRGBA{1, 2, 3, 255})

	tests := []struct {
		name   string
		region Region
	}{
		{"outside right", Region{0, 0, 11, 5}},
		{"negative", Region{-1, 0, 5, 5}},
		{"empty width", Region{3, 0, 3, 5}},
		{"inverted", Region{5, 5, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.region
			if _, err := AverageColorRegion(img, &r); err == nil {
				t.Error("expected error for invalid region")
			}
		})
	}
}

func TestAverageColorDetail(t *testing.T) {
	img := createRowImage(
		color.NRGBA{255, 255, 255, 255},
		color.NRGBA{255, 255, 255, 255},
		color.NRGBA{0, 0, 0, 0},
	)

	result, err := AverageColorDetail(img, nil)
	if err != nil {
		t.Fatalf("AverageColorDetail failed: %v", err)
	}
	if result.Color.Hex != "#FFFFFF" {
		t.Errorf("Hex: got %s, want #FFFFFF", result.Color.Hex)
	}
	if result.Contrast != ContrastBlack {
		t.Errorf("Contrast: got %s, want black", result.Contrast)
	}
	if result.Luma != 255 {
		t.Errorf("Luma: got %v, want 255", result.Luma)
	}
	if result.OpaquePixels != 2 || result.TotalPixels != 3 {
		t.Errorf("pixels: got %d/%d, want 2/3", result.OpaquePixels, result.TotalPixels)
	}
}

func TestNewColorResult(t *testing.T) {
	tests := []struct {
		name    string
		c       RGBColor
		wantHex string
		wantHSL HSLColor
	}{
		{"pure red", RGBColor{255, 0, 0}, "#FF0000", HSLColor{0, 100, 50}},
		{"pure green", RGBColor{0, 255, 0}, "#00FF00", HSLColor{120, 100, 50}},
		{"pure blue", RGBColor{0, 0, 255}, "#0000FF", HSLColor{240, 100, 50}},
		{"white", RGBColor{255, 255, 255}, "#FFFFFF", HSLColor{0, 0, 100}},
		{"black", RGBColor{0, 0, 0}, "#000000", HSLColor{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewColorResult(tt.c)
			if r.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", r.Hex, tt.wantHex)
			}
			if r.RGBA.A != 255 {
				t.Errorf("RGBA.A: got %d, want 255", r.RGBA.A)
			}
			if r.HSL != tt.wantHSL {
				t.Errorf("HSL: got %+v, want %+v", r.HSL, tt.wantHSL)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBColor
		wantErr bool
	}{
		{"#FF8040", RGBColor{255, 128, 64}, false},
		{"ff8040", RGBColor{255, 128, 64}, false},
		{"#fff", RGBColor{255, 255, 255}, false},
		{"#GGGGGG", RGBColor{}, true},
		{"", RGBColor{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
