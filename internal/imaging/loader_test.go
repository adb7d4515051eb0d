package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// writeTestImage writes a solid PNG into the test's temp dir and returns its path.
func writeTestImage(t *testing.T, name string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestDecode_Formats(t *testing.T) {
	src := createInMemoryImage(6, 4, color.NRGBA{40, 80, 120, 255})

	tests := []struct {
		name   string
		encode func(*bytes.Buffer) error
		format string
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, src) }, "png"},
		{"jpeg", func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) }, "jpeg"},
		{"gif", func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) }, "gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			img, format, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if format != tt.format {
				t.Errorf("format: got %s, want %s", format, tt.format)
			}
			if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
				t.Errorf("dimensions: got %v", img.Bounds())
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, _, err := Decode(bytes.NewBufferString("definitely not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

// oversizedPNG returns a valid 1x1 PNG whose header claims width x height.
func oversizedPNG(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	data := buf.Bytes()

	// 8-byte signature, then IHDR: length(4) type(4) width(4) height(4) ... crc(4).
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecode_RejectsOversizedHeader(t *testing.T) {
	data := oversizedPNG(t, 40000, 40000)

	_, _, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "40000x40000") {
		t.Errorf("error should name the declared size: %v", err)
	}
}

func TestDecodeLimit(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(10, 10, color.NRGBA{1, 2, 3, 255})); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	data := buf.Bytes()

	tests := []struct {
		name      string
		maxPixels int64
		wantErr   bool
	}{
		{"exactly at limit", 100, false},
		{"one below limit", 99, true},
		{"zero means default", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, _, err := DecodeLimit(bytes.NewReader(data), tt.maxPixels)
			if tt.wantErr {
				if !errors.Is(err, ErrDecode) {
					t.Errorf("expected ErrDecode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLimit failed: %v", err)
			}
			// The header bytes consumed by the size check must be replayed.
			if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
				t.Errorf("dimensions: got %v", img.Bounds())
			}
		})
	}
}

func TestImageCache_Load_Oversized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, oversizedPNG(t, 20000, 20000), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	cache := NewImageCache()
	if _, err := cache.Load(path); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}

	small := writeTestImage(t, "small.png", 20, 20, color.RGBA{1, 1, 1, 255})
	cache.MaxPixels = 100
	if _, err := cache.Load(small); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for image above MaxPixels, got %v", err)
	}
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.Len() != 0 {
		t.Fatalf("new cache holds %d images", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, "cover.png", 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := cache.Load(path)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if cache.Len() != 0 {
		t.Error("failed load should not be cached")
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	a := writeTestImage(t, "a.png", 5, 5, color.RGBA{0, 255, 0, 255})
	b := writeTestImage(t, "b.png", 5, 5, color.RGBA{0, 0, 255, 255})

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	if cache.Len() != 1 {
		t.Errorf("after Evict: %d images, want 1", cache.Len())
	}

	// Evicting an unknown path is a no-op.
	cache.Evict("/nonexistent/path")

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, "gray.png", 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := cache.Load(imgPath)
			if err != nil {
				errs <- err
				return
			}
			if _, err := AverageColor(img); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, "info.png", 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadImageInfo_FormatFromContent(t *testing.T) {
	cache := NewImageCache()
	// PNG bytes behind a misleading extension.
	imgPath := writeTestImage(t, "cover.jpg", 10, 10, color.RGBA{1, 2, 3, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := LoadImageInfo(cache, "/nonexistent/image.png"); err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name      string
		img       image.Image
		wantAlpha bool
		wantDepth string
	}{
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 2, 2)), true, "8-bit"},
		{"gray", image.NewGray(image.Rect(0, 0, 2, 2)), false, "8-bit"},
		{"gray16", image.NewGray16(image.Rect(0, 0, 2, 2)), false, "16-bit"},
		{"nrgba64", image.NewNRGBA64(image.Rect(0, 0, 2, 2)), true, "16-bit"},
		{"opaque palette", image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White}), false, "8-bit"},
		{"transparent palette", image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Transparent, color.White}), true, "8-bit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Describe(tt.img, "png")
			if info.HasAlpha != tt.wantAlpha {
				t.Errorf("HasAlpha: got %v, want %v", info.HasAlpha, tt.wantAlpha)
			}
			if info.ColorDepth != tt.wantDepth {
				t.Errorf("ColorDepth: got %s, want %s", info.ColorDepth, tt.wantDepth)
			}
			if info.Width != 2 || info.Height != 2 {
				t.Errorf("dimensions: got %dx%d", info.Width, info.Height)
			}
		})
	}
}
