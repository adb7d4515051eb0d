// Package imaging provides the color sampling core of the theming tools.
//
// The package decodes images, computes their alpha-aware average color and
// derives a legible foreground (black or white) for text drawn over that
// color. All operations work with standard Go image.Image values and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward and Y increases downward.
//
// # Averaging
//
// AverageColor normalises any decoded image into a non-premultiplied RGBA
// buffer and averages the red, green and blue channels over the pixels
// whose alpha is non-zero. Channel sums are divided with integer truncation,
// so a two-pixel image of white and black averages to (127,127,127).
// Averaging is done on the stored sRGB values without gamma correction.
//
// # Contrast
//
// ContrastColor computes the BT.601 luma
//
//	Y = (299*R + 587*G + 114*B) / 1000
//
// and returns black when Y >= 128, white otherwise.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. AverageColor,
// ContrastColor and RenderSwatch hold no state and can be called
// concurrently.
//
// # Error Handling
//
//   - ErrEmptyImage: nil image or zero width/height
//   - ErrNoOpaquePixels: every pixel is fully transparent
//   - ErrDecode: data is not a supported image (PNG, JPEG, GIF, BMP, TIFF, WebP)
//   - Regions outside the image bounds or with x1 >= x2 / y1 >= y2
package imaging
