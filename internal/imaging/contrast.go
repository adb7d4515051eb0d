package imaging

// ContrastName is the foreground color chosen for legibility over a background.
type ContrastName string

const (
	ContrastBlack ContrastName = "black"
	ContrastWhite ContrastName = "white"
)

// lumaThreshold is the luma at and above which a background reads as bright.
const lumaThreshold = 128

// Luma returns the BT.601 perceptual brightness of c in the 0-255 range.
func Luma(c RGBColor) float64 {
	return float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
}

// ContrastColor picks black text for bright backgrounds and white text for
// dark ones. A luma of exactly 128 counts as bright.
func ContrastColor(c RGBColor) ContrastName {
	if Luma(c) >= lumaThreshold {
		return ContrastBlack
	}
	return ContrastWhite
}

// RGB returns the color value of the contrast name.
func (n ContrastName) RGB() RGBColor {
	if n == ContrastBlack {
		return RGBColor{}
	}
	return RGBColor{R: 255, G: 255, B: 255}
}
