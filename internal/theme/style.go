package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/image-theme-mcp/internal/imaging"
)

// ErrUnknownKind is returned for an element kind other than card or row.
var ErrUnknownKind = errors.New("unknown element kind")

// Kind selects how a sampled color is applied to an element.
type Kind string

const (
	// KindCard paints a diagonal gradient from the page surface to a faint
	// tint and leaves text colors alone.
	KindCard Kind = "card"

	// KindRow paints a flat faint tint and recolors the row's text and
	// links for contrast.
	KindRow Kind = "row"
)

// ParseKind accepts "card" or "row", case-insensitively. Empty means card.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(KindCard):
		return KindCard, nil
	case string(KindRow):
		return KindRow, nil
	}
	return "", fmt.Errorf("%w: %q (want card or row)", ErrUnknownKind, s)
}

// Options tune the generated styles.
type Options struct {
	// Transparency is the tint opacity for light pages.
	Transparency float64
	// DarkTransparency is the tint opacity for cards in dark mode.
	DarkTransparency float64
	// LightSurface is the CSS color a card gradient starts from.
	LightSurface string
	// DarkSurface is the CSS color a card gradient starts from in dark mode.
	DarkSurface string
	// LightSurfaceRGB and DarkSurfaceRGB are used when rendering swatches,
	// where CSS variables cannot be resolved.
	LightSurfaceRGB imaging.RGBColor
	DarkSurfaceRGB  imaging.RGBColor
}

// DefaultOptions returns the styling used by the record pages.
func DefaultOptions() Options {
	return Options{
		Transparency:     0.1,
		DarkTransparency: 0.2,
		LightSurface:     "white",
		DarkSurface:      "var(--dark-surface)",
		LightSurfaceRGB:  imaging.RGBColor{R: 255, G: 255, B: 255},
		DarkSurfaceRGB:   imaging.RGBColor{R: 0x1E, G: 0x1E, B: 0x1E},
	}
}

// Declaration is a single CSS property assignment.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Styling is the set of CSS declarations derived from one image.
type Styling struct {
	Kind     Kind                 `json:"kind"`
	DarkMode bool                 `json:"dark_mode"`
	Color    imaging.ColorResult  `json:"color"`
	Contrast imaging.ContrastName `json:"contrast"`

	// Element holds declarations for the element itself.
	Element []Declaration `json:"element"`

	// Links holds declarations for anchor descendants of the element.
	Links []Declaration `json:"links,omitempty"`

	// alpha is the tint opacity actually used, kept for swatch rendering.
	alpha float64
}

// Style derives the declarations for an element of the given kind whose
// image averaged to c.
func Style(kind Kind, c imaging.RGBColor, darkMode bool, opts Options) (*Styling, error) {
	s := &Styling{
		Kind:     kind,
		DarkMode: darkMode,
		Color:    imaging.NewColorResult(c),
		Contrast: imaging.ContrastColor(c),
	}

	switch kind {
	case KindCard:
		surface, alpha := opts.LightSurface, opts.Transparency
		if darkMode {
			surface, alpha = opts.DarkSurface, opts.DarkTransparency
		}
		s.alpha = alpha
		s.Element = []Declaration{{
			Property: "background",
			Value:    fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", surface, rgba(c, alpha)),
		}}
	case KindRow:
		s.alpha = opts.Transparency
		s.Element = []Declaration{
			{Property: "background-color", Value: rgba(c, opts.Transparency)},
			{Property: "color", Value: string(s.Contrast)},
		}
		s.Links = []Declaration{{Property: "color", Value: string(s.Contrast)}}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return s, nil
}

// CSS renders the styling as rule blocks for selector and its anchors.
func (s *Styling) CSS(selector string) string {
	var b strings.Builder
	writeRule(&b, selector, s.Element)
	if len(s.Links) > 0 {
		b.WriteString("\n")
		writeRule(&b, selector+" a", s.Links)
	}
	return b.String()
}

// Inline renders the element declarations as a style attribute value.
func (s *Styling) Inline() string {
	parts := make([]string, 0, len(s.Element))
	for _, d := range s.Element {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

// Swatch describes the painted background for preview rendering.
func (s *Styling) Swatch(width, height int, opts Options) imaging.SwatchSpec {
	base := opts.LightSurfaceRGB
	if s.DarkMode {
		base = opts.DarkSurfaceRGB
	}
	return imaging.SwatchSpec{
		Width:    width,
		Height:   height,
		Base:     base,
		Tint:     s.Color.RGB,
		Alpha:    s.alpha,
		Gradient: s.Kind == KindCard,
	}
}

func writeRule(b *strings.Builder, selector string, decls []Declaration) {
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, d := range decls {
		fmt.Fprintf(b, "  %s: %s;\n", d.Property, d.Value)
	}
	b.WriteString("}\n")
}

func rgba(c imaging.RGBColor, alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}
