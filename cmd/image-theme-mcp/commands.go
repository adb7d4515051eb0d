package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/image-theme-mcp/internal/a11y"
	"github.com/ironsheep/image-theme-mcp/internal/dates"
	"github.com/ironsheep/image-theme-mcp/internal/imaging"
	"github.com/ironsheep/image-theme-mcp/internal/ocr"
	"github.com/ironsheep/image-theme-mcp/internal/theme"
)

// sourceParams select an image by local path or http(s) URL.
type sourceParams struct {
	Source    string `arg:"" help:"Image file path or http(s) URL"`
	Direct    bool   `help:"Fetch URLs without the image proxy" default:"false"`
	CacheBust bool   `help:"Append a timestamp to URLs before proxying" default:"false"`
}

func (p sourceParams) request() theme.Request {
	req := theme.Request{Direct: p.Direct, CacheBust: p.CacheBust}
	if isRemote(p.Source) {
		req.URL = p.Source
	} else {
		req.Path = p.Source
	}
	return req
}

func isRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (a *app) applier() *theme.Applier {
	ap := theme.NewApplier(a.cfg.Fetcher(a.logger), a.cfg.ImageCache())
	ap.Options = a.cfg.ThemeOptions()
	ap.Workers = a.cfg.Workers
	ap.Logger = a.logger
	return ap
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type averageCmd struct {
	sourceParams
	JSON bool `help:"Print the full result as JSON" default:"false"`
}

func (c *averageCmd) Run(a *app) error {
	img, err := a.applier().Load(a.ctx, c.request())
	if err != nil {
		return err
	}
	result, err := imaging.AverageColorDetail(img, nil)
	if err != nil {
		return err
	}
	if c.JSON {
		return a.printJSON(result)
	}
	rgb := result.Color.RGB
	fmt.Fprintf(a.out, "%s rgb(%d, %d, %d) contrast=%s\n", result.Color.Hex, rgb.R, rgb.G, rgb.B, result.Contrast)
	return nil
}

type contrastCmd struct {
	Color string `arg:"" help:"Background color as #RRGGBB"`
}

func (c *contrastCmd) Run(a *app) error {
	rgb, err := imaging.ParseHexColor(c.Color)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, imaging.ContrastColor(rgb))
	return nil
}

type themeCmd struct {
	sourceParams
	Kind     string `help:"Element kind" enum:"card,row" default:"card"`
	Dark     bool   `help:"Style for a dark page" default:"false"`
	Selector string `help:"CSS selector for the rule block" default:".themed"`
	Swatch   string `help:"Also write a PNG preview of the background to this file" type:"path"`
	Width    int    `help:"Swatch width" default:"320" group:"swatch"`
	Height   int    `help:"Swatch height" default:"120" group:"swatch"`
}

func (c *themeCmd) Validate(kctx *kong.Context) error {
	if c.Swatch != "" && (c.Width <= 0 || c.Height <= 0) {
		return fmt.Errorf("invalid swatch size %dx%d", c.Width, c.Height)
	}
	return nil
}

func (c *themeCmd) Run(a *app) error {
	kind, err := theme.ParseKind(c.Kind)
	if err != nil {
		return err
	}
	req := c.request()
	req.Kind = kind
	req.DarkMode = c.Dark

	ap := a.applier()
	styling, err := ap.Apply(a.ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, styling.CSS(c.Selector))

	if c.Swatch == "" {
		return nil
	}
	swatch, err := imaging.RenderSwatch(styling.Swatch(c.Width, c.Height, ap.Options))
	if err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(swatch.ImageBase64)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Swatch, data, 0o644); err != nil {
		return fmt.Errorf("unable to write swatch %q: %w", c.Swatch, err)
	}
	a.logger.Info("wrote swatch", "file", c.Swatch, "width", swatch.Width, "height", swatch.Height)
	return nil
}

type scanAltCmd struct {
	File    string `arg:"" help:"HTML file to scan" type:"existingfile"`
	Mark    string `help:"Write the document with offending images outlined to this file" type:"path"`
	Suggest bool   `help:"Draft alt text for local images with OCR" default:"false"`
	BaseDir string `help:"Directory relative image sources resolve against. Defaults to the HTML file's directory" type:"path"`
}

func (c *scanAltCmd) Run(a *app) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("unable to open %q: %w", c.File, err)
	}
	defer f.Close()

	opts := a11y.Options{Mark: c.Mark != "", Logger: a.logger}
	if c.Suggest {
		base := c.BaseDir
		if base == "" {
			base = filepath.Dir(c.File)
		}
		opts.Suggester = a11y.LocalSuggester{BaseDir: base, OCR: ocr.NewReader(a.cfg.OCRLanguage)}
	}

	result, err := a11y.Scan(a.ctx, f, opts)
	if err != nil {
		return err
	}

	for _, m := range result.Missing {
		line := fmt.Sprintf("#%d %s (%s alt)", m.Index, m.Src, m.Reason)
		if m.Suggestion != "" {
			line += fmt.Sprintf(" suggestion: %q", m.Suggestion)
		}
		fmt.Fprintln(a.out, line)
	}
	a.logger.Info("scanned", "file", c.File, "images", result.TotalImages, "missing_alt", len(result.Missing))

	if c.Mark != "" {
		if err := os.WriteFile(c.Mark, []byte(result.HTML), 0o644); err != nil {
			return fmt.Errorf("unable to write %q: %w", c.Mark, err)
		}
	}
	return nil
}

type daysCmd struct {
	From string `arg:"" help:"First date (RFC 3339 or YYYY-MM-DD)"`
	To   string `arg:"" help:"Second date (RFC 3339 or YYYY-MM-DD)"`
}

func (c *daysCmd) Run(a *app) error {
	from, err := dates.Parse(c.From)
	if err != nil {
		return err
	}
	to, err := dates.Parse(c.To)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, dates.DaysBetween(from, to))
	return nil
}
