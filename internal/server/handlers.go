package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/image-theme-mcp/internal/a11y"
	"github.com/ironsheep/image-theme-mcp/internal/dates"
	"github.com/ironsheep/image-theme-mcp/internal/fetch"
	"github.com/ironsheep/image-theme-mcp/internal/imaging"
	"github.com/ironsheep/image-theme-mcp/internal/theme"
)

const (
	defaultSelector     = ".themed"
	defaultSwatchWidth  = 320
	defaultSwatchHeight = 120
	maxSwatchSide       = 4096
	maxBatchItems       = 256
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_theme", "color_contrast").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)

	// Color Operations
	case "image_average_color":
		return s.handleImageAverageColor(ctx, args)
	case "color_contrast":
		return s.handleColorContrast(args)

	// Theming
	case "proxy_url":
		return s.handleProxyURL(args)
	case "image_theme":
		return s.handleImageTheme(ctx, args)
	case "image_theme_batch":
		return s.handleImageThemeBatch(ctx, args)
	case "image_theme_swatch":
		return s.handleImageThemeSwatch(ctx, args)

	// Accessibility
	case "html_missing_alt":
		return s.handleHTMLMissingAlt(ctx, args)

	// Dates
	case "date_days_between":
		return s.handleDateDaysBetween(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Color Handlers ===

type sourceArgs struct {
	Path      string `json:"path"`
	URL       string `json:"url"`
	Direct    bool   `json:"direct"`
	CacheBust bool   `json:"cache_bust"`
}

func (a sourceArgs) validate() error {
	switch {
	case a.Path == "" && a.URL == "":
		return theme.ErrNoSource
	case a.Path != "" && a.URL != "":
		return errors.New("give either path or url, not both")
	}
	return nil
}

func (a sourceArgs) request() theme.Request {
	return theme.Request{
		URL:       a.URL,
		Path:      a.Path,
		Direct:    a.Direct,
		CacheBust: a.CacheBust,
	}
}

type imageAverageColorArgs struct {
	sourceArgs
	Region *imaging.Region `json:"region"`
}

func (s *Server) handleImageAverageColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageAverageColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	img, err := s.applier.Load(ctx, a.request())
	if err != nil {
		return nil, err
	}
	return imaging.AverageColorDetail(img, a.Region)
}

type colorContrastArgs struct {
	Hex string `json:"hex"`
	R   *int   `json:"r"`
	G   *int   `json:"g"`
	B   *int   `json:"b"`
}

type colorContrastResult struct {
	Color    imaging.ColorResult  `json:"color"`
	Luma     float64              `json:"luma"`
	Contrast imaging.ContrastName `json:"contrast"`
}

func (s *Server) handleColorContrast(args json.RawMessage) (interface{}, error) {
	var a colorContrastArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var c imaging.RGBColor
	switch {
	case a.R != nil || a.G != nil || a.B != nil:
		if a.R == nil || a.G == nil || a.B == nil {
			return nil, errors.New("r, g and b must be given together")
		}
		for _, v := range []int{*a.R, *a.G, *a.B} {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("channel value %d out of range 0-255", v)
			}
		}
		c = imaging.RGBColor{R: uint8(*a.R), G: uint8(*a.G), B: uint8(*a.B)}
	case a.Hex != "":
		var err error
		if c, err = imaging.ParseHexColor(a.Hex); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("either hex or r, g, b is required")
	}

	return &colorContrastResult{
		Color:    imaging.NewColorResult(c),
		Luma:     imaging.Luma(c),
		Contrast: imaging.ContrastColor(c),
	}, nil
}

// === Theming Handlers ===

type proxyURLArgs struct {
	URL       string `json:"url"`
	Direct    bool   `json:"direct"`
	CacheBust bool   `json:"cache_bust"`
}

type proxyURLResult struct {
	URL      string `json:"url"`
	FetchURL string `json:"fetch_url"`
	Proxied  bool   `json:"proxied"`
}

func (s *Server) handleProxyURL(args json.RawMessage) (interface{}, error) {
	var a proxyURLArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.URL == "" {
		return nil, errors.New("url is required")
	}
	fetchURL := s.fetcher.ResolveURL(a.URL, fetch.Options{Direct: a.Direct, CacheBust: a.CacheBust})
	return &proxyURLResult{
		URL:      a.URL,
		FetchURL: fetchURL,
		Proxied:  !a.Direct && s.fetcher.Proxy != nil && s.fetcher.Proxy.Base != "",
	}, nil
}

type imageThemeArgs struct {
	sourceArgs
	Kind     string `json:"kind"`
	DarkMode bool   `json:"dark_mode"`
	Target   string `json:"target"`
	Selector string `json:"selector"`
}

func (a imageThemeArgs) request() (theme.Request, error) {
	if err := a.validate(); err != nil {
		return theme.Request{}, err
	}
	kind, err := theme.ParseKind(a.Kind)
	if err != nil {
		return theme.Request{}, err
	}
	req := a.sourceArgs.request()
	req.Kind = kind
	req.DarkMode = a.DarkMode
	req.Target = a.Target
	return req, nil
}

type imageThemeResult struct {
	Styling *theme.Styling `json:"styling"`
	CSS     string         `json:"css"`
	Inline  string         `json:"inline_style"`
}

func (s *Server) handleImageTheme(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageThemeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	req, err := a.request()
	if err != nil {
		return nil, err
	}
	if a.Selector == "" {
		a.Selector = defaultSelector
	}

	styling, err := s.applier.Apply(ctx, req)
	if err != nil {
		return nil, err
	}
	return &imageThemeResult{
		Styling: styling,
		CSS:     styling.CSS(a.Selector),
		Inline:  styling.Inline(),
	}, nil
}

type imageThemeBatchArgs struct {
	Items []imageThemeArgs `json:"items"`
}

type imageThemeBatchResult struct {
	Results   []theme.Outcome `json:"results"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

func (s *Server) handleImageThemeBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageThemeBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Items) == 0 {
		return nil, errors.New("items must contain at least one element")
	}
	if len(a.Items) > maxBatchItems {
		return nil, fmt.Errorf("too many items: %d (max %d)", len(a.Items), maxBatchItems)
	}

	reqs := make([]theme.Request, len(a.Items))
	for i, item := range a.Items {
		req, err := item.request()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		reqs[i] = req
	}

	result := &imageThemeBatchResult{Results: s.applier.ApplyAll(ctx, reqs)}
	for _, o := range result.Results {
		if o.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	return result, nil
}

type imageThemeSwatchArgs struct {
	imageThemeArgs
	Width  int `json:"width"`
	Height int `json:"height"`
}

type imageThemeSwatchResult struct {
	Styling *theme.Styling        `json:"styling"`
	Swatch  *imaging.SwatchResult `json:"swatch"`
}

func (s *Server) handleImageThemeSwatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageThemeSwatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = defaultSwatchWidth
	}
	if a.Height == 0 {
		a.Height = defaultSwatchHeight
	}
	if a.Width > maxSwatchSide || a.Height > maxSwatchSide {
		return nil, fmt.Errorf("swatch too large: %dx%d (max %d per side)", a.Width, a.Height, maxSwatchSide)
	}

	req, err := a.request()
	if err != nil {
		return nil, err
	}
	styling, err := s.applier.Apply(ctx, req)
	if err != nil {
		return nil, err
	}
	swatch, err := imaging.RenderSwatch(styling.Swatch(a.Width, a.Height, s.applier.Options))
	if err != nil {
		return nil, err
	}
	return &imageThemeSwatchResult{Styling: styling, Swatch: swatch}, nil
}

// === Accessibility Handlers ===

type htmlMissingAltArgs struct {
	HTML       string `json:"html"`
	Path       string `json:"path"`
	Mark       bool   `json:"mark"`
	MarkStyle  string `json:"mark_style"`
	SuggestAlt bool   `json:"suggest_alt"`
	BaseDir    string `json:"base_dir"`
}

func (s *Server) handleHTMLMissingAlt(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a htmlMissingAltArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var r io.Reader
	switch {
	case a.HTML != "":
		r = strings.NewReader(a.HTML)
	case a.Path != "":
		f, err := os.Open(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open HTML file: %w", err)
		}
		defer f.Close()
		r = f
		if a.BaseDir == "" {
			a.BaseDir = filepath.Dir(a.Path)
		}
	default:
		return nil, errors.New("either html or path is required")
	}

	opts := a11y.Options{
		Mark:      a.Mark,
		MarkStyle: a.MarkStyle,
		Logger:    s.logger,
	}
	if a.SuggestAlt {
		if a.BaseDir == "" {
			return nil, errors.New("base_dir is required to suggest alt text for inline html")
		}
		opts.Suggester = a11y.LocalSuggester{BaseDir: a.BaseDir, OCR: s.ocr}
	}
	return a11y.Scan(ctx, r, opts)
}

// === Date Handlers ===

type dateDaysBetweenArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type dateDaysBetweenResult struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

func (s *Server) handleDateDaysBetween(args json.RawMessage) (interface{}, error) {
	var a dateDaysBetweenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	from, err := dates.Parse(a.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := dates.Parse(a.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	return &dateDaysBetweenResult{
		From: from.Format(time.RFC3339),
		To:   to.Format(time.RFC3339),
		Days: dates.DaysBetween(from, to),
	}, nil
}
