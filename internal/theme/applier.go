package theme

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/ironsheep/image-theme-mcp/internal/fetch"
	"github.com/ironsheep/image-theme-mcp/internal/imaging"
	"github.com/ironsheep/image-theme-mcp/internal/parallel"
)

var (
	// ErrSuperseded is returned when a newer request for the same target
	// was issued before this one finished.
	ErrSuperseded = errors.New("superseded by a newer request for the same target")

	// ErrNoSource is returned when a request names neither a URL nor a path.
	ErrNoSource = errors.New("request needs an image url or path")
)

// Request asks for one element to be styled from one image.
type Request struct {
	// Target identifies the element. Requests sharing a non-empty target
	// are sequenced: only the most recently issued one may succeed.
	Target string `json:"target,omitempty"`

	// URL is a remote image, fetched through the proxy unless Direct is set.
	URL string `json:"url,omitempty"`

	// Path is a local image file, used when URL is empty.
	Path string `json:"path,omitempty"`

	Kind      Kind `json:"kind"`
	DarkMode  bool `json:"dark_mode,omitempty"`
	CacheBust bool `json:"cache_bust,omitempty"`
	Direct    bool `json:"direct,omitempty"`
}

// Applier turns images into element styles.
type Applier struct {
	Fetcher *fetch.Fetcher
	Cache   *imaging.ImageCache
	Options Options

	// Workers bounds ApplyAll concurrency; below 1 means GOMAXPROCS.
	Workers int

	Logger *slog.Logger

	seq Sequencer
}

// NewApplier returns an applier with default styling options.
func NewApplier(fetcher *fetch.Fetcher, cache *imaging.ImageCache) *Applier {
	return &Applier{
		Fetcher: fetcher,
		Cache:   cache,
		Options: DefaultOptions(),
	}
}

// Apply styles a single element and blocks until the image is processed.
func (a *Applier) Apply(ctx context.Context, req Request) (*Styling, error) {
	return a.run(ctx, req, a.seq.Begin(req.Target))
}

// Go starts styling an element in the background. The request's sequence
// position is fixed when Go is called, not when the work completes.
func (a *Applier) Go(ctx context.Context, req Request) *Task {
	tok := a.seq.Begin(req.Target)
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.styling, t.err = a.run(ctx, req, tok)
	}()
	return t
}

// Outcome pairs a batch request with its result.
type Outcome struct {
	Request Request  `json:"request"`
	Styling *Styling `json:"styling,omitempty"`
	Err     error    `json:"-"`
	Error   string   `json:"error,omitempty"`
}

// ApplyAll styles many elements concurrently. Outcomes are returned in the
// order of reqs; individual failures do not stop the batch.
func (a *Applier) ApplyAll(ctx context.Context, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))
	pool := parallel.Start(a.Workers)
	for i, req := range reqs {
		i, req := i, req
		tok := a.seq.Begin(req.Target)
		pool.Do(func() {
			s, err := a.run(ctx, req, tok)
			o := Outcome{Request: req, Styling: s, Err: err}
			if err != nil {
				o.Error = err.Error()
			}
			outcomes[i] = o
		})
	}
	pool.Wait()
	return outcomes
}

func (a *Applier) run(ctx context.Context, req Request, tok Token) (*Styling, error) {
	log := a.logger().With("target", req.Target, "kind", req.Kind)

	styling, err := a.style(ctx, req)
	current := a.seq.Finish(tok)
	if err != nil {
		log.Debug("styling failed", "error", err)
		return nil, err
	}
	if !current {
		log.Debug("discarding stale styling", "color", styling.Color.Hex)
		return nil, ErrSuperseded
	}

	log.Debug("styled element", "color", styling.Color.Hex, "contrast", styling.Contrast)
	return styling, nil
}

func (a *Applier) style(ctx context.Context, req Request) (*Styling, error) {
	kind, err := ParseKind(string(req.Kind))
	if err != nil {
		return nil, err
	}

	img, err := a.load(ctx, req)
	if err != nil {
		return nil, err
	}

	c, err := imaging.AverageColor(img)
	if err != nil {
		return nil, err
	}
	return Style(kind, c, req.DarkMode, a.Options)
}

// Load returns the decoded image a request refers to.
func (a *Applier) Load(ctx context.Context, req Request) (image.Image, error) {
	return a.load(ctx, req)
}

func (a *Applier) load(ctx context.Context, req Request) (image.Image, error) {
	switch {
	case req.URL != "":
		if a.Fetcher == nil {
			return nil, fmt.Errorf("%w: no fetcher configured", fetch.ErrImageLoad)
		}
		res, err := a.Fetcher.Fetch(ctx, req.URL, fetch.Options{CacheBust: req.CacheBust, Direct: req.Direct})
		if err != nil {
			return nil, err
		}
		return res.Image, nil
	case req.Path != "":
		cache := a.Cache
		if cache == nil {
			cache = imaging.NewImageCache()
		}
		return cache.Load(req.Path)
	}
	return nil, ErrNoSource
}

func (a *Applier) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
