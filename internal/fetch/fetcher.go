package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/ironsheep/image-theme-mcp/internal/imaging"
)

// ErrImageLoad is returned when an image could not be retrieved.
var ErrImageLoad = errors.New("image load failed")

const (
	// DefaultTimeout bounds a single fetch including the body download.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBytes caps the size of a downloaded image body.
	DefaultMaxBytes int64 = 20 << 20
)

// Fetcher downloads and decodes images, optionally through a Proxy.
// A Fetcher is safe for concurrent use.
type Fetcher struct {
	Client    *http.Client
	Proxy     *Proxy
	UserAgent string
	MaxBytes  int64
	// MaxPixels caps the declared dimensions of a fetched image; below 1
	// means imaging.DefaultMaxPixels.
	MaxPixels int64
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Options adjust a single Fetch call.
type Options struct {
	// CacheBust appends a millisecond timestamp to the original URL.
	CacheBust bool

	// Direct bypasses the configured proxy.
	Direct bool
}

// Result is a decoded remote image.
type Result struct {
	Image image.Image
	// Format is the decoder name, e.g. "png" or "jpeg".
	Format string
	// FetchURL is the URL that was actually requested.
	FetchURL string
}

// ResolveURL returns the URL Fetch would request for imageURL.
func (f *Fetcher) ResolveURL(imageURL string, opts Options) string {
	var p Proxy
	if f.Proxy != nil {
		p = *f.Proxy
	}
	if opts.Direct {
		p.Base = ""
	}
	p.CacheBust = p.CacheBust || opts.CacheBust
	return p.Rewrite(imageURL)
}

// Fetch downloads imageURL and decodes it.
//
// The original URL must be absolute http or https. Cancellation of ctx and
// the fetcher timeout both abort the request with ErrImageLoad.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string, opts Options) (*Result, error) {
	if err := validateImageURL(imageURL); err != nil {
		return nil, err
	}

	fetchURL := f.ResolveURL(imageURL, opts)
	log := f.logger().With("url", imageURL)

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "image/*")

	start := time.Now()
	resp, err := f.client().Do(req)
	if err != nil {
		log.Debug("fetch failed", "fetch_url", fetchURL, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("fetch rejected", "fetch_url", fetchURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status code %d", ErrImageLoad, resp.StatusCode)
	}

	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrImageLoad, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrImageLoad, maxBytes)
	}

	img, format, err := imaging.DecodeLimit(bytes.NewReader(data), f.MaxPixels)
	if err != nil {
		return nil, err
	}

	log.Debug("fetched image", "format", format, "bytes", len(data), "elapsed", time.Since(start))
	return &Result{Image: img, Format: format, FetchURL: fetchURL}, nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

func validateImageURL(raw string) error {
	if !utf8.ValidString(raw) {
		return fmt.Errorf("%w: invalid URL %q: not valid UTF-8", ErrImageLoad, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid URL %q: %v", ErrImageLoad, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: invalid URL %q: scheme must be http or https", ErrImageLoad, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: invalid URL %q: missing host", ErrImageLoad, raw)
	}
	return nil
}
