// Package config loads runtime settings from IMAGE_THEME_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ironsheep/image-theme-mcp/internal/fetch"
	"github.com/ironsheep/image-theme-mcp/internal/imaging"
	"github.com/ironsheep/image-theme-mcp/internal/theme"
)

// Prefix is prepended to every variable name, e.g. IMAGE_THEME_LOG_LEVEL.
const Prefix = "IMAGE_THEME"

// Config holds every tunable of the server and CLI.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ProxyBase     string        `envconfig:"PROXY_BASE"`
	ProxyDisabled bool          `envconfig:"PROXY_DISABLED" default:"false"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
	UserAgent     string        `envconfig:"USER_AGENT" default:"image-theme-mcp"`
	MaxImageBytes int64         `envconfig:"MAX_IMAGE_BYTES" default:"20971520"`
	MaxPixels     int64         `envconfig:"MAX_PIXELS" default:"50000000"`

	Workers int `envconfig:"WORKERS" default:"0"`

	OCRLanguage string `envconfig:"OCR_LANGUAGE" default:"eng"`

	DarkSurface    string `envconfig:"DARK_SURFACE" default:"var(--dark-surface)"`
	DarkSurfaceHex string `envconfig:"DARK_SURFACE_HEX" default:"#1E1E1E"`
}

// Load reads the environment.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return nil, err
	}
	if _, err := imaging.ParseHexColor(c.DarkSurfaceHex); err != nil {
		return nil, fmt.Errorf("%s_DARK_SURFACE_HEX: %w", Prefix, err)
	}
	return &c, nil
}

// Level converts LogLevel to a slog level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid %s_LOG_LEVEL %q", Prefix, c.LogLevel)
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Fetcher builds an image fetcher from the network settings.
func (c *Config) Fetcher(logger *slog.Logger) *fetch.Fetcher {
	f := &fetch.Fetcher{
		Client:    &http.Client{},
		UserAgent: c.UserAgent,
		MaxBytes:  c.MaxImageBytes,
		MaxPixels: c.MaxPixels,
		Timeout:   c.FetchTimeout,
		Logger:    logger,
	}
	if !c.ProxyDisabled {
		f.Proxy = fetch.NewProxy(c.ProxyBase)
	}
	return f
}

// ImageCache returns a local image cache honouring MaxPixels.
func (c *Config) ImageCache() *imaging.ImageCache {
	cache := imaging.NewImageCache()
	cache.MaxPixels = c.MaxPixels
	return cache
}

// ThemeOptions returns styling options with the configured dark surface.
func (c *Config) ThemeOptions() theme.Options {
	opts := theme.DefaultOptions()
	if c.DarkSurface != "" {
		opts.DarkSurface = c.DarkSurface
	}
	if rgb, err := imaging.ParseHexColor(c.DarkSurfaceHex); err == nil {
		opts.DarkSurfaceRGB = rgb
	}
	return opts
}
