package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/image-theme-mcp/internal/config"
	"github.com/ironsheep/image-theme-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app carries what every subcommand needs.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

type CLI struct {
	Serve    serveCmd    `cmd:"" default:"1" help:"Serve MCP over stdin and stdout (default)"`
	Average  averageCmd  `cmd:"" help:"Print the average color of an image and its contrast color"`
	Contrast contrastCmd `cmd:"" help:"Print black or white, whichever reads better on a color"`
	Theme    themeCmd    `cmd:"" help:"Print CSS for a card or row themed from an image"`
	ScanAlt  scanAltCmd  `cmd:"" name:"scan-alt" help:"List images without alt text in an HTML file"`
	Days     daysCmd     `cmd:"" help:"Print the whole days between two dates"`
	Version  versionCmd  `cmd:"" help:"Print version information"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("image-theme-mcp"),
		kong.Description("MCP server and CLI for image-driven color theming.\n\n"+
			"Settings are read from IMAGE_THEME_* environment variables, e.g. IMAGE_THEME_LOG_LEVEL=debug."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-theme-mcp: %v\n", err)
		os.Exit(2)
	}

	// stdout is reserved for the MCP protocol
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)
	server.Version = Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&app{ctx: ctx, cfg: cfg, logger: logger, out: os.Stdout})
	if err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}

type serveCmd struct{}

func (c *serveCmd) Run(a *app) error {
	a.logger.Debug("starting server", "version", Version, "built", BuildTime, "commit", GitCommit)
	srv := server.NewWithConfig(a.cfg, a.logger)
	return srv.Run(a.ctx)
}

type versionCmd struct{}

func (c *versionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "image-theme-mcp %s\n", Version)
	fmt.Fprintf(a.out, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(a.out, "  Git commit: %s\n", GitCommit)
	return nil
}
