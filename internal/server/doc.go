// Package server implements the MCP (Model Context Protocol) server for the
// image theming tools.
//
// The server exposes color sampling, contrast selection, element theming,
// alt-text scanning and date helpers to MCP-compatible clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load a local image and get metadata
//
// Color Operations:
//   - image_average_color: Alpha-aware average color plus contrast
//   - color_contrast: Black or white text for a color
//
// Theming:
//   - proxy_url: Show the proxied fetch URL for a remote image
//   - image_theme: CSS for a card or row derived from an image
//   - image_theme_batch: Theme many elements concurrently
//   - image_theme_swatch: PNG preview of a themed background
//
// Accessibility:
//   - html_missing_alt: Find, mark and draft alt text for images
//
// Dates:
//   - date_days_between: Whole days between two dates
//
// # Image Sources
//
// Tools that read an image accept either a local path or a remote url.
// Local files are decoded once and cached for the lifetime of the process.
// Remote images are fetched through the configured image proxy on every
// call; computed colors are never cached.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	srv := server.NewWithConfig(cfg, cfg.Logger(os.Stderr))
//	return srv.Run(ctx)
package server
