// Package fetch retrieves remote images for color sampling.
//
// Browsers refuse pixel access to cross-origin images, so image URLs were
// historically routed through a public image proxy that re-serves them with
// permissive CORS headers. Proxy reproduces that URL rewrite with an
// injectable base, and Fetcher downloads and decodes the result.
//
// # Error Handling
//
// Every network-level failure (invalid URL, transport error, timeout,
// non-2xx status, oversized body) is reported as ErrImageLoad. Bodies that
// arrive intact but cannot be decoded are reported as imaging.ErrDecode.
// Nothing is retried.
package fetch
