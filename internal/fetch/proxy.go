package fetch

import (
	"strconv"
	"strings"
	"time"
)

// DefaultProxyBase is the public image proxy used when none is configured.
// The proxy contract fixes container=focus and a 30 day refresh; the
// original URL is appended, percent-encoded, as the final url parameter.
const DefaultProxyBase = "https://images1-focus-opensocial.googleusercontent.com/gadgets/proxy?container=focus&refresh=2592000&url="

// Proxy rewrites image URLs so they are served through a CORS proxy.
// The zero value leaves URLs untouched.
type Proxy struct {
	// Base is prepended to the encoded original URL. Empty disables the proxy.
	Base string

	// CacheBust appends the current time in milliseconds to the original
	// URL before encoding so that intermediaries cannot serve a stale copy.
	CacheBust bool

	// Now returns the time used for cache busting. Defaults to time.Now.
	Now func() time.Time
}

// NewProxy returns a proxy using base, or DefaultProxyBase if base is empty.
func NewProxy(base string) *Proxy {
	if base == "" {
		base = DefaultProxyBase
	}
	return &Proxy{Base: base}
}

// Rewrite returns the URL that should actually be fetched for imageURL.
func (p *Proxy) Rewrite(imageURL string) string {
	if p == nil {
		return imageURL
	}
	target := imageURL
	if p.CacheBust {
		now := time.Now
		if p.Now != nil {
			now = p.Now
		}
		target = cacheBust(target, now())
	}
	if p.Base == "" {
		return target
	}
	return p.Base + EncodeURIComponent(target)
}

// cacheBust appends the millisecond timestamp to the query of rawURL. Any
// fragment stays last so the stamp still reaches the server.
func cacheBust(rawURL string, t time.Time) string {
	base, fragment := rawURL, ""
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		base, fragment = rawURL[:i], rawURL[i:]
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strconv.FormatInt(t.UnixMilli(), 10) + fragment
}

// EncodeURIComponent percent-encodes s the way browsers encode a URI
// component: everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped
// as UTF-8 bytes with uppercase hex digits. Unlike a browser it does not
// reject invalid UTF-8: such bytes are escaped one at a time. Fetcher.Fetch
// refuses those URLs before they get here.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
