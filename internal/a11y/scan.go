// Package a11y finds accessibility problems in rendered HTML pages.
package a11y

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMarkStyle is the inline style used to highlight offending images.
const DefaultMarkStyle = "border: 5px solid blue"

// ErrOutsideBaseDir is returned when an image source escapes the base directory.
var ErrOutsideBaseDir = errors.New("image source outside base directory")

// Suggester drafts alt text for an image referenced by its src attribute.
// An empty suggestion with a nil error means nothing useful was found.
type Suggester interface {
	SuggestAlt(ctx context.Context, src string) (string, error)
}

// Options control Scan.
type Options struct {
	// Mark adds MarkStyle to every image lacking alt text and returns the
	// rewritten document in ScanResult.HTML.
	Mark      bool
	MarkStyle string

	// Suggester, when set, is asked for a draft alt text per offending image.
	Suggester Suggester

	Logger *slog.Logger
}

// MissingAlt describes one image without alternative text.
type MissingAlt struct {
	// Index is the position of the image among all <img> elements.
	Index int    `json:"index"`
	Src   string `json:"src"`

	// Reason is "missing" when there is no alt attribute and "empty" when
	// it is present but blank.
	Reason string `json:"reason"`

	Suggestion      string `json:"suggestion,omitempty"`
	SuggestionError string `json:"suggestion_error,omitempty"`
}

// ScanResult is the outcome of scanning one document.
type ScanResult struct {
	TotalImages int          `json:"total_images"`
	Missing     []MissingAlt `json:"missing"`
	HTML        string       `json:"html,omitempty"`
}

// Scan parses an HTML document and reports every <img> whose alt text is
// absent or empty. Suggestion failures are recorded per image and do not
// fail the scan.
func Scan(ctx context.Context, r io.Reader, opts Options) (*ScanResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	markStyle := opts.MarkStyle
	if markStyle == "" {
		markStyle = DefaultMarkStyle
	}

	result := &ScanResult{Missing: []MissingAlt{}}
	images := doc.Find("img")
	result.TotalImages = images.Length()

	images.Each(func(i int, s *goquery.Selection) {
		alt, ok := s.Attr("alt")
		if ok && alt != "" {
			return
		}

		src, _ := s.Attr("src")
		m := MissingAlt{Index: i, Src: src, Reason: "missing"}
		if ok {
			m.Reason = "empty"
		}

		if opts.Suggester != nil && src != "" && ctx.Err() == nil {
			suggestion, err := opts.Suggester.SuggestAlt(ctx, src)
			if err != nil {
				log.Debug("alt text suggestion failed", "src", src, "error", err)
				m.SuggestionError = err.Error()
			} else {
				m.Suggestion = suggestion
			}
		}

		if opts.Mark {
			style, _ := s.Attr("style")
			s.SetAttr("style", appendStyle(style, markStyle))
		}

		result.Missing = append(result.Missing, m)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Mark {
		html, err := doc.Html()
		if err != nil {
			return nil, fmt.Errorf("failed to render HTML: %w", err)
		}
		result.HTML = html
	}

	return result, nil
}

func appendStyle(existing, extra string) string {
	existing = strings.TrimSpace(existing)
	switch {
	case existing == "":
		return extra
	case strings.HasSuffix(existing, ";"):
		return existing + " " + extra
	default:
		return existing + "; " + extra
	}
}

// FileAltTexter drafts alt text from an image file.
type FileAltTexter interface {
	AltTextFromFile(path string) (string, error)
}

// LocalSuggester resolves relative and root-relative image sources against
// BaseDir and drafts alt text for them. Absolute URLs with a scheme are
// skipped.
type LocalSuggester struct {
	BaseDir string
	OCR     FileAltTexter
}

// SuggestAlt implements Suggester.
func (l LocalSuggester) SuggestAlt(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := l.resolve(src)
	if err != nil || path == "" {
		return "", err
	}
	return l.OCR.AltTextFromFile(path)
}

func (l LocalSuggester) resolve(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid image source %q: %w", src, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return "", nil
	}

	base, err := filepath.Abs(l.BaseDir)
	if err != nil {
		return "", fmt.Errorf("invalid base directory: %w", err)
	}
	path := filepath.Join(base, filepath.FromSlash(strings.TrimPrefix(u.Path, "/")))
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideBaseDir, src)
	}
	return path, nil
}
