package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

const (
	// DefaultLanguage is the Tesseract language used when none is set.
	DefaultLanguage = "eng"

	// DefaultMinConfidence drops words Tesseract is unsure about.
	DefaultMinConfidence = 0.6

	// MaxAltLength keeps suggestions within the length screen readers
	// handle comfortably.
	MaxAltLength = 125
)

// Word is a recognised word and Tesseract's confidence in it (0.0 to 1.0).
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Reader recognises text in images.
type Reader struct {
	// Language is a Tesseract language code such as "eng" or "deu".
	Language string

	// MinConfidence is the threshold (0.0 to 1.0) for keeping a word.
	MinConfidence float64
}

// NewReader returns a Reader for language with the default confidence.
func NewReader(language string) *Reader {
	if language == "" {
		language = DefaultLanguage
	}
	return &Reader{Language: language, MinConfidence: DefaultMinConfidence}
}

// WordsFromFile recognises words in the image file at path.
func (r *Reader) WordsFromFile(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return r.words(data)
}

// Words recognises words in a decoded image.
func (r *Reader) Words(img image.Image) ([]Word, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}
	return r.words(buf.Bytes())
}

// AltTextFromFile drafts alt text for the image file at path.
func (r *Reader) AltTextFromFile(path string) (string, error) {
	words, err := r.WordsFromFile(path)
	if err != nil {
		return "", err
	}
	return composeAltText(words, r.minConfidence()), nil
}

// AltText drafts alt text for a decoded image.
func (r *Reader) AltText(img image.Image) (string, error) {
	words, err := r.Words(img)
	if err != nil {
		return "", err
	}
	return composeAltText(words, r.minConfidence()), nil
}

func (r *Reader) words(data []byte) ([]Word, error) {
	client := gosseract.NewClient()
	defer client.Close()

	lang := r.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{Text: text, Confidence: box.Confidence / 100.0})
	}
	return words, nil
}

func (r *Reader) minConfidence() float64 {
	if r.MinConfidence <= 0 {
		return DefaultMinConfidence
	}
	return r.MinConfidence
}

// composeAltText joins confident words, cutting at a word boundary so the
// result never exceeds MaxAltLength.
func composeAltText(words []Word, minConfidence float64) string {
	var b strings.Builder
	for _, w := range words {
		if w.Confidence < minConfidence {
			continue
		}
		extra := len(w.Text)
		if b.Len() > 0 {
			extra++
		}
		if b.Len()+extra > MaxAltLength {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.Text)
	}
	return b.String()
}
