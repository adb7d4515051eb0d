// Package ocr suggests alternative text for images using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Images that
// carry visible text, such as album covers with a band name or scanned
// posters, can be given a draft alt attribute from the words Tesseract
// recognises with enough confidence. Suggestions are drafts for a human to
// review; images without legible text yield an empty suggestion.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// # Thread Safety
//
// A Reader holds only configuration. Each call creates and closes its own
// Tesseract client, so a Reader may be shared between goroutines.
package ocr
