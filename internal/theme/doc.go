// Package theme applies image-derived colors to page elements.
//
// An Applier loads an image (remote through the fetch package, or a local
// file), averages its color with the imaging package and turns the result
// into CSS declarations according to the element Kind:
//
//	card  background: linear-gradient(135deg, white 0%, rgba(r, g, b, 0.1) 100%)
//	      (dark mode: var(--dark-surface) and 0.2 opacity; text untouched)
//	row   background-color: rgba(r, g, b, 0.1)
//	      color: black|white on the row and on its links
//
// Work runs either synchronously (Apply), as a background Task (Go) whose
// failure is always observable, or as a bounded batch (ApplyAll).
//
// Overlapping requests for the same target are sequenced by issue order:
// when a request completes after a newer one for its target was issued, it
// fails with ErrSuperseded instead of overwriting the newer result.
package theme
