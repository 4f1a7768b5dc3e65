// Package ocr wraps the optical character recognition engine behind a small
// interface so the extraction pipeline can be exercised without Tesseract.
package ocr

import "context"

// Engine turns an encoded image into recognized text.
type Engine interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}
