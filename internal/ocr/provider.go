// Package ocr implements the OCR provider race: a fixed-priority sequence
// of text-recognition backends folded into a single best result.
package ocr

import "context"

// Result is one provider's recognition output. Confidence is on a 0-100
// scale.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Provider   string  `json:"provider"`
}

// Provider is a single OCR backend. Recognize returns the extracted text
// and a confidence score; an error means the provider could not produce a
// result at all, which the race recovers from by moving to the next
// provider.
type Provider interface {
	Name() string
	Recognize(ctx context.Context, image []byte, mimeType string) (Result, error)
}
