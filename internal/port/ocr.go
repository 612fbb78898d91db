package port

import "context"

// OCREngine abstracts optical character recognition for scanned documents.
// Recognize returns the recognized text and whether OCR actually ran; a
// no-op engine returns applied=false without error.
type OCREngine interface {
	Recognize(ctx context.Context, raw []byte, contentType string) (text string, applied bool, err error)
}
