package noop

import (
	"context"

	"gridbill/internal/port"
)

type noopEngine struct{}

// NewNoopEngine creates a no-op OCREngine that never recognizes text.
// Deployments without an OCR backend use it so scanned documents still
// flow through the pipeline with whatever text the renderer produced.
func NewNoopEngine() port.OCREngine {
	return &noopEngine{}
}

func (e *noopEngine) Recognize(_ context.Context, _ []byte, _ string) (string, bool, error) {
	return "", false, nil
}
