// Package ocr wraps the local PDF text-extraction and optical character
// recognition toolchain (poppler + tesseract CLIs).
package ocr

import "context"

// Engine recognizes text in a rendered page image.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TextExtractor pulls the embedded text layer out of a PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// PageRenderer rasterizes PDF pages to images for OCR.
type PageRenderer interface {
	RenderPages(ctx context.Context, pdf []byte) ([][]byte, error)
}
