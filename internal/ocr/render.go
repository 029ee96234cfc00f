package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
)

// PdfToPpm rasterizes PDF pages to PNG images using the pdftoppm CLI tool.
type PdfToPpm struct {
	binPath string
	dpi     string
}

// NewPdfToPpm creates a page renderer. If binPath is empty, "pdftoppm" is
// resolved from PATH. 200 dpi is enough for invoice-grade OCR.
func NewPdfToPpm(binPath string) *PdfToPpm {
	if binPath == "" {
		binPath = "pdftoppm"
	}
	return &PdfToPpm{binPath: binPath, dpi: "200"}
}

// RenderPages renders every page of the document to a PNG, in page order.
func (p *PdfToPpm) RenderPages(ctx context.Context, pdf []byte) ([][]byte, error) {
	tmp, cleanup, err := writeTemp(pdf, "invoice-*.pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	outDir, err := os.MkdirTemp("", "invoice-pages-")
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create page dir")
	}
	defer os.RemoveAll(outDir)

	cmd := exec.CommandContext(ctx, p.binPath, "-png", "-r", p.dpi, tmp, filepath.Join(outDir, "page"))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "ocr: pdftoppm failed: %s", stderr.String())
	}

	files := tempDirGlob(outDir, "page-*.png")
	sort.Strings(files)

	pages := make([][]byte, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, eris.Wrapf(err, "ocr: read rendered page %s", filepath.Base(f))
		}
		pages = append(pages, data)
	}

	if len(pages) == 0 {
		return nil, eris.New("ocr: pdftoppm produced no pages")
	}
	return pages, nil
}
