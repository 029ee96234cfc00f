package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// PdfToText extracts the embedded text layer using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is resolved from PATH.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout over the document and returns stdout.
func (p *PdfToText) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	tmp, cleanup, err := writeTemp(pdf, "invoice-*.pdf")
	if err != nil {
		return "", err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", tmp, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed: %s", stderr.String())
	}

	return stdout.String(), nil
}

// writeTemp persists bytes to a temp file for CLI tools that cannot read
// from stdin. The returned cleanup removes the file.
func writeTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, eris.Wrap(err, "ocr: create temp file")
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", nil, eris.Wrap(err, "ocr: write temp file")
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", nil, eris.Wrap(err, "ocr: close temp file")
	}
	return name, func() { os.Remove(name) }, nil
}

// tempDirGlob removes files matching a glob under dir, ignoring errors.
func tempDirGlob(dir, glob string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, glob))
	return matches
}
