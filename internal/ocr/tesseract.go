package ocr

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// Tesseract recognizes text in page images using the tesseract CLI tool.
// The language pack covers English plus Portuguese invoices.
type Tesseract struct {
	binPath string
	langs   string
}

// NewTesseract creates a Tesseract engine. If binPath is empty,
// "tesseract" is resolved from PATH; langs defaults to "eng+por".
func NewTesseract(binPath, langs string) *Tesseract {
	if binPath == "" {
		binPath = "tesseract"
	}
	if langs == "" {
		langs = "eng+por"
	}
	return &Tesseract{binPath: binPath, langs: langs}
}

// Recognize runs tesseract over one page image and returns the text.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	tmp, cleanup, err := writeTemp(image, "page-*.png")
	if err != nil {
		return "", err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, t.binPath, tmp, "stdout", "-l", t.langs)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: tesseract failed: %s", stderr.String())
	}

	return stdout.String(), nil
}
