package parser

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/docai"
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
	"github.com/satoshitrading/oci-calculator-backend/internal/ocr"
)

// minEmbeddedTextLen is the threshold below which a PDF is assumed to be a
// scanned image and sent through page rendering + OCR instead.
const minEmbeddedTextLen = 100

// trailingAmountRe matches a cost-looking number at the end of a line.
var trailingAmountRe = regexp.MustCompile(`(\d[\d.,]*)\s*$`)

// PDFTextExtractor is the always-available PDF backend: embedded text
// layer first, page-by-page OCR when the document is a scan. Output is
// coarse, one heuristic item per line that carries an amount, with a
// guaranteed catch-all item so ingestion never comes back empty.
type PDFTextExtractor struct {
	text   ocr.TextExtractor
	render ocr.PageRenderer
	engine ocr.Engine
}

// NewPDFTextExtractor wires the text + OCR pipeline.
func NewPDFTextExtractor(text ocr.TextExtractor, render ocr.PageRenderer, engine ocr.Engine) *PDFTextExtractor {
	return &PDFTextExtractor{text: text, render: render, engine: engine}
}

// Extract implements docai.Extractor over the text/OCR pipeline so the
// factory can arbitrate between it and the structured backends.
func (p *PDFTextExtractor) Extract(ctx context.Context, pdf []byte) (*docai.Document, error) {
	text, err := p.text.ExtractText(ctx, pdf)
	if err != nil {
		zap.L().Warn("parser: pdf text layer unreadable, trying ocr", zap.Error(err))
		text = ""
	}

	if len(strings.TrimSpace(text)) < minEmbeddedTextLen {
		ocrText, err := p.recognizePages(ctx, pdf)
		if err != nil {
			if strings.TrimSpace(text) == "" {
				return nil, err
			}
			zap.L().Warn("parser: ocr fallback failed, keeping short text layer", zap.Error(err))
		} else {
			text = ocrText
		}
	}

	return &docai.Document{Text: text}, nil
}

func (p *PDFTextExtractor) recognizePages(ctx context.Context, pdf []byte) (string, error) {
	pages, err := p.render.RenderPages(ctx, pdf)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, page := range pages {
		pageText, err := p.engine.Recognize(ctx, page)
		if err != nil {
			zap.L().Warn("parser: ocr page failed", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

// HeuristicItems converts free invoice text into line items: every
// non-blank line with a trailing cost-looking number becomes one item; a
// recognizable date substring on the line becomes its usage date. When no
// line qualifies, a single catch-all item carries the text blob.
func HeuristicItems(text string) []model.LineItem {
	var items []model.LineItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := trailingAmountRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		amount := parseNumber(m[1])
		if amount == nil {
			continue
		}

		name := strings.TrimSpace(strings.TrimSuffix(line, m[0]))
		if name == "" {
			name = line
		}
		item := model.LineItem{
			ProductName: name,
			Cost:        amount,
			Currency:    "USD",
			UsageStart:  docai.ParseDate(line),
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		name := firstLine(text)
		if name == "" {
			name = "Unstructured invoice"
		}
		items = append(items, model.LineItem{
			ProductName: name,
			Currency:    "USD",
			Raw: model.RawRow{
				Columns: []string{"text"},
				Values:  map[string]string{"text": text},
			},
		})
	}

	return items
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return ""
}
