package parser

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/docai"
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
	"github.com/satoshitrading/oci-calculator-backend/internal/provider"
)

// FileType is a detected billing artifact format.
type FileType string

// Supported file types.
const (
	FileCSV  FileType = "csv"
	FileXLSX FileType = "xlsx"
	FilePDF  FileType = "pdf"
)

// PDFBackend selects the PDF extraction strategy.
type PDFBackend string

// PDF backends. Auto walks the priority ladder: generative-AI extractor,
// then the structured-document service, then text+OCR.
const (
	BackendAuto     PDFBackend = "auto"
	BackendGenAI    PDFBackend = "genai"
	BackendDocument PDFBackend = "document"
	BackendText     PDFBackend = "text"
)

// ErrUnsupportedFileType is returned for content that is neither PDF,
// XLSX, nor a delimited text file.
var ErrUnsupportedFileType = eris.New("parser: unsupported file type")

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04")
)

// Parsed is the outcome of parsing one billing artifact.
type Parsed struct {
	Type       FileType
	Provider   model.Provider
	Items      []model.LineItem
	InvoiceTax *float64
}

// Factory detects file types and routes buffers to the right extractor.
// GenAI and DocService are nil when not configured; Text is always
// available.
type Factory struct {
	GenAI      docai.Extractor
	DocService docai.Extractor
	Text       docai.Extractor
}

// DetectFileType determines the file type from content signature bytes
// first, then the MIME hint, then the file extension, then a last-resort
// delimiter sniff.
func DetectFileType(data []byte, name, mime string) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(name))

	if bytes.HasPrefix(data, pdfMagic) {
		return FilePDF, nil
	}
	if bytes.HasPrefix(data, zipMagic) {
		if ext == ".xlsx" || strings.Contains(mime, "spreadsheet") || strings.Contains(mime, "excel") {
			return FileXLSX, nil
		}
		return "", eris.Wrap(ErrUnsupportedFileType, "zip container without spreadsheet signature")
	}

	switch {
	case strings.Contains(mime, "pdf"):
		return FilePDF, nil
	case strings.Contains(mime, "csv"), strings.Contains(mime, "spreadsheet"), strings.Contains(mime, "excel"):
		if ext == ".xlsx" {
			return FileXLSX, nil
		}
		return FileCSV, nil
	}

	switch ext {
	case ".csv", ".tsv", ".txt":
		return FileCSV, nil
	case ".xlsx":
		return FileXLSX, nil
	case ".pdf":
		return FilePDF, nil
	}

	// Last resort: delimited text content.
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	if bytes.ContainsAny(head, ",;\t") {
		return FileCSV, nil
	}

	return "", ErrUnsupportedFileType
}

// ParsePDFBackend validates a backend name from a flag or config value.
// Empty selects auto; anything else unrecognized is a configuration
// error, never silently treated as auto.
func ParsePDFBackend(s string) (PDFBackend, error) {
	switch b := PDFBackend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendGenAI, BackendDocument, BackendText:
		return b, nil
	default:
		return "", eris.Errorf("parser: unknown pdf backend %q; expected auto, genai, document, or text", s)
	}
}

// Parse detects the type of the buffer and extracts canonical line items
// plus a best-guess source provider tag.
func (f *Factory) Parse(ctx context.Context, data []byte, name, mime string, backend PDFBackend) (*Parsed, error) {
	fileType, err := DetectFileType(data, name, mime)
	if err != nil {
		return nil, err
	}

	switch fileType {
	case FileCSV:
		rows, err := ParseCSV(data)
		if err != nil {
			return nil, err
		}
		return f.fromRows(FileCSV, name, rows), nil

	case FileXLSX:
		rows, err := ParseXLSX(data)
		if err != nil {
			return nil, err
		}
		return f.fromRows(FileXLSX, name, rows), nil

	case FilePDF:
		return f.parsePDF(ctx, data, name, backend)
	}

	return nil, ErrUnsupportedFileType
}

func (f *Factory) fromRows(fileType FileType, name string, rows []model.RawRow) *Parsed {
	parsed := &Parsed{Type: fileType}

	parsed.Provider = provider.FromFileName(name)
	if parsed.Provider == model.ProviderUnknown && len(rows) > 0 {
		parsed.Provider = provider.FromColumns(rows[0].Columns)
	}

	for _, row := range rows {
		parsed.Items = append(parsed.Items, ItemFromRow(row))
	}
	return parsed
}

func (f *Factory) parsePDF(ctx context.Context, data []byte, name string, backend PDFBackend) (*Parsed, error) {
	doc, err := f.extractPDF(ctx, data, backend)
	if err != nil {
		return nil, err
	}

	parsed := &Parsed{Type: FilePDF, InvoiceTax: doc.TaxTotal}

	var items []model.LineItem
	if len(doc.Tables) > 0 || doc.Total != nil || doc.Vendor != "" {
		items = docai.MapLineItems(doc)
	} else {
		items = HeuristicItems(doc.Text)
	}
	parsed.Items = items

	parsed.Provider = provider.FromFileName(name)
	if parsed.Provider == model.ProviderUnknown {
		parsed.Provider = provider.FromText(doc.Vendor + " " + doc.Text)
	}
	return parsed, nil
}

// extractPDF arbitrates between the configured PDF backends. An explicit
// backend request that is not configured fails fast; auto mode walks the
// priority ladder with isolated failure handling per strategy.
func (f *Factory) extractPDF(ctx context.Context, data []byte, backend PDFBackend) (*docai.Document, error) {
	switch backend {
	case BackendGenAI:
		if f.GenAI == nil {
			return nil, eris.New("parser: genai backend requested but no API key is configured; set docai.anthropic_key")
		}
		return f.GenAI.Extract(ctx, data)
	case BackendDocument:
		if f.DocService == nil {
			return nil, eris.New("parser: document backend requested but no endpoint is configured; set docai.endpoint and docai.key")
		}
		return f.DocService.Extract(ctx, data)
	case BackendText:
		return f.Text.Extract(ctx, data)
	case BackendAuto, "":
		// Arbitrated below.
	default:
		return nil, eris.Errorf("parser: unknown pdf backend %q; expected auto, genai, document, or text", backend)
	}

	// Auto: try each available strategy in priority order.
	strategies := []struct {
		name string
		ext  docai.Extractor
	}{
		{"genai", f.GenAI},
		{"document", f.DocService},
		{"text", f.Text},
	}

	var lastErr error
	for _, s := range strategies {
		if s.ext == nil {
			continue
		}
		doc, err := s.ext.Extract(ctx, data)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		zap.L().Warn("parser: pdf backend failed, trying next",
			zap.String("backend", s.name), zap.Error(err))
	}
	if lastErr == nil {
		lastErr = eris.New("parser: no pdf backend available")
	}
	return nil, lastErr
}
