package parser

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshitrading/oci-calculator-backend/internal/docai"
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

type fakeExtractor struct {
	doc *docai.Document
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte) (*docai.Document, error) {
	return f.doc, f.err
}

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		file    string
		mime    string
		want    FileType
		wantErr bool
	}{
		{"pdf magic bytes", []byte("%PDF-1.7 ..."), "anything.bin", "", FilePDF, false},
		{"zip with xlsx extension", []byte("PK\x03\x04rest"), "usage.xlsx", "", FileXLSX, false},
		{"zip with spreadsheet mime", []byte("PK\x03\x04rest"), "usage", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FileXLSX, false},
		{"zip without spreadsheet hint", []byte("PK\x03\x04rest"), "archive.zip", "application/zip", "", true},
		{"mime pdf", []byte("no signature"), "doc", "application/pdf", FilePDF, false},
		{"mime csv", []byte("a,b\n1,2"), "doc", "text/csv", FileCSV, false},
		{"extension csv", []byte("a;b\n1;2"), "export.csv", "", FileCSV, false},
		{"content sniff delimiters", []byte("x,y,z\n1,2,3"), "mystery", "", FileCSV, false},
		{"unsupported", []byte("plain prose without structure"), "mystery", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DetectFileType(tt.data, tt.file, tt.mime)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, eris.Is(err, ErrUnsupportedFileType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCSVEndToEnd(t *testing.T) {
	t.Parallel()

	data := []byte("lineItem/UsageType,lineItem/UsageAmount,lineItem/UnblendedCost,lineItem/CurrencyCode\n" +
		"BoxUsage:m5.xlarge,100,50,USD\n")

	f := &Factory{Text: &fakeExtractor{doc: &docai.Document{}}}
	parsed, err := f.Parse(context.Background(), data, "cur-2025-12.csv", "text/csv", BackendAuto)
	require.NoError(t, err)

	assert.Equal(t, FileCSV, parsed.Type)
	assert.Equal(t, model.ProviderAWS, parsed.Provider)
	require.Len(t, parsed.Items, 1)

	item := parsed.Items[0]
	assert.Equal(t, "BoxUsage:m5.xlarge", item.ProductCode)
	require.NotNil(t, item.Quantity)
	assert.InDelta(t, 100, *item.Quantity, 0.001)
	require.NotNil(t, item.Cost)
	assert.InDelta(t, 50, *item.Cost, 0.001)
	assert.Equal(t, "USD", item.Currency)
}

func TestExtractPDFExplicitBackendFailsFast(t *testing.T) {
	t.Parallel()

	f := &Factory{Text: &fakeExtractor{doc: &docai.Document{Text: "hello"}}}

	_, err := f.extractPDF(context.Background(), []byte("%PDF"), BackendGenAI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configured")

	_, err = f.extractPDF(context.Background(), []byte("%PDF"), BackendDocument)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configured")
}

func TestExtractPDFUnknownBackendRejected(t *testing.T) {
	t.Parallel()

	f := &Factory{Text: &fakeExtractor{doc: &docai.Document{Text: "hello"}}}

	// A typo must not silently fall back to auto arbitration.
	_, err := f.extractPDF(context.Background(), []byte("%PDF"), PDFBackend("genal"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pdf backend")
}

func TestParsePDFBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    PDFBackend
		wantErr bool
	}{
		{"", BackendAuto, false},
		{"auto", BackendAuto, false},
		{"genai", BackendGenAI, false},
		{"document", BackendDocument, false},
		{"text", BackendText, false},
		{" Text ", BackendText, false},
		{"genal", "", true},
		{"ocr", "", true},
	}
	for _, tt := range tests {
		t.Run("backend "+tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePDFBackend(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPDFAutoFallsThroughFailures(t *testing.T) {
	t.Parallel()

	f := &Factory{
		GenAI:      &fakeExtractor{err: eris.New("model overloaded")},
		DocService: &fakeExtractor{err: eris.New("service quota exceeded")},
		Text:       &fakeExtractor{doc: &docai.Document{Text: "Compute usage 42.00"}},
	}

	doc, err := f.extractPDF(context.Background(), []byte("%PDF"), BackendAuto)
	require.NoError(t, err)
	assert.Equal(t, "Compute usage 42.00", doc.Text)
}

func TestExtractPDFAutoPrefersGenAI(t *testing.T) {
	t.Parallel()

	f := &Factory{
		GenAI:      &fakeExtractor{doc: &docai.Document{Vendor: "genai"}},
		DocService: &fakeExtractor{doc: &docai.Document{Vendor: "document"}},
		Text:       &fakeExtractor{doc: &docai.Document{Text: "text"}},
	}

	doc, err := f.extractPDF(context.Background(), []byte("%PDF"), BackendAuto)
	require.NoError(t, err)
	assert.Equal(t, "genai", doc.Vendor)
}
