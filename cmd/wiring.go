package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/satoshitrading/oci-calculator-backend/internal/docai"
	"github.com/satoshitrading/oci-calculator-backend/internal/ingest"
	"github.com/satoshitrading/oci-calculator-backend/internal/ocr"
	"github.com/satoshitrading/oci-calculator-backend/internal/parser"
	"github.com/satoshitrading/oci-calculator-backend/internal/pricing"
	"github.com/satoshitrading/oci-calculator-backend/internal/store"
)

// initStore opens the configured store backend and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// initFactory assembles the parser factory from the configured PDF
// backends. The local text+OCR path is always available; the remote
// extractors are wired only when their credentials are set.
func initFactory() *parser.Factory {
	f := &parser.Factory{
		Text: parser.NewPDFTextExtractor(
			ocr.NewPdfToText(cfg.OCR.PdfToTextPath),
			ocr.NewPdfToPpm(cfg.OCR.PdfToPpmPath),
			ocr.NewTesseract(cfg.OCR.TesseractPath, cfg.OCR.Langs),
		),
	}
	if cfg.DocAI.AnthropicKey != "" {
		f.GenAI = docai.NewGenAIExtractor(cfg.DocAI.AnthropicKey, cfg.DocAI.AnthropicModel)
	}
	if cfg.DocAI.Endpoint != "" {
		f.DocService = docai.NewDocumentService(cfg.DocAI.Endpoint, cfg.DocAI.Key)
	}
	return f
}

func initIngest(st store.Store) *ingest.Service {
	return ingest.NewService(st, initFactory())
}

// initPriceChain builds the target-price lookup chain: live price list
// first, embedded catalog rates as the terminal fallback.
func initPriceChain() *pricing.Chain {
	return pricing.NewChain(
		pricing.NewPriceList(cfg.Pricing.BaseURL),
		pricing.CatalogFallback{},
	)
}

// printJSON writes an indented JSON rendering of v, the output format
// shared by all commands.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
