package docai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const genAIPrompt = `You are given a cloud provider invoice (PDF). It may be
written in English or Brazilian Portuguese. Return ONLY a JSON object with
this shape, no prose:
{
  "invoice_id": "", "account_id": "", "vendor": "", "currency": "",
  "tax_total": "", "total": "", "billing_period": "",
  "tables": [{"headers": [""], "rows": [[""]]}]
}
Copy table cell values verbatim, including their original number formatting.
Use "" for anything absent.`

// GenAIExtractor extracts invoices with a multimodal Claude model.
type GenAIExtractor struct {
	client sdk.Client
	model  string
}

// NewGenAIExtractor creates a GenAIExtractor.
func NewGenAIExtractor(apiKey, model string) *GenAIExtractor {
	return &GenAIExtractor{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

type genAIDocument struct {
	InvoiceID     string `json:"invoice_id"`
	AccountID     string `json:"account_id"`
	Vendor        string `json:"vendor"`
	Currency      string `json:"currency"`
	TaxTotal      string `json:"tax_total"`
	Total         string `json:"total"`
	BillingPeriod string `json:"billing_period"`
	Tables        []struct {
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	} `json:"tables"`
}

// Extract sends the PDF to the model and maps its JSON answer onto the
// backend-independent Document shape.
func (g *GenAIExtractor) Extract(ctx context.Context, pdf []byte) (*Document, error) {
	encoded := base64.StdEncoding.EncodeToString(pdf)

	msg, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: 8192,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewDocumentBlock(sdk.Base64PDFSourceParam{Data: encoded}),
				sdk.NewTextBlock(genAIPrompt),
			),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "docai: genai extraction call")
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}

	payload := extractJSON(text.String())
	var parsed genAIDocument
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, eris.Wrap(err, "docai: unmarshal genai answer")
	}

	zap.L().Debug("docai: genai extraction complete",
		zap.Int("tables", len(parsed.Tables)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	doc := &Document{
		InvoiceID: parsed.InvoiceID,
		AccountID: parsed.AccountID,
		Vendor:    parsed.Vendor,
		Currency:  strings.ToUpper(strings.TrimSpace(parsed.Currency)),
		TaxTotal:  ParseNumber(parsed.TaxTotal),
		Total:     ParseNumber(parsed.Total),
	}
	doc.PeriodStart, doc.PeriodEnd = ParsePeriod(parsed.BillingPeriod)
	for _, t := range parsed.Tables {
		doc.Tables = append(doc.Tables, Table{Headers: t.Headers, Rows: t.Rows})
	}
	return doc, nil
}

// extractJSON pulls the outermost JSON object out of a model answer that
// may be wrapped in code fences or prose.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
