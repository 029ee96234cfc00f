package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/satoshitrading/oci-calculator-backend/internal/resilience"
)

// DocumentService extracts invoices through a general-purpose structured
// document analysis API (prebuilt invoice model: key-value pairs plus
// detected tables). Throttled or failing calls are retried.
type DocumentService struct {
	endpoint string
	apiKey   string
	client   *http.Client
	retry    resilience.RetryConfig
}

// NewDocumentService creates a DocumentService client.
func NewDocumentService(endpoint, apiKey string) *DocumentService {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("doc-analysis", "analyze")
	return &DocumentService{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		retry: retry,
	}
}

type analyzeRequest struct {
	Document    string `json:"document"`
	ContentType string `json:"content_type"`
}

type analyzeResponse struct {
	KeyValues []struct {
		Key        string  `json:"key"`
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"key_values"`
	Tables []struct {
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	} `json:"tables"`
	Text string `json:"text"`
}

// Extract sends the PDF to the analysis API and maps the response onto the
// backend-independent Document shape.
func (s *DocumentService) Extract(ctx context.Context, pdf []byte) (*Document, error) {
	reqBody, err := json.Marshal(analyzeRequest{
		Document:    base64.StdEncoding.EncodeToString(pdf),
		ContentType: "application/pdf",
	})
	if err != nil {
		return nil, eris.Wrap(err, "docai: marshal analyze request")
	}

	parsed, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (*analyzeResponse, error) {
		return s.analyze(ctx, reqBody)
	})
	if err != nil {
		return nil, err
	}

	doc := &Document{Text: parsed.Text}
	for _, kv := range parsed.KeyValues {
		doc.KeyValues = append(doc.KeyValues, KeyValue{Key: kv.Key, Value: kv.Value, Confidence: kv.Confidence})
	}
	for _, t := range parsed.Tables {
		doc.Tables = append(doc.Tables, Table{Headers: t.Headers, Rows: t.Rows})
	}

	ApplySummary(doc)
	return doc, nil
}

func (s *DocumentService) analyze(ctx context.Context, reqBody []byte) (*analyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, eris.Wrap(err, "docai: create analyze request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "docai: analyze API call")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "docai: read analyze response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("docai: analyze API returned %d: %s", resp.StatusCode, string(respBody))
		return nil, resilience.FromHTTPStatus(err, resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, eris.Wrap(err, "docai: unmarshal analyze response")
	}
	return &parsed, nil
}
