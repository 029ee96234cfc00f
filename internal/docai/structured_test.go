package docai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentServiceExtract(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req struct {
			Document    string `json:"document"`
			ContentType string `json:"content_type"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "application/pdf", req.ContentType)
		assert.NotEmpty(t, req.Document)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"key_values": []map[string]any{
				{"key": "Invoice Number", "value": "INV-42", "confidence": 0.95},
				{"key": "Valor Total", "value": "R$ 1.234,56", "confidence": 0.9},
				{"key": "Moeda", "value": "brl", "confidence": 0.9},
				{"key": "Vendor", "value": "Bogus Corp", "confidence": 0.1},
			},
			"tables": []map[string]any{
				{
					"headers": []string{"Descrição", "Valor"},
					"rows":    [][]string{{"Amazon EC2", "1.000,00"}},
				},
			},
			"text": "fatura mensal",
		})
	}))
	defer srv.Close()

	doc, err := NewDocumentService(srv.URL, "secret").Extract(context.Background(), []byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "INV-42", doc.InvoiceID)
	require.NotNil(t, doc.Total)
	assert.InDelta(t, 1234.56, *doc.Total, 1e-9)
	assert.Equal(t, "BRL", doc.Currency)
	// Below the confidence gate, so the vendor pair is ignored.
	assert.Empty(t, doc.Vendor)

	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "fatura mensal", doc.Text)

	items := MapLineItems(doc)
	require.Len(t, items, 1)
	assert.Equal(t, "Amazon EC2", items[0].ProductName)
	require.NotNil(t, items[0].Cost)
	assert.InDelta(t, 1000.0, *items[0].Cost, 1e-9)
	assert.Equal(t, "BRL", items[0].Currency)
}

func TestDocumentServiceExtractRetriesThrottling(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewDocumentService(srv.URL, "secret")
	svc.retry.BaseDelay = time.Millisecond
	svc.retry.OnRetry = nil

	_, err := svc.Extract(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(3), hits.Load())
}

func TestDocumentServiceExtractPermanentErrorNoRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := NewDocumentService(srv.URL, "secret")
	svc.retry.BaseDelay = time.Millisecond

	_, err := svc.Extract(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), hits.Load())
}
