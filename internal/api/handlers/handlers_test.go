package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/extract"
	"github.com/spendwise-app/spendwise/internal/gemini"
	"github.com/spendwise-app/spendwise/internal/insights"
	"github.com/spendwise-app/spendwise/internal/logger"
	"github.com/spendwise-app/spendwise/internal/model"
	"github.com/spendwise-app/spendwise/internal/store"
)

// mockGenerator is a test double for the generation boundary.
type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, temperature float32) (string, error)
	calls        int
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	m.calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, temperature)
	}
	return "", fmt.Errorf("unexpected call")
}

var _ gemini.Generator = (*mockGenerator)(nil)

const extractionJSON = `{"transactions": [{"amount": 500.00, "type": "debit", "merchant": "AMAZON", "date": "2025-01-01", "accountNumber": "1234", "balance": 5000.00, "category": "shopping"}]}`

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func postJSON(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var b errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func newExtractHandler(gen gemini.Generator, st store.Store, notifier *store.Notifier) *ExtractHandler {
	log := logger.NewWithWriter(nil)
	return NewExtractHandler(extract.NewService(gen, log), st, notifier, log)
}

func TestExtractHandlerHappyPath(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(context.Context, string, float32) (string, error) {
			return extractionJSON, nil
		},
	}
	st := store.NewMemoryStore()
	notifier := store.NewNotifier()
	signal, cancel := notifier.Subscribe()
	defer cancel()

	h := newExtractHandler(gen, st, notifier)

	rec := httptest.NewRecorder()
	h.Extract(rec, postJSON(t, `{"smsText": "Your A/c XX1234 debited with Rs.500.00 on 01-Jan-25 at AMAZON. Avl Bal: Rs.5000.00"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 1)
	assert.NotEmpty(t, resp.Transactions[0].ID)
	assert.NotEmpty(t, resp.Transactions[0].CreatedAt)
	assert.Equal(t, "AMAZON", resp.Transactions[0].Merchant)

	stored, err := st.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, resp.Transactions[0].ID, stored[0].ID)

	select {
	case <-signal:
	default:
		t.Error("store mutation did not notify subscribers")
	}
}

func TestExtractHandlerInvalidBody(t *testing.T) {
	h := newExtractHandler(&mockGenerator{}, store.NewMemoryStore(), store.NewNotifier())

	rec := httptest.NewRecorder()
	h.Extract(rec, postJSON(t, `{"smsText": `))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractHandlerEmptySMSText(t *testing.T) {
	gen := &mockGenerator{}
	h := newExtractHandler(gen, store.NewMemoryStore(), store.NewNotifier())

	rec := httptest.NewRecorder()
	h.Extract(rec, postJSON(t, `{"smsText": ""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Error.Code)
	assert.Zero(t, gen.calls, "no generation call for invalid input")
}

func TestExtractHandlerMissingKey(t *testing.T) {
	// A real client with no key reports Misconfigured before any network I/O.
	log := logger.NewWithWriter(nil)
	gen := gemini.NewClient("", "gemini-2.0-flash-exp", 0, log)
	st := store.NewMemoryStore()
	h := newExtractHandler(gen, st, store.NewNotifier())

	rec := httptest.NewRecorder()
	h.Extract(rec, postJSON(t, `{"smsText": "some sms"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "MISCONFIGURED", decodeError(t, rec).Error.Code)

	stored, err := st.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestExtractHandlerUpstreamFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperrors.AppError
		wantStatus int
	}{
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"rate limited", apperrors.ErrRateLimited, http.StatusTooManyRequests},
		{"bad request", apperrors.ErrBadRequest, http.StatusBadRequest},
		{"empty response", apperrors.ErrEmptyResponse, http.StatusBadGateway},
		{"upstream error", apperrors.ErrUpstream, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{
				GenerateFunc: func(context.Context, string, float32) (string, error) {
					return "", tt.err
				},
			}
			st := store.NewMemoryStore()
			h := newExtractHandler(gen, st, store.NewNotifier())

			rec := httptest.NewRecorder()
			h.Extract(rec, postJSON(t, `{"smsText": "some sms"}`))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.err.Code, decodeError(t, rec).Error.Code)

			stored, err := st.GetAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, stored, "failed extraction must persist nothing")
		})
	}
}

func TestExtractHandlerSchemaViolationPersistsNothing(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(context.Context, string, float32) (string, error) {
			return `{"transactions": [{"amount": 5, "type": "debit", "merchant": "M", "date": "2025-01-01", "category": "snacks"}]}`, nil
		},
	}
	st := store.NewMemoryStore()
	h := newExtractHandler(gen, st, store.NewNotifier())

	rec := httptest.NewRecorder()
	h.Extract(rec, postJSON(t, `{"smsText": "some sms"}`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "SCHEMA_VIOLATION", decodeError(t, rec).Error.Code)

	stored, err := st.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestInsightsHandler(t *testing.T) {
	insightsJSON := `{"insights": [
		{"title": "t1", "description": "d1"},
		{"title": "t2", "description": "d2"},
		{"title": "t3", "description": "d3"}
	]}`
	gen := &mockGenerator{
		GenerateFunc: func(context.Context, string, float32) (string, error) {
			return insightsJSON, nil
		},
	}
	log := logger.NewWithWriter(nil)
	h := NewInsightsHandler(insights.NewSummarizer(gen, log), log)

	body, err := json.Marshal(map[string]interface{}{
		"transactions": model.NewBatch([]model.ProtoTransaction{{
			Amount:   100,
			Type:     model.TypeDebit,
			Merchant: "M",
			Date:     "2025-01-01",
			Category: model.CategoryFood,
		}}),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Summarize(rec, postJSON(t, string(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Insights []insights.Insight `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Insights, 3)
}

func TestInsightsHandlerNoData(t *testing.T) {
	gen := &mockGenerator{}
	log := logger.NewWithWriter(nil)
	h := NewInsightsHandler(insights.NewSummarizer(gen, log), log)

	rec := httptest.NewRecorder()
	h.Summarize(rec, postJSON(t, `{"transactions": []}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NO_DATA", decodeError(t, rec).Error.Code)
	assert.Zero(t, gen.calls, "no generation call for an empty list")
}

func TestInsightsHandlerMissingArray(t *testing.T) {
	gen := &mockGenerator{}
	log := logger.NewWithWriter(nil)
	h := NewInsightsHandler(insights.NewSummarizer(gen, log), log)

	rec := httptest.NewRecorder()
	h.Summarize(rec, postJSON(t, `{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, gen.calls)
}

func TestTransactionsHandlerListAndDelete(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	notifier := store.NewNotifier()
	log := logger.NewWithWriter(nil)
	h := NewTransactionsHandler(st, notifier, log)

	records, err := st.Add(ctx, []model.ProtoTransaction{
		{Amount: 100, Type: model.TypeDebit, Merchant: "A", Date: "2025-01-01", Category: model.CategoryFood},
		{Amount: 50, Type: model.TypeDebit, Merchant: "B", Date: "2025-01-02", Category: model.CategoryTransport},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Transactions []model.Transaction `json:"transactions"`
		Count        int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 2, listResp.Count)
	assert.Equal(t, records[0].ID, listResp.Transactions[0].ID)

	rec = httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/transactions/"+records[0].ID, nil), records[0].ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	remaining, err := st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, records[1].ID, remaining[0].ID)
}

func TestTransactionsHandlerDeleteNotFound(t *testing.T) {
	log := logger.NewWithWriter(nil)
	h := NewTransactionsHandler(store.NewMemoryStore(), store.NewNotifier(), log)

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/transactions/nope", nil), "nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TRANSACTION_NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestTransactionsHandlerClear(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	log := logger.NewWithWriter(nil)
	h := NewTransactionsHandler(st, store.NewNotifier(), log)

	_, err := st.Add(ctx, []model.ProtoTransaction{
		{Amount: 100, Type: model.TypeDebit, Merchant: "A", Date: "2025-01-01", Category: model.CategoryFood},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/transactions", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	remaining, err := st.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestStatsHandler(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	log := logger.NewWithWriter(nil)
	h := NewStatsHandler(st, log)

	_, err := st.Add(ctx, []model.ProtoTransaction{
		{Amount: 100, Type: model.TypeDebit, Merchant: "A", Date: "2025-01-01", Category: model.CategoryFood},
		{Amount: 50, Type: model.TypeDebit, Merchant: "B", Date: "2025-01-15", Category: model.CategoryTransport},
		{Amount: 900, Type: model.TypeCredit, Merchant: "C", Date: "2025-01-20", Category: model.CategoryTransfer},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count         int                `json:"count"`
		TotalSpent    float64            `json:"totalSpent"`
		TotalCredited float64            `json:"totalCredited"`
		ByCategory    map[string]float64 `json:"byCategory"`
		ByMonth       map[string]float64 `json:"byMonth"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, 150.0, resp.TotalSpent)
	assert.Equal(t, 900.0, resp.TotalCredited)
	assert.Equal(t, map[string]float64{"food": 100, "transport": 50}, resp.ByCategory)
	assert.Equal(t, map[string]float64{"2025-01": 150}, resp.ByMonth)
}
