package insights

import (
	"context"
	"strings"
	"testing"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/gemini"
	"github.com/spendwise-app/spendwise/internal/logger"
	"github.com/spendwise-app/spendwise/internal/model"
)

// mockGenerator is a test double for the generation boundary.
type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, temperature float32) (string, error)
	calls        int
	lastPrompt   string
	lastTemp     float32
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastTemp = temperature
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, temperature)
	}
	return validInsightsJSON, nil
}

var _ gemini.Generator = (*mockGenerator)(nil)

const validInsightsJSON = `{
	"insights": [
		{"title": "Food dominates", "description": "Most of your spending is on food. Consider meal planning. Small changes add up."},
		{"title": "Transport is lean", "description": "Transport spend is modest. Keep using the options you use today. No action needed."},
		{"title": "Build a buffer", "description": "Set aside a fixed amount monthly. Automate the transfer. Review quarterly."}
	]
}`

func debitTxn(amount float64, category model.Category) model.Transaction {
	return model.New(model.ProtoTransaction{
		Amount:   amount,
		Type:     model.TypeDebit,
		Merchant: "M",
		Date:     "2025-01-01",
		Category: category,
	})
}

func TestSummarizeNoData(t *testing.T) {
	gen := &mockGenerator{}
	s := NewSummarizer(gen, logger.NewWithWriter(nil))

	_, err := s.Summarize(context.Background(), nil)
	if !apperrors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("error = %v, want NO_DATA", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for empty input, want 0", gen.calls)
	}
}

func TestSummarizePromptEmbedsDigest(t *testing.T) {
	txns := []model.Transaction{
		debitTxn(100, model.CategoryFood),
		debitTxn(50, model.CategoryTransport),
	}
	gen := &mockGenerator{}
	s := NewSummarizer(gen, logger.NewWithWriter(nil))

	result, err := s.Summarize(context.Background(), txns)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("got %d insights, want 3", len(result))
	}

	if gen.lastTemp != insightsTemperature {
		t.Errorf("temperature = %v, want %v", gen.lastTemp, insightsTemperature)
	}
	for _, fragment := range []string{
		"Total Spent: ₹150.00",
		"Number of Transactions: 2",
		"Top Spending Category: food (₹100.00)",
		`"food":100`,
		`"transport":50`,
	} {
		if !strings.Contains(gen.lastPrompt, fragment) {
			t.Errorf("prompt does not contain %q\nprompt: %s", fragment, gen.lastPrompt)
		}
	}
}

func TestBuildDigestTieBreaksLexicographically(t *testing.T) {
	// Equal totals: "entertainment" < "food" < "transport".
	txns := []model.Transaction{
		debitTxn(75, model.CategoryTransport),
		debitTxn(75, model.CategoryFood),
		debitTxn(75, model.CategoryEntertainment),
	}

	d := buildDigest(txns)
	if d.TopCategory != model.CategoryEntertainment {
		t.Errorf("top category = %q, want entertainment", d.TopCategory)
	}
	if d.TopAmount != 75 {
		t.Errorf("top amount = %v, want 75", d.TopAmount)
	}
}

func TestBuildDigestIgnoresCredits(t *testing.T) {
	txns := []model.Transaction{
		debitTxn(100, model.CategoryFood),
		model.New(model.ProtoTransaction{
			Amount:   900,
			Type:     model.TypeCredit,
			Merchant: "PAYROLL",
			Date:     "2025-01-01",
			Category: model.CategoryTransfer,
		}),
	}

	d := buildDigest(txns)
	if d.TotalSpent != 100 {
		t.Errorf("total spent = %v, want 100 (credits excluded)", d.TotalSpent)
	}
	if d.Count != 2 {
		t.Errorf("count = %d, want 2 (count covers all records)", d.Count)
	}
}

func TestParseInsightsRejects(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		sentinel *apperrors.AppError
	}{
		{"not JSON", "no insights today", apperrors.ErrMalformedJSON},
		{"missing insights key", `{"observations": []}`, apperrors.ErrSchemaViolation},
		{"empty insights array", `{"insights": []}`, apperrors.ErrSchemaViolation},
		{"insights not an array", `{"insights": "lots"}`, apperrors.ErrSchemaViolation},
		{"empty title", `{"insights": [{"title": "", "description": "d"}]}`, apperrors.ErrSchemaViolation},
		{"missing description", `{"insights": [{"title": "t"}]}`, apperrors.ErrSchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInsights(tt.raw)
			if !apperrors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want code %s", err, tt.sentinel.Code)
			}
		})
	}
}

func TestParseInsightsFencedOutput(t *testing.T) {
	fenced := "```json\n" + validInsightsJSON + "\n```"
	result, err := parseInsights(fenced)
	if err != nil {
		t.Fatalf("parseInsights failed on fenced output: %v", err)
	}
	if len(result) != 3 || result[0].Title != "Food dominates" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
