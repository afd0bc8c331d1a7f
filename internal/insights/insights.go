// Package insights produces short natural-language observations about
// spending behavior. It is a soft feature: failures are reported to the
// caller for display, never escalated, and nothing here is persisted.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/gemini"
	"github.com/spendwise-app/spendwise/internal/model"
	"github.com/spendwise-app/spendwise/internal/stats"
)

// insightsTemperature trades a little fidelity for variety; the same data
// may legitimately yield different observations across calls.
const insightsTemperature = 0.7

// Insight is one narrative observation plus recommendation.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// digest is the compact statistical context embedded in the prompt instead
// of raw transactions, to bound prompt size.
type digest struct {
	TotalSpent  float64
	Count       int
	TopCategory model.Category
	TopAmount   float64
	ByCategory  map[model.Category]float64
}

// Summarizer aggregates the current record set and asks the generation
// service for 3-4 insights.
type Summarizer struct {
	gen gemini.Generator
	log zerolog.Logger
}

// NewSummarizer creates a summarizer on top of a generator.
func NewSummarizer(gen gemini.Generator, log zerolog.Logger) *Summarizer {
	return &Summarizer{gen: gen, log: log}
}

// Summarize computes the spending digest and returns validated insights.
// An empty record set fails fast with NoData before any network call.
func (s *Summarizer) Summarize(ctx context.Context, txns []model.Transaction) ([]Insight, error) {
	if len(txns) == 0 {
		return nil, apperrors.ErrNoData
	}

	d := buildDigest(txns)
	raw, err := s.gen.Generate(ctx, buildPrompt(d), insightsTemperature)
	if err != nil {
		return nil, err
	}

	parsed, err := parseInsights(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("Insight output failed validation")
		return nil, err
	}

	s.log.Info().Int("insights", len(parsed)).Msg("Generated spending insights")
	return parsed, nil
}

func buildDigest(txns []model.Transaction) digest {
	byCategory := stats.SpendingByCategory(txns)
	top, topAmount, _ := stats.TopCategory(byCategory)
	return digest{
		TotalSpent:  stats.TotalSpending(txns, model.TypeDebit),
		Count:       len(txns),
		TopCategory: top,
		TopAmount:   topAmount,
		ByCategory:  byCategory,
	}
}

func buildPrompt(d digest) string {
	// json.Marshal sorts map keys, so the breakdown renders deterministically.
	breakdown, _ := json.Marshal(d.ByCategory)

	topCategory := "N/A"
	if d.TopCategory != "" {
		topCategory = string(d.TopCategory)
	}

	var b strings.Builder
	b.WriteString("You are a financial advisor analyzing spending patterns. Generate 3-4 personalized insights and recommendations.\n\n")
	b.WriteString("Return a JSON object with an \"insights\" array. Each insight should have:\n")
	b.WriteString("- title (string): Brief insight title\n")
	b.WriteString("- description (string): 2-3 sentence explanation with actionable advice\n\n")
	b.WriteString("Analyze this spending data and provide insights:\n\n")
	fmt.Fprintf(&b, "Total Spent: ₹%.2f\n", d.TotalSpent)
	fmt.Fprintf(&b, "Number of Transactions: %d\n", d.Count)
	fmt.Fprintf(&b, "Top Spending Category: %s (₹%.2f)\n", topCategory, d.TopAmount)
	fmt.Fprintf(&b, "Category Breakdown: %s\n\n", breakdown)
	b.WriteString("Provide actionable insights about:\n")
	b.WriteString("1. Spending patterns and trends\n")
	b.WriteString("2. Areas where they could save money\n")
	b.WriteString("3. Budget recommendations\n")
	b.WriteString("4. Positive spending habits to maintain\n")
	return b.String()
}

// parseInsights applies minimal validation: an insights array whose entries
// carry non-empty title and description.
func parseInsights(raw string) ([]Insight, error) {
	clean := gemini.CleanJSON(raw)

	var parsed struct {
		Insights []Insight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation,
				fmt.Sprintf("field %q has unexpected type", typeErr.Field))
		}
		return nil, apperrors.Wrap(apperrors.ErrMalformedJSON, fmt.Errorf("unmarshal insight output: %w", err))
	}

	if len(parsed.Insights) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation, "missing or empty 'insights' array in model output")
	}
	for i, in := range parsed.Insights {
		if strings.TrimSpace(in.Title) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation,
				fmt.Sprintf("insight %d: required field \"title\" is empty", i))
		}
		if strings.TrimSpace(in.Description) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation,
				fmt.Sprintf("insight %d: required field \"description\" is empty", i))
		}
	}
	return parsed.Insights, nil
}
