// Package extract turns raw bank SMS text into validated proto-records via
// the external generation service. It is the contract between free-form SMS
// text, the prompt/response protocol, and the records downstream
// aggregation depends on.
package extract

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/gemini"
	"github.com/spendwise-app/spendwise/internal/model"
)

// Service runs the extraction round trip: prompt, generate, validate.
type Service struct {
	gen gemini.Generator
	log zerolog.Logger
}

// NewService creates an extraction service on top of a generator.
func NewService(gen gemini.Generator, log zerolog.Logger) *Service {
	return &Service{gen: gen, log: log}
}

// Extract parses one or more concatenated SMS messages into proto-records.
// Input must be non-empty; anything the model returns that does not satisfy
// the record schema rejects the whole batch.
func (s *Service) Extract(ctx context.Context, smsText string) ([]model.ProtoTransaction, error) {
	if strings.TrimSpace(smsText) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "SMS text is required")
	}

	raw, err := s.gen.Generate(ctx, buildPrompt(smsText), extractionTemperature)
	if err != nil {
		return nil, err
	}

	protos, err := ParseTransactions(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("Model output failed validation")
		return nil, err
	}

	s.log.Info().Int("transactions", len(protos)).Msg("Extracted transactions from SMS text")
	return protos, nil
}
