// Package gemini wraps the Gemini generation API behind a small interface
// so callers (and tests) never touch the SDK directly. Each Generate call
// is one synchronous round trip: no retries, no caching, no streaming.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/spendwise-app/spendwise/internal/apperrors"
)

// DefaultTimeout bounds a single generation round trip. Deadline expiry is
// reported as an upstream error.
const DefaultTimeout = 30 * time.Second

// Generator produces one text completion for a prompt. Implementations are
// treated as a pure function from request to payload-or-failure, which is
// what makes the stochastic boundary mockable.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Client is the Gemini-backed Generator.
type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates a client for the given model. An empty apiKey is not an
// error here; it is reported as Misconfigured on first use so the hosting
// process can start (and stay interactive) without credentials.
func NewClient(apiKey, model string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		log:     log,
	}
}

// Generate sends the prompt and returns the first candidate's text. The
// generation config requests JSON-typed output; temperature is per call
// (low for extraction, moderate for insights).
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	if c.apiKey == "" {
		return "", apperrors.WithMessage(apperrors.ErrMisconfigured,
			"GEMINI_API_KEY is not configured. Set it in the environment or .env file")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrUpstream, fmt.Errorf("create genai client: %w", err))
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		c.log.Warn().Err(err).Str("model", c.model).Msg("Generation call failed")
		return "", mapAPIError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", apperrors.WithMessage(apperrors.ErrEmptyResponse, "No response from Gemini API")
	}

	c.log.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Int("response_bytes", len(text)).
		Msg("Generation call completed")

	return text, nil
}

// mapAPIError converts SDK and transport errors into the taxonomy. Upstream
// messages are forwarded so the caller sees what the service actually said.
func mapAPIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.WithMessage(apperrors.ErrUpstream, "Gemini API call timed out")
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 400:
			return apperrors.WithMessage(apperrors.ErrBadRequest,
				"Gemini API: invalid request. Check your API key and request format")
		case 401, 403:
			return apperrors.WithMessage(apperrors.ErrUnauthorized,
				"Gemini API: invalid or missing API key. Check GEMINI_API_KEY; get a key at https://aistudio.google.com/app/apikey")
		case 429:
			return apperrors.WithMessage(apperrors.ErrRateLimited,
				"Gemini API: rate limit exceeded. Please try again later")
		default:
			return apperrors.WithMessage(apperrors.ErrUpstream,
				fmt.Sprintf("Gemini API error: %s", apiErr.Message))
		}
	}

	return apperrors.Wrap(apperrors.ErrUpstream, err)
}

var _ Generator = (*Client)(nil)
