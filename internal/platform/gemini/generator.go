// Package gemini implements the generation.Generator interface on top of
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/nuuray/glow-api/internal/config"
	"github.com/nuuray/glow-api/internal/generation"
)

// Generator calls the Gemini API to produce daily horoscope and content
// text. It performs exactly one upstream call per invocation; failures are
// returned to the caller, never retried here (the jobs record them as
// per-item outcomes).
type Generator struct {
	logger          *slog.Logger
	client          *genai.Client
	model           string
	maxOutputTokens int32
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator from the LLM configuration. The API key
// and model name are required; their absence is a startup error, not a
// per-request one.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxOutputTokens <= 0 {
		return nil, fmt.Errorf("%w: max output tokens must be positive", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:          logger.With(slog.String("component", "gemini_generator")),
		client:          client,
		model:           cfg.ModelName,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

// GenerateHoroscope implements generation.Generator. It sends the rendered
// horoscope prompt with a per-language system instruction.
func (g *Generator) GenerateHoroscope(
	ctx context.Context,
	params generation.HoroscopeParams,
) (*generation.Result, error) {
	prompt := buildHoroscopePrompt(params)
	system := horoscopeSystemInstruction(params.Language)
	return g.generate(ctx, prompt, system)
}

// GenerateDailyContent implements generation.Generator. The content job's
// prompt is self-contained, so no separate system instruction is sent.
func (g *Generator) GenerateDailyContent(
	ctx context.Context,
	params generation.ContentParams,
) (*generation.Result, error) {
	prompt := buildContentPrompt(params)
	return g.generate(ctx, prompt, "")
}

func (g *Generator) generate(ctx context.Context, prompt, system string) (*generation.Result, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxOutputTokens,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, g.mapAPIError(ctx, err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates returned", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, generation.ErrContentBlocked
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	g.logger.DebugContext(ctx, "generation call succeeded",
		slog.String("model", g.model),
		slog.Int("tokens", tokens),
		slog.Int("text_length", len(text)))

	return &generation.Result{
		Text:   text,
		Tokens: tokens,
		Model:  g.model,
	}, nil
}

// mapAPIError converts genai client errors into the generation package's
// closed error set.
func (g *Generator) mapAPIError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		g.logger.WarnContext(ctx, "Gemini API returned non-success status",
			slog.Int("status_code", apiErr.Code),
			slog.String("status", apiErr.Status))
		return &generation.TransportError{
			StatusCode: apiErr.Code,
			Body:       apiErr.Message,
		}
	}
	return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
}
