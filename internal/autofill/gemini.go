package autofill

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/tracing"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// Generator sends a prompt to model and returns the reply text.
type Generator func(ctx context.Context, model, prompt string) (string, error)

// GeminiLookup answers lookups with a search-grounded Gemini request.
type GeminiLookup struct {
	model    string
	generate Generator
}

// Ensure GeminiLookup implements the interface at compile time.
var _ Lookup = (*GeminiLookup)(nil)

// NewGeminiLookup creates a lookup backed by the Gemini API.
func NewGeminiLookup(ctx context.Context, apiKey, model string) (*GeminiLookup, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return NewLookupWithGenerator(model, func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}), nil
}

// NewLookupWithGenerator creates a lookup that sends prompts through generate.
func NewLookupWithGenerator(model string, generate Generator) *GeminiLookup {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiLookup{model: model, generate: generate}
}

// Model returns the model name requests are sent to.
func (g *GeminiLookup) Model() string {
	return g.model
}

func (g *GeminiLookup) Lookup(ctx context.Context, roaster, beanName string) (suggestion *Suggestion, err error) {
	ctx, span := tracing.AutofillSpan(ctx, g.model, roaster)
	defer func() {
		tracing.EndWithError(span, err)
		span.End()
	}()

	text, err := g.generate(ctx, g.model, Prompt(roaster, beanName))
	if err != nil {
		metrics.AutofillLookupsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("roaster", roaster).Str("bean", beanName).Msg("Gemini request failed")
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	suggestion, err = ParseSuggestion(text)
	if err != nil {
		metrics.AutofillLookupsTotal.WithLabelValues("unparseable").Inc()
		log.Warn().Err(err).Str("roaster", roaster).Msg("Gemini reply was not JSON")
		return nil, err
	}
	if suggestion == nil {
		metrics.AutofillLookupsTotal.WithLabelValues("empty").Inc()
		return nil, nil
	}

	metrics.AutofillLookupsTotal.WithLabelValues("ok").Inc()
	return suggestion, nil
}
