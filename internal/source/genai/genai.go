// Package genai provides a palette source that asks a Google Gen AI text
// model for a palette described by a free-text prompt.
package genai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/source"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	// DefaultBackend is used when no backend is configured.
	DefaultBackend = "gemini-api"

	backendVertexAI = "vertex-ai"

	apiKeyEnv = "GOOGLE_API_KEY"
)

// contentGenerator is the subset of the Gen AI models service used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Source implements source.Source for Google Gen AI.
type Source struct {
	prompt  string
	model   string
	backend string

	// newGenerator is replaced in tests.
	newGenerator func(ctx context.Context) (contentGenerator, error)
}

// New creates a Gen AI source with the given model and backend defaults.
func New(model, backend string) *Source {
	if model == "" {
		model = DefaultModel
	}
	if backend == "" {
		backend = DefaultBackend
	}
	s := &Source{model: model, backend: backend}
	s.newGenerator = s.clientSetup
	return s
}

// Name returns the source name.
func (s *Source) Name() string {
	return "genai"
}

// Description returns the source description.
func (s *Source) Description() string {
	return "Ask a Google Gen AI model for a palette matching a text prompt"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Source) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.prompt, "genai.prompt", "", "Text description of the palette (required)")
	cmd.Flags().StringVar(&s.model, "genai.model", s.model, "Gen AI model to use")
	cmd.Flags().StringVar(&s.backend, "genai.backend", s.backend, "Gen AI backend (gemini-api or vertex-ai)")
}

// Validate checks if required inputs are configured.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.prompt) == "" {
		return fmt.Errorf("--genai.prompt is required")
	}
	if s.backend != DefaultBackend && s.backend != backendVertexAI {
		return fmt.Errorf("invalid backend %q (valid: gemini-api, vertex-ai)", s.backend)
	}
	return nil
}

// clientSetup creates a Gen AI client for the configured backend.
func (s *Source) clientSetup(ctx context.Context) (contentGenerator, error) {
	clientConfig := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if s.backend == backendVertexAI {
		clientConfig.Backend = genai.BackendVertexAI
	}

	if clientConfig.Backend == genai.BackendGeminiAPI {
		apiKey := os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is required\nGet one at: https://aistudio.google.com/api-keys", apiKeyEnv)
		}
		clientConfig.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}
	return client.Models, nil
}

// Generate sends the augmented prompt and parses the hex codes from the reply.
func (s *Source) Generate(ctx context.Context, opts source.GenerateOptions) ([]colour.Palette, error) {
	logger := opts.Log().With("source", s.Name(), "model", s.model, "backend", s.backend)

	generator, err := s.newGenerator(ctx)
	if err != nil {
		return nil, err
	}

	prompt := source.AugmentPrompt(s.prompt, opts.Count)
	logger.Debug("requesting palette", "prompt", s.prompt)

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.9),
		TopP:            genai.Ptr[float32](1),
		MaxOutputTokens: 2048,
	}

	response, err := generator.GenerateContent(ctx, s.model, genai.Text(prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("palette generation failed: %w", err)
	}

	text := responseText(response)
	logger.Debug("received response", "text", text)

	palette, err := ParsePalette(text)
	if err != nil {
		return nil, err
	}
	return []colour.Palette{palette}, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// ParsePalette pulls every #rrggbb code out of a model reply. Models often
// wrap the codes in prose or markdown, so only the codes are kept.
func ParsePalette(text string) (colour.Palette, error) {
	codes := source.ExtractHexCodes(text)
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no hex colours in model response", source.ErrMalformedPalette)
	}
	palettes, err := source.NormalisePalettes([][]string{codes})
	if err != nil {
		return nil, err
	}
	return palettes[0], nil
}
