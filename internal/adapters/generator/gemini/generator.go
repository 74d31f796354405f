package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/dragon-hoard/internal/ports"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("gemini returned no text")

// contentGenerator is the subset of *genai.Models the generator needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Generator struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

var _ ports.Generator = (*Generator)(nil)

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint, mostly for tests.
	BaseURL string
}

func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newGenerator(client.Models, cfg.Model, logger), nil
}

func newGenerator(models contentGenerator, model string, logger *zap.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{models: models, model: model, logger: logger}
}

func (g *Generator) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	res, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), requestConfig(opts))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text, err := responseText(res)
	if err != nil {
		return "", err
	}

	g.logger.Debug("gemini reply",
		zap.String("model", g.model),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Int("reply_bytes", len(text)),
	)
	return text, nil
}

// requestConfig maps sampling options. Thinking is switched off because the
// replies are short and thoughts would eat the output token budget.
func requestConfig(opts ports.GenerateOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(float32(opts.Temperature)),
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}
	return config
}

func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		if res != nil && res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, res.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
