package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
)

// Seed is fixed for the process so repeated prompts tend toward the same continuation.
const Seed = 42

type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	FallbackModel string
	EchoPrompt    bool
	LoadTimeout   time.Duration
}

type Client struct {
	api   *openai.Client
	model string
	echo  bool
}

// Load resolves the model once at startup. The preferred model is probed first;
// on failure the fallback is tried and only its failure is returned.
func Load(ctx context.Context, cfg Config) (*Client, error) {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	api := openai.NewClientWithConfig(clientCfg)

	model := cfg.Model
	if err := probe(ctx, api, model, cfg.LoadTimeout); err != nil {
		slog.WarnContext(ctx, "Loading preferred model failed, using fallback",
			"model", model,
			"fallback", cfg.FallbackModel,
			logger.Err(err),
		)

		model = cfg.FallbackModel
		if err := probe(ctx, api, model, cfg.LoadTimeout); err != nil {
			return nil, fmt.Errorf("loading fallback model %s: %w", model, err)
		}
	}

	slog.InfoContext(ctx, "Generation model loaded", "model", model, "baseURL", clientCfg.BaseURL)

	return &Client{
		api:   api,
		model: model,
		echo:  cfg.EchoPrompt,
	}, nil
}

func probe(ctx context.Context, api *openai.Client, model string, timeout time.Duration) error {
	if model == "" {
		return fmt.Errorf("model name is empty")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Self-hosted servers often expose only the list route, so it is tried first.
	list, err := api.ListModels(ctx)
	if err == nil && slices.ContainsFunc(list.Models, func(m openai.Model) bool { return m.ID == model }) {
		return nil
	}

	if _, getErr := api.GetModel(ctx, model); getErr != nil {
		if err != nil {
			return fmt.Errorf("getting model %s: %w", model, errors.Join(err, getErr))
		}
		return fmt.Errorf("getting model %s: %w", model, getErr)
	}
	return nil
}

func (c *Client) Model() string { return c.model }

// Generate returns the text of exactly one sequence. With echo enabled the
// prompt is included as a prefix, as a text-generation pipeline would.
func (c *Client) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	seed := Seed

	resp, err := c.api.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: maxLength,
		N:         1,
		Seed:      &seed,
		Echo:      c.echo,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrEmptyCompletion)
	}

	attrs := []any{"model", resp.Model, "finishReason", resp.Choices[0].FinishReason}
	if resp.Usage != nil {
		attrs = append(attrs, "completionTokens", resp.Usage.CompletionTokens)
	}
	slog.DebugContext(ctx, "Completion received", attrs...)

	return resp.Choices[0].Text, nil
}
