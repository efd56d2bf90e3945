package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/go-huggingface"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/askdb/askdb/internal/config"
)

// completer is the single primitive SQLAgent needs from a language model:
// one prompt in, one text completion out.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// newCompleter builds the provider selected by the configuration.
func newCompleter(cfg config.LLMConfig) (completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return newOpenAICompleter(cfg)
	case config.ProviderHuggingFace:
		return newHuggingFaceCompleter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// openaiCompleter speaks to OpenAI-compatible chat APIs through langchaingo.
// BaseURL overrides allow proxies and compatible gateways.
type openaiCompleter struct {
	llm         llms.Model
	temperature float64
}

func newOpenAICompleter(cfg config.LLMConfig) (*openaiCompleter, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return &openaiCompleter{llm: llm, temperature: cfg.Temperature}, nil
}

func (c *openaiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(c.temperature))
}

// hfCompleter uses the Hugging Face inference API.
type hfCompleter struct {
	client      *huggingface.InferenceClient
	model       string
	temperature float64
}

func newHuggingFaceCompleter(cfg config.LLMConfig) *hfCompleter {
	return &hfCompleter{
		client:      huggingface.NewInferenceClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (c *hfCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	temp := c.temperature
	if temp <= 0 {
		temp = 0.1 // the inference API requires a strictly positive temperature
	}

	res, err := c.client.TextGeneration(ctx, &huggingface.TextGenerationRequest{
		Model:  c.model,
		Inputs: prompt,
		Parameters: huggingface.TextGenerationParameters{
			MaxNewTokens:   intPtr(800),
			Temperature:    float64Ptr(temp),
			ReturnFullText: boolPtr(false),
		},
	})
	if err != nil {
		return "", fmt.Errorf("text generation: %w", err)
	}
	if len(res) == 0 {
		return "", fmt.Errorf("no response from model %s", c.model)
	}
	return res[0].GeneratedText, nil
}

func intPtr(i int) *int             { return &i }
func float64Ptr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool          { return &b }
