package backend

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleInvoker calls Gemini models through the Google GenAI API.
type GoogleInvoker struct {
	client *genai.Client
	model  string
}

// NewGoogleInvoker creates an invoker for the given Gemini model.
func NewGoogleInvoker(model, apiKey string) (*GoogleInvoker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create google client: %w", err)
	}

	return &GoogleInvoker{client: client, model: model}, nil
}

// Name returns the invoker identifier.
func (g *GoogleInvoker) Name() string {
	return "google/" + g.model
}

// Invoke sends the payload to Gemini and returns the generated text.
func (g *GoogleInvoker) Invoke(ctx context.Context, payload string, opts InvokeOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var genCfg *genai.GenerateContentConfig
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		genCfg = &genai.GenerateContentConfig{}
		if opts.MaxTokens > 0 {
			genCfg.MaxOutputTokens = int32(opts.MaxTokens)
		}
		if opts.Temperature > 0 {
			t := float32(opts.Temperature)
			genCfg.Temperature = &t
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(payload), genCfg)
	if err != nil {
		return "", fmt.Errorf("google API error: %w", err)
	}

	output := resp.Text()
	if output == "" {
		return "", ErrEmptyOutput
	}
	return output, nil
}
