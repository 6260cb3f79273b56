package backend

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIInvoker calls any OpenAI-compatible chat completion endpoint.
// Pointing the base URL at OpenRouter gives access to its whole model
// catalog through one client.
type OpenAIInvoker struct {
	client openai.Client
	model  string
	label  string
}

// NewOpenAIInvoker creates an invoker for the given model. An empty baseURL
// targets the OpenAI API directly.
func NewOpenAIInvoker(model, apiKey, baseURL string) (*OpenAIInvoker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai-compatible backend requires an API key")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	label := "openai"
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
		label = "openrouter"
	}

	return &OpenAIInvoker{
		client: openai.NewClient(opts...),
		model:  model,
		label:  label,
	}, nil
}

// Name returns the invoker identifier.
func (o *OpenAIInvoker) Name() string {
	return o.label + "/" + o.model
}

// Invoke sends the payload as a single user message and returns the reply.
func (o *OpenAIInvoker) Invoke(ctx context.Context, payload string, opts InvokeOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(payload),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", o.label, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", o.label)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyOutput
	}
	return content, nil
}
