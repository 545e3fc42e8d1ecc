package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Fixed sampling parameters for the responder.
const (
	temperature float32 = 0.8
	topP        float32 = 0.9
)

// AzureClient talks to one Azure OpenAI chat deployment.
type AzureClient struct {
	client     *openai.Client
	deployment string
	maxTokens  int
}

// Options configures the Azure OpenAI connection. Deployment is the chat
// model deployment name; MaxTokens bounds the generated reply.
type Options struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	MaxTokens  int
}

func NewAzure(opts Options) *AzureClient {
	config := openai.DefaultAzureConfig(opts.APIKey, opts.Endpoint)
	if opts.APIVersion != "" {
		config.APIVersion = opts.APIVersion
	}
	// Azure routes by deployment name, not model name.
	config.AzureModelMapperFunc = func(model string) string {
		return model
	}
	return &AzureClient{
		client:     openai.NewClientWithConfig(config),
		deployment: opts.Deployment,
		maxTokens:  opts.MaxTokens,
	}
}

// Raw exposes the underlying client for the audio endpoints sharing the
// same Azure resource.
func (c *AzureClient) Raw() *openai.Client {
	return c.client
}

func (c *AzureClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	var oaMsgs []openai.ChatCompletionMessage
	for _, m := range messages {
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.deployment,
		Messages:    oaMsgs,
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("chat completion returned no choices")
	}

	out := Response{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:   c.deployment,
	}
	out.PromptTokens = resp.Usage.PromptTokens
	out.CompletionTokens = resp.Usage.CompletionTokens
	out.TotalTokens = resp.Usage.TotalTokens
	return out, nil
}
