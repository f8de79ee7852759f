package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicOption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/apiprobe-dev/apiprobe/internal/config"
)

// AnthropicClient wraps the Anthropic SDK client. It exists so endpoint
// diagnosis can recognize gateways that only speak the Anthropic messages
// protocol behind an OpenAI-looking base URL.
type AnthropicClient struct {
	client     anthropic.Client
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// NewAnthropicClient creates a new Anthropic client wrapper from resolved settings
func NewAnthropicClient(settings *config.Settings) *AnthropicClient {
	// Anthropic SDK expects the base without /v1
	apiBase := strings.TrimRight(settings.APIBase, "/")
	apiBase = strings.TrimSuffix(apiBase, "/v1")

	httpClient := &http.Client{Timeout: settings.Timeout}

	options := []anthropicOption.RequestOption{
		anthropicOption.WithAPIKey(settings.APIKey),
		anthropicOption.WithBaseURL(apiBase),
		anthropicOption.WithHTTPClient(httpClient),
	}

	return &AnthropicClient{
		client:     anthropic.NewClient(options...),
		apiKey:     settings.APIKey,
		apiBase:    apiBase,
		httpClient: httpClient,
	}
}

// Client returns the underlying Anthropic SDK client
func (c *AnthropicClient) Client() *anthropic.Client {
	return &c.client
}

// ProbeMessagesEndpoint tests the messages endpoint with a minimal request
func (c *AnthropicClient) ProbeMessagesEndpoint(ctx context.Context, model string) ProbeResult {
	startTime := time.Now()

	messageRequest := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 100,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("hi")),
		},
	}

	resp, err := c.client.Messages.New(ctx, messageRequest)
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return ProbeResult{
			Success:      false,
			ErrorMessage: err.Error(),
			LatencyMs:    latencyMs,
		}
	}

	responseContent := ""
	promptTokens := 0
	completionTokens := 0
	totalTokens := 0

	if resp != nil {
		for _, block := range resp.Content {
			if block.Type == "text" {
				responseContent += string(block.Text)
			}
		}
		if resp.Usage.InputTokens != 0 {
			promptTokens = int(resp.Usage.InputTokens)
			completionTokens = int(resp.Usage.OutputTokens)
			totalTokens = promptTokens + completionTokens
		}
	}

	if responseContent == "" {
		responseContent = "<response content is empty, but request success>"
	}

	return ProbeResult{
		Success:          true,
		Message:          "Messages endpoint is accessible",
		Content:          responseContent,
		LatencyMs:        latencyMs,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
	}
}
