package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"

	"github.com/apiprobe-dev/apiprobe/internal/config"
	"github.com/apiprobe-dev/apiprobe/internal/constant"
)

// OpenAIClient wraps the OpenAI SDK client
type OpenAIClient struct {
	client     openai.Client
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI client wrapper from resolved settings
func NewOpenAIClient(settings *config.Settings) *OpenAIClient {
	httpClient := &http.Client{Timeout: settings.Timeout}

	options := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithBaseURL(settings.APIBase),
		option.WithHTTPClient(httpClient),
	}

	return &OpenAIClient{
		client:     openai.NewClient(options...),
		apiKey:     settings.APIKey,
		apiBase:    settings.APIBase,
		httpClient: httpClient,
	}
}

// Client returns the underlying OpenAI SDK client
func (c *OpenAIClient) Client() *openai.Client {
	return &c.client
}

// HttpClient returns the underlying HTTP client shared by raw HTTP probes
func (c *OpenAIClient) HttpClient() *http.Client {
	return c.httpClient
}

// APIBase returns the base URL the client is bound to
func (c *OpenAIClient) APIBase() string {
	return c.apiBase
}

// ChatCompletionsNew creates a new chat completion request
func (c *OpenAIClient) ChatCompletionsNew(ctx context.Context, req openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, req)
}

// EmbeddingsNew creates a new embeddings request
func (c *OpenAIClient) EmbeddingsNew(ctx context.Context, req openai.EmbeddingNewParams) (*openai.CreateEmbeddingResponse, error) {
	return c.client.Embeddings.New(ctx, req)
}

// ListModels returns the list of available models from the OpenAI-compatible API.
// It goes through raw HTTP rather than the SDK so that non-standard providers
// returning extra fields or loose envelopes still parse.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	apiBase := strings.TrimSuffix(c.apiBase, "/")
	modelsURL := apiBase + "/models"

	req, err := http.NewRequestWithContext(ctx, "GET", modelsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	// Model listings can be slow on large providers, so use a dedicated timeout
	httpClient := &http.Client{
		Timeout:   time.Duration(constant.ModelFetchTimeout) * time.Second,
		Transport: c.httpClient.Transport,
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Some gateways never expose a models listing; a named-model probe can
	// still work against them
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed {
		return nil, &ErrModelsEndpointNotSupported{
			APIBase: c.apiBase,
			Reason:  fmt.Sprintf("endpoint returned status %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to parse models response as JSON")
	}

	parsed := gjson.ParseBytes(body)
	if errField := parsed.Get("error"); errField.Exists() {
		return nil, fmt.Errorf("API error: %s (type: %s)",
			errField.Get("message").String(), errField.Get("type").String())
	}

	var models []ModelInfo
	parsed.Get("data").ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id == "" {
			return true
		}
		// since some providers are special, we should process their model list
		switch apiBase {
		case "https://generativelanguage.googleapis.com/v1beta/openai":
			id = strings.TrimPrefix(id, "models/")
		}
		models = append(models, ModelInfo{
			ID:      id,
			OwnedBy: item.Get("owned_by").String(),
			Created: item.Get("created").Int(),
		})
		return true
	})

	if len(models) == 0 {
		return nil, fmt.Errorf("no models found in provider response")
	}

	return models, nil
}

// ProbeChatEndpoint tests the chat completions endpoint with a minimal request
func (c *OpenAIClient) ProbeChatEndpoint(ctx context.Context, model string) ProbeResult {
	startTime := time.Now()

	chatRequest := &openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("hi"),
		},
		MaxTokens: openai.Int(constant.ProbeMaxTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, *chatRequest)
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
		if len(resp.Choices) > 0 {
			responseContent = resp.Choices[0].Message.Content
		}
		if resp.Usage.PromptTokens != 0 {
			promptTokens = int(resp.Usage.PromptTokens)
			completionTokens = int(resp.Usage.CompletionTokens)
			totalTokens = int(resp.Usage.TotalTokens)
		}
	}

	if responseContent == "" {
		responseContent = "<response content is empty, but request success>"
	}

	return ProbeResult{
		Success:          true,
		Message:          "Chat endpoint is accessible",
		Content:          responseContent,
		LatencyMs:        latencyMs,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
	}
}

// ProbeModelsEndpoint tests the models list endpoint
func (c *OpenAIClient) ProbeModelsEndpoint(ctx context.Context) ProbeResult {
	startTime := time.Now()

	resp, err := c.client.Models.List(ctx)
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return ProbeResult{
			Success:      false,
			ErrorMessage: err.Error(),
			LatencyMs:    latencyMs,
		}
	}

	modelsCount := 0
	if resp != nil {
		modelsCount = len(resp.Data)
	}

	if modelsCount == 0 {
		return ProbeResult{
			Success:      false,
			ErrorMessage: "No models available from provider",
			LatencyMs:    latencyMs,
		}
	}

	return ProbeResult{
		Success:     true,
		Message:     "Models endpoint is accessible",
		LatencyMs:   latencyMs,
		ModelsCount: modelsCount,
	}
}

// ProbeOptionsEndpoint tests basic connectivity with an OPTIONS request
func (c *OpenAIClient) ProbeOptionsEndpoint(ctx context.Context) ProbeResult {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, "OPTIONS", c.apiBase, nil)
	if err != nil {
		return ProbeResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("Failed to create OPTIONS request: %v", err),
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return ProbeResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("OPTIONS request failed: %v", err),
			LatencyMs:    latencyMs,
		}
	}
	defer resp.Body.Close()

	// Consider any 2xx status as success for OPTIONS
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return ProbeResult{
			Success:   true,
			Message:   "OPTIONS request successful",
			LatencyMs: latencyMs,
		}
	}

	return ProbeResult{
		Success:      false,
		ErrorMessage: fmt.Sprintf("OPTIONS request failed with status: %d", resp.StatusCode),
		LatencyMs:    latencyMs,
	}
}
