package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/apiprobe-dev/apiprobe/internal/client"
	"github.com/apiprobe-dev/apiprobe/internal/constant"
	"github.com/apiprobe-dev/apiprobe/internal/report"
)

const (
	chatProbePrompt      = "Hello"
	functionProbePrompt  = "What's the weather?"
	jsonProbePrompt      = "Return a simple JSON object"
	visionProbePrompt    = "What's in this image?"
	embeddingsProbeInput = "Hello, world"

	// visionProbeImage is a 1x1 transparent PNG, small enough for any
	// vision-capable endpoint to accept.
	visionProbeImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNk+A8AAQUBAScY42YAAAAASUVORK5CYII="

	emptyContentFallback = "<response content is empty, but request success>"
)

// Prober issues feature-specific requests against a single endpoint and
// classifies the responses. All probes are sequential blocking calls; the
// only state is the accumulating report.
type Prober struct {
	client  *client.OpenAIClient
	version string
}

// New creates a Prober bound to the given client.
func New(c *client.OpenAIClient, version string) *Prober {
	return &Prober{client: c, version: version}
}

// ListModels fetches the model listing from the endpoint.
func (p *Prober) ListModels(ctx context.Context) ([]client.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

// Run lists every model on the endpoint and probes each in turn. A listing
// failure aborts the run and is recorded on the report.
func (p *Prober) Run(ctx context.Context) *report.Report {
	rep := report.New(p.client.APIBase(), p.version)

	logrus.Debugf("fetching available models")
	models, err := p.client.ListModels(ctx)
	if err != nil {
		rep.ErrorMessage = fmt.Sprintf("Failed to probe API: %v", err)
		return rep
	}
	logrus.Debugf("found %d models", len(models))

	for _, m := range models {
		rep.Add(p.ProbeModel(ctx, m.ID))
	}
	return rep
}

// ProbeModels probes the given model IDs in order.
func (p *Prober) ProbeModels(ctx context.Context, models []string) *report.Report {
	rep := report.New(p.client.APIBase(), p.version)
	for _, model := range models {
		rep.Add(p.ProbeModel(ctx, model))
	}
	return rep
}

// ProbeModel runs the full capability matrix against one model. Chat runs
// first and gates the chat-derived features; embeddings always runs. Each
// probe is independent, so one failure never aborts the others.
func (p *Prober) ProbeModel(ctx context.Context, model string) report.CapabilityResult {
	logrus.Debugf("starting probe for model: %s", model)

	result := report.CapabilityResult{Model: model}

	chat, usage := p.probeChat(ctx, model)
	result.Chat = chat
	result.Usage = usage

	if chat.Supported {
		result.FunctionCalling = p.probeFunctionCalling(ctx, model)
		result.JSONOutput = p.probeJSONMode(ctx, model)
		result.Vision = p.probeVision(ctx, model)
	} else {
		skipped := report.Skipped("Skipped: model does not support chat")
		result.FunctionCalling = skipped
		result.JSONOutput = skipped
		result.Vision = skipped
	}

	result.Embeddings = p.probeEmbeddings(ctx, model)

	logrus.Debugf("completed probe for model: %s", model)
	return result
}

func (p *Prober) probeChat(ctx context.Context, model string) (report.FeatureStatus, report.TokenUsage) {
	logrus.Debugf("testing chat completion for model: %s", model)
	startTime := time.Now()

	resp, err := p.client.ChatCompletionsNew(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(chatProbePrompt),
		},
		MaxTokens: openai.Int(constant.ProbeMaxTokens),
	})
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return failureStatus("Chat completion failed", err, latencyMs), report.TokenUsage{}
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	var usage report.TokenUsage
	if resp.Usage.TotalTokens != 0 {
		usage = report.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	} else {
		usage = estimateUsage(chatProbePrompt, content)
	}

	if content == "" {
		content = emptyContentFallback
	}

	detail := fmt.Sprintf("Chat completion successful. Response: %s", content)
	return report.Supported(detail, latencyMs), usage
}

func (p *Prober) probeFunctionCalling(ctx context.Context, model string) report.FeatureStatus {
	logrus.Debugf("testing function calling for model: %s", model)
	startTime := time.Now()

	resp, err := p.client.ChatCompletionsNew(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(functionProbePrompt),
		},
		Tools:     []openai.ChatCompletionToolUnionParam{weatherTool()},
		MaxTokens: openai.Int(constant.ProbeMaxTokens),
	})
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return failureStatus("Function calling failed", err, latencyMs)
	}

	if len(resp.Choices) > 0 {
		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) > 0 {
			detail := fmt.Sprintf("Function calling successful. Tool call: %s", msg.ToolCalls[0].Function.Name)
			return report.Supported(detail, latencyMs)
		}
		if msg.Content != "" {
			detail := fmt.Sprintf("Function calling successful. Response: %s", msg.Content)
			return report.Supported(detail, latencyMs)
		}
	}

	return report.Supported("Function calling successful", latencyMs)
}

func (p *Prober) probeJSONMode(ctx context.Context, model string) report.FeatureStatus {
	logrus.Debugf("testing JSON mode for model: %s", model)
	startTime := time.Now()

	resp, err := p.client.ChatCompletionsNew(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(jsonProbePrompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(constant.ProbeMaxTokens),
	})
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return failureStatus("JSON mode failed", err, latencyMs)
	}

	detail := "JSON mode successful"
	if len(resp.Choices) > 0 && gjson.Valid(resp.Choices[0].Message.Content) {
		detail = "JSON mode successful. Response is valid JSON"
	}
	return report.Supported(detail, latencyMs)
}

func (p *Prober) probeVision(ctx context.Context, model string) report.FeatureStatus {
	logrus.Debugf("testing vision features for model: %s", model)
	startTime := time.Now()

	content := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(visionProbePrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: visionProbeImage,
		}),
	}

	_, err := p.client.ChatCompletionsNew(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(content),
		},
		MaxTokens: openai.Int(constant.ProbeMaxTokens),
	})
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return failureStatus("Vision features not supported", err, latencyMs)
	}

	return report.Supported("Vision features supported", latencyMs)
}

func (p *Prober) probeEmbeddings(ctx context.Context, model string) report.FeatureStatus {
	logrus.Debugf("testing embeddings for model: %s", model)
	startTime := time.Now()

	resp, err := p.client.EmbeddingsNew(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(embeddingsProbeInput),
		},
	})
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		return failureStatus("Embeddings not supported", err, latencyMs)
	}

	if len(resp.Data) == 0 {
		return report.Unsupported("Embeddings not supported: response contained no vectors", latencyMs)
	}

	detail := fmt.Sprintf("Embeddings supported. Vector dimension: %d", len(resp.Data[0].Embedding))
	return report.Supported(detail, latencyMs)
}

// weatherTool is the representative tool definition for the function
// calling probe.
func weatherTool() openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
		Name:        "get_weather",
		Description: param.Opt[string]{Value: "Get the current weather for a location"},
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":        "string",
					"description": "The city and state, e.g. San Francisco, CA",
				},
				"unit": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"celsius", "fahrenheit"},
					"description": "The temperature unit to use",
				},
			},
			"required": []string{"location"},
		},
	})
}
