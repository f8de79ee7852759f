package probe

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apiprobe-dev/apiprobe/internal/client"
	"github.com/apiprobe-dev/apiprobe/internal/config"
	"github.com/apiprobe-dev/apiprobe/internal/constant"
)

// API styles recognized by endpoint diagnosis.
const (
	StyleOpenAI    = "openai"
	StyleAnthropic = "anthropic"
	StyleUnknown   = "unknown"
)

// Default models for the minimal chat tiers, used when the endpoint exposes
// no model listing to pick from.
const (
	defaultOpenAIProbeModel    = "gpt-3.5-turbo"
	defaultAnthropicProbeModel = "claude-3-haiku-20240307"
)

// EndpointStatus is the outcome of the tiered connectivity diagnosis.
type EndpointStatus struct {
	Reachable  bool   `json:"reachable"`
	Style      string `json:"style"`
	Tier       string `json:"tier"`
	LatencyMs  int64  `json:"latency_ms"`
	ModelCount int    `json:"model_count,omitempty"`
	Detail     string `json:"detail"`
}

// DiagnoseEndpoint checks whether the configured base URL is reachable and
// which API style it speaks, using cascading validation: models listing
// first, then a minimal OpenAI chat request, then a minimal Anthropic
// message request, then a bare OPTIONS request. The first tier that
// succeeds wins.
func DiagnoseEndpoint(ctx context.Context, settings *config.Settings) EndpointStatus {
	ctx, cancel := context.WithTimeout(ctx, constant.DiagnoseTimeout*time.Second)
	defer cancel()

	var openaiClient client.EndpointProber = client.NewOpenAIClient(settings)

	// Tier 1: models list endpoint
	result := openaiClient.ProbeModelsEndpoint(ctx)
	if result.Success {
		return EndpointStatus{
			Reachable:  true,
			Style:      StyleOpenAI,
			Tier:       "models",
			LatencyMs:  result.LatencyMs,
			ModelCount: result.ModelsCount,
			Detail:     result.Message,
		}
	}
	logrus.Debugf("models endpoint tier failed: %s", result.ErrorMessage)

	// Tier 2: minimal OpenAI chat completion
	result = openaiClient.ProbeChatEndpoint(ctx, defaultOpenAIProbeModel)
	if result.Success {
		return EndpointStatus{
			Reachable: true,
			Style:     StyleOpenAI,
			Tier:      "chat",
			LatencyMs: result.LatencyMs,
			Detail:    result.Message,
		}
	}
	logrus.Debugf("chat endpoint tier failed: %s", result.ErrorMessage)

	// Tier 3: minimal Anthropic message, for gateways that only speak the
	// messages protocol behind an OpenAI-looking base URL
	anthropicClient := client.NewAnthropicClient(settings)
	result = anthropicClient.ProbeMessagesEndpoint(ctx, defaultAnthropicProbeModel)
	if result.Success {
		return EndpointStatus{
			Reachable: true,
			Style:     StyleAnthropic,
			Tier:      "messages",
			LatencyMs: result.LatencyMs,
			Detail:    result.Message,
		}
	}
	logrus.Debugf("messages endpoint tier failed: %s", result.ErrorMessage)

	// Tier 4: OPTIONS request for basic connectivity
	result = openaiClient.ProbeOptionsEndpoint(ctx)
	if result.Success {
		return EndpointStatus{
			Reachable: true,
			Style:     StyleUnknown,
			Tier:      "options",
			LatencyMs: result.LatencyMs,
			Detail:    "Endpoint is reachable, but no known API protocol answered",
		}
	}

	return EndpointStatus{
		Reachable: false,
		Style:     StyleUnknown,
		Tier:      "none",
		LatencyMs: result.LatencyMs,
		Detail:    "Failed to connect to provider: " + result.ErrorMessage,
	}
}
