package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a capability probe concluded.
type Outcome string

const (
	// OutcomeSupported means the feature request succeeded.
	OutcomeSupported Outcome = "supported"
	// OutcomeUnsupported means the provider rejected the feature itself.
	OutcomeUnsupported Outcome = "unsupported"
	// OutcomeError means the probe failed for reasons unrelated to feature
	// support, such as auth or transport problems.
	OutcomeError Outcome = "error"
	// OutcomeSkipped means the probe never ran because a prerequisite failed.
	OutcomeSkipped Outcome = "skipped"
)

// FeatureStatus records the result of a single capability probe.
type FeatureStatus struct {
	Supported bool    `json:"supported"`
	Outcome   Outcome `json:"outcome"`
	Detail    string  `json:"detail,omitempty"`
	LatencyMs int64   `json:"latency_ms,omitempty"`
}

// Supported builds a FeatureStatus for a successful probe.
func Supported(detail string, latencyMs int64) FeatureStatus {
	return FeatureStatus{Supported: true, Outcome: OutcomeSupported, Detail: detail, LatencyMs: latencyMs}
}

// Unsupported builds a FeatureStatus for a feature the provider rejected.
func Unsupported(detail string, latencyMs int64) FeatureStatus {
	return FeatureStatus{Outcome: OutcomeUnsupported, Detail: detail, LatencyMs: latencyMs}
}

// Errored builds a FeatureStatus for a probe that failed for unrelated reasons.
func Errored(detail string, latencyMs int64) FeatureStatus {
	return FeatureStatus{Outcome: OutcomeError, Detail: detail, LatencyMs: latencyMs}
}

// Skipped builds a FeatureStatus for a probe that never ran.
func Skipped(detail string) FeatureStatus {
	return FeatureStatus{Outcome: OutcomeSkipped, Detail: detail}
}

// TokenUsage aggregates token counts from the chat probe. Estimated is set
// when the provider omitted usage and the counts were derived locally.
type TokenUsage struct {
	PromptTokens     int  `json:"prompt_tokens"`
	CompletionTokens int  `json:"completion_tokens"`
	TotalTokens      int  `json:"total_tokens"`
	Estimated        bool `json:"estimated,omitempty"`
}

// CapabilityResult is the per-model record of feature support.
type CapabilityResult struct {
	Model           string        `json:"model"`
	Chat            FeatureStatus `json:"chat"`
	FunctionCalling FeatureStatus `json:"function_calling"`
	JSONOutput      FeatureStatus `json:"json_output"`
	Vision          FeatureStatus `json:"vision"`
	Embeddings      FeatureStatus `json:"embeddings"`
	Usage           TokenUsage    `json:"usage"`
}

// Summary joins the per-feature detail lines in probe order.
func (r *CapabilityResult) Summary() string {
	lines := []string{
		"Chat: " + r.Chat.Detail,
		"Functions: " + r.FunctionCalling.Detail,
		"JSON Mode: " + r.JSONOutput.Detail,
		"Vision: " + r.Vision.Detail,
		"Embeddings: " + r.Embeddings.Detail,
	}
	return strings.Join(lines, "\n")
}

// Report is the full outcome of one probe run. It lives in memory only;
// callers render it and throw it away.
type Report struct {
	RunID        string             `json:"run_id"`
	APIBase      string             `json:"api_base"`
	Timestamp    time.Time          `json:"timestamp"`
	Version      string             `json:"version,omitempty"`
	Models       []CapabilityResult `json:"models"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// New creates an empty report stamped with a fresh run ID.
func New(apiBase, version string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		APIBase:   apiBase,
		Timestamp: time.Now().UTC(),
		Version:   version,
	}
}

// Add appends a per-model result, preserving probe order.
func (r *Report) Add(result CapabilityResult) {
	r.Models = append(r.Models, result)
}
