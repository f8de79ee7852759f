package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

func sampleReport() *Report {
	rep := New("https://api.example.com/v1", "1.2.3")
	rep.Add(CapabilityResult{
		Model:           "gpt-4o",
		Chat:            Supported("Chat completion successful. Response: Hello!", 120),
		FunctionCalling: Supported("Function calling successful. Tool call: get_weather", 95),
		JSONOutput:      Supported("JSON mode successful. Response is valid JSON", 88),
		Vision:          Supported("Vision features supported", 130),
		Embeddings:      Supported("Embeddings supported. Vector dimension: 1536", 45),
		Usage:           TokenUsage{PromptTokens: 9, CompletionTokens: 4, TotalTokens: 13},
	})
	rep.Add(CapabilityResult{
		Model:           "text-embedding-3-small",
		Chat:            Unsupported("Chat completion failed: model does not support chat", 60),
		FunctionCalling: Skipped("Skipped: model does not support chat"),
		JSONOutput:      Skipped("Skipped: model does not support chat"),
		Vision:          Skipped("Skipped: model does not support chat"),
		Embeddings:      Supported("Embeddings supported. Vector dimension: 1536", 40),
	})
	return rep
}

// TestNew tests that new reports carry a run identity.
func TestNew(t *testing.T) {
	rep := New("https://api.example.com/v1", "1.2.3")

	if rep.RunID == "" {
		t.Error("expected a generated run ID")
	}
	if rep.APIBase != "https://api.example.com/v1" {
		t.Errorf("unexpected API base: %s", rep.APIBase)
	}
	if rep.Version != "1.2.3" {
		t.Errorf("unexpected version: %s", rep.Version)
	}
	if rep.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
	if len(rep.Models) != 0 {
		t.Errorf("expected no models, got %d", len(rep.Models))
	}
}

// TestFeatureStatusConstructors tests the status factory helpers.
func TestFeatureStatusConstructors(t *testing.T) {
	tests := []struct {
		name string
		got  FeatureStatus
		want FeatureStatus
	}{
		{
			name: "supported",
			got:  Supported("ok", 12),
			want: FeatureStatus{Supported: true, Outcome: OutcomeSupported, Detail: "ok", LatencyMs: 12},
		},
		{
			name: "unsupported",
			got:  Unsupported("rejected", 34),
			want: FeatureStatus{Outcome: OutcomeUnsupported, Detail: "rejected", LatencyMs: 34},
		},
		{
			name: "errored",
			got:  Errored("timeout", 56),
			want: FeatureStatus{Outcome: OutcomeError, Detail: "timeout", LatencyMs: 56},
		},
		{
			name: "skipped",
			got:  Skipped("prerequisite failed"),
			want: FeatureStatus{Outcome: OutcomeSkipped, Detail: "prerequisite failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestSummary tests the per-model detail block used in markdown output.
func TestSummary(t *testing.T) {
	result := CapabilityResult{
		Model:           "gpt-4o",
		Chat:            Supported("chat ok", 1),
		FunctionCalling: Supported("functions ok", 1),
		JSONOutput:      Unsupported("json rejected", 1),
		Vision:          Skipped("skipped"),
		Embeddings:      Errored("boom", 1),
	}

	want := strings.Join([]string{
		"Chat: chat ok",
		"Functions: functions ok",
		"JSON Mode: json rejected",
		"Vision: skipped",
		"Embeddings: boom",
	}, "\n")

	if diff := cmp.Diff(want, result.Summary()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

// TestParseFormat tests format name parsing.
func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "table", want: FormatTable},
		{input: "", want: FormatTable},
		{input: "json", want: FormatJSON},
		{input: "JSON", want: FormatJSON},
		{input: "markdown", want: FormatMarkdown},
		{input: "Markdown", want: FormatMarkdown},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !strings.Contains(err.Error(), "unknown output format") {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestRenderTable tests the aligned table renderer.
func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), FormatTable); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	wantHeader := []string{"MODEL", "CHAT", "FUNCTIONS", "JSON", "MODE", "VISION", "EMBEDDINGS"}
	if diff := cmp.Diff(wantHeader, strings.Fields(lines[0])); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	wantRows := [][]string{
		{"gpt-4o", "✓", "✓", "✓", "✓", "✓"},
		{"text-embedding-3-small", "✗", "✗", "✗", "✗", "✓"},
	}
	for i, want := range wantRows {
		if diff := cmp.Diff(want, strings.Fields(lines[i+2])); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

// TestRenderTable_Error tests that a run-level failure replaces the table.
func TestRenderTable_Error(t *testing.T) {
	rep := New("https://api.example.com/v1", "1.2.3")
	rep.ErrorMessage = "Failed to probe API: connection refused"

	var buf bytes.Buffer
	if err := Render(&buf, rep, FormatTable); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := "Error: Failed to probe API: connection refused\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestRenderJSON tests the JSON renderer output shape.
func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), FormatJSON); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	if !gjson.Valid(out) {
		t.Fatalf("output is not valid JSON:\n%s", out)
	}

	if got := gjson.Get(out, "api_base").String(); got != "https://api.example.com/v1" {
		t.Errorf("unexpected api_base: %s", got)
	}
	if gjson.Get(out, "run_id").String() == "" {
		t.Error("expected run_id in output")
	}
	if got := gjson.Get(out, "models.#").Int(); got != 2 {
		t.Errorf("expected 2 models, got %d", got)
	}
	if got := gjson.Get(out, "models.0.chat.outcome").String(); got != "supported" {
		t.Errorf("unexpected chat outcome: %s", got)
	}
	if got := gjson.Get(out, "models.1.function_calling.outcome").String(); got != "skipped" {
		t.Errorf("unexpected function_calling outcome: %s", got)
	}
	if got := gjson.Get(out, "models.0.usage.total_tokens").Int(); got != 13 {
		t.Errorf("unexpected total_tokens: %d", got)
	}
	// omitempty keeps a clean envelope on success
	if gjson.Get(out, "error_message").Exists() {
		t.Error("error_message should be omitted on success")
	}
	if gjson.Get(out, "models.1.usage.estimated").Exists() {
		t.Error("estimated should be omitted when false")
	}
}

// TestRenderMarkdown tests the markdown renderer structure.
func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), FormatMarkdown); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# API Capability Report",
		"- API Base: https://api.example.com/v1",
		"- Version: 1.2.3",
		"| Model | Chat | Functions | JSON Mode | Vision | Embeddings |",
		"| gpt-4o | ✓ | ✓ | ✓ | ✓ | ✓ |",
		"| text-embedding-3-small | ✗ | ✗ | ✗ | ✗ | ✓ |",
		"## Details",
		"### gpt-4o",
		"Chat: Chat completion successful. Response: Hello!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

// TestRenderMarkdown_Error tests the markdown error path.
func TestRenderMarkdown_Error(t *testing.T) {
	rep := New("https://api.example.com/v1", "")
	rep.ErrorMessage = "boom"

	var buf bytes.Buffer
	if err := Render(&buf, rep, FormatMarkdown); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(buf.String(), "**Error:** boom") {
		t.Errorf("expected error line, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "| Model |") {
		t.Error("error report should not include the capability table")
	}
}

// TestRender_UnknownFormat tests that bogus formats are rejected.
func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Format("yaml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
