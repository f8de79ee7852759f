package probe

import "testing"

// TestEstimateUsage tests the local token estimate used when providers omit
// usage from chat responses.
func TestEstimateUsage(t *testing.T) {
	usage := estimateUsage("You are a helpful assistant. Say hi.", "Hello! How can I help you today?")

	if !usage.Estimated {
		t.Error("expected usage to be marked estimated")
	}
	if usage.PromptTokens <= 0 {
		t.Errorf("prompt tokens = %d, want > 0", usage.PromptTokens)
	}
	if usage.CompletionTokens <= 0 {
		t.Errorf("completion tokens = %d, want > 0", usage.CompletionTokens)
	}
	if usage.TotalTokens != usage.PromptTokens+usage.CompletionTokens {
		t.Errorf("total = %d, want %d", usage.TotalTokens, usage.PromptTokens+usage.CompletionTokens)
	}
}

func TestCountOrEstimate_Empty(t *testing.T) {
	if got := countOrEstimate(""); got != 0 {
		t.Errorf("countOrEstimate(\"\") = %d, want 0", got)
	}
}
