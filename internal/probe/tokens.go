package probe

import (
	"github.com/tiktoken-go/tokenizer"

	"github.com/apiprobe-dev/apiprobe/internal/report"
)

// estimateUsage approximates token usage when the provider omits it from
// the chat response. Uses the o200k encoding with a bytes/4 fallback.
func estimateUsage(prompt, completion string) report.TokenUsage {
	promptTokens := countOrEstimate(prompt)
	completionTokens := countOrEstimate(completion)
	return report.TokenUsage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Estimated:        true,
	}
}

func countOrEstimate(text string) int {
	enc, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return len(text) / 4
	}
	count, err := enc.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}
