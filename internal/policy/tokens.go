package policy

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the tokenizer used for pre-run task sizing. cl100k_base
// covers the GPT-3.5/4 family that all three tiers map to.
const tokenEncoding = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// EstimateTaskTokens counts the tokens a task description will consume as
// prompt input, so callers can project run cost before acquiring any
// external resource. When the encoding data cannot be loaded (offline
// environments), it falls back to the usual bytes/4 heuristic.
func EstimateTaskTokens(task string) int {
	if task == "" {
		return 0
	}

	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tokenEncoding)
		if err == nil {
			encoding = enc
		}
	})

	if encoding == nil {
		return (len(task) + 3) / 4
	}
	return len(encoding.Encode(task, nil, nil))
}
