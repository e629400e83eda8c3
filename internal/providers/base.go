// Package providers wraps the external LLM services that execute
// browser-automation tasks. The agent's planning loop is the service's
// concern; this package only shapes requests and surfaces results.
package providers

import (
	"context"

	"github.com/cosduck/chanpilot/internal/policy"
	"github.com/cosduck/chanpilot/internal/schema"
)

// AgentRequest describes one task handed to the external agent service.
type AgentRequest struct {
	// Task is the natural-language task description.
	Task string

	// Model is the concrete model name resolved from the run's tier.
	Model string

	// VisionEnabled attaches screenshots to the request when true.
	VisionEnabled bool

	// VisionDetail is the image fidelity level sent per screenshot.
	VisionDetail policy.VisionDetail

	// Screenshots are PNG captures attached as vision input. Ignored
	// when VisionEnabled is false.
	Screenshots [][]byte

	// OutputSchema, when set, is appended to the task as the structured
	// output contract.
	OutputSchema *schema.ExtractionSchema

	// SystemPromptExtension is appended to the base system prompt.
	SystemPromptExtension string

	// MaxTokens bounds the completion size. Zero means provider default.
	MaxTokens int
}

// AgentResult is the outcome of one agent invocation.
type AgentResult struct {
	// Payload is the raw text the agent returned.
	Payload string

	// TokensUsed is the total token count billed for the invocation.
	TokensUsed int

	// FinishReason is the provider's stop reason, for the transcript.
	FinishReason string
}

// Provider is the opaque agent-run service. Implementations must respect
// context cancellation: when the caller's deadline expires, the request is
// aborted and the context error surfaces.
type Provider interface {
	// Name returns the provider's name.
	Name() string

	// Run executes a task and returns the agent's result.
	Run(ctx context.Context, req AgentRequest) (*AgentResult, error)
}
