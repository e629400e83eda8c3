package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cosduck/chanpilot/internal/policy"
)

const baseSystemPrompt = "You are a browser automation agent. Follow the task " +
	"steps exactly, in order. Report results in the requested format and " +
	"nothing else. Never invent data you did not observe on the page."

// OpenAIProvider runs agent tasks through the OpenAI chat completions API
// (or any compatible endpoint).
type OpenAIProvider struct {
	name   string
	client *openai.Client
}

// NewOpenAIProvider creates a provider against the given API key and base
// URL. An empty apiBase uses the OpenAI default.
func NewOpenAIProvider(name, apiKey, apiBase string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if apiBase != "" {
		cfg.BaseURL = strings.TrimSuffix(apiBase, "/")
	}
	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Name returns the provider's name.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Run executes one agent task. Screenshots are attached as image parts at
// the request's vision detail level; with vision disabled no image bytes
// leave the process at all.
func (p *OpenAIProvider) Run(ctx context.Context, req AgentRequest) (*AgentResult, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	task := req.Task
	if req.OutputSchema != nil {
		task = task + "\n\n" + req.OutputSchema.Describe()
	}

	system := baseSystemPrompt
	if req.SystemPromptExtension != "" {
		system += "\n\n" + req.SystemPromptExtension
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
	}

	if req.VisionEnabled && len(req.Screenshots) > 0 {
		parts := []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: task},
		}
		detail := visionDetail(req.VisionDetail)
		for _, shot := range req.Screenshots {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(shot),
					Detail: detail,
				},
			})
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: task,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	choice := resp.Choices[0]
	return &AgentResult{
		Payload:      choice.Message.Content,
		TokensUsed:   resp.Usage.TotalTokens,
		FinishReason: string(choice.FinishReason),
	}, nil
}

// visionDetail maps the policy detail level onto the API's image detail.
func visionDetail(d policy.VisionDetail) openai.ImageURLDetail {
	switch d {
	case policy.DetailHigh:
		return openai.ImageURLDetailHigh
	case policy.DetailAuto:
		return openai.ImageURLDetailAuto
	default:
		return openai.ImageURLDetailLow
	}
}
