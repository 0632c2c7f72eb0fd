package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// Claude implements Analyzer using the Anthropic Messages API.
type Claude struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClaude returns an Analyzer backed by the Anthropic API.
func NewClaude(apiKey, model string, maxTokens int64) *Claude {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Claude{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}
}

// Analyze submits the diff and doc to the model and parses its JSON verdict.
// There is no retry; a failed call surfaces to the caller, which logs it and
// records the job as failed.
func (c *Claude) Analyze(ctx context.Context, in Input) (*Verdict, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(0.1),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(in))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	verdict, err := parseVerdict(sb.String())
	if err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}
	return verdict, nil
}
