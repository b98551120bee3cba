package generate

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
)

// Claude defaults.
const (
	DefaultClaudeModel     = "claude-3-5-haiku-latest"
	DefaultClaudeMaxTokens = 1024
)

const claudeSystemPrompt = "You write Mermaid diagrams. Reply with Mermaid source only, no prose."

// ClaudeStrategy asks the Anthropic Messages API for a diagram.
type ClaudeStrategy struct {
	client    anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClaude returns the strategy, or nil when apiKey is empty. Extra
// request options (base URL, HTTP client) are passed to the SDK client.
// The SDK's own retries are disabled: one attempt per generation.
func NewClaude(apiKey, model string, maxTokens int, timeout time.Duration, opts ...option.RequestOption) *ClaudeStrategy {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = DefaultClaudeModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultClaudeMaxTokens
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &ClaudeStrategy{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

// Name implements Strategy.
func (s *ClaudeStrategy) Name() string { return NameClaude }

// Generate implements Strategy.
func (s *ClaudeStrategy) Generate(ctx context.Context, req diagram.Request) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: claudeSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt(req))),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return failure(errors.Wrap(errors.ErrCodeTimeout, err, "claude request"))
		}
		return failure(errors.Wrap(errors.ErrCodeNetwork, err, "claude request"))
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	src, ok := ExtractMermaid(text.String())
	if !ok {
		return failure(errors.New(errors.ErrCodeGenerationFailed, "no valid Mermaid code generated"))
	}
	return success(diagram.Response{Source: src, Origin: diagram.OriginAI})
}

var _ Strategy = (*ClaudeStrategy)(nil)
