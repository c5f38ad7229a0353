package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var (
	ErrNoCredentials = errors.New("ai api key not configured")
	ErrRateLimited   = errors.New("ai service rate limited")
	ErrQuotaExceeded = errors.New("ai service quota exceeded")
	errNoToolCall    = errors.New("response contains no tool call")
)

// AnthropicConfig configures the Messages API completer.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// Anthropic requests a forced record_workout tool call from the Messages API.
type Anthropic struct {
	client    anthropic.Client
	hasKey    bool
	model     string
	maxTokens int64
	schema    anthropic.ToolInputSchemaParam
}

// NewAnthropic creates a completer. A missing API key is not an error here;
// Complete reports ErrNoCredentials instead.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	s, err := ReflectInputSchema()
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		hasKey:    cfg.APIKey != "",
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		schema: anthropic.ToolInputSchemaParam{
			Properties: s.Properties,
			Required:   s.Required,
		},
	}, nil
}

// Complete sends text with the system prompt and returns the raw tool input.
func (a *Anthropic) Complete(ctx context.Context, system, text string) (json.RawMessage, error) {
	if !a.hasKey {
		return nil, ErrNoCredentials
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        ToolName,
				Description: anthropic.String(toolDescription),
				InputSchema: a.schema,
			},
		}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: ToolName},
		},
	})
	if err != nil {
		return nil, classifyError(err)
	}

	for _, block := range msg.Content {
		if block.Type == "tool_use" && block.Name == ToolName {
			return block.Input, nil
		}
	}
	return nil, errNoToolCall
}

func classifyError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("ai request: %w", err)
	}
	switch apiErr.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("ai request: status %d: %w", apiErr.StatusCode, err)
	}
}
