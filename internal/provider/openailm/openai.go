package openailm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Options are the generation settings applied to every request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int

	// SingleToolCall keeps only the first tool call of a response, for
	// endpoints that fail when several calls are answered in one turn.
	SingleToolCall bool
}

// Transport implements provider.Transport for OpenAI-compatible chat
// completion endpoints such as SambaNova.
type Transport struct {
	client ChatClient
	opts   Options
	logger *slog.Logger
}

// New creates a Transport. A nil logger discards output.
func New(client ChatClient, opts Options, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transport{client: client, opts: opts, logger: logger}
}

// Send performs one chat completion request.
func (t *Transport) Send(ctx context.Context, conversation []provider.Message, tools []tool.Declaration) (*provider.ChatResult, error) {
	messages, err := toMessages(conversation)
	if err != nil {
		return nil, &provider.TransportError{Code: provider.ErrorCodeInvalidRequest, Message: "failed to encode conversation", Underlying: err}
	}
	toolParams, err := toTools(tools)
	if err != nil {
		return nil, &provider.TransportError{Code: provider.ErrorCodeInvalidRequest, Message: "failed to encode tools", Underlying: err}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(t.opts.Model),
		Messages:    messages,
		Tools:       toolParams,
		Temperature: openai.Float(t.opts.Temperature),
	}
	if t.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(t.opts.MaxTokens))
	}

	t.logger.Debug("Sending chat completion request", "model", t.opts.Model, "messages", len(messages), "tools", len(toolParams))

	var httpResp *http.Response
	resp, err := t.client.New(ctx, params, option.WithResponseInto(&httpResp))
	if httpResp != nil {
		t.logRateLimits(httpResp.Header)
	}
	if err != nil {
		t.logger.Error("Chat completion request failed", "error", err)
		return nil, mapError(err)
	}

	res, err := fromCompletion(resp)
	if err != nil {
		return nil, err
	}

	if t.opts.SingleToolCall && len(res.ToolCalls) > 1 {
		t.logger.Warn("Model returned several tool calls, keeping the first", "count", len(res.ToolCalls), "kept", res.ToolCalls[0].Name)
		res.ToolCalls = res.ToolCalls[:1]
	}
	if resp.Choices[0].FinishReason == "length" {
		t.logger.Warn("Response truncated due to max tokens", "max_tokens", t.opts.MaxTokens)
	}

	t.logger.Info("Chat completion response",
		"tool_calls", len(res.ToolCalls),
		"prompt_tokens", res.Usage.PromptTokens,
		"completion_tokens", res.Usage.CompletionTokens,
		"total_tokens", res.Usage.TotalTokens)
	return res, nil
}

func (t *Transport) logRateLimits(h http.Header) {
	var attrs []any
	for key, values := range h {
		if strings.HasPrefix(strings.ToLower(key), "x-ratelimit-") && len(values) > 0 {
			attrs = append(attrs, strings.ToLower(key), values[0])
		}
	}
	if len(attrs) > 0 {
		t.logger.Debug("Rate limit headers", attrs...)
	}
}

var _ provider.Transport = (*Transport)(nil)
