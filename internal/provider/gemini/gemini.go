package gemini

import (
	"context"
	"log/slog"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
)

// Options are the generation settings applied to every request.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Transport implements provider.Transport for Google Gemini.
type Transport struct {
	client GeminiClient
	opts   Options
	logger *slog.Logger
}

// New creates a Transport. A nil logger discards output.
func New(client GeminiClient, opts Options, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transport{client: client, opts: opts, logger: logger}
}

// Send converts the conversation to Gemini contents and returns the model's reply.
func (t *Transport) Send(ctx context.Context, conversation []provider.Message, tools []tool.Declaration) (*provider.ChatResult, error) {
	system, contents := toGeminiContents(conversation)
	config := toGeminiConfig(t.opts, system, tools)

	t.logger.Debug("Sending request to Gemini", "model", t.opts.Model, "contents", len(contents), "tools", len(tools))

	resp, err := t.client.GenerateContent(ctx, t.opts.Model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	res, err := fromGeminiResponse(resp)
	if err != nil {
		return nil, err
	}
	if res.Type == provider.ResultFinalAnswer && isTruncated(resp) {
		t.logger.Warn("Response truncated due to max tokens", "max_tokens", t.opts.MaxTokens)
	}

	t.logger.Info("Gemini response",
		"tool_calls", len(res.ToolCalls),
		"prompt_tokens", res.Usage.PromptTokens,
		"completion_tokens", res.Usage.CompletionTokens,
		"total_tokens", res.Usage.TotalTokens)
	return res, nil
}

var _ provider.Transport = (*Transport)(nil)
