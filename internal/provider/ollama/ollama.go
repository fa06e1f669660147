package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/ollama/ollama/api"
)

// Options are the generation settings applied to every request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Transport implements provider.Transport for a local Ollama server.
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

// Send performs one non-streaming chat request.
func (t *Transport) Send(ctx context.Context, conversation []provider.Message, tools []tool.Declaration) (*provider.ChatResult, error) {
	messages, err := toMessages(conversation)
	if err != nil {
		return nil, &provider.TransportError{Code: provider.ErrorCodeInvalidRequest, Message: "failed to encode conversation", Underlying: err}
	}
	ollamaTools, err := toTools(tools)
	if err != nil {
		return nil, &provider.TransportError{Code: provider.ErrorCodeInvalidRequest, Message: "failed to encode tools", Underlying: err}
	}

	stream := false
	options := map[string]any{"temperature": t.opts.Temperature}
	if t.opts.MaxTokens > 0 {
		options["num_predict"] = t.opts.MaxTokens
	}
	req := &api.ChatRequest{
		Model:    t.opts.Model,
		Messages: messages,
		Tools:    ollamaTools,
		Stream:   &stream,
		Options:  options,
	}

	t.logger.Debug("Sending chat request to Ollama", "model", t.opts.Model, "messages", len(messages), "tools", len(ollamaTools))

	var final *api.ChatResponse
	err = t.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		if final == nil {
			final = &resp
			return nil
		}
		// several responses are merged into one
		final.Message.Content += resp.Message.Content
		final.Message.ToolCalls = append(final.Message.ToolCalls, resp.Message.ToolCalls...)
		final.Metrics = resp.Metrics
		final.DoneReason = resp.DoneReason
		return nil
	})
	if err != nil {
		t.logger.Error("Ollama chat failed", "model", t.opts.Model, "error", err)
		return nil, mapError(err)
	}
	if final == nil {
		return nil, &provider.TransportError{Code: provider.ErrorCodeInvalidRequest, Message: "empty response", Underlying: provider.ErrInvalidResponse}
	}
	if final.DoneReason == "length" {
		t.logger.Warn("Response truncated due to length", "max_tokens", t.opts.MaxTokens)
	}

	res, err := fromResponse(*final)
	if err != nil {
		return nil, err
	}

	t.logger.Info("Ollama response",
		"tool_calls", len(res.ToolCalls),
		"prompt_tokens", res.Usage.PromptTokens,
		"completion_tokens", res.Usage.CompletionTokens)
	return res, nil
}

func mapError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		var status *api.StatusError
		switch v := any(e).(type) {
		case api.StatusError:
			status = &v
		case *api.StatusError:
			status = v
		}
		if status == nil {
			continue
		}

		switch {
		case status.StatusCode == http.StatusNotFound:
			return &provider.TransportError{Code: provider.ErrorCodeInvalidRequest, Message: fmt.Sprintf("model not available: %s", status.ErrorMessage), Underlying: err}
		case status.StatusCode == http.StatusUnauthorized || status.StatusCode == http.StatusForbidden:
			return &provider.TransportError{Code: provider.ErrorCodeAuth, Message: "authentication failed", Underlying: err}
		case status.StatusCode == http.StatusTooManyRequests:
			return &provider.TransportError{Code: provider.ErrorCodeRateLimit, Message: "rate limit exceeded", Underlying: err, Retryable: true}
		case status.StatusCode >= 500:
			return &provider.TransportError{Code: provider.ErrorCodeUnavailable, Message: "service unavailable", Underlying: err, Retryable: true}
		default:
			return &provider.TransportError{Code: provider.ErrorCodeInvalidRequest, Message: status.ErrorMessage, Underlying: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &provider.TransportError{Code: provider.ErrorCodeTimeout, Message: "request timed out", Underlying: err, Retryable: true}
	}
	return &provider.TransportError{Code: provider.ErrorCodeNetwork, Message: "network error", Underlying: err, Retryable: true}
}

var _ provider.Transport = (*Transport)(nil)
