package openailm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textCompletion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "Meta-Llama-3.1-8B-Instruct",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "The RTX 4090 has 24GB of GDDR6X."}}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 9, "total_tokens": 21}
}`

func toolCompletion(calls ...string) string {
	joined := ""
	for i, c := range calls {
		if i > 0 {
			joined += ","
		}
		joined += c
	}
	return fmt.Sprintf(`{
	"id": "chatcmpl-2",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "m",
	"choices": [{"index": 0, "finish_reason": "tool_calls", "message": {"role": "assistant", "content": "", "tool_calls": [%s]}}],
	"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
}`, joined)
}

func functionCall(id, name, args string) string {
	encoded, _ := json.Marshal(args)
	return fmt.Sprintf(`{"id": %q, "type": "function", "function": {"name": %q, "arguments": %s}}`, id, name, encoded)
}

// serve starts a chat completions endpoint that records the decoded request body.
func serve(t *testing.T, status int, body string, header http.Header) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTransport(srv *httptest.Server, opts Options, logger *slog.Logger) *Transport {
	return New(Dial("test-key", srv.URL, 5*time.Second), opts, logger)
}

func userTurn(text string) []provider.Message {
	return []provider.Message{
		{Role: provider.RoleSystem, Content: "You are a hardware expert."},
		{Role: provider.RoleUser, Content: text},
	}
}

func TestSend_TextResponse_FinalAnswer(t *testing.T) {
	srv, got := serve(t, http.StatusOK, textCompletion, nil)

	tr := newTransport(srv, Options{Model: "Meta-Llama-3.1-8B-Instruct", Temperature: 0.7, MaxTokens: 1000}, nil)
	res, err := tr.Send(context.Background(), userTurn("RTX 4090 memory?"), nil)

	require.NoError(t, err)
	assert.Equal(t, provider.ResultFinalAnswer, res.Type)
	assert.Equal(t, "The RTX 4090 has 24GB of GDDR6X.", res.Content)
	assert.Equal(t, provider.Usage{PromptTokens: 12, CompletionTokens: 9, TotalTokens: 21}, res.Usage)

	body := *got
	assert.Equal(t, "Meta-Llama-3.1-8B-Instruct", body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.EqualValues(t, 1000, body["max_tokens"])
	assert.NotContains(t, body, "tools")
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestSend_ToolCalls_Decoded(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, toolCompletion(
		functionCall("call_1", "web_search", `{"query": "rtx 4090 specs", "max_results": 3}`),
		functionCall("call_2", "spec_parser", ""),
	), nil)

	res, err := newTransport(srv, Options{Model: "m"}, nil).Send(context.Background(), userTurn("hi"), nil)

	require.NoError(t, err)
	require.True(t, res.IsToolRequest())
	require.Len(t, res.ToolCalls, 2)
	assert.Equal(t, provider.ToolCall{ID: "call_1", Name: "web_search", Args: map[string]any{"query": "rtx 4090 specs", "max_results": float64(3)}}, res.ToolCalls[0])
	assert.Equal(t, map[string]any{}, res.ToolCalls[1].Args)
}

func TestSend_EmptyToolCallID_Assigned(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, toolCompletion(
		functionCall("", "web_search", `{"query": "a"}`),
		functionCall("", "web_search", `{"query": "b"}`),
	), nil)

	res, err := newTransport(srv, Options{Model: "m"}, nil).Send(context.Background(), userTurn("hi"), nil)

	require.NoError(t, err)
	require.Len(t, res.ToolCalls, 2)
	assert.True(t, strings.HasPrefix(res.ToolCalls[0].ID, "call_"))
	assert.True(t, strings.HasPrefix(res.ToolCalls[1].ID, "call_"))
	assert.NotEqual(t, res.ToolCalls[0].ID, res.ToolCalls[1].ID)
}

func TestSend_SingleToolCall_KeepsFirst(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, toolCompletion(
		functionCall("a", "web_search", `{"query": "a"}`),
		functionCall("b", "web_search", `{"query": "b"}`),
	), nil)

	res, err := newTransport(srv, Options{SingleToolCall: true}, nil).Send(context.Background(), userTurn("hi"), nil)

	require.NoError(t, err)
	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, "a", res.ToolCalls[0].ID)
}

func TestSend_MalformedArguments_MalformedToolCallError(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, toolCompletion(functionCall("call_1", "web_search", `{"query": `)), nil)

	_, err := newTransport(srv, Options{}, nil).Send(context.Background(), userTurn("hi"), nil)

	var me *provider.MalformedToolCallError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "call_1", me.CallID)
	assert.Equal(t, "web_search", me.ToolName)
	assert.Equal(t, `{"query": `, me.Raw)
}

func TestSend_EncodesToolRound(t *testing.T) {
	srv, got := serve(t, http.StatusOK, textCompletion, nil)
	conv := append(userTurn("compare"),
		provider.Message{Role: provider.RoleAssistant, Content: "Looking it up.", ToolCalls: []provider.ToolCall{
			{ID: "call_1", Name: "web_search", Args: map[string]any{"query": "rtx 4090"}},
		}},
		provider.Message{Role: provider.RoleTool, Name: "web_search", ToolCallID: "call_1", Content: "1. RTX 4090"},
	)
	decls := []tool.Declaration{{
		Name:        "web_search",
		Description: "Search the web",
		Parameters: &tool.Schema{
			Type:       tool.TypeObject,
			Properties: map[string]*tool.Schema{"query": {Type: tool.TypeString}},
			Required:   []string{"query"},
		},
	}}

	_, err := newTransport(srv, Options{}, nil).Send(context.Background(), conv, decls)
	require.NoError(t, err)

	msgs := (*got)["messages"].([]any)
	require.Len(t, msgs, 4)
	assistant := msgs[2].(map[string]any)
	assert.Equal(t, "assistant", assistant["role"])
	assert.Equal(t, "Looking it up.", assistant["content"])
	call := assistant["tool_calls"].([]any)[0].(map[string]any)
	assert.Equal(t, "call_1", call["id"])
	fn := call["function"].(map[string]any)
	assert.Equal(t, "web_search", fn["name"])
	assert.JSONEq(t, `{"query": "rtx 4090"}`, fn["arguments"].(string))

	toolMsg := msgs[3].(map[string]any)
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call_1", toolMsg["tool_call_id"])

	tools := (*got)["tools"].([]any)
	require.Len(t, tools, 1)
	def := tools[0].(map[string]any)
	assert.Equal(t, "function", def["type"])
	params := def["function"].(map[string]any)["parameters"].(map[string]any)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"query"}, params["required"])
}

func TestSend_StatusErrors_Mapped(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		code      provider.ErrorCode
		retryable bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "auth"}}`, provider.ErrorCodeAuth, false},
		{"bad request", http.StatusBadRequest, `{"error": {"message": "bad field", "type": "invalid_request_error"}}`, provider.ErrorCodeInvalidRequest, false},
		{"context length", http.StatusBadRequest, `{"error": {"message": "too long", "code": "context_length_exceeded"}}`, provider.ErrorCodeContextLength, false},
		{"server error", http.StatusServiceUnavailable, `{"error": {"message": "overloaded"}}`, provider.ErrorCodeUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := serve(t, tt.status, tt.body, nil)

			_, err := newTransport(srv, Options{}, nil).Send(context.Background(), userTurn("hi"), nil)

			var te *provider.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.code, te.Code)
			assert.Equal(t, tt.retryable, te.Retryable)
		})
	}
}

func TestSend_RateLimited_RetryAfter(t *testing.T) {
	header := http.Header{"Retry-After": {"2"}}
	srv, _ := serve(t, http.StatusTooManyRequests, `{"error": {"message": "slow down"}}`, header)

	_, err := newTransport(srv, Options{}, nil).Send(context.Background(), userTurn("hi"), nil)

	var te *provider.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, provider.ErrorCodeRateLimit, te.Code)
	assert.True(t, provider.IsRetryable(err))
	require.NotNil(t, provider.GetRetryAfter(err))
	assert.Equal(t, 2*time.Second, *provider.GetRetryAfter(err))
}

func TestSend_RateLimitHeaders_Logged(t *testing.T) {
	header := http.Header{
		"X-Ratelimit-Remaining-Requests": {"19"},
		"X-Ratelimit-Limit-Requests":     {"20"},
	}
	srv, _ := serve(t, http.StatusOK, textCompletion, header)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := newTransport(srv, Options{}, logger).Send(context.Background(), userTurn("hi"), nil)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "x-ratelimit-remaining-requests=19")
	assert.Contains(t, buf.String(), "x-ratelimit-limit-requests=20")
}

func TestSend_NoChoices_TransportError(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "choices": []}`, nil)

	_, err := newTransport(srv, Options{}, nil).Send(context.Background(), userTurn("hi"), nil)

	assert.ErrorIs(t, err, provider.ErrNoChoices)
}

func TestSend_Cancelled_ReturnsContextError(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, textCompletion, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTransport(srv, Options{}, nil).Send(ctx, userTurn("hi"), nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapError_NonAPIErrors(t *testing.T) {
	var te *provider.TransportError

	require.ErrorAs(t, mapError(fmt.Errorf("post: %w", context.DeadlineExceeded)), &te)
	assert.Equal(t, provider.ErrorCodeTimeout, te.Code)

	require.ErrorAs(t, mapError(errors.New("connection refused")), &te)
	assert.Equal(t, provider.ErrorCodeNetwork, te.Code)

	assert.Nil(t, mapError(nil))
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   *time.Duration
	}{
		{"seconds", http.Header{"Retry-After": {"3"}}, durationPtr(3 * time.Second)},
		{"reset duration", http.Header{"X-Ratelimit-Reset-Requests": {"1m30s"}}, durationPtr(90 * time.Second)},
		{"reset seconds", http.Header{"X-Ratelimit-Reset-Requests": {"0.5"}}, durationPtr(500 * time.Millisecond)},
		{"missing", http.Header{}, nil},
		{"garbage", http.Header{"Retry-After": {"soon"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.header))
		})
	}
}

func TestDecodeArguments(t *testing.T) {
	args, err := decodeArguments("c", "t", "null")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, args)

	_, err = decodeArguments("c", "t", `["not", "an", "object"]`)
	var me *provider.MalformedToolCallError
	assert.ErrorAs(t, err, &me)
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
