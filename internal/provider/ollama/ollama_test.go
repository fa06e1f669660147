package ollama

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChatClient struct {
	chatFunc func(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

func (m *mockChatClient) Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error {
	return m.chatFunc(ctx, req, fn)
}

func serve(t *testing.T, status int, body string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func dial(t *testing.T, srv *httptest.Server) ChatClient {
	t.Helper()
	client, err := Dial(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return client
}

func TestSend_TextResponse_FinalAnswer(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"model":"llama3.1","message":{"role":"assistant","content":"24GB"},"done":true,"done_reason":"stop","prompt_eval_count":7,"eval_count":3}`)

	tr := New(dial(t, srv), Options{Model: "llama3.1", Temperature: 0.2, MaxTokens: 50}, nil)
	res, err := tr.Send(context.Background(), []provider.Message{{Role: provider.RoleUser, Content: "vram?"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, provider.ResultFinalAnswer, res.Type)
	assert.Equal(t, "24GB", res.Content)
	assert.Equal(t, provider.Usage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10}, res.Usage)

	body := *got
	assert.Equal(t, "llama3.1", body["model"])
	assert.Equal(t, false, body["stream"])
	options := body["options"].(map[string]any)
	assert.InDelta(t, 0.2, options["temperature"], 1e-9)
	assert.EqualValues(t, 50, options["num_predict"])
}

func TestSend_ToolCalls_Decoded(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"model":"m","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"web_search","arguments":{"query":"rx 7900","max_results":2}}}]},"done":true}`)
	decls := []tool.Declaration{{Name: "web_search", Description: "search", Parameters: &tool.Schema{
		Type:       tool.TypeObject,
		Properties: map[string]*tool.Schema{"query": {Type: tool.TypeString}},
		Required:   []string{"query"},
	}}}

	res, err := New(dial(t, srv), Options{Model: "m"}, nil).Send(context.Background(), []provider.Message{{Role: provider.RoleUser, Content: "hi"}}, decls)

	require.NoError(t, err)
	require.Len(t, res.ToolCalls, 1)
	call := res.ToolCalls[0]
	assert.Equal(t, "web_search", call.Name)
	assert.True(t, strings.HasPrefix(call.ID, "call_"))
	assert.Equal(t, map[string]any{"query": "rx 7900", "max_results": float64(2)}, call.Args)

	tools := (*got)["tools"].([]any)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "web_search", fn["name"])
}

func TestSend_EncodesToolRound(t *testing.T) {
	var req *api.ChatRequest
	client := &mockChatClient{chatFunc: func(ctx context.Context, r *api.ChatRequest, fn api.ChatResponseFunc) error {
		req = r
		return fn(api.ChatResponse{Message: api.Message{Role: "assistant", Content: "done"}, Done: true})
	}}
	conv := []provider.Message{
		{Role: provider.RoleUser, Content: "q"},
		{Role: provider.RoleAssistant, ToolCalls: []provider.ToolCall{{ID: "c1", Name: "web_search", Args: map[string]any{"query": "x"}}}},
		{Role: provider.RoleTool, Name: "web_search", ToolCallID: "c1", Content: "result"},
	}

	res, err := New(client, Options{}, nil).Send(context.Background(), conv, nil)

	require.NoError(t, err)
	assert.Equal(t, "done", res.Content)
	require.Len(t, req.Messages, 3)
	require.Len(t, req.Messages[1].ToolCalls, 1)
	assert.Equal(t, "c1", req.Messages[1].ToolCalls[0].ID)
	assert.Equal(t, "web_search", req.Messages[1].ToolCalls[0].Function.Name)
	assert.Equal(t, "tool", req.Messages[2].Role)
	assert.Equal(t, "c1", req.Messages[2].ToolCallID)
}

func TestSend_NoResponse_TransportError(t *testing.T) {
	client := &mockChatClient{chatFunc: func(ctx context.Context, r *api.ChatRequest, fn api.ChatResponseFunc) error {
		return nil
	}}

	_, err := New(client, Options{}, nil).Send(context.Background(), nil, nil)

	assert.ErrorIs(t, err, provider.ErrInvalidResponse)
}

func TestSend_ModelMissing_InvalidRequest(t *testing.T) {
	srv, _ := serve(t, http.StatusNotFound, `{"error":"model \"nope\" not found, try pulling it first"}`)

	_, err := New(dial(t, srv), Options{Model: "nope"}, nil).Send(context.Background(), nil, nil)

	var te *provider.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, provider.ErrorCodeInvalidRequest, te.Code)
}

func TestSend_ServerError_Unavailable(t *testing.T) {
	srv, _ := serve(t, http.StatusInternalServerError, `{"error":"boom"}`)

	_, err := New(dial(t, srv), Options{}, nil).Send(context.Background(), nil, nil)

	var te *provider.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, provider.ErrorCodeUnavailable, te.Code)
	assert.True(t, te.Retryable)
}

func TestMapError_Cancelled_Unchanged(t *testing.T) {
	assert.Equal(t, context.Canceled, mapError(context.Canceled))
}

func TestMapError_Network(t *testing.T) {
	var te *provider.TransportError
	require.ErrorAs(t, mapError(io.ErrUnexpectedEOF), &te)
	assert.Equal(t, provider.ErrorCodeNetwork, te.Code)
}

func TestRawArguments(t *testing.T) {
	assert.Equal(t, `{"query":"rtx"}`, rawArguments(map[string]any{"query": "rtx"}))

	raw := rawArguments(map[string]any{"ch": make(chan int)})
	assert.True(t, strings.HasPrefix(raw, "map[ch:"), raw)
}
