package provider

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single entry of a conversation.
// Conversations are append-only; a Message is never modified once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Name is the tool name for RoleTool messages.
	Name string `json:"name,omitempty"`

	// ToolCallID links a RoleTool message to the ToolCall it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ToolCalls are the invocations requested by a RoleAssistant message.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"arguments"`
}

// ResultType tags the variant held by a ChatResult.
type ResultType string

const (
	ResultFinalAnswer ResultType = "final_answer"
	ResultToolRequest ResultType = "tool_request"
)

// ChatResult is what a Transport returns for one model turn.
//
// For ResultFinalAnswer, Content is the answer. For ResultToolRequest,
// ToolCalls holds at least one call and Content is whatever partial text the
// model produced alongside it.
type ChatResult struct {
	Type      ResultType
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}

// FinalAnswer builds a ResultFinalAnswer.
func FinalAnswer(content string) *ChatResult {
	return &ChatResult{Type: ResultFinalAnswer, Content: content}
}

// ToolRequest builds a ResultToolRequest. Without calls there is nothing to
// run and the result is a final answer.
func ToolRequest(content string, calls ...ToolCall) *ChatResult {
	if len(calls) == 0 {
		return FinalAnswer(content)
	}
	return &ChatResult{Type: ResultToolRequest, Content: content, ToolCalls: calls}
}

// NewResult picks the variant from what the provider returned.
// Pending tool calls always win over text.
func NewResult(content string, calls []ToolCall) *ChatResult {
	return ToolRequest(content, calls...)
}

// IsToolRequest reports whether the model asked for tools.
func (r *ChatResult) IsToolRequest() bool {
	return len(r.ToolCalls) > 0
}

// Usage is the token accounting reported for one request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
