package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/Cyclone1070/rizz/internal/workflow"
)

// DefaultMaxIterations bounds the number of model turns of a single Run.
const DefaultMaxIterations = 10

// Loop drives the conversation between the user, the model and the tools.
// A Loop is not safe for concurrent use: one Run must finish before the next starts.
type Loop struct {
	transport     chatTransport
	tools         toolRegistry
	events        chan<- workflow.Event
	maxIterations int
	systemPrompt  string
	logger        *slog.Logger

	messages []provider.Message
	state    State
}

// Option configures a Loop.
type Option func(*Loop)

// WithSystemPrompt sets the system message that opens every conversation.
func WithSystemPrompt(prompt string) Option {
	return func(l *Loop) { l.systemPrompt = prompt }
}

// WithMaxIterations sets the maximum number of model turns per Run.
// Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxIterations = n
		}
	}
}

// WithEvents makes the loop report progress on events.
func WithEvents(events chan<- workflow.Event) Option {
	return func(l *Loop) { l.events = events }
}

// WithConversation continues an existing conversation instead of starting a new one.
func WithConversation(messages []provider.Message) Option {
	return func(l *Loop) {
		l.messages = append([]provider.Message{}, messages...)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoop(transport chatTransport, tools toolRegistry, opts ...Option) *Loop {
	l := &Loop{
		transport:     transport,
		tools:         tools,
		maxIterations: DefaultMaxIterations,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.messages == nil {
		l.messages = l.initialMessages()
	}
	return l
}

// Run appends input as a user message and drives the model until it produces
// a final answer, which is appended and returned.
//
// Unknown tools and failing tools do not abort the run: their error text is
// sent back to the model as the tool result. Transport failures, malformed
// tool calls and exceeding the iteration limit do abort it; the conversation
// keeps every message appended up to that point.
func (l *Loop) Run(ctx context.Context, input string) (final provider.Message, err error) {
	defer func() {
		if err != nil {
			l.state = StateAwaitingUser
		}
		l.emit(workflow.DoneEvent{Err: err})
	}()

	l.messages = append(l.messages, provider.Message{Role: provider.RoleUser, Content: input})

	decls := l.tools.Declarations()
	l.logger.Info("Starting agent run", "tools", len(decls), "max_iterations", l.maxIterations)

	toolCalls := 0
	for turn := 1; turn <= l.maxIterations; turn++ {
		if err := ctx.Err(); err != nil {
			return provider.Message{}, err
		}

		l.state = StateModelTurn
		l.logger.Debug("Model turn", "turn", turn, "max", l.maxIterations, "messages", len(l.messages))
		l.emit(workflow.ThinkingEvent{Turn: turn})

		res, err := l.transport.Send(ctx, l.Conversation(), decls)
		if err != nil {
			l.logger.Error("Error calling transport", "error", err)
			return provider.Message{}, fmt.Errorf("transport.Send: %w", classify(err))
		}
		if res == nil {
			return provider.Message{}, &provider.TransportError{
				Code:    provider.ErrorCodeInvalidRequest,
				Message: "transport returned no result",
			}
		}

		if !res.IsToolRequest() {
			final = provider.Message{Role: provider.RoleAssistant, Content: res.Content}
			l.messages = append(l.messages, final)
			l.state = StateDone
			if res.Content != "" {
				l.emit(workflow.TextEvent{Text: res.Content})
			}
			l.logger.Info("Agent completed", "iterations", turn, "tool_calls", toolCalls, "response_chars", len(res.Content))
			return final, nil
		}

		// The calls are recorded before any of them runs so every tool
		// message that follows references a request in the conversation.
		l.messages = append(l.messages, provider.Message{
			Role:      provider.RoleAssistant,
			Content:   res.Content,
			ToolCalls: res.ToolCalls,
		})
		if res.Content != "" {
			l.emit(workflow.TextEvent{Text: res.Content})
		}

		l.state = StateExecutingTools
		l.logger.Info("Processing tool calls", "count", len(res.ToolCalls))
		for i, tc := range res.ToolCalls {
			toolCalls++
			l.logger.Info("Tool call", "index", i+1, "of", len(res.ToolCalls), "tool", tc.Name)
			l.messages = append(l.messages, l.execute(ctx, tc))
		}
	}

	l.logger.Warn("Max iterations reached", "max_iterations", l.maxIterations, "tool_calls", toolCalls)
	return provider.Message{}, &MaxIterationsExceededError{Limit: l.maxIterations}
}

// execute runs one tool call and turns the outcome into a tool message.
func (l *Loop) execute(ctx context.Context, tc provider.ToolCall) provider.Message {
	l.emit(workflow.ToolStartEvent{ToolName: tc.Name, CallID: tc.ID, Args: tc.Args})

	content, failed := l.invoke(ctx, tc)

	l.emit(workflow.ToolEndEvent{ToolName: tc.Name, CallID: tc.ID, Result: content, Failed: failed})

	return provider.Message{
		Role:       provider.RoleTool,
		Name:       tc.Name,
		ToolCallID: tc.ID,
		Content:    content,
	}
}

func (l *Loop) invoke(ctx context.Context, tc provider.ToolCall) (string, bool) {
	spec, err := l.tools.Resolve(tc.Name)
	if err != nil {
		l.logger.Error("Tool not found in available tools", "tool", tc.Name)
		return fmt.Sprintf("Error: %v. Available tools: %s", err, strings.Join(l.toolNames(), ", ")), true
	}

	l.logger.Debug("Tool arguments", "tool", tc.Name, "args", tc.Args)
	out, err := spec.Invoke(ctx, tc.Args)
	if err != nil {
		l.logger.Error("Error executing tool", "tool", tc.Name, "error", err)
		return "Error: " + err.Error(), true
	}

	l.logger.Info("Tool executed successfully", "tool", tc.Name, "result_chars", len(out))
	return out, false
}

func (l *Loop) toolNames() []string {
	decls := l.tools.Declarations()
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}
	return names
}

// Conversation returns a copy of the messages exchanged so far.
func (l *Loop) Conversation() []provider.Message {
	return append([]provider.Message(nil), l.messages...)
}

// Reset discards the conversation, keeping only the system prompt.
func (l *Loop) Reset() {
	l.messages = l.initialMessages()
	l.state = StateAwaitingUser
}

// State returns where the loop currently is.
func (l *Loop) State() State {
	return l.state
}

func (l *Loop) initialMessages() []provider.Message {
	if l.systemPrompt == "" {
		return []provider.Message{}
	}
	return []provider.Message{{Role: provider.RoleSystem, Content: l.systemPrompt}}
}

func (l *Loop) emit(ev workflow.Event) {
	if l.events != nil {
		l.events <- ev
	}
}

// classify keeps the documented transport errors as they are and wraps
// anything else into a TransportError.
func classify(err error) error {
	var te *provider.TransportError
	var me *provider.MalformedToolCallError
	switch {
	case errors.As(err, &te), errors.As(err, &me):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return &provider.TransportError{
		Code:       provider.ErrorCodeUnknown,
		Message:    "transport failed",
		Underlying: err,
	}
}

var _ toolRegistry = (*tool.Registry)(nil)
