// Package orchestrator runs the interactive session: it reads prompts from the
// UI, handles slash commands and drives the agent loop for everything else.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/ui"
	uimodels "github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/Cyclone1070/rizz/internal/ui/services"
	"github.com/Cyclone1070/rizz/internal/workflow"
	"github.com/Cyclone1070/rizz/internal/workflow/loop"
)

const (
	inputPrompt         = "Ask about a CPU or GPU (exit to quit)"
	defaultPreviewChars = 200
)

const helpText = `Commands:
  /clear  start a new conversation
  /usage  show API usage for this session
  /help   show this help
  exit    quit (also: quit, q)`

// Session is the read-eval-print loop between the user and the agent.
type Session struct {
	agent  agent
	usage  usageSource
	ui     ui.UserInterface
	events <-chan workflow.Event

	previewChars int
	logPath      string
	logger       *slog.Logger
	now          func() time.Time

	conversations int
	pendingText   string
	pendingCalls  map[string]string
}

// Option configures a Session.
type Option func(*Session)

// WithPreviewChars limits how much of a tool result is echoed.
func WithPreviewChars(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.previewChars = n
		}
	}
}

// WithLogPath sets the log file reported in the session summary.
func WithLogPath(path string) Option {
	return func(s *Session) { s.logPath = path }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for response times.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session. events must be the channel the agent emits on, or
// nil if it emits none.
func New(a agent, usage usageSource, userInterface ui.UserInterface, events <-chan workflow.Event, opts ...Option) *Session {
	s := &Session{
		agent:        a,
		usage:        usage,
		ui:           userInterface,
		events:       events,
		previewChars: defaultPreviewChars,
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
		pendingCalls: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads prompts until the user exits or ctx is cancelled. Failed requests
// are reported to the user and do not end the session.
func (s *Session) Run(ctx context.Context) error {
	s.ui.WriteStatus(uimodels.PhaseReady, "Ready")

	for {
		input, err := s.ui.ReadInput(ctx, inputPrompt)
		if err != nil {
			return fmt.Errorf("failed to read user input: %w", err)
		}

		input = strings.TrimSpace(input)
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit", "q":
			s.logger.Info("User ended session", "conversations", s.conversations)
			return nil
		}

		if strings.HasPrefix(input, "/") {
			s.command(input)
			continue
		}

		s.ask(ctx, input)
	}
}

func (s *Session) command(input string) {
	name := strings.ToLower(strings.Fields(input)[0])
	switch name {
	case "/clear":
		s.agent.Reset()
		s.logger.Info("Conversation cleared")
		s.ui.WriteNotice("Conversation cleared.")
	case "/usage":
		s.ui.WriteNotice(FormatUsage(s.usage.Stats()))
	case "/help":
		s.ui.WriteNotice(helpText)
	default:
		s.ui.WriteNotice(fmt.Sprintf("Unknown command: %s. Type /help for commands.", name))
	}
	s.ui.WriteStatus(uimodels.PhaseReady, "Ready")
}

func (s *Session) ask(ctx context.Context, input string) {
	s.conversations++
	s.logger.Info("User query", "query", input)
	s.ui.WriteStatus(uimodels.PhaseThinking, "")

	start := s.now()

	forwarded := make(chan struct{})
	if s.events != nil {
		go func() {
			defer close(forwarded)
			s.forward()
		}()
	} else {
		close(forwarded)
	}

	answer, err := s.agent.Run(ctx, input)
	<-forwarded

	elapsed := s.now().Sub(start)
	if err != nil {
		s.logger.Error("Request failed", "error", err, "elapsed", elapsed)
		s.ui.WriteError(Describe(err))
		s.ui.WriteStatus(uimodels.PhaseError, "Request failed")
		return
	}

	s.logger.Info("Response delivered", "elapsed", elapsed, "chars", len(answer.Content))
	s.ui.WriteMessage(answer.Content)
	s.ui.WriteStatus(uimodels.PhaseDone, fmt.Sprintf("Answered in %.2fs", elapsed.Seconds()))
}

// forward turns loop events into UI updates until the run is done. The loop
// emits DoneEvent on every exit path.
func (s *Session) forward() {
	for ev := range s.events {
		switch e := ev.(type) {
		case workflow.ThinkingEvent:
			s.ui.WriteStatus(uimodels.PhaseThinking, fmt.Sprintf("Turn %d", e.Turn))
		case workflow.TextEvent:
			s.pendingText = e.Text
		case workflow.ToolStartEvent:
			// text sent alongside tool calls is commentary, not the answer
			if s.pendingText != "" {
				s.ui.WriteMessage(s.pendingText)
				s.pendingText = ""
			}
			s.pendingCalls[e.CallID] = services.FormatToolCall(e.ToolName, e.Args)
			s.ui.WriteStatus(uimodels.PhaseExecuting, "Running "+e.ToolName)
		case workflow.ToolEndEvent:
			call, ok := s.pendingCalls[e.CallID]
			if !ok {
				call = e.ToolName + "()"
			}
			delete(s.pendingCalls, e.CallID)
			s.ui.WriteTool(services.FormatToolResult(call, e.Result, e.Failed, s.previewChars))
			s.ui.WriteStatus(uimodels.PhaseThinking, "")
		case workflow.DoneEvent:
			s.pendingText = ""
			return
		}
	}
}

// Conversations is the number of prompts sent to the agent.
func (s *Session) Conversations() int {
	return s.conversations
}

// Summary is printed when the program exits.
func (s *Session) Summary() string {
	var sb strings.Builder
	sb.WriteString("Session summary\n")
	fmt.Fprintf(&sb, "  Conversations: %d\n", s.conversations)
	sb.WriteString(FormatUsage(s.usage.Stats()))
	if s.logPath != "" {
		fmt.Fprintf(&sb, "\n  Log file: %s", s.logPath)
	}
	return sb.String()
}

// FormatUsage renders usage statistics.
func FormatUsage(stats provider.UsageStats) string {
	return fmt.Sprintf("  API requests: %d\n  Prompt tokens: %d\n  Completion tokens: %d\n  Total tokens: %d",
		stats.Requests, stats.PromptTokens, stats.CompletionTokens, stats.TotalTokens)
}

// Describe turns a run error into a message for the user.
func Describe(err error) string {
	var maxErr *loop.MaxIterationsExceededError
	var malformed *provider.MalformedToolCallError
	var transportErr *provider.TransportError

	switch {
	case errors.Is(err, context.Canceled):
		return "Request cancelled."
	case errors.As(err, &maxErr):
		return fmt.Sprintf("No answer after %d model turns. Try a more specific question.", maxErr.Limit)
	case errors.As(err, &malformed):
		return fmt.Sprintf("The model produced an invalid call to %s: %v", malformed.ToolName, malformed.Err)
	case errors.As(err, &transportErr):
		return describeTransport(transportErr)
	default:
		return err.Error()
	}
}

func describeTransport(err *provider.TransportError) string {
	switch err.Code {
	case provider.ErrorCodeRateLimit:
		if err.RetryAfter != nil {
			return fmt.Sprintf("Rate limited by the provider. Try again in %s.", err.RetryAfter.Round(time.Second))
		}
		return "Rate limited by the provider. Try again shortly."
	case provider.ErrorCodeAuth:
		return "Authentication failed. Check your API key."
	case provider.ErrorCodeTimeout:
		return "The provider did not answer in time."
	case provider.ErrorCodeContextLength:
		return "The conversation is too long for the model. Use /clear to start over."
	case provider.ErrorCodeContentBlocked:
		return "The response was blocked by the provider's safety filters."
	default:
		return err.Error()
	}
}
