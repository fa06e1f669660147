// Package testhelpers provides shared fakes for tests that wire the loop,
// the session and the UI together.
package testhelpers

import (
	"context"
	"errors"
	"sync"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	uimodels "github.com/Cyclone1070/rizz/internal/ui/models"
)

// ErrInputExhausted is returned by MockUI.ReadInput once every queued input
// has been read, as if the UI had been closed.
var ErrInputExhausted = errors.New("no more input")

// MockTransport is a scripted provider.Transport. Results are returned in
// queue order; the last one repeats once the queue is exhausted.
type MockTransport struct {
	mu      sync.Mutex
	results []*provider.ChatResult
	errs    []error
	calls   int
	seen    [][]provider.Message

	// OnSendCalled is a callback for observing Send calls
	OnSendCalled func(conversation []provider.Message, tools []tool.Declaration)
}

// NewMockTransport creates an empty transport. Send fails until a result is queued.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// WithFinalAnswer queues a final answer
func (m *MockTransport) WithFinalAnswer(content string) *MockTransport {
	return m.queue(provider.FinalAnswer(content), nil)
}

// WithToolCalls queues a tool request
func (m *MockTransport) WithToolCalls(content string, calls ...provider.ToolCall) *MockTransport {
	return m.queue(provider.ToolRequest(content, calls...), nil)
}

// WithResult queues an arbitrary result, e.g. one carrying usage
func (m *MockTransport) WithResult(res *provider.ChatResult) *MockTransport {
	return m.queue(res, nil)
}

// WithError queues a failing call
func (m *MockTransport) WithError(err error) *MockTransport {
	return m.queue(nil, err)
}

func (m *MockTransport) queue(res *provider.ChatResult, err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
	m.errs = append(m.errs, err)
	return m
}

// Send implements provider.Transport
func (m *MockTransport) Send(ctx context.Context, conversation []provider.Message, tools []tool.Declaration) (*provider.ChatResult, error) {
	if m.OnSendCalled != nil {
		m.OnSendCalled(conversation, tools)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen = append(m.seen, conversation)
	if len(m.results) == 0 {
		m.calls++
		return nil, errors.New("mock transport: no result queued")
	}
	i := min(m.calls, len(m.results)-1)
	m.calls++
	return m.results[i], m.errs[i]
}

// Calls returns the number of Send calls
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Seen returns the conversation passed to every Send call
func (m *MockTransport) Seen() [][]provider.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]provider.Message, len(m.seen))
	copy(out, m.seen)
	return out
}

// Entry is one chat entry written to a MockUI.
type Entry struct {
	Role    string
	Content string
}

// MockUI implements ui.UserInterface for testing. Inputs are read in order.
type MockUI struct {
	mu       sync.Mutex
	inputs   []string
	entries  []Entry
	statuses []string
	model    string

	// InputFunc replaces the input queue when set
	InputFunc func(ctx context.Context, prompt string) (string, error)
}

// NewMockUI creates a UI that replays inputs.
func NewMockUI(inputs ...string) *MockUI {
	return &MockUI{inputs: inputs}
}

func (m *MockUI) ReadInput(ctx context.Context, prompt string) (string, error) {
	if m.InputFunc != nil {
		return m.InputFunc(ctx, prompt)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inputs) == 0 {
		return "", ErrInputExhausted
	}
	in := m.inputs[0]
	m.inputs = m.inputs[1:]
	return in, nil
}

func (m *MockUI) WriteStatus(phase, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, phase)
}

func (m *MockUI) WriteMessage(content string) { m.add(uimodels.RoleAssistant, content) }
func (m *MockUI) WriteTool(content string)    { m.add(uimodels.RoleTool, content) }
func (m *MockUI) WriteNotice(content string)  { m.add(uimodels.RoleNotice, content) }
func (m *MockUI) WriteError(content string)   { m.add(uimodels.RoleError, content) }

func (m *MockUI) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
}

func (m *MockUI) add(role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Role: role, Content: content})
}

// Entries returns a copy of the chat entries written so far
func (m *MockUI) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Statuses returns the status phases written so far
func (m *MockUI) Statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.statuses))
	copy(out, m.statuses)
	return out
}

// RemainingInputs returns the inputs that were never read
func (m *MockUI) RemainingInputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// Model returns the last model passed to SetModel
func (m *MockUI) Model() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}
