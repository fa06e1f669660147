package workflow

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// TextEvent is emitted when the LLM produces text output.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ThinkingEvent is emitted before each model turn.
type ThinkingEvent struct {
	Turn int
}

func (ThinkingEvent) isEvent() {}

// DoneEvent is emitted when the workflow loop completes, successfully or not.
type DoneEvent struct {
	Err error
}

func (DoneEvent) isEvent() {}

// ToolStartEvent is emitted when a tool execution begins.
type ToolStartEvent struct {
	ToolName string
	CallID   string
	Args     map[string]any
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a tool execution completes.
type ToolEndEvent struct {
	ToolName string
	CallID   string
	Result   string
	Failed   bool
}

func (ToolEndEvent) isEvent() {}
