// Package models holds the state rendered by the terminal UI.
package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message roles shown in the chat view.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleNotice    = "notice"
	RoleError     = "error"
)

// Status phases shown in the status bar.
const (
	PhaseReady     = "ready"
	PhaseThinking  = "thinking"
	PhaseExecuting = "executing"
	PhaseDone      = "done"
	PhaseError     = "error"
)

// Message is one entry of the chat view.
type Message struct {
	Role    string
	Content string
}

// State is everything the views need to draw a frame.
type State struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Messages []Message

	Width  int
	Height int

	Prompt    string
	CanSubmit bool

	StatusPhase   string
	StatusMessage string
	DotCount      int
	CurrentModel  string
}
