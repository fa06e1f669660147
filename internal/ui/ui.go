package ui

import (
	"context"
	"time"

	"github.com/Cyclone1070/rizz/internal/config"
	"github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/Cyclone1070/rizz/internal/ui/services"
	"github.com/Cyclone1070/rizz/internal/ui/views"
	tea "github.com/charmbracelet/bubbletea"
)

// UI implements the UserInterface using Bubble Tea
type UI struct {
	program *tea.Program

	// Session -> UI channels
	inputReq     chan inputRequest
	inputResp    chan string
	statusChan   chan statusMsg
	messageChan  chan models.Message
	setModelChan chan string

	// Ready signal
	readyChan chan struct{}

	// closed when the program exits
	done chan struct{}
}

// Internal message types
type inputRequest struct {
	Prompt string
}

type statusMsg struct {
	phase   string
	message string
}

// UIChannels holds the channels for UI communication
type UIChannels struct {
	InputReq     chan inputRequest
	InputResp    chan string
	StatusChan   chan statusMsg
	MessageChan  chan models.Message
	SetModelChan chan string
	ReadyChan    chan struct{} // Signals when UI is ready to accept requests
}

// NewUIChannels creates a new UIChannels struct with default buffers
func NewUIChannels() *UIChannels {
	return &UIChannels{
		InputReq:     make(chan inputRequest),
		InputResp:    make(chan string),
		StatusChan:   make(chan statusMsg, 10),
		MessageChan:  make(chan models.Message, 32),
		SetModelChan: make(chan string, 1),
		ReadyChan:    make(chan struct{}),
	}
}

// NewUI creates a new Bubble Tea UI
func NewUI(
	cfg config.UIConfig,
	channels *UIChannels,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) *UI {
	ui := &UI{
		inputReq:     channels.InputReq,
		inputResp:    channels.InputResp,
		statusChan:   channels.StatusChan,
		messageChan:  channels.MessageChan,
		setModelChan: channels.SetModelChan,
		readyChan:    channels.ReadyChan,
		done:         make(chan struct{}),
	}

	model := newBubbleTeaModel(
		channels,
		views.NewStyles(cfg),
		renderer,
		spinnerFactory,
		time.Duration(cfg.TickIntervalMs)*time.Millisecond,
	)

	ui.program = tea.NewProgram(model, tea.WithAltScreen())

	return ui
}

// Start runs the UI program and blocks until it exits
func (u *UI) Start() error {
	defer close(u.done)
	_, err := u.program.Run()
	return err
}

// Quit stops the program
func (u *UI) Quit() {
	u.program.Quit()
}

// ReadInput prompts the user for input
func (u *UI) ReadInput(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case u.inputReq <- inputRequest{Prompt: prompt}:
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case response := <-u.inputResp:
			return response, nil
		}
	}
}

// WriteStatus updates the status bar
func (u *UI) WriteStatus(phase string, message string) {
	select {
	case u.statusChan <- statusMsg{phase: phase, message: message}:
	default:
		// Drop if channel is full
	}
}

// WriteMessage appends the agent's answer to the chat
func (u *UI) WriteMessage(content string) {
	u.write(models.RoleAssistant, content)
}

// WriteTool appends a tool call entry to the chat
func (u *UI) WriteTool(content string) {
	u.write(models.RoleTool, content)
}

// WriteNotice appends command output to the chat
func (u *UI) WriteNotice(content string) {
	u.write(models.RoleNotice, content)
}

// WriteError appends an error entry to the chat
func (u *UI) WriteError(content string) {
	u.write(models.RoleError, content)
}

// Chat entries are never dropped while the program runs.
func (u *UI) write(role, content string) {
	select {
	case u.messageChan <- models.Message{Role: role, Content: content}:
	case <-u.done:
	}
}

// SetModel shows the model name in the status bar
func (u *UI) SetModel(model string) {
	select {
	case u.setModelChan <- model:
	default:
	}
}

// Ready returns a channel that is closed when the UI is ready to accept requests
func (u *UI) Ready() <-chan struct{} {
	return u.readyChan
}
