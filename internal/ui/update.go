package ui

import (
	"strings"
	"time"

	"github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/Cyclone1070/rizz/internal/ui/services"
	"github.com/Cyclone1070/rizz/internal/ui/views"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultTickInterval = 300 * time.Millisecond
	// rows taken by the bordered input and the status bar
	reservedRows = 4
)

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	// Dependencies
	renderer     services.MarkdownRenderer
	styles       views.Styles
	tickInterval time.Duration

	// Channels for communication with the session
	inputReq     <-chan inputRequest
	inputResp    chan<- string
	statusChan   <-chan statusMsg
	messageChan  <-chan models.Message
	setModelChan <-chan string

	// Ready signal
	readyChan chan<- struct{}
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state, m.styles)
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// newBubbleTeaModel creates a new Bubble Tea model
func newBubbleTeaModel(
	channels *UIChannels,
	styles views.Styles,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
	tickInterval time.Duration,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about a CPU or GPU..."
	ti.Focus()

	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}

	return BubbleTeaModel{
		state: models.State{
			Input:       ti,
			Viewport:    viewport.New(80, 20),
			Spinner:     spinnerFactory(),
			Messages:    []models.Message{},
			StatusPhase: models.PhaseReady,
		},
		renderer:     renderer,
		styles:       styles,
		tickInterval: tickInterval,
		inputReq:     channels.InputReq,
		inputResp:    channels.InputResp,
		statusChan:   channels.StatusChan,
		messageChan:  channels.MessageChan,
		setModelChan: channels.SetModelChan,
		readyChan:    channels.ReadyChan,
	}
}

// Internal messages
type tickMsg time.Time
type inputRequestMsg inputRequest
type statusUpdateMsg statusMsg
type messageReceivedMsg models.Message
type setModelMsg string

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	// Signal that UI is ready
	if m.readyChan != nil {
		close(m.readyChan)
	}

	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		tick(m.tickInterval),
		listenForInputRequests(m.inputReq),
		listenForStatus(m.statusChan),
		listenForMessages(m.messageChan),
		listenForModel(m.setModelChan),
	)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = max(msg.Height-reservedRows, 1)
		m.state.Input.Width = max(msg.Width-6, 10)
		m.updateViewport()
		return m, nil

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		return m, tick(m.tickInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case inputRequestMsg:
		m.state.CanSubmit = true
		m.state.Prompt = msg.Prompt
		if msg.Prompt != "" {
			m.state.Input.Placeholder = msg.Prompt
		}
		return m, listenForInputRequests(m.inputReq)

	case statusUpdateMsg:
		m.state.StatusPhase = msg.phase
		m.state.StatusMessage = msg.message
		return m, listenForStatus(m.statusChan)

	case messageReceivedMsg:
		m.state.Messages = append(m.state.Messages, models.Message(msg))
		m.updateViewport()
		return m, listenForMessages(m.messageChan)

	case setModelMsg:
		m.state.CurrentModel = string(msg)
		return m, listenForModel(m.setModelChan)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd

	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if !m.state.CanSubmit || input == "" {
			return m, nil
		}

		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    models.RoleUser,
			Content: input,
		})
		m.updateViewport()

		// Send to session
		m.inputResp <- input
		m.state.Input.SetValue("")
		m.state.CanSubmit = false
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, m.state.Width-4, m.styles, m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

// Helper commands for listening to channels
func listenForInputRequests(ch <-chan inputRequest) tea.Cmd {
	return func() tea.Msg {
		return inputRequestMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		return statusUpdateMsg(<-ch)
	}
}

func listenForMessages(ch <-chan models.Message) tea.Cmd {
	return func() tea.Msg {
		return messageReceivedMsg(<-ch)
	}
}

func listenForModel(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return setModelMsg(<-ch)
	}
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
