package ui

import "context"

// UserInterface defines the contract for all user interactions.
// It follows a Read/Write pattern for clarity.
//
// Context Usage:
// ReadInput accepts context.Context for cancellation support. If the user
// quits (Ctrl+C), the context is cancelled and ReadInput returns
// context.Canceled.
type UserInterface interface {
	// ReadInput prompts the user for a line of text
	ReadInput(ctx context.Context, prompt string) (string, error)

	// WriteStatus displays ephemeral status updates (e.g., "Thinking...")
	WriteStatus(phase string, message string)

	// WriteMessage displays the agent's answer, rendered as markdown
	WriteMessage(content string)

	// WriteTool displays a tool call and a preview of its result
	WriteTool(content string)

	// WriteNotice displays command output such as /help or /usage
	WriteNotice(content string)

	// WriteError displays a failed request
	WriteError(content string)

	// SetModel shows the active model in the status bar
	SetModel(model string)
}
