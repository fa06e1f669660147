package views

import (
	"github.com/Cyclone1070/rizz/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Styles is the lipgloss theme of the UI.
type Styles struct {
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	ToolMessage      lipgloss.Style
	NoticeMessage    lipgloss.Style
	ErrorMessage     lipgloss.Style

	Input lipgloss.Style

	StatusDefault   lipgloss.Style
	StatusThinking  lipgloss.Style
	StatusExecuting lipgloss.Style
	StatusDone      lipgloss.Style
	StatusError     lipgloss.Style
	StatusModel     lipgloss.Style
}

// NewStyles builds the theme from the configured colors.
func NewStyles(cfg config.UIConfig) Styles {
	primary := lipgloss.Color(cfg.ColorPrimary)
	success := lipgloss.Color(cfg.ColorSuccess)
	failure := lipgloss.Color(cfg.ColorError)
	muted := lipgloss.Color(cfg.ColorMuted)

	return Styles{
		UserMessage:      lipgloss.NewStyle().Foreground(primary).Bold(true),
		AssistantMessage: lipgloss.NewStyle(),
		ToolMessage:      lipgloss.NewStyle().Foreground(muted).PaddingLeft(2),
		NoticeMessage:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		ErrorMessage:     lipgloss.NewStyle().Foreground(failure),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),

		StatusDefault:   lipgloss.NewStyle().Foreground(muted),
		StatusThinking:  lipgloss.NewStyle().Foreground(primary),
		StatusExecuting: lipgloss.NewStyle().Foreground(primary).Bold(true),
		StatusDone:      lipgloss.NewStyle().Foreground(success),
		StatusError:     lipgloss.NewStyle().Foreground(failure).Bold(true),
		StatusModel:     lipgloss.NewStyle().Foreground(muted),
	}
}
