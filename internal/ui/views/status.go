package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State, styles Styles) string {
	var icon string
	var style lipgloss.Style

	switch s.StatusPhase {
	case models.PhaseThinking:
		dots := strings.Repeat(".", s.DotCount)
		return withModel(styles.StatusThinking.Render(fmt.Sprintf("%s Thinking%s", s.Spinner.View(), dots)), s, styles)
	case models.PhaseExecuting:
		icon = s.Spinner.View()
		style = styles.StatusExecuting
	case models.PhaseDone:
		icon = "✔"
		style = styles.StatusDone
	case models.PhaseError:
		icon = "✗"
		style = styles.StatusError
	default:
		style = styles.StatusDefault
	}

	status := "Ready"
	if s.StatusMessage != "" {
		status = strings.TrimSpace(fmt.Sprintf("%s %s", icon, s.StatusMessage))
	} else if icon != "" {
		status = icon
	}

	return withModel(style.Render(status), s, styles)
}

func withModel(left string, s models.State, styles Styles) string {
	if s.CurrentModel == "" {
		return left
	}
	return fmt.Sprintf("%s  %s", left, styles.StatusModel.Render(s.CurrentModel))
}
