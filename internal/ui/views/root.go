package views

import (
	"github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State, styles Styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderChat(s),
		RenderInput(s, styles),
		RenderStatus(s, styles),
	)
}
