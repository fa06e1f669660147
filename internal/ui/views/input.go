package views

import (
	"github.com/Cyclone1070/rizz/internal/ui/models"
)

// RenderInput renders the input bar
func RenderInput(s models.State, styles Styles) string {
	return styles.Input.Render(s.Input.View())
}
