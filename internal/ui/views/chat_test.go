package views

import (
	"errors"
	"testing"

	"github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderChat_NoMessages(t *testing.T) {
	result := RenderChat(models.State{})
	assert.Contains(t, result, "/help")
}

func TestRenderChat_WithMessages(t *testing.T) {
	vp := createTestViewport()
	vp.SetContent("Rendered Content")

	state := models.State{
		Messages: []models.Message{{Role: models.RoleUser, Content: "Hello"}},
		Viewport: vp,
	}

	assert.Contains(t, RenderChat(state), "Rendered Content")
}

func TestFormatChatContent_AllRoles(t *testing.T) {
	messages := []models.Message{
		{Role: models.RoleUser, Content: "specs of 7950X?"},
		{Role: models.RoleTool, Content: "🔧 web_search()"},
		{Role: models.RoleAssistant, Content: "16 cores"},
		{Role: models.RoleNotice, Content: "Conversation cleared"},
		{Role: models.RoleError, Content: "rate limited"},
	}

	out := FormatChatContent(messages, 76, testStyles(), &MockMarkdownRenderer{})

	assert.Contains(t, out, "You: specs of 7950X?")
	assert.Contains(t, out, "web_search()")
	assert.Contains(t, out, "16 cores")
	assert.Contains(t, out, "Conversation cleared")
	assert.Contains(t, out, "Error: rate limited")
}

func TestFormatChatContent_RendererFails_FallsBackToPlainText(t *testing.T) {
	renderer := &MockMarkdownRenderer{RenderFunc: func(string, int) (string, error) {
		return "", errors.New("boom")
	}}

	out := FormatChatContent([]models.Message{{Role: models.RoleAssistant, Content: "**bold**"}}, 76, testStyles(), renderer)

	assert.Contains(t, out, "Agent: **bold**")
}
