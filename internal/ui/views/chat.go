package views

import (
	"strings"

	"github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/Cyclone1070/rizz/internal/ui/services"
)

// RenderChat renders the message history
func RenderChat(s models.State) string {
	if len(s.Messages) == 0 {
		return "Ask about any CPU or GPU. Type /help for commands."
	}
	return s.Viewport.View()
}

// FormatChatContent formats the messages for the viewport
func FormatChatContent(messages []models.Message, width int, styles Styles, renderer services.MarkdownRenderer) string {
	var lines []string
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			lines = append(lines, styles.UserMessage.Render("You: "+msg.Content))
		case models.RoleTool:
			lines = append(lines, styles.ToolMessage.Render(msg.Content))
		case models.RoleNotice:
			lines = append(lines, styles.NoticeMessage.Render(msg.Content))
		case models.RoleError:
			lines = append(lines, styles.ErrorMessage.Render("Error: "+msg.Content))
		default:
			rendered, err := services.RenderMarkdown(msg.Content, width, renderer)
			if err != nil {
				// plain text fallback
				lines = append(lines, styles.AssistantMessage.Render("Agent: "+msg.Content))
			} else {
				lines = append(lines, styles.AssistantMessage.Render(rendered))
			}
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
