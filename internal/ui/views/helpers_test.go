package views

import (
	"github.com/Cyclone1070/rizz/internal/config"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

type MockMarkdownRenderer struct {
	RenderFunc func(string, int) (string, error)
}

func (m *MockMarkdownRenderer) Render(content string, width int) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(content, width)
	}
	return content, nil
}

func testStyles() Styles {
	return NewStyles(config.DefaultConfig().UI)
}

func createTestViewport() viewport.Model {
	return viewport.New(80, 20)
}

func createTestTextInput(value string) textinput.Model {
	ti := textinput.New()
	ti.SetValue(value)
	return ti
}

func createTestSpinner() spinner.Model {
	return spinner.New()
}
