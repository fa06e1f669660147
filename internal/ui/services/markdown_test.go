package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRenderer struct {
	renderFunc func(content string, width int) (string, error)
}

func (m *mockRenderer) Render(content string, width int) (string, error) {
	return m.renderFunc(content, width)
}

func TestRenderMarkdown_TrimsNewlines(t *testing.T) {
	r := &mockRenderer{renderFunc: func(content string, width int) (string, error) {
		return "\n\n" + content + "\n\n", nil
	}}

	out, err := RenderMarkdown("**16 cores**", 60, r)

	require.NoError(t, err)
	assert.Equal(t, "**16 cores**", out)
}

func TestRenderMarkdown_ZeroWidth_UsesDefault(t *testing.T) {
	var gotWidth int
	r := &mockRenderer{renderFunc: func(content string, width int) (string, error) {
		gotWidth = width
		return content, nil
	}}

	_, err := RenderMarkdown("x", 0, r)

	require.NoError(t, err)
	assert.Equal(t, defaultWidth, gotWidth)
}

func TestRenderMarkdown_Empty_SkipsRenderer(t *testing.T) {
	r := &mockRenderer{renderFunc: func(string, int) (string, error) {
		t.Fatal("renderer should not be called")
		return "", nil
	}}

	out, err := RenderMarkdown("  ", 80, r)

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderMarkdown_RendererError(t *testing.T) {
	r := &mockRenderer{renderFunc: func(string, int) (string, error) {
		return "", errors.New("bad style")
	}}

	_, err := RenderMarkdown("x", 80, r)

	assert.EqualError(t, err, "bad style")
}

func TestGlamourRenderer_RendersMarkdown(t *testing.T) {
	r := NewGlamourRenderer()

	out, err := r.Render("# RTX 4090\n\n- 24 GB GDDR6X", 60)

	require.NoError(t, err)
	assert.Contains(t, out, "4090")
	assert.Contains(t, out, "GDDR6X")
}

func TestGlamourRenderer_CachesPerWidth(t *testing.T) {
	r := NewGlamourRenderer()

	_, err := r.Render("a", 40)
	require.NoError(t, err)
	_, err = r.Render("b", 40)
	require.NoError(t, err)
	_, err = r.Render("c", 50)
	require.NoError(t, err)

	assert.Len(t, r.renderers, 2)
}
