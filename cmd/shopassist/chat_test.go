package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/cmd/shopassist/ui"
	"shopassist/internal/assistant"
	"shopassist/internal/config"
)

// newFallbackChatModel builds the chat model as it starts with no
// credentials configured at all.
func newFallbackChatModel(t *testing.T) chatModel {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvGeminiKey, "")
	t.Setenv(config.EnvSerperKey, "")
	t.Setenv(config.EnvAliExpressKey, "")
	return initChat()
}

func TestInitChat_NoKeyWiresPipelineImmediately(t *testing.T) {
	m := newFallbackChatModel(t)

	// Without a Gemini key there is no probing phase, so input is open from
	// the first frame; the pipeline must already be wired.
	assert.False(t, m.selecting)
	require.NotNil(t, m.bot)
	assert.False(t, m.handle.Ready)
}

func TestProcessInput_SubmitBeforeModelReadyGetsFallbackReply(t *testing.T) {
	m := newFallbackChatModel(t)

	msg := m.processInput("best laptop")()

	reply, ok := msg.(responseMsg)
	require.True(t, ok, "expected a chat message, got %T", msg)
	assert.Equal(t, assistant.FallbackMessage, string(reply))
}

func TestUpdate_ResizeKeepsThemeRenderer(t *testing.T) {
	m := newFallbackChatModel(t)
	require.False(t, m.styles.Theme.IsDark)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	resized, ok := next.(chatModel)
	require.True(t, ok)
	assert.True(t, resized.ready)
	assert.NotNil(t, resized.renderer)
}

func TestNewMarkdownRenderer_BothThemes(t *testing.T) {
	assert.NotNil(t, newMarkdownRenderer(ui.LightTheme(), 80))
	assert.NotNil(t, newMarkdownRenderer(ui.DarkTheme(), 80))
}
