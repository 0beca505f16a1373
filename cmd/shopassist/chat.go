// Package main provides the shopassist CLI entry point.
// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"shopassist/cmd/shopassist/ui"
	"shopassist/internal/assistant"
	"shopassist/internal/config"
	"shopassist/internal/provider"
	"shopassist/internal/session"
)

const inputPlaceholder = "What would you like to know? (Enter to send, Ctrl+C to exit)"

// chatModel is the main model for the interactive chat interface.
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// State
	isLoading bool
	selecting bool
	width     int
	height    int
	ready     bool
	config    config.Config
	notices   []string

	// Backend
	logger     *zap.Logger
	gemini     *provider.GeminiClient
	search     provider.SearchClient
	transcript *session.Transcript
	bot        *assistant.Assistant
	handle     assistant.ModelHandle
}

// Messages for tea updates
type (
	responseMsg   string
	modelReadyMsg assistant.ModelHandle
)

// initChat initializes the interactive chat model.
func initChat() chatModel {
	cfg, _ := config.Load()

	styles := ui.DefaultStyles()
	switch cfg.Theme {
	case "dark":
		styles = ui.NewStyles(ui.DarkTheme())
	case "light":
		styles = ui.NewStyles(ui.LightTheme())
	}

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer := newMarkdownRenderer(styles.Theme, 80)

	logger := zap.NewNop()

	gemini := provider.NewGeminiClient(cfg.GeminiAPIKey, logger)
	var search provider.SearchClient
	if cfg.SerperAPIKey != "" {
		search = provider.NewSerperClient(cfg.SerperAPIKey, logger)
	}

	m := chatModel{
		textinput:  ti,
		viewport:   vp,
		spinner:    sp,
		styles:     styles,
		renderer:   renderer,
		config:     cfg,
		notices:    cfg.Warnings(),
		logger:     logger,
		gemini:     gemini,
		search:     search,
		transcript: session.NewTranscript(),
		selecting:  cfg.GeminiAPIKey != "",
	}
	// Wire the pipeline immediately with an unready handle so a submit that
	// races model selection gets the fallback reply instead of a nil
	// assistant; the handle is rebuilt once selection commits.
	m.buildAssistant()
	return m
}

// newMarkdownRenderer builds the glamour renderer for the given theme. Used
// at init and on every resize so the style choice survives window changes.
func newMarkdownRenderer(theme ui.Theme, wrap int) *glamour.TermRenderer {
	var renderer *glamour.TermRenderer
	if theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(wrap),
		)
	}
	return renderer
}

// selectModel probes the candidate models in the background so the UI stays
// responsive during startup.
func (m chatModel) selectModel() tea.Cmd {
	return func() tea.Msg {
		if m.config.GeminiAPIKey == "" {
			return modelReadyMsg(assistant.ModelHandle{})
		}
		handle := assistant.SelectModel(context.Background(), m.gemini, assistant.DefaultModelCandidates, m.logger)
		return modelReadyMsg(handle)
	}
}

// buildAssistant wires the pipeline once the model handle is committed.
func (m *chatModel) buildAssistant() {
	m.bot = assistant.New(
		assistant.NewAugmenter(m.search, m.logger),
		assistant.NewComposer(m.gemini, m.handle, m.logger),
		m.transcript,
		m.logger,
	)
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.selectModel(),
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading && !m.selecting {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 3
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.viewport.SetContent(m.renderHistory())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}

		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer = newMarkdownRenderer(m.styles.Theme, msg.Width-8)
		}

	case spinner.TickMsg:
		if m.isLoading || m.selecting {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case modelReadyMsg:
		m.selecting = false
		m.handle = assistant.ModelHandle(msg)
		m.buildAssistant()
		m.viewport.SetContent(m.renderHistory())

	case responseMsg:
		m.isLoading = false
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.textinput.Reset()
	m.isLoading = true

	return m, tea.Batch(
		m.spinner.Tick,
		m.processInput(input),
	)
}

// processInput runs one query through the pipeline in the background. The
// pipeline appends both turns to the transcript; the response message only
// triggers a re-render.
func (m chatModel) processInput(input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		reply := m.bot.Respond(ctx, input)
		return responseMsg(reply)
	}
}

func (m chatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit", "/q":
		return m, tea.Quit

	case "/clear":
		m.transcript.Clear()
		m.viewport.SetContent("")
		m.textinput.Reset()
		return m, nil

	case "/help":
		m.pushNotice(`## Available Commands

| Command | Description |
|---------|-------------|
| /help | Show this help message |
| /clear | Clear chat history |
| /status | Show provider status |
| /config set-key <key> | Set Gemini API key |
| /config set-serper-key <key> | Set Serper API key |
| /config set-theme <theme> | Set theme (light/dark) |
| /quit, /exit, /q | Exit |

## Tips
- **Enter** to send a message
- **Ctrl+C** or **Esc** to exit
- Ask about products, comparisons, deals, or specs
`)
		return m, nil

	case "/status":
		var sb strings.Builder
		sb.WriteString("## Status\n\n")
		if m.handle.Ready {
			sb.WriteString(fmt.Sprintf("- Gemini: active (`%s`)\n", m.handle.Identifier))
		} else {
			sb.WriteString("- Gemini: unavailable (fallback mode)\n")
		}
		if m.search != nil {
			sb.WriteString("- Web search: enabled\n")
		} else {
			sb.WriteString("- Web search: disabled (no SERPER_KEY)\n")
		}
		if m.config.AliExpressAPIKey != "" {
			sb.WriteString("- Marketplace: key configured (see `shopassist products`)\n")
		} else {
			sb.WriteString("- Marketplace: disabled (no ALIEXPRESS_KEY)\n")
		}
		sb.WriteString(fmt.Sprintf("- Session: `%s`, %d turns\n", m.transcript.ID(), m.transcript.Len()))
		m.pushNotice(sb.String())
		return m, nil

	case "/config":
		return m.handleConfigCommand(parts)
	}

	m.pushNotice(fmt.Sprintf("Unknown command `%s`. Try `/help`.", cmd))
	return m, nil
}

func (m chatModel) handleConfigCommand(parts []string) (tea.Model, tea.Cmd) {
	if len(parts) < 3 {
		m.pushNotice("Usage: `/config set-key <key>`, `/config set-serper-key <key>` or `/config set-theme <light|dark>`")
		return m, nil
	}

	switch parts[1] {
	case "set-key":
		m.config.GeminiAPIKey = parts[2]
		if err := config.Save(m.config); err != nil {
			m.pushNotice(fmt.Sprintf("Error saving config: %v", err))
			return m, nil
		}
		// Re-initialize the client and re-run model selection
		m.gemini = provider.NewGeminiClient(m.config.GeminiAPIKey, m.logger)
		m.selecting = true
		m.textinput.Reset()
		m.pushNotice("✅ Gemini API key saved. Probing models...")
		return m, tea.Batch(m.spinner.Tick, m.selectModel())

	case "set-serper-key":
		m.config.SerperAPIKey = parts[2]
		if err := config.Save(m.config); err != nil {
			m.pushNotice(fmt.Sprintf("Error saving config: %v", err))
			return m, nil
		}
		m.search = provider.NewSerperClient(m.config.SerperAPIKey, m.logger)
		if m.bot != nil {
			m.buildAssistant()
		}
		m.pushNotice("✅ Serper API key saved. Web search enabled.")
		return m, nil

	case "set-theme":
		theme := parts[2]
		if theme != "light" && theme != "dark" {
			m.pushNotice("Invalid theme. Use 'light' or 'dark'.")
			return m, nil
		}
		m.config.Theme = theme
		if err := config.Save(m.config); err != nil {
			m.pushNotice(fmt.Sprintf("Error saving config: %v", err))
			return m, nil
		}
		m.pushNotice(fmt.Sprintf("✅ Theme set to '%s'. Restart to apply.", theme))
		return m, nil
	}

	m.pushNotice("Usage: `/config set-key <key>`, `/config set-serper-key <key>` or `/config set-theme <light|dark>`")
	return m, nil
}

// pushNotice shows an assistant-side informational message. Notices go on the
// transcript like any other assistant turn so they scroll with the history.
func (m *chatModel) pushNotice(content string) {
	m.transcript.Append(session.Turn{Role: session.RoleAssistant, Content: content})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m chatModel) renderHistory() string {
	var sb strings.Builder

	for _, notice := range m.notices {
		sb.WriteString(m.styles.Warning.Render("⚠ "+notice) + "\n")
	}
	if len(m.notices) > 0 {
		sb.WriteString("\n")
	}

	for _, turn := range m.transcript.All() {
		if turn.Role == session.RoleUser {
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(turn.Content))
			sb.WriteString("\n\n")
		} else {
			assistantStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(assistantStyle.Render("🛍️ Assistant") + "\n")
			sb.WriteString(m.safeRenderMarkdown(turn.Content))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m chatModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, fall back to plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()

	chatView := m.styles.Content.Render(m.viewport.View())

	if m.selecting {
		chatView += "\n" + m.styles.Spinner.Render(m.spinner.View()) + " Probing models..."
	} else if m.isLoading {
		chatView += "\n" + m.styles.Spinner.Render(m.spinner.View()) + " Thinking..."
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		footer,
	)
}

func (m chatModel) renderHeader() string {
	title := m.styles.Header.Render(" 🛍️ AI Shopping Assistant ")

	var status string
	switch {
	case m.selecting:
		status = m.styles.Warning.Render("● Probing models")
	case m.handle.Ready:
		status = m.styles.Success.Render("● " + m.handle.Identifier)
	default:
		status = m.styles.Error.Render("● Fallback mode")
	}

	caption := m.styles.Muted.Render(" Ask me anything about products, comparisons, or shopping advice!")

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		"  ",
		status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		caption,
		m.styles.RenderDivider(m.width),
	)
}

func (m chatModel) renderFooter() string {
	help := m.styles.Muted.Render("Enter: send • /help: commands • /clear: reset history • Ctrl+C: exit")
	return lipgloss.NewStyle().
		MarginTop(1).
		Render(help)
}

// runInteractiveChat starts the bubbletea chat interface.
func runInteractiveChat() error {
	p := tea.NewProgram(initChat(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface error: %w", err)
	}
	return nil
}
