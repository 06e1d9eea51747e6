package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/streamchat/internal/api"
	"github.com/diogo/streamchat/internal/config"
	apierrors "github.com/diogo/streamchat/internal/errors"
	"github.com/diogo/streamchat/internal/history"
	"github.com/diogo/streamchat/internal/models"
	"github.com/diogo/streamchat/internal/render"
	"github.com/diogo/streamchat/internal/speech"
)

const appTitle = "AI Assistant"

// Message types for the TUI
type (
	// streamStartedMsg carries the event channel of an accepted chat request
	streamStartedMsg struct {
		gen    int
		events <-chan api.StreamEvent
	}
	streamEventMsg struct {
		gen    int
		event  api.StreamEvent
		events <-chan api.StreamEvent
	}
	// streamFailedMsg reports a request that never started streaming
	streamFailedMsg struct {
		gen int
		err error
	}
	uploadDoneMsg struct {
		result *api.UploadResult
		err    error
	}
	transcriptMsg struct {
		text string
		err  error
	}
	clipboardMsg struct {
		err error
	}
	exportDoneMsg struct {
		path string
		err  error
	}
)

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// Options configures a chat model
type Options struct {
	Client api.ClientInterface
	// Probe is consulted once; nil means speech input is unavailable
	Probe  speech.Probe
	Policy history.Policy
	Logger *zap.Logger
	// Greeting seeds the conversation when non-empty
	Greeting string
	Theme    string
	Render   render.Options
}

// Model represents the TUI state
type Model struct {
	client     api.ClientInterface
	recognizer speech.Recognizer
	canListen  bool
	policy     history.Policy
	logger     *zap.Logger
	renderOpts render.Options

	ctx    context.Context
	cancel context.CancelFunc

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	selector FileSelectorModel

	// State
	messages      []models.Message
	theme         string
	loading       bool
	listening     bool
	selectingFile bool
	ready         bool
	status        string
	err           error

	// generation identifies the current chat request; pending is the index of its
	// placeholder reply, or -1 when no reply is being assembled
	generation int
	pending    int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := opts.Policy
	if policy == nil {
		policy = history.Unbounded{}
	}

	theme := opts.Theme
	if !config.ValidTheme(theme) {
		theme = config.ThemeLight
	}
	render.SetTUITheme(theme)
	UpdateTheme()

	renderOpts := opts.Render
	if renderOpts.Style == "" {
		renderOpts = render.DefaultOptions()
	}
	renderOpts = renderOpts.ForTheme(theme)

	var recognizer speech.Recognizer
	canListen := false
	if opts.Probe != nil {
		recognizer, canListen = opts.Probe()
	}

	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()
	styleTextarea(&ta)

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	messages := []models.Message{}
	if opts.Greeting != "" {
		messages = append(messages, models.AssistantMessage(opts.Greeting))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		client:     opts.Client,
		recognizer: recognizer,
		canListen:  canListen && recognizer != nil,
		policy:     policy,
		logger:     logger,
		renderOpts: renderOpts,
		ctx:        ctx,
		cancel:     cancel,
		textarea:   ta,
		spinner:    s,
		messages:   messages,
		theme:      theme,
		pending:    -1,
	}
}

func styleTextarea(ta *textarea.Model) {
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Messages returns a copy of the conversation
func (m Model) Messages() []models.Message {
	out := make([]models.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selectingFile {
		return m.updateFileSelection(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 5  // Input panel with border
		statusHeight := 2 // Status line and shortcuts

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()

		case "enter":
			return m.handleInput(m.textarea.Value())

		case "ctrl+o":
			return m.openFileSelector()

		case "ctrl+r":
			return m.startListening()

		case "ctrl+t":
			return m.toggleTheme(), nil

		case "ctrl+y":
			return m.copyLastReply()
		}

	case streamStartedMsg:
		if msg.gen != m.generation {
			return m, nil
		}
		return m, waitForStream(msg.gen, msg.events)

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case streamFailedMsg:
		if msg.gen != m.generation {
			return m, nil
		}
		m.failStream(msg.err)
		return m, nil

	case uploadDoneMsg:
		m.handleUploadDone(msg)
		return m, nil

	case transcriptMsg:
		m.listening = false
		if msg.err != nil {
			m.logger.Debug("speech capture ended without transcript", zap.Error(msg.err))
		} else if msg.text != "" {
			m.textarea.SetValue(msg.text)
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied last reply to clipboard"
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Saved conversation to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.listening {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			if m.thinking() {
				m.refresh()
			}
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// quit cancels in-flight requests and stops the program
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// handleInput dispatches slash commands or submits the text as a chat turn
func (m Model) handleInput(input string) (tea.Model, tea.Cmd) {
	command, ok := parseSlashCommand(input)
	if !ok {
		return m.submit(input)
	}

	m.textarea.Reset()
	m.status = ""
	m.err = nil

	switch command.name {
	case cmdQuit, cmdExit:
		return m.quit()
	case cmdUpload:
		if command.arg == "" {
			return m.openFileSelector()
		}
		return m, m.uploadFile(command.arg)
	case cmdSpeak:
		return m.startListening()
	case cmdTheme:
		return m.toggleTheme(), nil
	case cmdSave:
		if command.arg == "" {
			m.status = "Usage: /save <path>"
			return m, nil
		}
		return m, m.exportTranscript(command.arg)
	case cmdCopy:
		return m.copyLastReply()
	default:
		m.status = helpText
		return m, nil
	}
}

// submit sends a chat turn and starts streaming its reply into a placeholder
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" || m.loading {
		return m, nil
	}

	// History is the conversation before this turn
	prior := history.Context(m.policy, m.messages)

	m.messages = append(m.messages, models.UserMessage(text))
	m.textarea.Reset()
	m.loading = true
	m.status = ""
	m.err = nil

	m.generation++
	m.messages = append(m.messages, models.AssistantMessage(""))
	m.pending = len(m.messages) - 1
	m.refresh()

	return m, tea.Batch(
		m.startStream(m.generation, text, prior),
		m.spinner.Tick,
	)
}

// startStream opens the chat request
func (m Model) startStream(gen int, text string, prior []models.Message) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return streamFailedMsg{gen: gen, err: fmt.Errorf("client not available")}
		}
		events, err := client.StreamChat(ctx, text, prior)
		if err != nil {
			return streamFailedMsg{gen: gen, err: err}
		}
		return streamStartedMsg{gen: gen, events: events}
	}
}

// waitForStream delivers the next stream event to the update loop
func waitForStream(gen int, events <-chan api.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamEventMsg{gen: gen, event: api.StreamEvent{Err: apierrors.ErrStreamClosed}}
		}
		return streamEventMsg{gen: gen, event: ev, events: events}
	}
}

func (m Model) handleStreamEvent(msg streamEventMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation || m.pending < 0 {
		return m, nil
	}

	ev := msg.event
	switch {
	case ev.Err != nil:
		m.failStream(ev.Err)
		return m, nil

	case ev.Done:
		if ev.Text != "" {
			m.messages[m.pending].Content = ev.Text
		}
		m.loading = false
		m.pending = -1
		m.refresh()
		return m, nil

	default:
		m.messages[m.pending].Content = ev.Text
		m.refresh()
		return m, waitForStream(msg.gen, msg.events)
	}
}

// failStream records exactly one failure message for the current request
func (m *Model) failStream(err error) {
	m.logger.Warn("chat turn failed",
		zap.Int("generation", m.generation),
		zap.Int("http_status", apierrors.GetHTTPStatus(err)),
		zap.Error(err))

	if m.pending >= 0 && m.pending < len(m.messages) && m.messages[m.pending].Content == "" {
		m.messages[m.pending].Content = models.ConnectFailureText
	} else {
		m.messages = append(m.messages, models.AssistantMessage(models.ConnectFailureText))
	}

	m.loading = false
	m.pending = -1
	m.refresh()
}

// uploadFile sends a file for text extraction
func (m Model) uploadFile(path string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return uploadDoneMsg{err: fmt.Errorf("client not available")}
		}
		result, err := client.UploadFile(ctx, path)
		return uploadDoneMsg{result: result, err: err}
	}
}

func (m *Model) handleUploadDone(msg uploadDoneMsg) {
	if msg.err != nil || msg.result == nil {
		m.logger.Warn("upload failed", zap.Error(msg.err))
		m.messages = append(m.messages, models.AssistantMessage(models.UploadFailureText))
	} else {
		m.logger.Info("upload finished",
			zap.String("file", msg.result.FileName),
			zap.Int("text_chars", len(msg.result.Text)))
		m.messages = append(m.messages, models.AssistantMessage(msg.result.Summary()))
	}
	m.refresh()
}

func (m Model) openFileSelector() (tea.Model, tea.Cmd) {
	m.selector = NewFileSelectorModel("")
	m.selectingFile = true

	var sizeCmd tea.Cmd
	if m.ready {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.viewport.Height}
		m.selector, sizeCmd = m.selector.Update(size)
	}
	return m, tea.Batch(m.selector.Init(), sizeCmd)
}

// updateFileSelection handles updates while the file picker is open
func (m Model) updateFileSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}

	var cmd tea.Cmd
	m.selector, cmd = m.selector.Update(msg)

	switch {
	case m.selector.IsCancelled():
		m.selectingFile = false
		return m, nil
	case m.selector.IsConfirmed():
		m.selectingFile = false
		return m, m.uploadFile(m.selector.SelectedPath())
	}

	return m, cmd
}

// startListening runs one speech capture when the capability is present
func (m Model) startListening() (tea.Model, tea.Cmd) {
	if m.listening || !m.canListen {
		return m, nil
	}

	m.listening = true
	recognizer := m.recognizer
	ctx := m.ctx

	capture := func() tea.Msg {
		text, err := recognizer.Recognize(ctx)
		return transcriptMsg{text: strings.TrimSpace(text), err: err}
	}
	return m, tea.Batch(capture, m.spinner.Tick)
}

// toggleTheme flips between light and dark; the conversation is untouched
func (m Model) toggleTheme() Model {
	if m.theme == config.ThemeDark {
		m.theme = config.ThemeLight
	} else {
		m.theme = config.ThemeDark
	}

	render.SetTUITheme(m.theme)
	UpdateTheme()
	styleTextarea(&m.textarea)
	m.spinner.Style = loadingStyle
	m.renderOpts = m.renderOpts.ForTheme(m.theme)
	m.refresh()
	return m
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	reply := ""
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == models.RoleAssistant && m.messages[i].Content != "" {
			reply = m.messages[i].Content
			break
		}
	}
	if reply == "" {
		m.status = "Nothing to copy yet"
		return m, nil
	}

	return m, func() tea.Msg {
		return clipboardMsg{err: clipboardWrite(reply)}
	}
}

// exportTranscript writes the conversation to path as markdown or JSON
func (m Model) exportTranscript(path string) tea.Cmd {
	transcript := history.Transcript{
		Title:      appTitle,
		ExportedAt: time.Now(),
		Messages:   m.Messages(),
	}
	return func() tea.Msg {
		data, err := transcript.Export(history.FormatForPath(path))
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportDoneMsg{path: path, err: fmt.Errorf("failed to write transcript: %w", err)}
		}
		return exportDoneMsg{path: path}
	}
}

// thinking reports whether the placeholder is still waiting for its first fragment
func (m Model) thinking() bool {
	return m.loading && m.pending >= 0 && m.pending < len(m.messages) && m.messages[m.pending].Content == ""
}

// refresh re-renders the conversation and scrolls to the newest message
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// renderMessages renders user bubbles on the right and assistant bubbles on the left
func (m Model) renderMessages() string {
	var content strings.Builder
	width := m.viewport.Width
	bubbleWidth := width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			w := lipgloss.Width(msg.Content) + 2
			if w > bubbleWidth {
				w = bubbleWidth
			}
			bubble := userBubbleStyle.Width(w).Render(msg.Content)
			content.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
			content.WriteString("\n")
			continue
		}

		if i == m.pending && m.thinking() {
			content.WriteString(render.Bubble(loadingStyle.Render(m.spinner.View()+" Thinking..."), m.theme, bubbleWidth))
		} else {
			content.WriteString(render.Reply(msg.Content, m.renderOpts, bubbleWidth))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selectingFile {
		return m.selector.View()
	}

	contentWidth := m.width - 4
	var sections []string

	// Header
	themeLabel := "🌙 Dark"
	if m.theme == config.ThemeDark {
		themeLabel = "☀️ Light"
	}
	title := titleStyle.Render(appTitle)
	badge := themeBadgeStyle.Render(themeLabel)
	gap := contentWidth - 4 - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	header := headerStyle.Width(contentWidth).Render(title + strings.Repeat(" ", gap) + badge)
	sections = append(sections, header)

	// Messages
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messagesPanel)

	// Input
	var inputContent string
	if m.loading {
		inputContent = loadingStyle.Render(m.spinner.View() + " Waiting for reply...")
	} else {
		label := inputLabelStyle.Render("You")
		if hint := m.speakHint(); hint != "" {
			label += "  " + hint
		}
		inputContent = lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Status
	switch {
	case m.err != nil:
		sections = append(sections, errorStyle.Render("⚠ "+m.err.Error()))
	case m.status != "":
		sections = append(sections, statusLineStyle.Render(m.status))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// speakHint is empty when speech input is unavailable
func (m Model) speakHint() string {
	if !m.canListen {
		return ""
	}
	if m.listening {
		return listeningStyle.Render("🎤 Listening...")
	}
	return speakHintStyle.Render("🎤 ctrl+r to speak")
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	type shortcut struct {
		key  string
		desc string
	}

	shortcuts := []shortcut{
		{"Enter", "Send"},
		{"^O", "Upload"},
	}
	if m.canListen {
		shortcuts = append(shortcuts, shortcut{"^R", "Speak"})
	}
	shortcuts = append(shortcuts,
		shortcut{"^T", "Theme"},
		shortcut{"^Y", "Copy"},
		shortcut{"Esc", "Quit"},
	)

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI
func RunChat(opts Options) error {
	m := NewChatModel(opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.cancel != nil {
		fm.cancel()
	}
	return err
}
