package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenHome screen = iota
	screenFeeds
	screenNotes
	screenBookmarks
	screenAssistant
	screenLogs
)

var screenNames = map[screen]string{
	screenHome:      "Home",
	screenFeeds:     "Feeds",
	screenNotes:     "Notes",
	screenBookmarks: "Bookmarks",
	screenAssistant: "Assistant",
	screenLogs:      "Logs",
}

// viewKeyFor maps a screen to its staleness key. Home and Assistant keep no
// cached rows, so they have no key.
func viewKeyFor(s screen) (ViewKey, bool) {
	switch s {
	case screenFeeds:
		return ViewFeeds, true
	case screenNotes:
		return ViewNotes, true
	case screenBookmarks:
		return ViewBookmarks, true
	case screenLogs:
		return ViewLogs, true
	default:
		return "", false
	}
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAddFeed
	inputNoteTitle
	inputNoteDetails
	inputBookmarkName
	inputBookmarkLocation
	inputChat
)

type tickMsg time.Time

type syncDoneMsg struct {
	summary SyncSummary
}

type chatDoneMsg struct {
	reply string
	err   error
}

type assistantStatusMsg struct {
	available bool
}

type tuiModel struct {
	app    *App
	width  int
	height int

	screen    screen
	selected  int
	input     textinput.Model
	inputMode inputMode
	pending   string

	feeds     []Feed
	items     []FeedItem
	notes     []Note
	bookmarks []Bookmark
	logs      []LogEntry
	chat      []ChatMessage

	syncPending bool
	chatPending bool
	status      string
}

var (
	teaNewProgram = tea.NewProgram
	runTeaProgram = func(program *tea.Program) (tea.Model, error) { return program.Run() }
)

func RunTUI(app *App) error {
	model := newTUIModel(app)
	program := teaNewProgram(model, tea.WithAltScreen())
	_, err := runTeaProgram(program)
	return err
}

func newTUIModel(app *App) tuiModel {
	input := textinput.New()
	input.CharLimit = 512
	input.Width = 60
	input.Prompt = "> "
	return tuiModel{
		app:    app,
		input:  input,
		status: "Ready",
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tickCmd()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		// Staleness check right before the next render: the scheduler (or a
		// mutation elsewhere) may have invalidated the visible view.
		if key, ok := viewKeyFor(m.screen); ok && m.app.views.IsStale(key) {
			m.reload(key)
			m.app.views.ClearStale(key)
		}
		return m, tickCmd()
	case syncDoneMsg:
		m.syncPending = false
		m.status = msg.summary.Describe()
		return m, nil
	case chatDoneMsg:
		m.chatPending = false
		if msg.err != nil {
			m.status = "Assistant failed: " + msg.err.Error()
		} else {
			m.chat = append(m.chat, ChatMessage{Role: "assistant", Content: msg.reply})
			m.status = "Ready"
		}
		return m, nil
	case assistantStatusMsg:
		if msg.available {
			m.status = "Assistant online"
		} else {
			m.status = "Assistant offline"
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.inputMode != inputNone {
		switch key {
		case "esc":
			m.inputMode = inputNone
			m.pending = ""
			m.input.Blur()
			m.input.SetValue("")
			return m, nil
		case "enter":
			return m.commitInput()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		return m, m.switchScreen((m.screen + 1) % 6)
	case "shift+tab":
		return m, m.switchScreen((m.screen + 5) % 6)
	case "1", "2", "3", "4", "5", "6":
		return m, m.switchScreen(screen(int(key[0] - '1')))
	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	case "r":
		if !m.syncPending {
			m.syncPending = true
			m.status = "Refreshing feeds..."
			return m, syncCmd(m.app)
		}
	case "a":
		switch m.screen {
		case screenFeeds:
			m = m.startInput(inputAddFeed, "Feed URL")
		case screenNotes:
			m = m.startInput(inputNoteTitle, "Note title")
		case screenBookmarks:
			m = m.startInput(inputBookmarkName, "Bookmark name")
		}
	case "d":
		m.deleteSelected()
	case "o":
		m.openSelected()
	case "enter", "i":
		if m.screen == screenAssistant && !m.chatPending {
			m = m.startInput(inputChat, "Message")
		}
	}
	return m, nil
}

func (m *tuiModel) switchScreen(next screen) tea.Cmd {
	m.screen = next
	m.selected = 0
	if key, ok := viewKeyFor(next); ok {
		m.reload(key)
		m.app.views.ClearStale(key)
	}
	if next == screenAssistant && m.app.assistant != nil {
		return checkAssistantCmd(m.app.assistant)
	}
	return nil
}

func (m *tuiModel) reload(key ViewKey) {
	ctx := context.Background()
	var err error
	switch key {
	case ViewFeeds:
		if m.feeds, err = m.app.store.Feeds(ctx); err == nil {
			m.items, err = m.app.store.RecentItems(ctx, 100)
		}
	case ViewNotes:
		m.notes, err = m.app.store.Notes(ctx)
	case ViewBookmarks:
		m.bookmarks, err = m.app.store.Bookmarks(ctx)
	case ViewLogs:
		m.logs, err = m.app.store.RecentLogs(ctx, 200)
	}
	if err != nil {
		m.status = "Load failed: " + err.Error()
	}
}

func (m *tuiModel) moveSelection(delta int) {
	size := m.listSize()
	if size == 0 {
		m.selected = 0
		return
	}
	idx := m.selected + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= size {
		idx = size - 1
	}
	m.selected = idx
}

func (m tuiModel) listSize() int {
	switch m.screen {
	case screenFeeds:
		return len(m.feeds)
	case screenNotes:
		return len(m.notes)
	case screenBookmarks:
		return len(m.bookmarks)
	case screenLogs:
		return len(m.logs)
	default:
		return 0
	}
}

func (m *tuiModel) deleteSelected() {
	ctx := context.Background()
	switch m.screen {
	case screenFeeds:
		if m.selected < len(m.feeds) {
			if err := m.app.DeleteFeed(ctx, m.feeds[m.selected].ID); err != nil {
				m.status = "Delete failed: " + err.Error()
			} else {
				m.status = "Feed deleted"
			}
		}
	case screenNotes:
		if m.selected < len(m.notes) {
			if err := m.app.RemoveNote(ctx, m.notes[m.selected].ID); err != nil {
				m.status = "Delete failed: " + err.Error()
			} else {
				m.status = "Note deleted"
			}
		}
	case screenBookmarks:
		if m.selected < len(m.bookmarks) {
			if err := m.app.RemoveBookmark(ctx, m.bookmarks[m.selected].ID); err != nil {
				m.status = "Delete failed: " + err.Error()
			} else {
				m.status = "Bookmark deleted"
			}
		}
	}
}

func (m *tuiModel) openSelected() {
	if m.screen != screenBookmarks || m.selected >= len(m.bookmarks) {
		return
	}
	if err := m.app.OpenBookmark(m.bookmarks[m.selected]); err != nil {
		m.status = "Open failed: " + err.Error()
	}
}

func (m tuiModel) startInput(mode inputMode, placeholder string) tuiModel {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m tuiModel) commitInput() (tuiModel, tea.Cmd) {
	mode := m.inputMode
	value := strings.TrimSpace(m.input.Value())
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")

	if value == "" {
		m.status = "Input cancelled"
		return m, nil
	}

	ctx := context.Background()
	switch mode {
	case inputAddFeed:
		if _, err := m.app.AddFeed(ctx, value); err != nil {
			m.status = "Add feed failed: " + err.Error()
		} else {
			m.status = "Feed added"
		}
	case inputNoteTitle:
		m.pending = value
		return m.startInput(inputNoteDetails, "Note details"), nil
	case inputNoteDetails:
		if _, err := m.app.CreateNote(ctx, m.pending, value); err != nil {
			m.status = "Add note failed: " + err.Error()
		} else {
			m.status = "Note added"
		}
		m.pending = ""
	case inputBookmarkName:
		m.pending = value
		return m.startInput(inputBookmarkLocation, "Bookmark URL or path"), nil
	case inputBookmarkLocation:
		if _, err := m.app.AddBookmark(ctx, m.pending, value); err != nil {
			m.status = "Add bookmark failed: " + err.Error()
		} else {
			m.status = "Bookmark added"
		}
		m.pending = ""
	case inputChat:
		m.chat = append(m.chat, ChatMessage{Role: "user", Content: value})
		m.chatPending = true
		m.status = "Waiting for assistant..."
		return m, chatCmd(m.app.assistant, append([]ChatMessage(nil), m.chat...))
	}
	return m, nil
}

func syncCmd(app *App) tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{summary: app.SyncNow(context.Background())}
	}
}

func checkAssistantCmd(assistant *Assistant) tea.Cmd {
	return func() tea.Msg {
		return assistantStatusMsg{available: assistant.CheckServer()}
	}
}

func chatCmd(assistant *Assistant, messages []ChatMessage) tea.Cmd {
	return func() tea.Msg {
		reply, err := assistant.SendMessage(messages)
		return chatDoneMsg{reply: reply, err: err}
	}
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	header := m.renderTabs()
	body := m.renderBody()
	status := m.renderStatusBar()
	base := lipgloss.JoinVertical(lipgloss.Top, header, body, status)
	if m.inputMode != inputNone {
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("62"))
		content := m.input.Placeholder + "\n\n" + m.input.View()
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(content))
	}
	return base
}

func (m tuiModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tabs := make([]string, 0, 6)
	for s := screenHome; s <= screenLogs; s++ {
		label := fmt.Sprintf("%d:%s", int(s)+1, screenNames[s])
		if s == m.screen {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(tabs, "  "))
}

func (m tuiModel) renderBody() string {
	height := m.height - 3
	if height < 5 {
		height = 5
	}
	style := lipgloss.NewStyle().Width(m.width).Height(height).Padding(1, 2)
	lines := m.bodyLines(height - 2)
	return style.Render(strings.Join(lines, "\n"))
}

func (m tuiModel) bodyLines(max int) []string {
	if max < 1 {
		max = 1
	}
	switch m.screen {
	case screenFeeds:
		return m.feedLines(max)
	case screenNotes:
		lines := []string{}
		for i, note := range m.notes {
			lines = append(lines, m.listLine(i, note.Title))
		}
		return withEmptyHint(lines, "No notes. Press 'a' to add one.")
	case screenBookmarks:
		lines := []string{}
		for i, bookmark := range m.bookmarks {
			lines = append(lines, m.listLine(i, bookmark.Name+"  "+bookmark.Location))
		}
		return withEmptyHint(lines, "No bookmarks. Press 'a' to add one.")
	case screenAssistant:
		lines := []string{}
		for _, message := range m.chat {
			lines = append(lines, fmt.Sprintf("[%s] %s", message.Role, message.Content))
		}
		if m.chatPending {
			lines = append(lines, "[assistant] ...")
		}
		return withEmptyHint(lines, "Press Enter to talk to the assistant.")
	case screenLogs:
		lines := []string{}
		for i, entry := range m.logs {
			stamp := entry.Timestamp.In(time.Local).Format("2006-01-02 15:04")
			lines = append(lines, m.listLine(i, fmt.Sprintf("%s %-5s %s", stamp, entry.Level, entry.Message)))
		}
		return withEmptyHint(lines, "No log entries yet.")
	default:
		return []string{
			"Harbor",
			"",
			"Feeds, notes, bookmarks and a local assistant in one place.",
			"",
			"tab / 1-6  switch screens",
			"r          refresh feeds",
			"a          add on the current screen",
			"d          delete selected",
			"o          open selected bookmark",
			"q          quit",
		}
	}
}

func (m tuiModel) feedLines(max int) []string {
	lines := []string{}
	for i, feed := range m.feeds {
		synced := "never"
		if !feed.LastSyncedAt.IsZero() {
			synced = feed.LastSyncedAt.In(time.Local).Format("15:04")
		}
		lines = append(lines, m.listLine(i, fmt.Sprintf("%s (synced %s)", feed.Title, synced)))
	}
	if len(m.items) > 0 {
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render("Latest items"))
		shown := len(m.items)
		if shown > max-len(lines) {
			shown = max - len(lines)
		}
		for i := 0; i < shown; i++ {
			lines = append(lines, "  "+truncateLine(m.items[i].Title, m.width-6))
		}
	}
	return withEmptyHint(lines, "No feeds. Press 'a' to add one.")
}

func (m tuiModel) listLine(index int, text string) string {
	prefix := "  "
	if index == m.selected {
		prefix = "▸ "
	}
	line := prefix + truncateLine(text, m.width-6)
	if index == m.selected {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(line)
	}
	return line
}

func (m tuiModel) renderStatusBar() string {
	style := lipgloss.NewStyle().Width(m.width).Padding(0, 1).Foreground(lipgloss.Color("241"))
	return style.Render(m.status)
}

func withEmptyHint(lines []string, hint string) []string {
	if len(lines) == 0 {
		return []string{hint}
	}
	return lines
}

func truncateLine(value string, width int) string {
	if width < 4 {
		width = 4
	}
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
