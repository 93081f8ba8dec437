// Package tui is the terminal messenger: a friend list with unread badges on
// the left, the open conversation on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/adirkandabi/LinkSpark/internal/chat"
	"github.com/adirkandabi/LinkSpark/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#1976D2")
	selfColor    = lipgloss.Color("#10B981")
	mutedColor   = lipgloss.Color("#9CA3AF")
	badgeColor   = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(badgeColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	selfMsgStyle = lipgloss.NewStyle().
			Foreground(selfColor)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			PaddingRight(1)
)

// SessionUpdated is sent into the program whenever the session's transcript or
// state changes.
type SessionUpdated struct{}

// UnreadUpdated is sent into the program whenever the unread store changes.
type UnreadUpdated struct{}

type focusArea int

const (
	focusFriends focusArea = iota
	focusInput
)

// Model is the bubbletea model for the messenger.
type Model struct {
	session *chat.Session
	unread  *chat.UnreadStore
	friends []models.Friend
	selfID  string

	cursor   int
	focus    focusArea
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	status   string
}

// New builds the messenger model around an idle session.
func New(session *chat.Session, unread *chat.UnreadStore, friends []models.Friend, selfID string) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4096

	return Model{
		session: session,
		unread:  unread,
		friends: friends,
		selfID:  selfID,
		input:   input,
		status:  "Select a friend to start chatting",
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(m.contentWidth(), m.contentHeight())
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case SessionUpdated, UnreadUpdated:
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == focusFriends {
			m.focus = focusInput
			m.input.Focus()
		} else {
			m.focus = focusFriends
			m.input.Blur()
		}
		return m, nil

	case "esc":
		m.session.Leave()
		m.focus = focusFriends
		m.input.Blur()
		m.status = "Select a friend to start chatting"
		return m, nil
	}

	if m.focus == focusFriends {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.friends)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.friends) {
				friend := m.friends[m.cursor]
				if err := m.session.Open(friend.UserID); err != nil {
					m.status = fmt.Sprintf("Could not open chat: %v", err)
				} else {
					m.status = "Chat with " + friend.FullName()
					m.focus = focusInput
					m.input.Focus()
				}
			}
		}
		return m, nil
	}

	if msg.String() == "enter" {
		text := m.input.Value()
		m.input.Reset() // cleared immediately on submit, before any ack
		switch err := m.session.Send(text); err {
		case nil, chat.ErrEmptyMessage:
		case chat.ErrNotJoined:
			m.status = "Not connected to a conversation"
		default:
			m.status = fmt.Sprintf("Send failed: %v", err)
		}
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, msg := range m.session.Transcript() {
		if msg.Sender == m.selfID {
			suffix := ""
			if msg.Delivery == models.StatePending {
				suffix = mutedStyle.Render(" (sending...)")
			} else if msg.Delivery == models.StateFailed {
				suffix = badgeStyle.Render(" failed ")
			}
			b.WriteString(selfMsgStyle.Render("you: "+msg.Text) + suffix + "\n")
		} else {
			b.WriteString(msg.Text + "\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) contentWidth() int {
	return max(20, m.width-m.listWidth()-4)
}

func (m Model) contentHeight() int {
	return max(5, m.height-6)
}

func (m Model) listWidth() int {
	return 24
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render("LinkSpark Messenger")
	if total := m.unread.Total(); total > 0 {
		header += " " + badgeStyle.Render(fmt.Sprintf("%d unread", total))
	}

	var list strings.Builder
	for i, f := range m.friends {
		line := f.FullName()
		if n := m.unread.Count(f.UserID); n > 0 {
			line += " " + badgeStyle.Render(fmt.Sprintf("%d", n))
		}
		switch {
		case f.UserID == m.session.Peer():
			line = selectedStyle.Render("* " + line)
		case i == m.cursor && m.focus == focusFriends:
			line = selectedStyle.Render("> " + line)
		default:
			line = "  " + line
		}
		list.WriteString(line + "\n")
	}

	right := m.viewport.View() + "\n" + m.input.View()
	if m.session.State() == chat.StateIdle {
		right = mutedStyle.Render(m.status)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Width(m.listWidth()).Render(list.String()),
		right,
	)

	footer := mutedStyle.Render(m.status + "  (tab: switch focus, esc: close chat, ctrl+c: quit)")
	return header + "\n" + body + "\n" + footer
}
