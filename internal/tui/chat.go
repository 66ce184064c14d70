package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"pvision/internal/analysis"
	"pvision/internal/store"
)

// chatModel is the coach conversation overlay. History lives only for
// the session.
type chatModel struct {
	gateway *analysis.Gateway
	width   int
	height  int

	history []store.ChatMessage
	input   textinput.Model
	waiting bool
}

func newChatModel(g *analysis.Gateway) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask your coach anything..."
	ti.CharLimit = 500
	return chatModel{
		gateway: g,
		input:   ti,
	}
}

func (c *chatModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.input.Width = max(20, w-16)
}

func (c chatModel) focus() (chatModel, tea.Cmd) {
	return c, c.input.Focus()
}

func (c chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		c.waiting = false
		c.history = append(c.history, store.ChatMessage{
			ID:        uuid.NewString(),
			Role:      "model",
			Text:      msg.text,
			Timestamp: time.Now().UnixMilli(),
		})
		return c, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !c.waiting {
			text := strings.TrimSpace(c.input.Value())
			if text == "" {
				return c, nil
			}
			return c.send(text)
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c chatModel) send(text string) (chatModel, tea.Cmd) {
	c.history = append(c.history, store.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "user",
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	})
	c.input.SetValue("")
	c.waiting = true

	// Everything up to but not including the new message is context.
	turns := make([]analysis.Turn, 0, len(c.history)-1)
	for _, m := range c.history[:len(c.history)-1] {
		turns = append(turns, analysis.Turn{Role: m.Role, Text: m.Text})
	}

	gateway := c.gateway
	return c, func() tea.Msg {
		reply := gateway.Chat(context.Background(), turns, text)
		return chatReplyMsg{text: reply}
	}
}

func (c chatModel) view() string {
	w := min(72, max(40, c.width-8))

	title := titleStyle.Render("Coach")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(c.history) == 0 {
		rows = append(rows, mutedStyle.Render("Your coach is listening. Ask about today's progress."))
	}

	// Show the last few turns that fit.
	shown := c.history
	if len(shown) > 8 {
		shown = shown[len(shown)-8:]
	}
	for _, m := range shown {
		if m.Role == "user" {
			rows = append(rows, highlightStyle.Render("you  ")+normalItemStyle.Render(truncate(m.Text, w-10)))
		} else {
			rows = append(rows, accentStyle.Render("coach ")+normalItemStyle.Render(truncate(m.Text, w-10)))
		}
	}

	if c.waiting {
		rows = append(rows, mutedStyle.Render("coach is typing..."))
	}

	rows = append(rows, "")
	rows = append(rows, c.input.View())
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("enter: send  esc: close"))

	return overlayStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
