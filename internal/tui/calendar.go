package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pvision/internal/store"
)

type calendarModel struct {
	store  *store.Store
	width  int
	height int

	selected time.Time
	byDay    map[string][]store.ProgressEntry
}

func newCalendarModel(s *store.Store) calendarModel {
	now := time.Now()
	return calendarModel{
		store:    s,
		selected: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
		byDay:    map[string][]store.ProgressEntry{},
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	byDay map[string][]store.ProgressEntry
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return calendarDataMsg{byDay: c.store.EntriesByDate()}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		c.byDay = msg.byDay
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			c.selected = c.selected.AddDate(0, 0, -1)
		case key.Matches(msg, keys.Right):
			c.selected = c.selected.AddDate(0, 0, 1)
		case key.Matches(msg, keys.Up):
			c.selected = c.selected.AddDate(0, 0, -7)
		case key.Matches(msg, keys.Down):
			c.selected = c.selected.AddDate(0, 0, 7)
		}
	}
	return c, nil
}

func (c calendarModel) view() string {
	w := c.width - 4

	grid := c.renderGrid()
	dayPanel := c.renderDayEntries(w)
	nav := mutedStyle.Render("  ←/→: day  ↑/↓: week")

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Calendar"), "  ",
		highlightStyle.Render(c.selected.Format("January 2006")),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", grid, "", dayPanel, "", nav),
	)
}

func (c calendarModel) renderGrid() string {
	var rows []string
	rows = append(rows, mutedStyle.Render("  Mo   Tu   We   Th   Fr   Sa   Su"))

	monthStart := time.Date(c.selected.Year(), c.selected.Month(), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0)

	// Back up to the Monday on or before the 1st.
	weekday := int(monthStart.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	cell := monthStart.AddDate(0, 0, 1-weekday)

	today := time.Now().Local().Format("2006-01-02")

	for cell.Before(monthEnd) {
		var cells []string
		for i := 0; i < 7; i++ {
			day := cell.Format("2006-01-02")
			label := fmt.Sprintf("%2d", cell.Day())

			entries := len(c.byDay[day])
			marker := " "
			if entries > 0 {
				marker = "•"
			}

			text := label + marker

			style := normalItemStyle
			switch {
			case cell.Month() != c.selected.Month():
				style = mutedStyle
			case day == c.selected.Format("2006-01-02"):
				style = selectedItemStyle.Reverse(true)
			case day == today:
				style = highlightStyle.Bold(true)
			case entries > 0:
				style = successStyle
			}

			cells = append(cells, style.Render(text))
			cell = cell.AddDate(0, 0, 1)
		}
		rows = append(rows, "  "+strings.Join(cells, "  "))
	}

	return strings.Join(rows, "\n")
}

func (c calendarModel) renderDayEntries(w int) string {
	day := c.selected.Format("2006-01-02")
	entries := c.byDay[day]

	title := titleStyle.Render(c.selected.Format("Mon, Jan 02"))
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("  No uploads this day"))
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range entries {
		when := ""
		if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
			when = t.Local().Format("15:04")
		}
		row := fmt.Sprintf("  %s %s  %s  %s",
			mutedStyle.Render(when),
			scoreStyle(e.AIAnalysis.Score),
			highlightStyle.Render(e.AIAnalysis.Emotion),
			normalItemStyle.Render(truncate(e.AIAnalysis.Feedback, max(10, w-36))),
		)
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}
