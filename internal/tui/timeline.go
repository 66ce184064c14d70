package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pvision/internal/store"
)

const timelineDays = 14

type timelineModel struct {
	store  *store.Store
	width  int
	height int

	entries []store.ProgressEntry
	byDay   map[string][]store.ProgressEntry
	cursor  int
	offset  int // 14-day blocks back from today (0 = current)

	chart barchart.Model
}

func newTimelineModel(s *store.Store) timelineModel {
	return timelineModel{
		store: s,
		chart: barchart.New(60, 10),
		byDay: map[string][]store.ProgressEntry{},
	}
}

func (t *timelineModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type timelineDataMsg struct {
	entries []store.ProgressEntry
	byDay   map[string][]store.ProgressEntry
}

func (t timelineModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries := t.store.Entries()
		// Newest first for the list.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Date > entries[j].Date
		})
		return timelineDataMsg{entries: entries, byDay: t.store.EntriesByDate()}
	}
}

func (t timelineModel) update(msg tea.Msg) (timelineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timelineDataMsg:
		t.entries = msg.entries
		t.byDay = msg.byDay
		if t.cursor >= len(t.entries) {
			t.cursor = max(0, len(t.entries)-1)
		}
		t.buildChart()
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.entries)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Left):
			t.offset++
			t.buildChart()
		case key.Matches(msg, keys.Right):
			if t.offset > 0 {
				t.offset--
				t.buildChart()
			}
		}
	}
	return t, nil
}

func (t timelineModel) chartRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := today.AddDate(0, 0, 1-timelineDays*t.offset)
	return end.AddDate(0, 0, -timelineDays), end
}

func (t *timelineModel) buildChart() {
	chartWidth := t.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if t.height > 34 {
		chartHeight = 14
	}

	t.chart = barchart.New(chartWidth, chartHeight)

	from, to := t.chartRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		label := d.Format("02")

		dayEntries := t.byDay[day]
		var values []barchart.BarValue
		if len(dayEntries) > 0 {
			total := 0
			for _, e := range dayEntries {
				total += e.AIAnalysis.Score
			}
			avg := float64(total) / float64(len(dayEntries))
			values = []barchart.BarValue{{
				Name:  day,
				Value: avg,
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}}
		} else {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	t.chart.PushAll(bars)
	t.chart.Draw()
}

func (t timelineModel) view() string {
	w := t.width - 4

	from, to := t.chartRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Timeline"), "  ", subtitleStyle.Render("avg score per day"), "  ", dateLabel,
	)

	chartView := t.chart.View()
	listView := t.renderEntryList(w)
	nav := mutedStyle.Render("  ↑/↓: entries  ←/→: chart window")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", listView, "", nav,
		),
	)
}

func (t timelineModel) renderEntryList(w int) string {
	if len(t.entries) == 0 {
		return mutedStyle.Render("  No uploads yet")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-18s %-13s %5s  %-12s %s", "When", "Type", "Score", "Emotion", "Feedback"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 70))))

	visible := 8
	start := 0
	if t.cursor >= visible {
		start = t.cursor - visible + 1
	}
	end := min(start+visible, len(t.entries))

	for i := start; i < end; i++ {
		e := t.entries[i]
		when := e.Date
		if ts, err := time.Parse(time.RFC3339, e.Date); err == nil {
			when = ts.Local().Format("Jan 02 15:04")
		}
		style := normalItemStyle
		cursor := "  "
		if i == t.cursor {
			style = selectedItemStyle
			cursor = "> "
		}
		row := style.Render(fmt.Sprintf("%s%-18s %-13s", cursor, when, e.Type)) +
			fmt.Sprintf(" %s  ", scoreStyle(e.AIAnalysis.Score)) +
			highlightStyle.Render(fmt.Sprintf("%-12s", truncate(e.AIAnalysis.Emotion, 12))) +
			" " + mutedStyle.Render(truncate(e.AIAnalysis.Feedback, max(10, w-60)))
		rows = append(rows, row)
	}

	if end < len(t.entries) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  …%d more", len(t.entries)-end)))
	}

	return strings.Join(rows, "\n")
}
