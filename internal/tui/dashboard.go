package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pvision/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	profile   store.UserProfile
	latest    store.ProgressEntry
	hasLatest bool
	entries   int
	avg       int
	goals     []store.Goal
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	profile   store.UserProfile
	latest    store.ProgressEntry
	hasLatest bool
	entries   int
	avg       int
	goals     []store.Goal
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		entries := d.store.Entries()
		total := 0
		for _, e := range entries {
			total += e.AIAnalysis.Score
		}
		avg := 0
		if len(entries) > 0 {
			avg = total / len(entries)
		}
		latest, hasLatest := d.store.LatestEntry()
		return dashboardDataMsg{
			profile:   d.store.Profile(),
			latest:    latest,
			hasLatest: hasLatest,
			entries:   len(entries),
			avg:       avg,
			goals:     d.store.Goals(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.profile = msg.profile
		d.latest = msg.latest
		d.hasLatest = msg.hasLatest
		d.entries = msg.entries
		d.avg = msg.avg
		d.goals = msg.goals
		return d, nil
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	profilePanel := d.renderProfilePanel(contentWidth)
	latestPanel := d.renderLatestPanel(contentWidth)
	goalsPanel := d.renderGoalsPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, profilePanel, latestPanel, goalsPanel)
}

func (d dashboardModel) renderProfilePanel(w int) string {
	p := d.profile

	name := titleStyle.Render(p.Name)
	level := highlightStyle.Bold(true).Render(fmt.Sprintf("Level %d", p.Level))
	header := fmt.Sprintf("%s  %s", name, level)

	barWidth := w - 24
	if barWidth < 10 {
		barWidth = 10
	}
	// XP accumulates across levels; show it against the next threshold.
	pct := 0
	if p.XPToNextLevel > 0 {
		pct = p.XP * 100 / p.XPToNextLevel
	}
	xpLine := fmt.Sprintf("  XP %s %s",
		progressBar(pct, barWidth),
		mutedStyle.Render(fmt.Sprintf("%d / %d", p.XP, p.XPToNextLevel)),
	)

	streak := accentStyle.Render(fmt.Sprintf("🔥 %d day streak", p.Streak))
	stats := mutedStyle.Render(fmt.Sprintf("%d uploads · avg score %d · %d rewards",
		d.entries, d.avg, len(p.Rewards)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		xpLine,
		"",
		"  "+streak+"   "+stats,
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderLatestPanel(w int) string {
	title := titleStyle.Render("Latest Upload")

	if !d.hasLatest {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No uploads yet. Press 2 to upload your first progress entry."),
		)
		return panelStyle.Width(w).Render(content)
	}

	e := d.latest
	when := e.Date
	if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
		when = t.Local().Format("Jan 02 15:04")
	}

	head := fmt.Sprintf("  %s  %s  %s",
		scoreStyle(e.AIAnalysis.Score),
		highlightStyle.Render(e.AIAnalysis.Emotion),
		mutedStyle.Render(fmt.Sprintf("%s · %s · %s", e.Type, e.MediaType, when)),
	)
	feedback := "  " + normalItemStyle.Render(truncate(e.AIAnalysis.Feedback, w-6))
	tags := ""
	if len(e.AIAnalysis.Tags) > 0 {
		tags = "  " + mutedStyle.Render("#"+strings.Join(e.AIAnalysis.Tags, " #"))
	}

	rows := []string{title, "", head, feedback}
	if tags != "" {
		rows = append(rows, tags)
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderGoalsPanel(w int) string {
	title := titleStyle.Render("Active Goals")

	if len(d.goals) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No goals yet. Press 5 to set one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	shown := d.goals
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, g := range shown {
		barWidth := w - 46
		if barWidth < 8 {
			barWidth = 8
		}
		row := fmt.Sprintf("  %-24s %s %s",
			truncate(g.Title, 24),
			progressBar(g.Progress, barWidth),
			mutedStyle.Render(fmt.Sprintf("%3d%%  due %s", g.Progress, g.TargetDate)),
		)
		rows = append(rows, row)
	}
	if len(d.goals) > 3 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  …and %d more", len(d.goals)-3)))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
