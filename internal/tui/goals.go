package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"pvision/internal/store"
)

type goalsModel struct {
	store  *store.Store
	width  int
	height int

	goals           []store.Goal
	cursor          int
	milestoneCursor int
	viewingDetail   bool

	formActive bool
	form       *huh.Form
	formType   string // "goal", "milestone"

	formTitle      *string
	formDate       *string
	formMilestones *string
}

func newGoalsModel(s *store.Store) goalsModel {
	title, date, milestones := "", "", ""
	return goalsModel{
		store:          s,
		formTitle:      &title,
		formDate:       &date,
		formMilestones: &milestones,
	}
}

func (g *goalsModel) setSize(w, h int) {
	g.width = w
	g.height = h
}

type goalsDataMsg struct {
	goals []store.Goal
}

func (g goalsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return goalsDataMsg{goals: g.store.Goals()}
	}
}

func (g goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if g.formActive && g.form != nil {
		return g.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		g.goals = msg.goals
		if g.cursor >= len(g.goals) {
			g.cursor = max(0, len(g.goals)-1)
		}
		return g, nil

	case tea.KeyMsg:
		if g.viewingDetail {
			return g.updateDetail(msg)
		}
		return g.updateList(msg)
	}
	return g, nil
}

func (g goalsModel) updateList(msg tea.KeyMsg) (goalsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if g.cursor > 0 {
			g.cursor--
		}
	case key.Matches(msg, keys.Down):
		if g.cursor < len(g.goals)-1 {
			g.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(g.goals) > 0 {
			g.viewingDetail = true
			g.milestoneCursor = 0
		}
	case key.Matches(msg, keys.New):
		return g.showNewGoalForm()
	}
	return g, nil
}

func (g goalsModel) updateDetail(msg tea.KeyMsg) (goalsModel, tea.Cmd) {
	goal := g.goals[g.cursor]

	switch {
	case key.Matches(msg, keys.Back):
		g.viewingDetail = false
	case key.Matches(msg, keys.Up):
		if g.milestoneCursor > 0 {
			g.milestoneCursor--
		}
	case key.Matches(msg, keys.Down):
		if g.milestoneCursor < len(goal.Milestones)-1 {
			g.milestoneCursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(goal.Milestones) > 0 {
			g.store.ToggleMilestone(goal.ID, g.milestoneCursor)
			return g, g.refresh()
		}
	case key.Matches(msg, keys.New):
		return g.showNewMilestoneForm()
	}
	return g, nil
}

func (g goalsModel) showNewGoalForm() (goalsModel, tea.Cmd) {
	*g.formTitle = ""
	*g.formDate = ""
	*g.formMilestones = ""
	g.formType = "goal"

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal").Value(g.formTitle),
			huh.NewInput().Title("Target Date").Description("YYYY-MM-DD").Value(g.formDate),
			huh.NewText().Title("Milestones").Description("One per line").Value(g.formMilestones),
		),
	).WithShowHelp(true).WithShowErrors(true)

	g.formActive = true
	return g, g.form.Init()
}

func (g goalsModel) showNewMilestoneForm() (goalsModel, tea.Cmd) {
	*g.formTitle = ""
	g.formType = "milestone"

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Milestone").Value(g.formTitle),
		),
	).WithShowHelp(true).WithShowErrors(true)

	g.formActive = true
	return g, g.form.Init()
}

func (g goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			g.formActive = false
			g.form = nil
			return g, nil
		}
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.formActive = false
		switch g.formType {
		case "goal":
			var milestones []store.Milestone
			for _, line := range strings.Split(*g.formMilestones, "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					milestones = append(milestones, store.Milestone{Title: line})
				}
			}
			goal := store.Goal{
				ID:         uuid.NewString(),
				Title:      *g.formTitle,
				TargetDate: *g.formDate,
				Milestones: milestones,
			}
			if err := g.store.AddGoal(goal); err != nil {
				return g, func() tea.Msg {
					return statusMsg{text: err.Error(), isError: true}
				}
			}
			return g, g.refresh()
		case "milestone":
			if strings.TrimSpace(*g.formTitle) != "" && g.cursor < len(g.goals) {
				g.store.AddMilestone(g.goals[g.cursor].ID, *g.formTitle)
			}
			return g, g.refresh()
		}
	}

	return g, cmd
}

func (g goalsModel) view() string {
	if g.formActive && g.form != nil {
		title := titleStyle.Render("New Goal")
		if g.formType == "milestone" {
			title = titleStyle.Render("New Milestone")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", g.form.View())
		return panelStyle.Width(g.width - 4).Render(content)
	}

	if g.viewingDetail {
		return g.renderDetail()
	}
	return g.renderList()
}

func (g goalsModel) renderList() string {
	w := g.width - 4
	title := titleStyle.Render("Goals")

	if len(g.goals) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No goals yet. Press n to set one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, goal := range g.goals {
		cursor := "  "
		style := normalItemStyle
		if i == g.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		barWidth := w - 52
		if barWidth < 8 {
			barWidth = 8
		}
		done := 0
		for _, m := range goal.Milestones {
			if m.Completed {
				done++
			}
		}
		row := style.Render(fmt.Sprintf("%s%-28s", cursor, truncate(goal.Title, 28))) +
			" " + progressBar(goal.Progress, barWidth) +
			mutedStyle.Render(fmt.Sprintf(" %3d%%  %d/%d  due %s", goal.Progress, done, len(goal.Milestones), goal.TargetDate))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: milestones"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (g goalsModel) renderDetail() string {
	w := g.width - 4
	goal := g.goals[g.cursor]

	title := titleStyle.Render(goal.Title) +
		mutedStyle.Render(fmt.Sprintf("  %d%% · due %s", goal.Progress, goal.TargetDate))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, m := range goal.Milestones {
		cursor := "  "
		style := normalItemStyle
		if i == g.milestoneCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "☐"
		if m.Completed {
			check = successStyle.Render("☑")
		}
		rows = append(rows, style.Render(cursor)+check+" "+style.Render(m.Title))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: toggle  n: add milestone  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
