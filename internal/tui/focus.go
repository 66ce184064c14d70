package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"pvision/internal/config"
	"pvision/internal/store"
)

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusRunning
	focusPaused
	focusDone
)

type focusPreset int

const (
	presetWork focusPreset = iota
	presetShortBreak
	presetLongBreak
	presetCustom
)

var presetNames = map[focusPreset]string{
	presetWork:       "FOCUS",
	presetShortBreak: "SHORT BREAK",
	presetLongBreak:  "LONG BREAK",
	presetCustom:     "CUSTOM",
}

type focusModel struct {
	store  *store.Store
	width  int
	height int

	tasks  []store.FocusTask
	cursor int
	filter store.FocusFilter

	phase    focusPhase
	preset   focusPreset
	duration time.Duration
	custom   time.Duration

	// Countdown state
	remaining time.Duration
	phaseEnd  time.Time
	pausedAt  time.Duration

	durations config.FocusConfig

	formActive bool
	form       *huh.Form
	formType   string // "task", "custom"
	formValue  *string
}

func newFocusModel(s *store.Store, fc config.FocusConfig) focusModel {
	v := ""
	m := focusModel{
		store:     s,
		filter:    store.FocusAll,
		durations: fc,
		custom:    30 * time.Minute,
		formValue: &v,
	}
	m.duration = m.presetDuration(presetWork)
	m.remaining = m.duration
	return m
}

func (f focusModel) presetDuration(p focusPreset) time.Duration {
	switch p {
	case presetShortBreak:
		return time.Duration(f.durations.ShortBreakMinutes) * time.Minute
	case presetLongBreak:
		return time.Duration(f.durations.LongBreakMinutes) * time.Minute
	case presetCustom:
		return f.custom
	default:
		return time.Duration(f.durations.WorkMinutes) * time.Minute
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

type focusDataMsg struct {
	tasks []store.FocusTask
}

func (f focusModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return focusDataMsg{tasks: f.store.FocusTasks(f.filter)}
	}
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	if f.formActive && f.form != nil {
		return f.updateForm(msg)
	}

	switch msg := msg.(type) {
	case focusDataMsg:
		f.tasks = msg.tasks
		if f.cursor >= len(f.tasks) {
			f.cursor = max(0, len(f.tasks)-1)
		}
		return f, nil

	case tickMsg:
		if f.phase == focusRunning {
			f.remaining = time.Until(f.phaseEnd)
			if f.remaining <= 0 {
				f.phase = focusDone
				f.remaining = 0
				return f, func() tea.Msg {
					return statusMsg{text: "Focus session complete! \a"}
				}
			}
		}
		return f, nil

	case tea.KeyMsg:
		return f.updateKeys(msg)
	}
	return f, nil
}

func (f focusModel) updateKeys(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Start):
		switch f.phase {
		case focusIdle, focusDone:
			f.phase = focusRunning
			f.remaining = f.duration
			f.phaseEnd = time.Now().Add(f.duration)
		case focusRunning:
			f.phase = focusPaused
			f.pausedAt = time.Until(f.phaseEnd)
		case focusPaused:
			f.phase = focusRunning
			f.phaseEnd = time.Now().Add(f.pausedAt)
			f.remaining = f.pausedAt
		}

	case key.Matches(msg, keys.Stop):
		f.phase = focusIdle
		f.remaining = f.duration

	case key.Matches(msg, keys.Preset):
		if f.phase == focusIdle || f.phase == focusDone {
			f.preset = (f.preset + 1) % 4
			f.duration = f.presetDuration(f.preset)
			f.remaining = f.duration
			f.phase = focusIdle
		}

	case key.Matches(msg, keys.Custom):
		if f.phase == focusIdle || f.phase == focusDone {
			return f.showCustomForm()
		}

	case key.Matches(msg, keys.Up):
		if f.cursor > 0 {
			f.cursor--
		}

	case key.Matches(msg, keys.Down):
		if f.cursor < len(f.tasks)-1 {
			f.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if len(f.tasks) > 0 {
			f.store.ToggleFocusTask(f.tasks[f.cursor].ID)
			return f, f.refresh()
		}

	case key.Matches(msg, keys.New):
		return f.showTaskForm()

	case key.Matches(msg, keys.Delete):
		if len(f.tasks) > 0 {
			f.store.DeleteFocusTask(f.tasks[f.cursor].ID)
			return f, f.refresh()
		}

	case key.Matches(msg, keys.Filter):
		switch f.filter {
		case store.FocusAll:
			f.filter = store.FocusActive
		case store.FocusActive:
			f.filter = store.FocusCompleted
		default:
			f.filter = store.FocusAll
		}
		f.cursor = 0
		return f, f.refresh()

	case key.Matches(msg, keys.Clear):
		f.store.ClearCompletedFocusTasks()
		return f, f.refresh()
	}
	return f, nil
}

func (f focusModel) showTaskForm() (focusModel, tea.Cmd) {
	*f.formValue = ""
	f.formType = "task"

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus Task").Value(f.formValue),
		),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f focusModel) showCustomForm() (focusModel, tea.Cmd) {
	*f.formValue = strconv.Itoa(int(f.custom.Minutes()))
	f.formType = "custom"

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Session Length (minutes)").Description("1-240").Value(f.formValue),
		),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f focusModel) updateForm(msg tea.Msg) (focusModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		f.formActive = false
		switch f.formType {
		case "task":
			if strings.TrimSpace(*f.formValue) != "" {
				f.store.AddFocusTask(store.FocusTask{
					ID:        uuid.NewString(),
					Title:     strings.TrimSpace(*f.formValue),
					CreatedAt: time.Now().UnixMilli(),
				})
			}
			return f, f.refresh()
		case "custom":
			mins, err := strconv.Atoi(strings.TrimSpace(*f.formValue))
			if err != nil || mins < 1 || mins > 240 {
				return f, func() tea.Msg {
					return statusMsg{text: "Session length must be 1-240 minutes", isError: true}
				}
			}
			f.custom = time.Duration(mins) * time.Minute
			f.preset = presetCustom
			f.duration = f.custom
			f.remaining = f.duration
			f.phase = focusIdle
		}
	}

	return f, cmd
}

func (f focusModel) view() string {
	w := f.width - 4

	if f.formActive && f.form != nil {
		title := titleStyle.Render("New Focus Task")
		if f.formType == "custom" {
			title = titleStyle.Render("Custom Session")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", f.form.View())
		return panelStyle.Width(w).Render(content)
	}

	timerPanel := f.renderTimer(w)
	taskPanel := f.renderTasks(w)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, taskPanel)
}

func (f focusModel) renderTimer(w int) string {
	var timeDisplay string
	var phaseLabel string

	switch f.phase {
	case focusIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatClock(f.duration))
		phaseLabel = mutedStyle.Render(presetNames[f.preset] + " · ready")
	case focusRunning:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(formatClock(f.remaining))
		phaseLabel = successStyle.Bold(true).Render(presetNames[f.preset])
	case focusPaused:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(formatClock(f.pausedAt))
		phaseLabel = warningStyle.Bold(true).Render("PAUSED")
	case focusDone:
		timeDisplay = timerRunningStyle.Width(w - 6).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION COMPLETE")
	}

	var controls string
	switch f.phase {
	case focusIdle, focusDone:
		controls = mutedStyle.Render("s: start  t: preset  u: custom length")
	case focusRunning:
		controls = mutedStyle.Render("s: pause  x: reset")
	case focusPaused:
		controls = mutedStyle.Render("s: resume  x: reset")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		phaseLabel,
		"",
		controls,
	)

	if f.phase == focusRunning {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (f focusModel) renderTasks(w int) string {
	title := titleStyle.Render("Focus Tasks") +
		mutedStyle.Render("  filter: "+string(f.filter))

	if len(f.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("Nothing here. Press n to add a task."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range f.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == f.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "☐"
		text := style.Render(task.Title)
		if task.Completed {
			check = successStyle.Render("☑")
			text = mutedStyle.Strikethrough(true).Render(task.Title)
		}
		rows = append(rows, style.Render(cursor)+check+" "+text)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: toggle  d: delete  f: filter  C: clear done"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
