package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pvision/internal/analysis"
	"pvision/internal/config"
	"pvision/internal/export"
	"pvision/internal/gamify"
	"pvision/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	chatOpen bool
	chat     chatModel

	// Reward reveal overlay, shown after an upload unlocks something.
	reward        *store.Reward
	rewardLeveled bool

	dashboard dashboardModel
	upload    uploadModel
	timeline  timelineModel
	calendar  calendarModel
	goals     goalsModel
	notes     notesModel
	focus     focusModel
	rewards   rewardsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, gw *analysis.Gateway, engine *gamify.Engine, media *store.MediaCache, cfg *config.Config) App {
	h := help.New()
	h.ShowAll = false

	setTheme(s.Mode())

	return App{
		store:      s,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s),
		upload:     newUploadModel(s, gw, engine, media),
		timeline:   newTimelineModel(s),
		calendar:   newCalendarModel(s),
		goals:      newGoalsModel(s),
		notes:      newNotesModel(s),
		focus:      newFocusModel(s, cfg.Focus),
		rewards:    newRewardsModel(s),
		chat:       newChatModel(gw),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.upload.setSize(a.width, contentHeight)
		a.timeline.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.goals.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.focus.setSize(a.width, contentHeight)
		a.rewards.setSize(a.width, contentHeight)
		a.chat.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Reward reveal eats the next key.
		if a.reward != nil {
			a.reward = nil
			return a, nil
		}

		if a.chatOpen {
			if msg.String() == "esc" {
				a.chatOpen = false
				return a, nil
			}
			var cmd tea.Cmd
			a.chat, cmd = a.chat.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Chat):
			a.chatOpen = true
			var cmd tea.Cmd
			a.chat, cmd = a.chat.focus()
			return a, cmd
		case key.Matches(msg, keys.Mode):
			return a.cycleMode()
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewUpload
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewTimeline
			return a, a.timeline.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewCalendar
			return a, a.calendar.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewGoals
			return a, a.goals.refresh()
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewNotes
			return a, a.notes.refresh()
		case key.Matches(msg, keys.Tab7):
			a.activeView = viewFocus
			return a, a.focus.refresh()
		case key.Matches(msg, keys.Tab8):
			a.activeView = viewRewards
			return a, a.rewards.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Ticks always reach the focus timer, whatever view is active.
		var cmd tea.Cmd
		a.focus, cmd = a.focus.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case chatReplyMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.update(msg)
		return a, cmd

	case analysisDoneMsg, analysisFailedMsg:
		// Must reach the upload model even if another view is active.
		var cmd tea.Cmd
		a.upload, cmd = a.upload.update(msg)
		return a, cmd

	case uploadRecordedMsg:
		a.status = fmt.Sprintf("Entry recorded, +%d XP", gamify.UploadXP)
		if msg.leveledUp {
			a.status = "Level up! " + a.status
		}
		a.reward = msg.reward
		a.rewardLeveled = msg.leveledUp
		a.activeView = viewCalendar
		return a, tea.Batch(a.calendar.refresh(), a.dashboard.loadData())

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) cycleMode() (tea.Model, tea.Cmd) {
	var next store.Mode
	switch a.store.Mode() {
	case store.ModeNeon:
		next = store.ModeZen
	case store.ModeZen:
		next = store.ModeHyper
	default:
		next = store.ModeNeon
	}
	if err := a.store.SetMode(next); err != nil {
		return a, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	setTheme(next)
	a.status = "Mode: " + string(next)
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewUpload:
		a.upload, cmd = a.upload.update(msg)
	case viewTimeline:
		a.timeline, cmd = a.timeline.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewGoals:
		a.goals, cmd = a.goals.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewFocus:
		a.focus, cmd = a.focus.update(msg)
	case viewRewards:
		a.rewards, cmd = a.rewards.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewUpload:
		return a.upload.formActive
	case viewGoals:
		return a.goals.formActive
	case viewNotes:
		return a.notes.formActive
	case viewFocus:
		return a.focus.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewTimeline:
		return a.timeline.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewGoals:
		return a.goals.refresh()
	case viewNotes:
		return a.notes.refresh()
	case viewFocus:
		return a.focus.refresh()
	case viewRewards:
		return a.rewards.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewUpload:
		content = a.upload.view()
	case viewTimeline:
		content = a.timeline.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewGoals:
		content = a.goals.view()
	case viewNotes:
		content = a.notes.view()
	case viewFocus:
		content = a.focus.view()
	case viewRewards:
		content = a.rewards.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Overlays replace the content region.
	switch {
	case a.reward != nil:
		content = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center,
			renderRewardReveal(*a.reward, a.rewardLeveled, a.width))
	case a.chatOpen:
		content = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center,
			a.chat.view())
	case a.exportPicking:
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pvision")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = statusBarStyle.Render(" " + a.status)
	}

	// Profile summary and timer state live in the footer.
	p := a.store.Profile()
	profileInfo := highlightStyle.Render(fmt.Sprintf(" Lv%d %d XP", p.Level, p.XP))

	timerInfo := ""
	switch a.focus.phase {
	case focusRunning:
		timerInfo = successStyle.Render(" ● " + formatClock(a.focus.remaining))
	case focusPaused:
		timerInfo = warningStyle.Render(" ⏸ " + formatClock(a.focus.pausedAt))
	}

	left := footerStyle.Render(helpView)
	right := profileInfo + timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		entries := a.store.Entries()
		goals := a.store.Goals()
		profile := a.store.Profile()

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("pvision-export-%s.csv", dateStr))
			if err := export.ToCSV(entries, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("pvision-export-%s.json", dateStr))
			if err := export.ToJSON(entries, goals, &profile, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
