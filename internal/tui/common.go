package tui

import (
	"fmt"
	"strings"
	"time"

	"pvision/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewUpload
	viewTimeline
	viewCalendar
	viewGoals
	viewNotes
	viewFocus
	viewRewards
)

var viewNames = []string{"Dashboard", "Upload", "Timeline", "Calendar", "Goals", "Notes", "Focus", "Rewards"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// analysisDoneMsg carries the scored entry back from the gateway. gen
// identifies the upload attempt so stale results can be discarded.
type analysisDoneMsg struct {
	gen   int
	entry store.ProgressEntry
}

// analysisFailedMsg reports an upload attempt that died before it
// reached the gateway, so the spinner can be taken down.
type analysisFailedMsg struct {
	gen int
	err error
}

// uploadRecordedMsg fires once the entry and XP have been written.
type uploadRecordedMsg struct {
	reward    *store.Reward
	leveledUp bool
}

type chatReplyMsg struct {
	text string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// progressBar renders a [####----] style bar of the given inner width.
func progressBar(percent, width int) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// scoreStyle colors an analysis score by band.
func scoreStyle(score int) string {
	label := fmt.Sprintf("%3d", score)
	switch {
	case score >= 80:
		return successStyle.Render(label)
	case score >= 50:
		return warningStyle.Render(label)
	default:
		return errorStyle.Render(label)
	}
}
