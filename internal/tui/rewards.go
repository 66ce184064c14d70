package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pvision/internal/gamify"
	"pvision/internal/store"
)

type rewardsModel struct {
	store  *store.Store
	width  int
	height int

	rewards []store.Reward
	cursor  int
	filter  string // rarity, empty = all
}

func newRewardsModel(s *store.Store) rewardsModel {
	return rewardsModel{store: s}
}

func (r *rewardsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type rewardsDataMsg struct {
	rewards []store.Reward
}

func (r rewardsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return rewardsDataMsg{rewards: r.store.Profile().Rewards}
	}
}

func (r rewardsModel) update(msg tea.Msg) (rewardsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case rewardsDataMsg:
		r.rewards = msg.rewards
		if r.cursor >= len(r.rewards) {
			r.cursor = max(0, len(r.rewards)-1)
		}
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, keys.Down):
			if r.cursor < len(r.visible())-1 {
				r.cursor++
			}
		case key.Matches(msg, keys.Filter):
			r.filter = nextRarityFilter(r.filter)
			r.cursor = 0
		}
	}
	return r, nil
}

var rarityFilters = []string{"", gamify.RarityCommon, gamify.RarityRare, gamify.RarityLegendary, gamify.RarityMythic}

func nextRarityFilter(cur string) string {
	for i, f := range rarityFilters {
		if f == cur {
			return rarityFilters[(i+1)%len(rarityFilters)]
		}
	}
	return ""
}

// visible returns the filtered rewards, newest first.
func (r rewardsModel) visible() []store.Reward {
	var out []store.Reward
	for i := len(r.rewards) - 1; i >= 0; i-- {
		if r.filter != "" && r.rewards[i].Rarity != r.filter {
			continue
		}
		out = append(out, r.rewards[i])
	}
	return out
}

func (r rewardsModel) view() string {
	w := r.width - 4

	filterLabel := "all"
	if r.filter != "" {
		filterLabel = r.filter
	}
	title := titleStyle.Render("Reward Vault") +
		mutedStyle.Render("  filter: "+filterLabel)

	if len(r.rewards) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No rewards yet. Keep uploading to earn some."),
		)
		return panelStyle.Width(w).Render(content)
	}

	visible := r.visible()

	var rows []string
	rows = append(rows, title+mutedStyle.Render(fmt.Sprintf("  %d unlocked", len(r.rewards))))
	rows = append(rows, "")

	if len(visible) == 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  Nothing %s yet.", filterLabel)))
	}
	for i, rw := range visible {
		cursor := "  "
		if i == r.cursor {
			cursor = "> "
		}
		when := rw.UnlockedAt
		if t, err := time.Parse(time.RFC3339, rw.UnlockedAt); err == nil {
			when = t.Local().Format("Jan 02, 2006")
		}
		row := cursor + rw.Icon + " " +
			rarityStyle(rw.Rarity).Render(fmt.Sprintf("%-24s", truncate(rw.Title, 24))) +
			rarityStyle(rw.Rarity).Render(fmt.Sprintf("%-10s", rw.Rarity)) +
			mutedStyle.Render(fmt.Sprintf(" +%d XP bonus · %s", rw.XPBonus, when))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  f: filter rarity"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderRewardReveal draws the unlock celebration overlay.
func renderRewardReveal(rw store.Reward, leveledUp bool, w int) string {
	banner := "REWARD UNLOCKED"
	if leveledUp {
		banner = "LEVEL UP!"
	}

	lines := []string{
		accentStyle.Bold(true).Render(banner),
		"",
		rw.Icon + "  " + rarityStyle(rw.Rarity).Render(rw.Title),
		rarityStyle(rw.Rarity).Render(strings.ToUpper(rw.Rarity)),
		mutedStyle.Render(fmt.Sprintf("+%d XP bonus", rw.XPBonus)),
		"",
		mutedStyle.Render("press any key to continue"),
	}

	inner := lipgloss.JoinVertical(lipgloss.Center, lines...)
	boxWidth := min(48, max(24, w-8))
	return overlayStyle.Width(boxWidth).Align(lipgloss.Center).Render(inner)
}
