package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pvision/internal/gamify"
	"pvision/internal/store"
)

// palette is the set of colors a visual mode swaps in.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	highlight lipgloss.Color
}

var palettes = map[store.Mode]palette{
	store.ModeNeon: {
		primary:   lipgloss.Color("#6C63FF"),
		secondary: lipgloss.Color("#2EC4B6"),
		accent:    lipgloss.Color("#FF6B6B"),
		highlight: lipgloss.Color("#7AA2F7"),
	},
	store.ModeZen: {
		primary:   lipgloss.Color("#8FBC8F"),
		secondary: lipgloss.Color("#A3B18A"),
		accent:    lipgloss.Color("#DDA15E"),
		highlight: lipgloss.Color("#B5C99A"),
	},
	store.ModeHyper: {
		primary:   lipgloss.Color("#FF2D95"),
		secondary: lipgloss.Color("#00F5D4"),
		accent:    lipgloss.Color("#FEE440"),
		highlight: lipgloss.Color("#F15BB5"),
	},
}

// Mode-independent colors
var (
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")
	colorError   = lipgloss.Color("#E74C3C")
	colorFg      = lipgloss.Color("#C0CAF5")
	colorSubtle  = lipgloss.Color("#414868")
)

// Mode-dependent colors, rebuilt by setTheme.
var (
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorHighlight lipgloss.Color
)

// Styles rebuilt by setTheme.
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	timerStyle        lipgloss.Style
	timerRunningStyle lipgloss.Style
	timerPausedStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	accentStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	statusBarStyle    lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
	overlayStyle      lipgloss.Style
)

func init() {
	setTheme(store.ModeNeon)
}

// setTheme swaps the active palette. The TUI runs on one goroutine so
// rebuilding the package style vars in place is fine.
func setTheme(mode store.Mode) {
	p, ok := palettes[mode]
	if !ok {
		p = palettes[store.ModeNeon]
	}
	colorPrimary = p.primary
	colorSecondary = p.secondary
	colorAccent = p.accent
	colorHighlight = p.highlight

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	timerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Align(lipgloss.Center)

	timerRunningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSuccess).
		Align(lipgloss.Center)

	timerPausedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWarning).
		Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
		Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	selectedItemStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	normalItemStyle = lipgloss.NewStyle().
		Foreground(colorFg)

	overlayStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorAccent).
		Padding(1, 3)
}

// rarityStyle colors a reward by its rarity tier.
func rarityStyle(rarity string) lipgloss.Style {
	switch rarity {
	case gamify.RarityLegendary:
		return warningStyle.Bold(true)
	case gamify.RarityMythic:
		return accentStyle.Bold(true)
	case gamify.RarityRare:
		return highlightStyle
	default:
		return normalItemStyle
	}
}
