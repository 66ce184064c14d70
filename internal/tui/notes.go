package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"pvision/internal/store"
)

var noteColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#9B59B6"}

type notesModel struct {
	store  *store.Store
	width  int
	height int

	notes  []store.Note
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty = creating

	formTitle   *string
	formContent *string
	formColor   *string
	formPinned  *bool
}

func newNotesModel(s *store.Store) notesModel {
	title, content, color, pinned := "", "", noteColors[0], false
	return notesModel{
		store:       s,
		formTitle:   &title,
		formContent: &content,
		formColor:   &color,
		formPinned:  &pinned,
	}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

type notesDataMsg struct {
	notes []store.Note
}

func (n notesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return notesDataMsg{notes: n.store.SortedNotes()}
	}
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if n.formActive && n.form != nil {
		return n.updateForm(msg)
	}

	switch msg := msg.(type) {
	case notesDataMsg:
		n.notes = msg.notes
		if n.cursor >= len(n.notes) {
			n.cursor = max(0, len(n.notes)-1)
		}
		return n, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.notes)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.New):
			return n.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(n.notes) > 0 {
				note := n.notes[n.cursor]
				return n.showForm(&note)
			}
		case key.Matches(msg, keys.Pin):
			if len(n.notes) > 0 {
				note := n.notes[n.cursor]
				note.IsPinned = !note.IsPinned
				n.store.UpdateNote(note)
				return n, n.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if len(n.notes) > 0 {
				n.store.DeleteNote(n.notes[n.cursor].ID)
				return n, n.refresh()
			}
		}
	}
	return n, nil
}

func (n notesModel) showForm(editing *store.Note) (notesModel, tea.Cmd) {
	if editing != nil {
		n.editingID = editing.ID
		*n.formTitle = editing.Title
		*n.formContent = editing.Content
		*n.formColor = editing.Color
		*n.formPinned = editing.IsPinned
		if *n.formColor == "" {
			*n.formColor = noteColors[0]
		}
	} else {
		n.editingID = ""
		*n.formTitle = ""
		*n.formContent = ""
		*n.formColor = noteColors[0]
		*n.formPinned = false
	}

	colorOptions := make([]huh.Option[string], len(noteColors))
	for i, c := range noteColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(n.formTitle),
			huh.NewText().Title("Content").Value(n.formContent),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(n.formColor),
			huh.NewConfirm().Title("Pin this note?").Value(n.formPinned),
		),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) updateForm(msg tea.Msg) (notesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			n.formActive = false
			n.form = nil
			return n, nil
		}
	}

	form, cmd := n.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		n.form = f
	}

	if n.form.State == huh.StateCompleted {
		n.formActive = false
		if strings.TrimSpace(*n.formTitle) == "" && strings.TrimSpace(*n.formContent) == "" {
			return n, n.refresh()
		}
		if n.editingID != "" {
			for _, note := range n.notes {
				if note.ID == n.editingID {
					note.Title = *n.formTitle
					note.Content = *n.formContent
					note.Color = *n.formColor
					note.IsPinned = *n.formPinned
					n.store.UpdateNote(note)
					break
				}
			}
		} else {
			n.store.AddNote(store.Note{
				ID:        uuid.NewString(),
				Title:     *n.formTitle,
				Content:   *n.formContent,
				CreatedAt: time.Now().UnixMilli(),
				IsPinned:  *n.formPinned,
				Color:     *n.formColor,
			})
		}
		return n, n.refresh()
	}

	return n, cmd
}

func (n notesModel) view() string {
	w := n.width - 4

	if n.formActive && n.form != nil {
		title := titleStyle.Render("New Note")
		if n.editingID != "" {
			title = titleStyle.Render("Edit Note")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", n.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Notes")

	if len(n.notes) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No notes yet. Press n to write one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, note := range n.notes {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		dot := "●"
		if note.Color != "" {
			dot = lipgloss.NewStyle().Foreground(lipgloss.Color(note.Color)).Render("●")
		}
		pin := "  "
		if note.IsPinned {
			pin = accentStyle.Render("📌")
		}
		when := time.UnixMilli(note.CreatedAt).Local().Format("Jan 02")

		row := style.Render(fmt.Sprintf("%s%s %s %-24s", cursor, pin, dot, truncate(note.Title, 24))) +
			" " + mutedStyle.Render(when) +
			"  " + subtitleStyle.Render(truncate(strings.ReplaceAll(note.Content, "\n", " "), max(10, w-46)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  E: edit  p: pin  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
