package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"pvision/internal/analysis"
	"pvision/internal/gamify"
	"pvision/internal/store"
)

var entryTypes = []store.EntryType{
	store.EntryFitness,
	store.EntrySkill,
	store.EntryProductivity,
	store.EntryGeneral,
}

type uploadModel struct {
	store   *store.Store
	gateway *analysis.Gateway
	engine  *gamify.Engine
	media   *store.MediaCache
	width   int
	height  int

	// gen identifies the in-flight analysis. Results from a prior
	// generation are discarded so a cancelled upload cannot land.
	gen       int
	analyzing bool

	formActive bool
	form       *huh.Form

	formPath    *string
	formType    *string
	formContext *string

	lastEntry store.ProgressEntry
	hasResult bool
}

func newUploadModel(s *store.Store, g *analysis.Gateway, e *gamify.Engine, m *store.MediaCache) uploadModel {
	path, typ, ctx := "", string(store.EntryGeneral), ""
	return uploadModel{
		store:       s,
		gateway:     g,
		engine:      e,
		media:       m,
		formPath:    &path,
		formType:    &typ,
		formContext: &ctx,
	}
}

func (u *uploadModel) setSize(w, h int) {
	u.width = w
	u.height = h
}

func (u uploadModel) update(msg tea.Msg) (uploadModel, tea.Cmd) {
	if u.formActive && u.form != nil {
		return u.updateForm(msg)
	}

	switch msg := msg.(type) {
	case analysisDoneMsg:
		if msg.gen != u.gen {
			// A newer upload superseded this one.
			return u, nil
		}
		u.analyzing = false
		return u.recordEntry(msg.entry)

	case analysisFailedMsg:
		if msg.gen != u.gen {
			return u, nil
		}
		u.analyzing = false
		err := msg.err
		return u, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Upload failed: %v", err), isError: true}
		}

	case tea.KeyMsg:
		switch {
		case msg.String() == "esc":
			if u.analyzing {
				u.gen++
				u.analyzing = false
				return u, func() tea.Msg {
					return statusMsg{text: "Upload cancelled"}
				}
			}
		case msg.String() == "n", msg.String() == "enter":
			if !u.analyzing {
				return u.showForm()
			}
		}
	}
	return u, nil
}

func (u uploadModel) showForm() (uploadModel, tea.Cmd) {
	*u.formPath = ""
	*u.formType = string(store.EntryGeneral)
	*u.formContext = ""

	typeOptions := make([]huh.Option[string], len(entryTypes))
	for i, t := range entryTypes {
		typeOptions[i] = huh.NewOption(string(t), string(t))
	}

	u.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Media File").Description("Path to an image or video, or an https:// URL").Value(u.formPath),
			huh.NewSelect[string]().Title("Category").Options(typeOptions...).Value(u.formType),
			huh.NewInput().Title("Context (optional)").Description("What were you working on?").Value(u.formContext),
		),
	).WithShowHelp(true).WithShowErrors(true)

	u.formActive = true
	return u, u.form.Init()
}

func (u uploadModel) updateForm(msg tea.Msg) (uploadModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			u.formActive = false
			u.form = nil
			return u, nil
		}
	}

	form, cmd := u.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		u.form = f
	}

	if u.form.State == huh.StateCompleted {
		u.formActive = false
		if strings.TrimSpace(*u.formPath) == "" {
			return u, func() tea.Msg {
				return statusMsg{text: "No media given", isError: true}
			}
		}
		return u.startAnalysis(*u.formPath, store.EntryType(*u.formType), *u.formContext)
	}

	return u, cmd
}

func (u uploadModel) startAnalysis(path string, typ store.EntryType, userContext string) (uploadModel, tea.Cmd) {
	u.gen++
	u.analyzing = true
	gen := u.gen

	gateway := u.gateway
	media := u.media

	return u, func() tea.Msg {
		var (
			mediaURL  string
			mediaType store.MediaType
			data      []byte
		)

		if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			mediaURL = path
			mediaType = mediaTypeFor(path)
		} else {
			b, err := os.ReadFile(path)
			if err != nil {
				return analysisFailedMsg{gen: gen, err: fmt.Errorf("read media: %w", err)}
			}
			data = b
			mediaType = mediaTypeFor(path)
			ref, err := media.Put(uuid.NewString(), b)
			if err != nil {
				return analysisFailedMsg{gen: gen, err: fmt.Errorf("cache media: %w", err)}
			}
			mediaURL = ref
		}

		result := gateway.Analyze(context.Background(), mimeTypeFor(path), data, userContext)

		entry := store.ProgressEntry{
			ID:        uuid.NewString(),
			Date:      time.Now().UTC().Format(time.RFC3339),
			Type:      typ,
			MediaURL:  mediaURL,
			MediaType: mediaType,
			AIAnalysis: store.AIAnalysis{
				Score:    result.Score,
				Emotion:  result.Emotion,
				Feedback: result.Feedback,
				Tags:     result.Tags,
			},
		}
		return analysisDoneMsg{gen: gen, entry: entry}
	}
}

func (u uploadModel) recordEntry(entry store.ProgressEntry) (uploadModel, tea.Cmd) {
	reward, leveledUp := u.store.RecordUpload(entry, u.engine)
	u.lastEntry = entry
	u.hasResult = true
	return u, func() tea.Msg {
		return uploadRecordedMsg{reward: reward, leveledUp: leveledUp}
	}
}

func mediaTypeFor(path string) store.MediaType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".webm", ".avi", ".mkv":
		return store.MediaVideo
	}
	return store.MediaImage
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	default:
		return "image/jpeg"
	}
}

func (u uploadModel) view() string {
	w := u.width - 4

	if u.formActive && u.form != nil {
		title := titleStyle.Render("New Upload")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", u.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if u.analyzing {
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Analyzing..."),
			"",
			highlightStyle.Render("Your coach is reviewing the upload"),
			"",
			mutedStyle.Render("esc: cancel"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Upload Progress"))
	rows = append(rows, "")
	rows = append(rows, normalItemStyle.Render("  Share a photo or clip of what you worked on today."))
	rows = append(rows, normalItemStyle.Render("  Every upload earns XP and may unlock a reward."))
	rows = append(rows, "")

	if u.hasResult {
		e := u.lastEntry
		rows = append(rows, mutedStyle.Render("  Last result:"))
		rows = append(rows, fmt.Sprintf("  %s  %s", scoreStyle(e.AIAnalysis.Score), highlightStyle.Render(e.AIAnalysis.Emotion)))
		rows = append(rows, "  "+normalItemStyle.Render(truncate(e.AIAnalysis.Feedback, w-6)))
		rows = append(rows, "")
	}

	rows = append(rows, mutedStyle.Render("  n/enter: new upload"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
