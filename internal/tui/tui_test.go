package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pvision/internal/analysis"
	"pvision/internal/config"
	"pvision/internal/gamify"
	"pvision/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	kv, err := store.OpenMemoryKV()
	if err != nil {
		t.Fatalf("new memory kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	s, err := store.New(kv, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func newTestApp(t *testing.T) App {
	t.Helper()
	s := newTestStore(t)
	gw := analysis.NewGateway("http://127.0.0.1:1", "", nil)
	engine := gamify.NewEngine()
	media := store.NewMediaCache(t.TempDir())
	return NewApp(s, gw, engine, media, config.Default())
}

func keyRunes(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func containsString(s, substr string) bool {
	return strings.Contains(s, substr)
}

// ============================================================
// Helpers
// ============================================================

func TestFormatClock(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{90 * time.Second, "01:30"},
		{25 * time.Minute, "25:00"},
		{125 * time.Minute, "125:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.d); got != tc.want {
			t.Errorf("formatClock(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestProgressBarClamps(t *testing.T) {
	full := progressBar(150, 10)
	if !containsString(full, strings.Repeat("█", 10)) {
		t.Errorf("over 100%% should render a full bar, got %q", full)
	}
	empty := progressBar(-10, 10)
	if !containsString(empty, strings.Repeat("░", 10)) {
		t.Errorf("below 0%% should render an empty bar, got %q", empty)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate should leave short strings alone, got %q", got)
	}
	got := truncate("a very long string indeed", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated string should end in ellipsis, got %q", got)
	}
}

func TestMediaTypeFor(t *testing.T) {
	cases := []struct {
		path string
		want store.MediaType
	}{
		{"clip.mp4", store.MediaVideo},
		{"clip.MOV", store.MediaVideo},
		{"photo.jpg", store.MediaImage},
		{"photo.png", store.MediaImage},
		{"noext", store.MediaImage},
	}
	for _, tc := range cases {
		if got := mediaTypeFor(tc.path); got != tc.want {
			t.Errorf("mediaTypeFor(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestMimeTypeFor(t *testing.T) {
	if got := mimeTypeFor("a.png"); got != "image/png" {
		t.Errorf("png mime = %q", got)
	}
	if got := mimeTypeFor("a.mp4"); got != "video/mp4" {
		t.Errorf("mp4 mime = %q", got)
	}
	if got := mimeTypeFor("a.bin"); got != "image/jpeg" {
		t.Errorf("unknown extension should default to jpeg, got %q", got)
	}
}

// ============================================================
// Theme
// ============================================================

func TestSetThemeSwapsPalette(t *testing.T) {
	setTheme(store.ModeNeon)
	neon := colorPrimary
	setTheme(store.ModeHyper)
	if colorPrimary == neon {
		t.Error("hyper mode should change the primary color")
	}
	setTheme(store.ModeNeon)
}

func TestSetThemeUnknownFallsBack(t *testing.T) {
	setTheme(store.ModeNeon)
	neon := colorPrimary
	setTheme(store.Mode("bogus"))
	if colorPrimary != neon {
		t.Error("unknown mode should fall back to neon")
	}
}

func TestRarityStyles(t *testing.T) {
	for _, rarity := range []string{"common", "rare", "legendary", "mythic"} {
		out := rarityStyle(rarity).Render("x")
		if out == "" {
			t.Errorf("rarity %q rendered empty", rarity)
		}
	}
}

// ============================================================
// Key map
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	short := keys.ShortHelp()
	if len(short) == 0 {
		t.Error("short help should not be empty")
	}
	full := keys.FullHelp()
	if len(full) != 5 {
		t.Errorf("full help rows = %d, want 5", len(full))
	}
	for i, row := range full {
		if len(row) == 0 {
			t.Errorf("full help row %d is empty", i)
		}
	}
}

// ============================================================
// Focus timer
// ============================================================

func newTestFocus(t *testing.T) focusModel {
	t.Helper()
	return newFocusModel(newTestStore(t), config.FocusConfig{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
	})
}

func TestFocusStartPauseResume(t *testing.T) {
	f := newTestFocus(t)
	if f.phase != focusIdle {
		t.Fatalf("initial phase = %v, want idle", f.phase)
	}

	f, _ = f.update(keyRunes("s"))
	if f.phase != focusRunning {
		t.Fatalf("after start phase = %v, want running", f.phase)
	}
	if f.duration != 25*time.Minute {
		t.Errorf("work duration = %v, want 25m", f.duration)
	}

	f, _ = f.update(keyRunes("s"))
	if f.phase != focusPaused {
		t.Fatalf("after pause phase = %v, want paused", f.phase)
	}

	f, _ = f.update(keyRunes("s"))
	if f.phase != focusRunning {
		t.Fatalf("after resume phase = %v, want running", f.phase)
	}
}

func TestFocusReset(t *testing.T) {
	f := newTestFocus(t)
	f, _ = f.update(keyRunes("s"))
	f, _ = f.update(keyRunes("x"))
	if f.phase != focusIdle {
		t.Errorf("after reset phase = %v, want idle", f.phase)
	}
	if f.remaining != f.duration {
		t.Errorf("after reset remaining = %v, want %v", f.remaining, f.duration)
	}
}

func TestFocusTimerExpires(t *testing.T) {
	f := newTestFocus(t)
	f, _ = f.update(keyRunes("s"))
	f.phaseEnd = time.Now().Add(-time.Second)

	f, cmd := f.update(tickMsg(time.Now()))
	if f.phase != focusDone {
		t.Errorf("expired timer phase = %v, want done", f.phase)
	}
	if cmd == nil {
		t.Error("expiry should announce completion")
	}
}

func TestFocusPresetCycle(t *testing.T) {
	f := newTestFocus(t)

	f, _ = f.update(keyRunes("t"))
	if f.preset != presetShortBreak || f.duration != 5*time.Minute {
		t.Errorf("first cycle = %v/%v, want short break 5m", f.preset, f.duration)
	}

	f, _ = f.update(keyRunes("t"))
	if f.preset != presetLongBreak || f.duration != 15*time.Minute {
		t.Errorf("second cycle = %v/%v, want long break 15m", f.preset, f.duration)
	}
}

func TestFocusPresetLockedWhileRunning(t *testing.T) {
	f := newTestFocus(t)
	f, _ = f.update(keyRunes("s"))
	f, _ = f.update(keyRunes("t"))
	if f.preset != presetWork {
		t.Error("preset should not change while the timer runs")
	}
}

func TestFocusTaskToggleThroughKeys(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s, config.FocusConfig{WorkMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15})
	s.AddFocusTask(store.FocusTask{ID: "ft1", Title: "stretch"})

	msg := f.refresh()()
	f, _ = f.update(msg)
	if len(f.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(f.tasks))
	}

	f, _ = f.update(tea.KeyMsg{Type: tea.KeyEnter})
	got := s.FocusTasks(store.FocusCompleted)
	if len(got) != 1 {
		t.Errorf("completed tasks = %d, want 1", len(got))
	}
}

// ============================================================
// Upload
// ============================================================

func newTestUpload(t *testing.T) (uploadModel, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	gw := analysis.NewGateway("http://127.0.0.1:1", "", nil)
	u := newUploadModel(s, gw, gamify.NewEngine(), store.NewMediaCache(t.TempDir()))
	return u, s
}

func sampleEntry(id string) store.ProgressEntry {
	return store.ProgressEntry{
		ID:        id,
		Date:      time.Now().UTC().Format(time.RFC3339),
		Type:      store.EntryFitness,
		MediaURL:  "media://m1",
		MediaType: store.MediaImage,
		AIAnalysis: store.AIAnalysis{
			Score:    85,
			Emotion:  "Focused",
			Feedback: "Strong session.",
			Tags:     []string{"Progress"},
		},
	}
}

func TestUploadStaleAnalysisDiscarded(t *testing.T) {
	u, s := newTestUpload(t)
	u.gen = 2
	u.analyzing = true

	u, cmd := u.update(analysisDoneMsg{gen: 1, entry: sampleEntry("stale")})
	if cmd != nil {
		t.Error("stale result should produce no command")
	}
	if len(s.Entries()) != 0 {
		t.Error("stale result must not be recorded")
	}
	if !u.analyzing {
		t.Error("a stale result should not end the current analysis")
	}
}

func TestUploadCurrentAnalysisRecorded(t *testing.T) {
	u, s := newTestUpload(t)
	u.gen = 3
	u.analyzing = true

	u, cmd := u.update(analysisDoneMsg{gen: 3, entry: sampleEntry("fresh")})
	if cmd == nil {
		t.Fatal("matching generation should produce a command")
	}
	if u.analyzing {
		t.Error("analysis should be finished")
	}
	entries := s.Entries()
	if len(entries) != 1 || entries[0].ID != "fresh" {
		t.Fatalf("entries = %+v, want the fresh entry", entries)
	}
	if got := s.Profile().XP; got != gamify.UploadXP {
		t.Errorf("XP = %d, want %d", got, gamify.UploadXP)
	}

	if _, ok := cmd().(uploadRecordedMsg); !ok {
		t.Error("command should yield an uploadRecordedMsg")
	}
}

func TestUploadFailureClearsAnalyzing(t *testing.T) {
	u, s := newTestUpload(t)

	u, cmd := u.startAnalysis(filepath.Join(t.TempDir(), "missing.png"), store.EntryFitness, "")
	if !u.analyzing {
		t.Fatal("startAnalysis should mark the model as analyzing")
	}

	msg, ok := cmd().(analysisFailedMsg)
	if !ok {
		t.Fatalf("unreadable media should fail the analysis, got %T", cmd())
	}
	u, cmd = u.update(msg)
	if u.analyzing {
		t.Error("a failed analysis must not leave the spinner up")
	}
	st, ok := cmd().(statusMsg)
	if !ok || !st.isError {
		t.Errorf("failure should surface as an error status, got %+v", st)
	}
	if len(s.Entries()) != 0 {
		t.Errorf("failed upload must not be recorded, got %d entries", len(s.Entries()))
	}
}

func TestUploadStaleFailureIgnored(t *testing.T) {
	u, _ := newTestUpload(t)
	u.gen = 2
	u.analyzing = true

	u, cmd := u.update(analysisFailedMsg{gen: 1, err: errors.New("read media: gone")})
	if cmd != nil {
		t.Error("a stale failure should produce no command")
	}
	if !u.analyzing {
		t.Error("a stale failure should not end the current analysis")
	}
}

func TestUploadEscCancelsAnalysis(t *testing.T) {
	u, _ := newTestUpload(t)
	u.gen = 1
	u.analyzing = true

	u, _ = u.update(tea.KeyMsg{Type: tea.KeyEsc})
	if u.analyzing {
		t.Error("esc should cancel the analysis")
	}
	if u.gen != 2 {
		t.Errorf("gen = %d, want 2 so the in-flight result is orphaned", u.gen)
	}
}

// ============================================================
// App shell
// ============================================================

func TestAppViewBeforeSize(t *testing.T) {
	a := newTestApp(t)
	if got := a.View(); got != "Loading..." {
		t.Errorf("zero-width view = %q", got)
	}
}

func TestAppRendersTabs(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)

	out := a.View()
	for _, name := range viewNames {
		if !containsString(out, name) {
			t.Errorf("view missing tab %q", name)
		}
	}
	if !containsString(out, "pvision") {
		t.Error("view missing app title")
	}
}

func TestAppTabSwitching(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)

	model, _ = a.Update(keyRunes("5"))
	a = model.(App)
	if a.activeView != viewGoals {
		t.Errorf("activeView = %v, want goals", a.activeView)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(App)
	if a.activeView != viewNotes {
		t.Errorf("after tab activeView = %v, want notes", a.activeView)
	}
}

func TestAppTabWrapsAround(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)

	model, _ = a.Update(keyRunes("8"))
	a = model.(App)
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(App)
	if a.activeView != viewDashboard {
		t.Errorf("tab from last view should wrap to dashboard, got %v", a.activeView)
	}
}

func TestAppCycleMode(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)

	if a.store.Mode() != store.ModeNeon {
		t.Fatalf("initial mode = %q", a.store.Mode())
	}

	model, _ = a.Update(keyRunes("m"))
	a = model.(App)
	if a.store.Mode() != store.ModeZen {
		t.Errorf("mode = %q, want zen", a.store.Mode())
	}

	model, _ = a.Update(keyRunes("m"))
	a = model.(App)
	if a.store.Mode() != store.ModeHyper {
		t.Errorf("mode = %q, want hyper", a.store.Mode())
	}

	model, _ = a.Update(keyRunes("m"))
	a = model.(App)
	if a.store.Mode() != store.ModeNeon {
		t.Errorf("mode = %q, want neon again", a.store.Mode())
	}
	setTheme(store.ModeNeon)
}

func TestAppUploadRecordedNavigatesToCalendar(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)

	reward := &store.Reward{ID: "r1", Title: "Consistency Badge", Rarity: "common", Icon: "🔥"}
	model, _ = a.Update(uploadRecordedMsg{reward: reward, leveledUp: false})
	a = model.(App)

	if a.activeView != viewCalendar {
		t.Errorf("activeView = %v, want calendar", a.activeView)
	}
	if a.reward == nil || a.reward.Title != "Consistency Badge" {
		t.Error("reward reveal should be armed")
	}

	out := a.View()
	if !containsString(out, "REWARD UNLOCKED") {
		t.Error("view should show the reward reveal")
	}

	// Any key dismisses the reveal.
	model, _ = a.Update(keyRunes("z"))
	a = model.(App)
	if a.reward != nil {
		t.Error("reveal should be dismissed")
	}
}

func TestAppChatOverlay(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)

	model, _ = a.Update(keyRunes("c"))
	a = model.(App)
	if !a.chatOpen {
		t.Fatal("c should open the chat overlay")
	}
	if !containsString(a.View(), "Coach") {
		t.Error("chat overlay should render")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.chatOpen {
		t.Error("esc should close the chat overlay")
	}
}

func TestAppExportPicker(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)

	model, _ = a.Update(keyRunes("e"))
	a = model.(App)
	if !a.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !containsString(a.View(), "Export Format") {
		t.Error("picker should render")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.exportPicking {
		t.Error("esc should close the picker")
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(statusMsg{text: "hello"})
	a = model.(App)
	if a.status != "hello" {
		t.Errorf("status = %q", a.status)
	}
}

// ============================================================
// View smoke tests
// ============================================================

func TestDashboardViewEmpty(t *testing.T) {
	d := newDashboardModel(newTestStore(t))
	d.setSize(100, 30)

	msg := d.loadData()()
	d, _ = d.update(msg)

	out := d.view()
	if !containsString(out, "Level 1") {
		t.Error("dashboard should show the starting level")
	}
	if !containsString(out, "No uploads yet") {
		t.Error("dashboard should hint at the first upload")
	}
}

func TestDashboardViewWithEntry(t *testing.T) {
	s := newTestStore(t)
	s.AddEntry(sampleEntry("e1"))

	d := newDashboardModel(s)
	d.setSize(100, 30)
	msg := d.loadData()()
	d, _ = d.update(msg)

	out := d.view()
	if !containsString(out, "Focused") {
		t.Error("dashboard should show the latest entry's emotion")
	}
}

func TestTimelineViewWithEntries(t *testing.T) {
	s := newTestStore(t)
	s.AddEntry(sampleEntry("e1"))

	tl := newTimelineModel(s)
	tl.setSize(100, 30)
	msg := tl.refresh()()
	tl, _ = tl.update(msg)

	out := tl.view()
	if !containsString(out, "Timeline") {
		t.Error("timeline title missing")
	}
	if !containsString(out, "Focused") {
		t.Error("timeline should list the entry")
	}
}

func TestCalendarViewMarksEntryDay(t *testing.T) {
	s := newTestStore(t)
	s.AddEntry(sampleEntry("e1"))

	c := newCalendarModel(s)
	c.setSize(100, 30)
	msg := c.refresh()()
	c, _ = c.update(msg)

	out := c.view()
	if !containsString(out, "•") {
		t.Error("calendar should mark days with entries")
	}
	if !containsString(out, "Focused") {
		t.Error("selected day (today) should list its entries")
	}
}

func TestGoalsViewAndMilestoneToggle(t *testing.T) {
	s := newTestStore(t)
	s.AddGoal(store.Goal{
		ID:         "g1",
		Title:      "Run a 10k",
		TargetDate: "2026-12-01",
		Milestones: []store.Milestone{{Title: "Run 5k"}, {Title: "Run 8k"}},
	})

	g := newGoalsModel(s)
	g.setSize(100, 30)
	msg := g.refresh()()
	g, _ = g.update(msg)

	if !containsString(g.view(), "Run a 10k") {
		t.Error("goal list should show the goal")
	}

	g, _ = g.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !g.viewingDetail {
		t.Fatal("enter should open the milestone view")
	}
	g, _ = g.update(tea.KeyMsg{Type: tea.KeyEnter})

	goals := s.Goals()
	if !goals[0].Milestones[0].Completed {
		t.Error("enter in detail view should toggle the milestone")
	}
	if goals[0].Progress != 50 {
		t.Errorf("progress = %d, want 50", goals[0].Progress)
	}
}

func TestNotesViewPinnedFirst(t *testing.T) {
	s := newTestStore(t)
	s.AddNote(store.Note{ID: "n1", Title: "older pinned", CreatedAt: 100, IsPinned: true})
	s.AddNote(store.Note{ID: "n2", Title: "newer loose", CreatedAt: 200})

	n := newNotesModel(s)
	n.setSize(100, 30)
	msg := n.refresh()()
	n, _ = n.update(msg)

	out := n.view()
	if strings.Index(out, "older pinned") > strings.Index(out, "newer loose") {
		t.Error("pinned note should render before the unpinned one")
	}
}

func TestNotesPinToggleThroughKeys(t *testing.T) {
	s := newTestStore(t)
	s.AddNote(store.Note{ID: "n1", Title: "a note", CreatedAt: 100})

	n := newNotesModel(s)
	n.setSize(100, 30)
	msg := n.refresh()()
	n, _ = n.update(msg)

	n, _ = n.update(keyRunes("p"))
	if !s.Notes()[0].IsPinned {
		t.Error("p should pin the selected note")
	}
}

func TestRewardsViewEmpty(t *testing.T) {
	r := newRewardsModel(newTestStore(t))
	r.setSize(100, 30)
	msg := r.refresh()()
	r, _ = r.update(msg)

	if !containsString(r.view(), "No rewards yet") {
		t.Error("empty vault should say so")
	}
}

func TestRewardsViewListsUnlocks(t *testing.T) {
	s := newTestStore(t)
	p := s.Profile()
	p.Rewards = append(p.Rewards, store.Reward{
		ID: "r1", Title: "Level Up Bundle", Rarity: "legendary",
		XPBonus: 500, Icon: "👑", UnlockedAt: "2026-08-30T12:00:00Z",
	})
	s.SetProfile(p)

	r := newRewardsModel(s)
	r.setSize(100, 30)
	msg := r.refresh()()
	r, _ = r.update(msg)

	out := r.view()
	if !containsString(out, "Level Up Bundle") || !containsString(out, "legendary") {
		t.Error("vault should list the unlocked reward with its rarity")
	}
}

func TestRewardsRarityFilter(t *testing.T) {
	s := newTestStore(t)
	p := s.Profile()
	p.Rewards = append(p.Rewards,
		store.Reward{ID: "r1", Title: "Consistency Badge", Rarity: "common", Icon: "🔥"},
		store.Reward{ID: "r2", Title: "Level Up Bundle", Rarity: "legendary", Icon: "👑"},
	)
	s.SetProfile(p)

	r := newRewardsModel(s)
	r.setSize(100, 30)
	msg := r.refresh()()
	r, _ = r.update(msg)

	// all -> common
	r, _ = r.update(keyRunes("f"))
	out := r.view()
	if !containsString(out, "Consistency Badge") || containsString(out, "Level Up Bundle") {
		t.Error("common filter should hide the legendary reward")
	}

	// cycle back around to all
	for i := 0; i < len(rarityFilters)-1; i++ {
		r, _ = r.update(keyRunes("f"))
	}
	out = r.view()
	if !containsString(out, "Consistency Badge") || !containsString(out, "Level Up Bundle") {
		t.Error("filter should cycle back to showing everything")
	}
}
