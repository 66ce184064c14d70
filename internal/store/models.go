package store

import "pvision/internal/gamify"

// Reward is re-exported so callers reading a profile do not need to
// import the gamify package directly.
type Reward = gamify.Reward

// EntryType categorizes a progress entry.
type EntryType string

const (
	EntryFitness      EntryType = "fitness"
	EntrySkill        EntryType = "skill"
	EntryProductivity EntryType = "productivity"
	EntryGeneral      EntryType = "general"
)

// MediaType is the kind of media attached to an entry.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Mode selects the UI theme.
type Mode string

const (
	ModeNeon  Mode = "neon"
	ModeZen   Mode = "zen"
	ModeHyper Mode = "hyper"
)

// ValidMode reports whether m is one of the known modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeNeon, ModeZen, ModeHyper:
		return true
	}
	return false
}

// UserProfile holds the gamification state for the single local user.
type UserProfile struct {
	Name          string   `json:"name"`
	Level         int      `json:"level"`
	XP            int      `json:"xp"`
	Streak        int      `json:"streak"`
	XPToNextLevel int      `json:"xpToNextLevel"`
	Rewards       []Reward `json:"rewards"`
}

// AIAnalysis is the structured feedback attached to an entry.
type AIAnalysis struct {
	Score    int      `json:"score"` // 0-100
	Emotion  string   `json:"emotion"`
	Feedback string   `json:"feedback"`
	Tags     []string `json:"tags"`
}

// ProgressEntry is one uploaded piece of progress media plus its analysis.
type ProgressEntry struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"` // RFC 3339 timestamp
	Type       EntryType  `json:"type"`
	MediaURL   string     `json:"mediaUrl"` // media:// reference or external URL
	MediaType  MediaType  `json:"mediaType"`
	AIAnalysis AIAnalysis `json:"aiAnalysis"`
}

type Milestone struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Goal struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	TargetDate string      `json:"targetDate"` // YYYY-MM-DD
	Progress   int         `json:"progress"`   // 0-100, derived from milestones
	Milestones []Milestone `json:"milestones"`
}

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
	IsPinned  bool   `json:"isPinned"`
	Color     string `json:"color,omitempty"`
}

type FocusTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

// ChatMessage is one turn of the coach conversation. Chat history is
// session-only and never persisted.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // user or model
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
