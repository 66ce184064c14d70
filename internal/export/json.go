package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pvision/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Entries    []jsonEntry   `json:"entries"`
	Goals      []store.Goal  `json:"goals,omitempty"`
	Profile    *jsonProfile  `json:"profile,omitempty"`
}

type jsonEntry struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Type     string   `json:"type"`
	Media    string   `json:"media_type"`
	MediaURL string   `json:"media_url,omitempty"`
	Score    int      `json:"score"`
	Emotion  string   `json:"emotion"`
	Feedback string   `json:"feedback,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type jsonProfile struct {
	Name    string `json:"name"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
	Streak  int    `json:"streak"`
	Rewards int    `json:"rewards"`
}

func ToJSON(entries []store.ProgressEntry, goals []store.Goal, profile *store.UserProfile, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Goals:      goals,
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			ID:       e.ID,
			Date:     e.Date,
			Type:     string(e.Type),
			Media:    string(e.MediaType),
			MediaURL: e.MediaURL,
			Score:    e.AIAnalysis.Score,
			Emotion:  e.AIAnalysis.Emotion,
			Feedback: e.AIAnalysis.Feedback,
			Tags:     e.AIAnalysis.Tags,
		})
	}

	if profile != nil {
		export.Profile = &jsonProfile{
			Name:    profile.Name,
			Level:   profile.Level,
			XP:      profile.XP,
			Streak:  profile.Streak,
			Rewards: len(profile.Rewards),
		}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
