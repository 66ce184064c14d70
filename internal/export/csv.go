package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"pvision/internal/store"
)

func ToCSV(entries []store.ProgressEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Date", "Type", "Media Type", "Media URL", "Score", "Emotion", "Feedback", "Tags"}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.ID,
			e.Date,
			string(e.Type),
			string(e.MediaType),
			e.MediaURL,
			fmt.Sprintf("%d", e.AIAnalysis.Score),
			e.AIAnalysis.Emotion,
			e.AIAnalysis.Feedback,
			strings.Join(e.AIAnalysis.Tags, ";"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
