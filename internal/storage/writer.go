package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"snooscrape/internal/domain"
)

// Writer persists scrape snapshots as timestamped JSON files under a
// single output directory.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Write serializes data to a new snapshot file named after the request
// and the current time, creating the output directory if needed. It
// returns the path of the written file.
func (w *Writer) Write(req domain.FetchRequest, data any) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.Dir, err)
	}

	filename := fmt.Sprintf("%s_%s_%dposts_%s.json",
		req.Subreddit,
		req.TimeWindow,
		req.PostLimit,
		time.Now().Format("20060102_150405"),
	)
	path := filepath.Join(w.Dir, filename)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return path, nil
}
