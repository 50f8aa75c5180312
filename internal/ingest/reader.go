package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"snooscrape/internal/domain"
)

// Snapshot filenames encode the scrape parameters:
// <subreddit>_<window>_<N>posts_<YYYYMMDD_HHMMSS>.json
var snapshotNameRegex = regexp.MustCompile(
	`^(.+)_(hour|day|week|month|year|all)_(\d+)posts_(\d{8}_\d{6})\.json$`)

// Snapshot describes one saved scrape file, parsed from its name.
type Snapshot struct {
	Path       string
	Subreddit  string
	TimeWindow domain.TimeWindow
	PostLimit  int
	Taken      time.Time
}

// ParseSnapshotName extracts scrape parameters from a snapshot
// filename. It returns false for files that are not snapshots.
func ParseSnapshotName(name string) (Snapshot, bool) {
	m := snapshotNameRegex.FindStringSubmatch(name)
	if m == nil {
		return Snapshot{}, false
	}

	limit, err := strconv.Atoi(m[3])
	if err != nil {
		return Snapshot{}, false
	}
	taken, err := time.ParseInLocation("20060102_150405", m[4], time.Local)
	if err != nil {
		return Snapshot{}, false
	}

	return Snapshot{
		Subreddit:  m[1],
		TimeWindow: domain.TimeWindow(m[2]),
		PostLimit:  limit,
		Taken:      taken,
	}, true
}

// ListSnapshots scans dir for snapshot files and returns them sorted
// oldest first. Files that do not match the naming scheme are skipped.
func ListSnapshots(dir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory %s: %w", dir, err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		snap, ok := ParseSnapshotName(entry.Name())
		if !ok {
			continue
		}
		snap.Path = filepath.Join(dir, entry.Name())
		snapshots = append(snapshots, snap)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Taken.Before(snapshots[j].Taken)
	})
	return snapshots, nil
}

// LoadSnapshot reads the posts stored in a snapshot file.
func LoadSnapshot(path string) ([]domain.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return posts, nil
}
