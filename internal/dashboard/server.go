package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"snooscrape/internal/ingest"
)

// Server renders charts over the saved scrape snapshots.
type Server struct {
	dataDir string
	logger  *slog.Logger
}

func NewServer(dataDir string, logger *slog.Logger) *Server {
	return &Server{dataDir: dataDir, logger: logger}
}

// Start serves the dashboard on the given port and blocks.
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)

	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("dashboard listening", "addr", addr, "data_dir", s.dataDir)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshots, err := ingest.ListSnapshots(s.dataDir)
	if err != nil {
		s.logger.Error("failed to list snapshots", "error", err)
		http.Error(w, "no snapshot data available", http.StatusServiceUnavailable)
		return
	}
	if len(snapshots) == 0 {
		http.Error(w, "no snapshots found; run a scrape first", http.StatusNotFound)
		return
	}

	// 1. Top post scores from the most recent snapshot.
	latest := snapshots[len(snapshots)-1]
	posts, err := ingest.LoadSnapshot(latest.Path)
	if err != nil {
		s.logger.Error("failed to load snapshot", "path", latest.Path, "error", err)
		http.Error(w, "failed to load snapshot", http.StatusInternalServerError)
		return
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("r/%s top post scores (%s)", latest.Subreddit, latest.TimeWindow),
			Subtitle: latest.Taken.Format("2006-01-02 15:04:05"),
		}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	var barX []string
	var barY []opts.BarData
	for _, p := range posts {
		barX = append(barX, truncateTitle(p.Title, 30))
		barY = append(barY, opts.BarData{Value: p.Score})
	}
	bar.SetXAxis(barX).AddSeries("Score", barY)

	// 2. Comment volume per subreddit across all snapshots.
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Comment volume by subreddit"}),
	)

	commentCounts := make(map[string]int)
	for _, snap := range snapshots {
		ps, err := ingest.LoadSnapshot(snap.Path)
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot", "path", snap.Path, "error", err)
			continue
		}
		for _, p := range ps {
			commentCounts[snap.Subreddit] += p.CommentCount
		}
	}

	var pieItems []opts.PieData
	for sub, count := range commentCounts {
		pieItems = append(pieItems, opts.PieData{Name: sub, Value: count})
	}
	pie.AddSeries("Comments", pieItems)

	if err := bar.Render(w); err != nil {
		s.logger.Error("failed to render bar chart", "error", err)
		return
	}
	if err := pie.Render(w); err != nil {
		s.logger.Error("failed to render pie chart", "error", err)
	}
}

func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max]) + "…"
}
