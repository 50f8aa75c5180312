package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"snooscrape/internal/domain"
	"snooscrape/internal/ui"
)

// orchestrator is what the bridge drives; satisfied by
// *agent.Orchestrator in production.
type orchestrator interface {
	Run(ctx context.Context, req domain.FetchRequest) (*domain.Outcome, error)
}

// App connects the terminal front end to the agent orchestrator. Scrape
// runs happen off the UI loop; progress flows back as program messages.
type App struct {
	orch   orchestrator
	logger *slog.Logger

	program *tea.Program

	mu      sync.Mutex
	running bool
}

func New(orch orchestrator, logger *slog.Logger) *App {
	return &App{orch: orch, logger: logger}
}

// Send forwards a message to the running program. Safe to call before
// Run; messages sent then are dropped.
func (a *App) Send(msg tea.Msg) {
	if a.program != nil {
		a.program.Send(msg)
	}
}

// handleScrape is invoked by the UI on submit. It rejects empty input,
// ignores submissions while a run is in flight, and otherwise launches
// the run on its own goroutine.
func (a *App) handleScrape(subreddit string) {
	if subreddit == "" {
		a.Send(ui.LogMsg("Enter a subreddit name first."))
		return
	}

	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.mu.Unlock()

	a.Send(ui.RunStartedMsg{Subreddit: subreddit})

	go func() {
		var (
			path string
			err  error
		)
		defer func() {
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
			a.Send(ui.RunFinishedMsg{Path: path, Err: err})
		}()

		outcome, runErr := a.orch.Run(context.Background(), domain.FetchRequest{
			Subreddit: subreddit,
		})
		if runErr != nil {
			a.logger.Error("scrape run failed", "subreddit", subreddit, "error", runErr)
			err = runErr
			return
		}
		path = outcome.OutputPath
	}()
}

// Run starts the terminal program and blocks until the user quits.
func (a *App) Run() error {
	model := ui.NewModel(a.handleScrape)
	a.program = tea.NewProgram(model, tea.WithAltScreen())

	if _, err := a.program.Run(); err != nil {
		return fmt.Errorf("terminal program failed: %w", err)
	}
	return nil
}
