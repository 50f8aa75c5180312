package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"snooscrape/internal/domain"
)

// State tracks where the orchestrator is in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateSessionOpen
	StateAwaitingEvents
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateSessionOpen:
		return "session_open"
	case StateAwaitingEvents:
		return "awaiting_events"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Runtime is the conversation loop the orchestrator drives. Satisfied
// by *Runner in production and scripted fakes in tests.
type Runtime interface {
	Run(ctx context.Context, sessionID, message string) <-chan Event
}

// SnapshotWriter persists the scraped data set and returns the path it
// was written to.
type SnapshotWriter interface {
	Write(req domain.FetchRequest, data any) (string, error)
}

// Deps bundles everything a run needs. Builders construct them lazily
// so the expensive pieces (model client, collector) are only created
// once a scrape is actually requested.
type Deps struct {
	Runtime  Runtime
	Sessions *SessionService
	Writer   SnapshotWriter
}

// DepsBuilder constructs the run dependencies on first use.
type DepsBuilder func(ctx context.Context) (*Deps, error)

var (
	// ErrToolNotInvoked means the model finished without ever calling
	// the scraper tool.
	ErrToolNotInvoked = errors.New("agent finished without invoking the scraper tool")

	// ErrToolResultMissing means the tool ran but never reported a
	// successful result to capture.
	ErrToolResultMissing = errors.New("scraper tool produced no successful result")
)

// Orchestrator owns the end-to-end scrape flow: initialize the runtime,
// open a session, issue the directive, watch the event stream for tool
// results, and persist what the tool returned.
type Orchestrator struct {
	appName string
	userID  string
	build   DepsBuilder
	logger  *slog.Logger

	mu    sync.Mutex
	state State
	deps  *Deps
}

func NewOrchestrator(appName, userID string, build DepsBuilder, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		appName: appName,
		userID:  userID,
		build:   build,
		logger:  logger,
		state:   StateUninitialized,
	}
}

// Initialize builds the dependencies once. Safe to call repeatedly; a
// failed attempt leaves the orchestrator uninitialized so the next call
// retries.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateUninitialized {
		return nil
	}

	deps, err := o.build(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize agent runtime: %w", err)
	}

	o.deps = deps
	o.state = StateReady
	o.logger.Info("agent runtime initialized", "app", o.appName, "user", o.userID)
	return nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run performs one complete scrape of the requested subreddit and
// returns where the snapshot was saved.
func (o *Orchestrator) Run(ctx context.Context, req domain.FetchRequest) (*domain.Outcome, error) {
	if err := o.Initialize(ctx); err != nil {
		return nil, err
	}

	req = req.Normalized()
	if err := req.Validate(); err != nil {
		o.setState(StateFailed)
		return nil, err
	}

	logger := o.logger.With("subreddit", req.Subreddit)

	sessionID := NewSessionID(req.Subreddit)
	if _, err := o.deps.Sessions.Create(o.appName, o.userID, sessionID); err != nil {
		o.setState(StateFailed)
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	o.setState(StateSessionOpen)
	defer func() {
		if err := o.deps.Sessions.Delete(o.appName, o.userID, sessionID); err != nil {
			logger.Warn("failed to clean up session", "session_id", sessionID, "error", err)
		}
	}()

	directive := fmt.Sprintf(
		"Please scrape the subreddit '%s' using the '%s' time filter and limit the results to %d posts. Use the available tool and report the outcome.",
		req.Subreddit, req.TimeWindow, req.PostLimit,
	)

	logger.Info("starting scrape run", "session_id", sessionID,
		"time_window", req.TimeWindow, "post_limit", req.PostLimit)

	o.setState(StateAwaitingEvents)

	var (
		data          any
		dataCaptured  bool
		toolInvoked   bool
		finalResponse string
	)

	for ev := range o.deps.Runtime.Run(ctx, sessionID, directive) {
		switch e := ev.(type) {
		case ToolCallEvent:
			logger.Info("agent invoked tool", "tool", e.Name, "args", e.Args)

		case ToolResultEvent:
			toolInvoked = true
			status, _ := e.Payload["status"].(string)
			if status == domain.StatusSuccess {
				// Later successes overwrite earlier ones; the final
				// tool call is what gets persisted.
				data = e.Payload["data"]
				dataCaptured = true
			} else {
				message, _ := e.Payload["message"].(string)
				logger.Warn("tool reported an error", "tool", e.Name, "message", message)
			}

		case NarrativeEvent:
			if e.Role == RoleModel && e.Text != "" {
				finalResponse = e.Text
			}
		}
	}

	if err := ctx.Err(); err != nil {
		o.setState(StateFailed)
		return nil, err
	}

	if !toolInvoked {
		o.setState(StateFailed)
		return nil, ErrToolNotInvoked
	}
	if !dataCaptured {
		o.setState(StateFailed)
		return nil, ErrToolResultMissing
	}

	if finalResponse != "" {
		logger.Info("agent summary", "response", finalResponse)
	}

	path, err := o.deps.Writer.Write(req, data)
	if err != nil {
		o.setState(StateFailed)
		return nil, fmt.Errorf("failed to save scraped data: %w", err)
	}

	o.setState(StateCompleted)
	logger.Info("scrape run finished", "session_id", sessionID, "output", path)
	return &domain.Outcome{OutputPath: path}, nil
}
