package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snooscrape/internal/domain"
)

// blockingOrchestrator holds every run until released and counts calls.
type blockingOrchestrator struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (b *blockingOrchestrator) Run(ctx context.Context, req domain.FetchRequest) (*domain.Outcome, error) {
	b.calls.Add(1)
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return &domain.Outcome{OutputPath: "reddit_data/out.json"}, nil
}

func testApp(orch orchestrator) *App {
	return New(orch, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHandleScrapeRejectsEmptyInput(t *testing.T) {
	orch := &blockingOrchestrator{}
	a := testApp(orch)

	a.handleScrape("")

	assert.Equal(t, int32(0), orch.calls.Load())
	a.mu.Lock()
	assert.False(t, a.running)
	a.mu.Unlock()
}

func TestHandleScrapeIgnoresReentry(t *testing.T) {
	orch := &blockingOrchestrator{release: make(chan struct{})}
	a := testApp(orch)

	a.handleScrape("golang")
	waitFor(t, func() bool { return orch.calls.Load() == 1 })

	// Further submissions while the first run is in flight are dropped.
	a.handleScrape("golang")
	a.handleScrape("rust")
	assert.Equal(t, int32(1), orch.calls.Load())

	close(orch.release)
	waitFor(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return !a.running
	})

	// A new run is accepted once the previous one finished.
	a.handleScrape("golang")
	waitFor(t, func() bool { return orch.calls.Load() == 2 })
}

func TestHandleScrapeClearsFlagOnFailure(t *testing.T) {
	orch := &blockingOrchestrator{err: errors.New("model unavailable")}
	a := testApp(orch)

	a.handleScrape("golang")
	waitFor(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return !a.running
	})

	require.Equal(t, int32(1), orch.calls.Load())

	a.handleScrape("golang")
	waitFor(t, func() bool { return orch.calls.Load() == 2 })
}

func TestHandleScrapeConcurrentSubmissions(t *testing.T) {
	orch := &blockingOrchestrator{release: make(chan struct{})}
	a := testApp(orch)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.handleScrape("golang")
		}()
	}
	wg.Wait()

	waitFor(t, func() bool { return orch.calls.Load() == 1 })
	close(orch.release)

	// Only one of the ten racing submissions may have launched a run.
	assert.Equal(t, int32(1), orch.calls.Load())
}
