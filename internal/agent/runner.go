package agent

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"snooscrape/internal/domain"
	"snooscrape/internal/tools"
)

const defaultMaxTurns = 8

// Runner drives the model/tool conversation loop for a single request
// and emits the resulting events on a channel.
type Runner struct {
	gen      generator
	registry *tools.Registry
	maxTurns int
	logger   *slog.Logger
}

func NewRunner(gen generator, registry *tools.Registry, logger *slog.Logger) *Runner {
	return &Runner{
		gen:      gen,
		registry: registry,
		maxTurns: defaultMaxTurns,
		logger:   logger,
	}
}

// Run starts the conversation with the given user message and returns a
// channel of events. The channel is closed when the model produces a
// turn without function calls, the turn budget is exhausted, or the
// context is cancelled.
func (r *Runner) Run(ctx context.Context, sessionID, message string) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		logger := r.logger.With("session_id", sessionID)
		history := []*genai.Content{
			genai.NewContentFromText(message, genai.RoleUser),
		}

		for turnNum := 0; turnNum < r.maxTurns; turnNum++ {
			turn, err := r.gen.Generate(ctx, history)
			if err != nil {
				logger.Error("model generation failed", "turn", turnNum, "error", err)
				return
			}

			if len(turn.Parts) > 0 {
				history = append(history, &genai.Content{
					Role:  genai.RoleModel,
					Parts: turn.Parts,
				})
			}

			if turn.Text != "" {
				if !emit(ctx, events, NarrativeEvent{Role: RoleModel, Text: turn.Text}) {
					return
				}
			}

			if len(turn.Calls) == 0 {
				return
			}

			var responses []*genai.Part
			for _, call := range turn.Calls {
				if !emit(ctx, events, ToolCallEvent{Name: call.Name, Args: call.Args}) {
					return
				}

				envelope := r.executeCall(ctx, logger, call)
				payload := envelope.ToPayload()

				if !emit(ctx, events, ToolResultEvent{Name: call.Name, Payload: payload}) {
					return
				}

				part := genai.NewPartFromFunctionResponse(call.Name, payload)
				part.FunctionResponse.ID = call.ID
				responses = append(responses, part)
			}

			history = append(history, &genai.Content{
				Role:  genai.RoleUser,
				Parts: responses,
			})
		}

		logger.Warn("turn budget exhausted before the model finished", "max_turns", r.maxTurns)
	}()

	return events
}

// executeCall resolves and runs a single tool call. Failures never
// propagate as errors; they become error envelopes the model can read.
func (r *Runner) executeCall(ctx context.Context, logger *slog.Logger, call *genai.FunctionCall) domain.ToolEnvelope {
	tool, ok := r.registry.Get(call.Name)
	if !ok {
		logger.Warn("model requested unknown tool", "tool", call.Name)
		return domain.ErrorEnvelope(fmt.Sprintf("unknown tool: %s", call.Name))
	}

	if err := tool.Validate(call.Args); err != nil {
		logger.Warn("tool arguments rejected", "tool", call.Name, "error", err)
		return domain.ErrorEnvelope(fmt.Sprintf("invalid arguments for %s: %v", call.Name, err))
	}

	logger.Info("executing tool", "tool", call.Name, "args", call.Args)

	// Tool work runs on its own goroutine so a panic inside an adapter
	// cannot take down the conversation loop.
	done := make(chan domain.ToolEnvelope, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("tool panicked", "tool", call.Name, "panic", rec)
				done <- domain.ErrorEnvelope(fmt.Sprintf("tool %s failed unexpectedly", call.Name))
			}
		}()
		done <- tool.Execute(ctx, call.Args)
	}()

	select {
	case envelope := <-done:
		return envelope
	case <-ctx.Done():
		return domain.ErrorEnvelope(fmt.Sprintf("tool %s aborted: %v", call.Name, ctx.Err()))
	}
}

// emit delivers an event unless the context is cancelled first.
func emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
