package main

import (
	"context"

	"pattern-engine/internal/database"
	"pattern-engine/internal/engine"
	"pattern-engine/internal/notification"
)

// repositorySink persists accepted signals with their filter decisions.
type repositorySink struct {
	repo *database.Repository
}

func (s *repositorySink) Publish(ctx context.Context, eval engine.Evaluation) error {
	sig := &database.Signal{
		Symbol:          eval.Result.Symbol,
		PatternNumber:   eval.Result.PatternNumber,
		Pattern:         eval.Result.Pattern,
		Direction:       string(eval.Result.Direction),
		Confidence:      eval.Result.Confidence,
		FinalConfidence: eval.FinalConfidence,
		Accepted:        eval.Accepted,
		DetectedAt:      eval.Result.DetectedAt,
	}
	for _, d := range eval.Decisions {
		sig.Decisions = append(sig.Decisions, database.FilterDecision{
			Filter:             d.Filter,
			Accepted:           d.Accepted,
			Reason:             d.Reason,
			AdjustedConfidence: d.AdjustedConfidence,
		})
	}
	return s.repo.SaveSignal(ctx, sig)
}

// notificationSink forwards accepted signals to the notification providers.
type notificationSink struct {
	manager *notification.Manager
}

func (s *notificationSink) Publish(_ context.Context, eval engine.Evaluation) error {
	return s.manager.SendSignal(eval.Result, eval.FinalConfidence)
}
