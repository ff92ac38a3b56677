package numbering

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FallbackSequencer wraps a Sequencer and degrades to a timestamp-derived
// reference when the inner sequencer fails, instead of failing the ledger
// write the reference supports.
type FallbackSequencer struct {
	inner  Sequencer
	logger *zap.Logger
	now    func() time.Time
}

// NewFallbackSequencer wraps the given sequencer
func NewFallbackSequencer(inner Sequencer, logger *zap.Logger) *FallbackSequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackSequencer{inner: inner, logger: logger, now: time.Now}
}

// Next returns the inner sequencer's reference, or a fallback identifier when
// the counter store cannot be reached. The error is logged, never returned.
func (s *FallbackSequencer) Next(ctx context.Context) (string, error) {
	ref, err := s.inner.Next(ctx)
	if err != nil {
		ref = FallbackReference(s.now())
		s.logger.Warn("reference sequencer unavailable, using timestamp fallback",
			zap.String("reference", ref),
			zap.Error(err))
	}
	return ref, nil
}
