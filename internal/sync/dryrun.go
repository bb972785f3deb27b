package sync

import (
	"context"

	"github.com/sgx-labs/intakesync/internal/logging"
	"github.com/sgx-labs/intakesync/internal/reconcile"
)

// DryRunSink logs every write a real run would perform and touches
// nothing. Upserts are tallied as updates since no remote lookup
// happens to distinguish creates.
type DryRunSink struct {
	log *logging.Logger
}

// NewDryRunSink builds a sink that only logs.
func NewDryRunSink(log *logging.Logger) *DryRunSink {
	return &DryRunSink{log: log}
}

func (s *DryRunSink) UpsertRecord(_ context.Context, rec reconcile.Record) (bool, error) {
	s.log.Info("would upsert", "entity", rec.DisplayName,
		"category", rec.Category.String(), "referrals", len(rec.Referrals),
		"completion", rec.Completion, "tier", rec.Tier)
	return false, nil
}

func (s *DryRunSink) CreatePlaceholder(_ context.Context, ph reconcile.Placeholder) (bool, error) {
	s.log.Info("would create placeholder", "entity", ph.DisplayName, "referrals", len(ph.Rows))
	return true, nil
}

func (s *DryRunSink) RetirePlaceholder(_ context.Context, key, displayName string) error {
	s.log.Info("would retire placeholder", "entity", displayName, "key", key)
	return nil
}
