// Package sync orchestrates one reconciliation pass: read rows,
// partition by category, reconcile each intake track, and record the
// outcome in the run ledger.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sgx-labs/intakesync/internal/classify"
	"github.com/sgx-labs/intakesync/internal/ledger"
	"github.com/sgx-labs/intakesync/internal/logging"
	"github.com/sgx-labs/intakesync/internal/reconcile"
	"github.com/sgx-labs/intakesync/internal/referral"
	"github.com/sgx-labs/intakesync/internal/row"
)

// Source supplies the response rows for one run.
type Source interface {
	ReadRows(ctx context.Context) ([]row.Row, error)
}

// Options configures a Runner. Source, Sink, and Log are required;
// Ledger may be nil to skip run recording.
type Options struct {
	Source Source
	Sink   reconcile.Sink
	Ledger *ledger.DB
	Log    *logging.Logger

	// MaxEditDistance is the fuzzy-match tolerance; <1 uses the default.
	MaxEditDistance int
	// Kinds limits the run to the given tracks; empty means both.
	Kinds []classify.Kind
	// DryRun is recorded with the run. The caller is responsible for
	// also supplying a non-writing Sink.
	DryRun bool
}

// KindResult is the outcome for one intake track.
type KindResult struct {
	Kind    classify.Kind
	Counts  reconcile.Counts
	Invalid int // rows of this track excluded for missing required cells
}

// Result is the outcome of one full run.
type Result struct {
	Started   time.Time
	Finished  time.Time
	DryRun    bool
	TotalRows int
	Unknown   int // rows whose intent cell matched no known category
	Kinds     []KindResult
}

// Runner executes reconciliation passes.
type Runner struct {
	opts Options
}

// New builds a Runner from opts.
func New(opts Options) *Runner {
	if len(opts.Kinds) == 0 {
		opts.Kinds = []classify.Kind{classify.KindFounder, classify.KindSearcher}
	}
	return &Runner{opts: opts}
}

// Run performs one pass. Per-row failures are absorbed into the counts;
// only failures that prevent the pass entirely (source read, ledger
// write) surface as errors.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	rows, err := r.opts.Source.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	r.opts.Log.Info("rows fetched", "count", len(rows))

	parts := classify.Partition(rows)
	res := &Result{
		Started:   started,
		DryRun:    r.opts.DryRun,
		TotalRows: len(rows),
		Unknown:   len(parts[classify.CategoryUnknown]),
	}
	if res.Unknown > 0 {
		r.opts.Log.Warn("rows with unrecognized intent skipped", "count", res.Unknown)
	}

	engine := reconcile.NewEngine(r.opts.Sink, r.opts.Log, r.opts.MaxEditDistance)
	for _, kind := range r.opts.Kinds {
		res.Kinds = append(res.Kinds, r.runKind(ctx, engine, kind, parts))
	}
	res.Finished = time.Now()

	if r.opts.Ledger != nil {
		counts := make([]ledger.CategoryCounts, 0, len(res.Kinds))
		for _, kr := range res.Kinds {
			counts = append(counts, ledger.CategoryCounts{
				Category:  kr.Kind.String(),
				Processed: kr.Counts.Processed,
				Created:   kr.Counts.Created,
				Updated:   kr.Counts.Updated,
				Errored:   kr.Counts.Errored,
				Invalid:   kr.Invalid,
				Unmatched: kr.Counts.Unmatched,
			})
		}
		if _, err := r.opts.Ledger.RecordRun(res.Started, res.Finished, res.DryRun, counts); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}
	return res, nil
}

func (r *Runner) runKind(ctx context.Context, engine *reconcile.Engine, kind classify.Kind, parts map[classify.Category][]row.Row) KindResult {
	primaryCat, referralCat := trackCategories(kind)

	primaries, invalidPrimaries := filterComplete(parts[primaryCat], primaryCat)
	referrals, invalidReferrals := filterComplete(parts[referralCat], referralCat)

	kr := KindResult{Kind: kind, Invalid: invalidPrimaries + invalidReferrals}
	if kr.Invalid > 0 {
		r.opts.Log.Warn("incomplete rows excluded", "kind", kind.String(), "count", kr.Invalid)
	}

	idx := referral.BuildIndex(referrals)
	r.opts.Log.Info("reconciling", "kind", kind.String(),
		"primaries", len(primaries), "referral_buckets", idx.Len())

	kr.Counts = engine.Run(ctx, primaries, idx)
	return kr
}

func trackCategories(kind classify.Kind) (primary, ref classify.Category) {
	if kind == classify.KindSearcher {
		return classify.CategorySearcher, classify.CategorySearcherReferral
	}
	return classify.CategoryFounder, classify.CategoryFounderReferral
}

func filterComplete(rows []row.Row, cat classify.Category) (complete []row.Row, invalid int) {
	for _, r := range rows {
		if classify.IsComplete(r, cat) {
			complete = append(complete, r)
			continue
		}
		invalid++
	}
	return complete, invalid
}
