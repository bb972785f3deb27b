// Package reconcile matches primary submissions against the referral
// index, computes derived metrics, and hands the results to a document
// sink. This is the algorithmic center of intakesync.
package reconcile

import (
	"context"

	"github.com/sgx-labs/intakesync/internal/classify"
	"github.com/sgx-labs/intakesync/internal/logging"
	"github.com/sgx-labs/intakesync/internal/match"
	"github.com/sgx-labs/intakesync/internal/normalize"
	"github.com/sgx-labs/intakesync/internal/referral"
	"github.com/sgx-labs/intakesync/internal/row"
)

// Record is one reconciled primary submission, ready to be projected
// into document writes. It lives for a single run.
type Record struct {
	Primary     row.Row
	Category    classify.Category
	DisplayName string
	Key         string // normalized display name
	ClaimedKey  string // referral bucket claimed, "" when none matched
	Referrals   []row.Row
	Completion  int
	Tier        string
}

// Placeholder is a referral bucket left unclaimed after every primary
// row has been processed: referrals vouching for an entity that never
// submitted.
type Placeholder struct {
	Key         string
	DisplayName string
	Rows        []row.Row
}

// Sink consumes reconciliation output. The Notion adapter implements
// it for real runs; dry runs and tests substitute fakes.
type Sink interface {
	// UpsertRecord creates or updates the document for a reconciled
	// primary. created reports which of the two happened.
	UpsertRecord(ctx context.Context, rec Record) (created bool, err error)
	// CreatePlaceholder ensures an unmatched-referral document exists.
	CreatePlaceholder(ctx context.Context, ph Placeholder) (created bool, err error)
	// RetirePlaceholder archives a previously created placeholder for
	// a key that found its primary this run. Missing placeholders are
	// not an error.
	RetirePlaceholder(ctx context.Context, key, displayName string) error
}

// Counts is the per-category outcome tally for one engine run.
// Processed covers primary rows only; Errored also counts failed
// placeholder writes, so it can exceed Processed - Created - Updated.
type Counts struct {
	Processed int
	Created   int
	Updated   int
	Errored   int
	Unmatched int
}

// Engine reconciles one category's primary rows against its referral
// index. It owns the index for the duration of Run; nothing else may
// touch it.
type Engine struct {
	sink    Sink
	log     *logging.Logger
	maxDist int
}

// NewEngine builds an engine writing to sink. maxDist is the fuzzy
// matching tolerance; values below 1 fall back to the default.
func NewEngine(sink Sink, log *logging.Logger, maxDist int) *Engine {
	if maxDist < 1 {
		maxDist = match.DefaultMaxDistance
	}
	return &Engine{sink: sink, log: log, maxDist: maxDist}
}

// Run processes primaries in source order against idx. For each row it
// claims the closest referral bucket within tolerance, computes derived
// metrics, and upserts the document. A failure on one row is logged
// with the entity name, counted, and never aborts the loop. After the
// last primary, every bucket still in the index becomes a placeholder.
func (e *Engine) Run(ctx context.Context, primaries []row.Row, idx *referral.Index) Counts {
	var c Counts

	for _, p := range primaries {
		display := p.Name()
		key := normalize.Key(display)
		cat := classify.Row(p)

		var matched []row.Row
		claimed := ""
		claimedName := ""
		// An empty key would fuzzy-match any bucket key within the
		// distance bound; names of pure punctuation never match.
		if key != "" {
			if m, ok := match.Best(key, idx.Keys(), e.maxDist); ok {
				if b, ok := idx.Claim(m); ok {
					matched = b.Rows
					claimed = m
					claimedName = b.DisplayName
				}
			}
		}

		rec := Record{
			Primary:     p,
			Category:    cat,
			DisplayName: display,
			Key:         key,
			ClaimedKey:  claimed,
			Referrals:   matched,
			Completion:  CompletionPercent(p, cat),
			Tier:        TierLabel(len(matched)),
		}

		c.Processed++
		created, err := e.sink.UpsertRecord(ctx, rec)
		if err != nil {
			c.Errored++
			e.log.Error("upsert failed", "entity", display, "category", cat.String(), "error", err)
			continue
		}
		if claimed != "" {
			// The placeholder page is titled with the bucket's
			// first-seen display form, not the primary's.
			if err := e.sink.RetirePlaceholder(ctx, claimed, claimedName); err != nil {
				c.Errored++
				e.log.Error("placeholder retirement failed", "entity", display, "error", err)
				continue
			}
		}
		if created {
			c.Created++
		} else {
			c.Updated++
		}
		e.log.Debug("reconciled", "entity", display, "referrals", len(matched), "completion", rec.Completion)
	}

	for _, b := range idx.Remaining() {
		c.Unmatched++
		ph := Placeholder{
			Key:         normalize.Key(b.DisplayName),
			DisplayName: b.DisplayName,
			Rows:        b.Rows,
		}
		if _, err := e.sink.CreatePlaceholder(ctx, ph); err != nil {
			c.Errored++
			e.log.Error("placeholder creation failed", "entity", b.DisplayName, "error", err)
		}
	}

	return c
}
