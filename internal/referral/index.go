// Package referral groups referral rows by the normalized name of the
// entity they vouch for. The reconciliation engine claims buckets out of
// the index as primaries match them; whatever remains after a run is,
// structurally, the set of unmatched referrals.
package referral

import (
	"github.com/sgx-labs/intakesync/internal/normalize"
	"github.com/sgx-labs/intakesync/internal/row"
)

// Bucket holds every referral row targeting one normalized key.
// DisplayName is the first-seen raw form of the target name, so page
// titles stay stable across runs given stable input order.
type Bucket struct {
	DisplayName string
	Rows        []row.Row
}

// Index maps normalized target-name keys to buckets. It is built once
// per run and from then on mutated only by the engine's claim calls.
// Key order is insertion order, which keeps fuzzy-match iteration and
// the resulting tie-breaks reproducible.
type Index struct {
	buckets map[string]*Bucket
	order   []string
}

// BuildIndex groups rows by the normalized referred-entity name. Rows
// whose target cell is empty are skipped; bucket row order matches
// input order.
func BuildIndex(rows []row.Row) *Index {
	idx := &Index{buckets: make(map[string]*Bucket)}
	for _, r := range rows {
		display := r.ReferredName()
		if display == "" {
			continue
		}
		key := normalize.Key(display)
		if key == "" {
			continue
		}
		b, ok := idx.buckets[key]
		if !ok {
			b = &Bucket{DisplayName: display}
			idx.buckets[key] = b
			idx.order = append(idx.order, key)
		}
		b.Rows = append(b.Rows, r)
	}
	return idx
}

// Keys returns the live keys in insertion order. Claimed keys are gone.
func (idx *Index) Keys() []string {
	keys := make([]string, 0, len(idx.order))
	for _, k := range idx.order {
		if _, ok := idx.buckets[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of unclaimed buckets.
func (idx *Index) Len() int {
	return len(idx.buckets)
}

// Claim removes and returns the bucket for key. The second return is
// false when the key was never present or was already claimed; the
// engine treats that as zero referrals, not an error.
func (idx *Index) Claim(key string) (*Bucket, bool) {
	b, ok := idx.buckets[key]
	if !ok {
		return nil, false
	}
	delete(idx.buckets, key)
	return b, true
}

// Remaining returns the unclaimed buckets in insertion order. After the
// engine has processed every primary row, these are the referrals with
// no known primary submission.
func (idx *Index) Remaining() []*Bucket {
	out := make([]*Bucket, 0, len(idx.buckets))
	for _, k := range idx.order {
		if b, ok := idx.buckets[k]; ok {
			out = append(out, b)
		}
	}
	return out
}
