// Package classify assigns each response row a submission category from
// its declared-intent cell and checks category-specific required fields.
package classify

import (
	"strings"

	"github.com/sgx-labs/intakesync/internal/row"
)

// Kind distinguishes the two intake tracks.
type Kind int

const (
	KindFounder Kind = iota
	KindSearcher
)

// String returns the display form of the kind.
func (k Kind) String() string {
	if k == KindSearcher {
		return "searcher"
	}
	return "founder"
}

// Category is the closed set of row types. A row that declares nothing
// we recognize is CategoryUnknown and excluded from processing.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryFounder
	CategorySearcher
	CategoryFounderReferral
	CategorySearcherReferral
)

// String returns the display form of the category.
func (c Category) String() string {
	switch c {
	case CategoryFounder:
		return "founder"
	case CategorySearcher:
		return "searcher"
	case CategoryFounderReferral:
		return "founder referral"
	case CategorySearcherReferral:
		return "searcher referral"
	default:
		return "unknown"
	}
}

// IsPrimary reports whether the category is a direct submission rather
// than a referral.
func (c Category) IsPrimary() bool {
	return c == CategoryFounder || c == CategorySearcher
}

// IsReferral reports whether the category is a third-party referral.
func (c Category) IsReferral() bool {
	return c == CategoryFounderReferral || c == CategorySearcherReferral
}

// Kind returns the intake track of a non-unknown category.
func (c Category) Kind() Kind {
	if c == CategorySearcher || c == CategorySearcherReferral {
		return KindSearcher
	}
	return KindFounder
}

// intentVocabulary maps the trimmed, lowercased intent cell to a
// category. The form offers exactly these choices; anything else is
// operator noise (edited form, test submission) and maps to unknown.
var intentVocabulary = map[string]Category{
	"founder application":  CategoryFounder,
	"searcher application": CategorySearcher,
	"refer a founder":      CategoryFounderReferral,
	"refer a searcher":     CategorySearcherReferral,
}

// Row classifies a single row from its intent cell. Pure function: the
// same row always yields the same category.
func Row(r row.Row) Category {
	intent := strings.ToLower(r.Intent())
	if c, ok := intentVocabulary[intent]; ok {
		return c
	}
	return CategoryUnknown
}

// Partition groups rows by category, preserving source order within
// each group. Group sizes always sum to len(rows).
func Partition(rows []row.Row) map[Category][]row.Row {
	parts := make(map[Category][]row.Row)
	for _, r := range rows {
		c := Row(r)
		parts[c] = append(parts[c], r)
	}
	return parts
}

// IsComplete reports whether a row carries the minimal fields its
// category needs to be processed. Incomplete rows are excluded from
// reconciliation but counted, never treated as errors.
func IsComplete(r row.Row, c Category) bool {
	switch {
	case c.IsPrimary():
		return r.Has(row.ColName)
	case c.IsReferral():
		return r.Has(row.ColName) && r.Has(row.ColReferredName)
	default:
		return false
	}
}
