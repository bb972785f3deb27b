package reconcile

import (
	"testing"

	"github.com/sgx-labs/intakesync/internal/classify"
	"github.com/sgx-labs/intakesync/internal/row"
)

func TestTierLabel(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, ""},
		{-3, ""},
		{1, "Tier I"},
		{2, "Tier II"},
		{3, "Tier III"},
		{4, "Tier IV"},
		{5, "Tier V+"},
		{17, "Tier V+"},
	}
	for _, tc := range tests {
		if got := TierLabel(tc.count); got != tc.want {
			t.Fatalf("TierLabel(%d) = %q, want %q", tc.count, got, tc.want)
		}
	}
}

func TestCompletionPercentSearcher(t *testing.T) {
	// Searcher required fields: name, email, one-liner, stage.
	full := row.Row{"", "searcher application", "Pat Lee", "pat@x.co", "buys boring businesses", "mba"}
	if got := CompletionPercent(full, classify.CategorySearcher); got != 100 {
		t.Fatalf("full searcher = %d, want 100", got)
	}

	half := row.Row{"", "searcher application", "Pat Lee", "", "buys boring businesses", ""}
	if got := CompletionPercent(half, classify.CategorySearcher); got != 50 {
		t.Fatalf("half searcher = %d, want 50", got)
	}
}

func TestCompletionPercentFounderTeamExtension(t *testing.T) {
	// Base five fields filled, two declared members with only the first
	// pair filled: 7 of 9 fields -> 78.
	r := row.Row{
		"", "founder application", "Acme Corp", "a@acme.co", "robots", "seed", "2",
		"", "", // referral-only columns
		"Jo", "CTO", // member 0
		"", "", // member 1 empty
	}
	if got := CompletionPercent(r, classify.CategoryFounder); got != 78 {
		t.Fatalf("founder with partial team = %d, want 78", got)
	}

	// No declared members: base five only.
	base := row.Row{"", "founder application", "Acme Corp", "a@acme.co", "robots", "seed", ""}
	if got := CompletionPercent(base, classify.CategoryFounder); got != 80 {
		t.Fatalf("founder without team count = %d, want 80 (4 of 5)", got)
	}
}

func TestCompletionPercentUnknownCategory(t *testing.T) {
	if got := CompletionPercent(row.Row{"x"}, classify.CategoryUnknown); got != 0 {
		t.Fatalf("unknown category = %d, want 0", got)
	}
}
