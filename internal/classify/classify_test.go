package classify

import (
	"testing"

	"github.com/sgx-labs/intakesync/internal/row"
)

func rowWithIntent(intent string) row.Row {
	return row.Row{"2024-05-01", intent, "Acme Corp"}
}

func TestRow(t *testing.T) {
	tests := []struct {
		name   string
		intent string
		want   Category
	}{
		{name: "founder", intent: "founder application", want: CategoryFounder},
		{name: "searcher", intent: "searcher application", want: CategorySearcher},
		{name: "founder referral", intent: "refer a founder", want: CategoryFounderReferral},
		{name: "searcher referral", intent: "refer a searcher", want: CategorySearcherReferral},
		{name: "case insensitive", intent: "Founder Application", want: CategoryFounder},
		{name: "padded", intent: "  refer a searcher  ", want: CategorySearcherReferral},
		{name: "unknown", intent: "just browsing", want: CategoryUnknown},
		{name: "empty", intent: "", want: CategoryUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Row(rowWithIntent(tc.intent)); got != tc.want {
				t.Fatalf("Row(intent=%q) = %v, want %v", tc.intent, got, tc.want)
			}
		})
	}
}

func TestPartitionSumsAndOrder(t *testing.T) {
	rows := []row.Row{
		rowWithIntent("founder application"),
		rowWithIntent("refer a founder"),
		rowWithIntent("garbage"),
		{"", "founder application", "Beta Inc"},
		rowWithIntent("searcher application"),
	}
	parts := Partition(rows)

	total := 0
	for _, group := range parts {
		total += len(group)
	}
	if total != len(rows) {
		t.Fatalf("partition groups sum to %d, want %d", total, len(rows))
	}

	founders := parts[CategoryFounder]
	if len(founders) != 2 {
		t.Fatalf("founders = %d, want 2", len(founders))
	}
	if founders[0].Name() != "Acme Corp" || founders[1].Name() != "Beta Inc" {
		t.Fatalf("founder order not preserved: %q, %q", founders[0].Name(), founders[1].Name())
	}
	if len(parts[CategoryUnknown]) != 1 {
		t.Fatalf("unknown = %d, want 1", len(parts[CategoryUnknown]))
	}
}

func TestIsComplete(t *testing.T) {
	primary := row.Row{"", "founder application", "Acme Corp"}
	if !IsComplete(primary, CategoryFounder) {
		t.Fatal("primary with name should be complete")
	}
	if IsComplete(row.Row{"", "founder application", ""}, CategoryFounder) {
		t.Fatal("primary without name should be incomplete")
	}

	referral := row.Row{"", "refer a founder", "Jane Referrer", "", "", "", "", "Acme Corp"}
	if !IsComplete(referral, CategoryFounderReferral) {
		t.Fatal("referral with referrer and target should be complete")
	}
	noTarget := row.Row{"", "refer a founder", "Jane Referrer"}
	if IsComplete(noTarget, CategoryFounderReferral) {
		t.Fatal("referral without target should be incomplete")
	}
	noReferrer := row.Row{"", "refer a founder", "", "", "", "", "", "Acme Corp"}
	if IsComplete(noReferrer, CategoryFounderReferral) {
		t.Fatal("referral without referrer should be incomplete")
	}

	if IsComplete(primary, CategoryUnknown) {
		t.Fatal("unknown rows are never complete")
	}
}
