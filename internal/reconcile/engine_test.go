package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/sgx-labs/intakesync/internal/logging"
	"github.com/sgx-labs/intakesync/internal/referral"
	"github.com/sgx-labs/intakesync/internal/row"
)

// fakeSink records every call and can be told to fail specific entities.
type fakeSink struct {
	records      []Record
	placeholders []Placeholder
	retired      []string
	retiredNames []string
	existing     map[string]bool // display names treated as already-created pages
	failUpsert   map[string]bool
	failRetire   map[string]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		existing:   make(map[string]bool),
		failUpsert: make(map[string]bool),
		failRetire: make(map[string]bool),
	}
}

func (s *fakeSink) UpsertRecord(_ context.Context, rec Record) (bool, error) {
	if s.failUpsert[rec.DisplayName] {
		return false, errors.New("simulated write failure")
	}
	s.records = append(s.records, rec)
	if s.existing[rec.DisplayName] {
		return false, nil
	}
	s.existing[rec.DisplayName] = true
	return true, nil
}

func (s *fakeSink) CreatePlaceholder(_ context.Context, ph Placeholder) (bool, error) {
	s.placeholders = append(s.placeholders, ph)
	return true, nil
}

func (s *fakeSink) RetirePlaceholder(_ context.Context, key, displayName string) error {
	if s.failRetire[key] {
		return errors.New("simulated retire failure")
	}
	s.retired = append(s.retired, key)
	s.retiredNames = append(s.retiredNames, displayName)
	return nil
}

func primaryRow(name string) row.Row {
	return row.Row{"", "founder application", name, "a@b.co", "one liner", "seed"}
}

func referralFor(referrer, target string) row.Row {
	return row.Row{"", "refer a founder", referrer, "", "", "", "", target, "vouch"}
}

func run(t *testing.T, sink Sink, primaries []row.Row, referrals []row.Row) (Counts, *referral.Index) {
	t.Helper()
	idx := referral.BuildIndex(referrals)
	eng := NewEngine(sink, logging.Nop(), 2)
	counts := eng.Run(context.Background(), primaries, idx)
	return counts, idx
}

func TestRunAttachesExactNormalizedMatch(t *testing.T) {
	sink := newFakeSink()
	// Case/punctuation-only difference: identical keys, distance 0.
	counts, _ := run(t, sink,
		[]row.Row{primaryRow("Acme Co.")},
		[]row.Row{referralFor("Jane", "ACME CO")})

	if counts.Processed != 1 || counts.Created != 1 || counts.Errored != 0 {
		t.Fatalf("counts = %+v", counts)
	}
	rec := sink.records[0]
	if len(rec.Referrals) != 1 {
		t.Fatalf("referrals = %d, want 1", len(rec.Referrals))
	}
	if rec.ClaimedKey != "acme co" {
		t.Fatalf("ClaimedKey = %q", rec.ClaimedKey)
	}
	if rec.Tier != "Tier I" {
		t.Fatalf("Tier = %q, want Tier I", rec.Tier)
	}
}

func TestRunAttachesDigitGlyphMatch(t *testing.T) {
	sink := newFakeSink()
	counts, _ := run(t, sink,
		[]row.Row{primaryRow("CO₂ Zero")},
		[]row.Row{referralFor("Jane", "CO2 Zero")})

	if counts.Unmatched != 0 {
		t.Fatalf("digit-glyph referral left unmatched: %+v", counts)
	}
	if len(sink.records[0].Referrals) != 1 {
		t.Fatal("referral not attached")
	}
}

func TestRunAttachesFuzzyMatchWithinDistance(t *testing.T) {
	sink := newFakeSink()
	// One-character typo in the referral target: distance 1 <= 2.
	counts, _ := run(t, sink,
		[]row.Row{primaryRow("Acme Corp")},
		[]row.Row{referralFor("Jane", "Acme Cor")})

	if counts.Unmatched != 0 {
		t.Fatalf("typo referral left unmatched: %+v", counts)
	}
	rec := sink.records[0]
	if rec.ClaimedKey != "acme cor" || rec.Key != "acme corp" {
		t.Fatalf("Key = %q ClaimedKey = %q", rec.Key, rec.ClaimedKey)
	}
}

func TestRunClaimIsExclusive(t *testing.T) {
	sink := newFakeSink()
	// Both primaries fuzzy-match the same bucket; source order wins.
	counts, idx := run(t, sink,
		[]row.Row{primaryRow("Acme Corp"), primaryRow("Acme Core")},
		[]row.Row{referralFor("Jane", "Acme Corp"), referralFor("Bob", "Acme Corp")})

	if idx.Len() != 0 {
		t.Fatalf("index should be empty after run, has %d", idx.Len())
	}
	if len(sink.records[0].Referrals) != 2 {
		t.Fatalf("first primary got %d referrals, want 2", len(sink.records[0].Referrals))
	}
	if len(sink.records[1].Referrals) != 0 {
		t.Fatalf("second primary got %d referrals, want 0", len(sink.records[1].Referrals))
	}
	if counts.Unmatched != 0 {
		t.Fatalf("counts = %+v", counts)
	}
	if tier := sink.records[1].Tier; tier != "" {
		t.Fatalf("zero-referral primary has tier %q", tier)
	}
}

func TestRunNoMatchMeansZeroReferralsNotError(t *testing.T) {
	sink := newFakeSink()
	counts, _ := run(t, sink,
		[]row.Row{primaryRow("Unrelated Name")},
		[]row.Row{referralFor("Jane", "Acme Corp")})

	if counts.Errored != 0 || counts.Processed != 1 {
		t.Fatalf("counts = %+v", counts)
	}
	if len(sink.records[0].Referrals) != 0 {
		t.Fatal("unrelated primary should have no referrals")
	}
	if counts.Unmatched != 1 || len(sink.placeholders) != 1 {
		t.Fatalf("expected one placeholder, counts = %+v", counts)
	}
}

func TestRunEmitsPlaceholdersForLeftoverBuckets(t *testing.T) {
	sink := newFakeSink()
	counts, idx := run(t, sink,
		nil,
		[]row.Row{
			referralFor("Jane", "Beta Inc"),
			referralFor("Bob", "Gamma LLC"),
			referralFor("Ada", "Beta Inc"),
		})

	if counts.Unmatched != 2 {
		t.Fatalf("Unmatched = %d, want 2", counts.Unmatched)
	}
	if len(sink.placeholders) != 2 {
		t.Fatalf("placeholders = %d, want 2", len(sink.placeholders))
	}
	first, second := sink.placeholders[0], sink.placeholders[1]
	if first.DisplayName != "Beta Inc" || len(first.Rows) != 2 {
		t.Fatalf("first placeholder = %q with %d rows", first.DisplayName, len(first.Rows))
	}
	if second.DisplayName != "Gamma LLC" || len(second.Rows) != 1 {
		t.Fatalf("second placeholder = %q with %d rows", second.DisplayName, len(second.Rows))
	}
	if idx.Len() != 2 {
		t.Fatalf("unclaimed buckets should stay in the index, Len = %d", idx.Len())
	}
}

func TestRunRetiresPlaceholderOnClaim(t *testing.T) {
	sink := newFakeSink()
	run(t, sink,
		[]row.Row{primaryRow("Acme Corp")},
		[]row.Row{referralFor("Jane", "Acme Corp")})

	if len(sink.retired) != 1 || sink.retired[0] != "acme corp" {
		t.Fatalf("retired = %v, want [acme corp]", sink.retired)
	}
}

func TestRunRetiresUnderBucketDisplayName(t *testing.T) {
	sink := newFakeSink()
	// The placeholder page carries the bucket's first-seen display
	// form; retirement must look it up under that name, not the
	// primary's spelling.
	run(t, sink,
		[]row.Row{primaryRow("Acme Corp")},
		[]row.Row{referralFor("Jane", "ACME CORP.")})

	if len(sink.retiredNames) != 1 {
		t.Fatalf("retiredNames = %v, want one entry", sink.retiredNames)
	}
	if sink.retiredNames[0] != "ACME CORP." {
		t.Fatalf("retire display name = %q, want the bucket's %q", sink.retiredNames[0], "ACME CORP.")
	}
}

func TestRunNoRetirementWithoutClaim(t *testing.T) {
	sink := newFakeSink()
	run(t, sink, []row.Row{primaryRow("Acme Corp")}, nil)

	if len(sink.retired) != 0 {
		t.Fatalf("retired = %v, want none", sink.retired)
	}
}

func TestRunEmptyKeyNeverClaims(t *testing.T) {
	sink := newFakeSink()
	// A pure-punctuation name passes the completeness check but
	// normalizes to the empty key, which sits within distance 2 of
	// any two-character bucket key. It must not claim anything.
	counts, _ := run(t, sink,
		[]row.Row{primaryRow("++")},
		[]row.Row{referralFor("Jane", "AB")})

	if counts.Processed != 1 || counts.Errored != 0 {
		t.Fatalf("counts = %+v", counts)
	}
	if got := len(sink.records[0].Referrals); got != 0 {
		t.Fatalf("referrals = %d, want 0", got)
	}
	if counts.Unmatched != 1 || len(sink.placeholders) != 1 {
		t.Fatalf("bucket should be left unmatched: %+v", counts)
	}
	if sink.placeholders[0].DisplayName != "AB" {
		t.Fatalf("placeholder = %q, want AB", sink.placeholders[0].DisplayName)
	}
}

func TestRunIsolatesPerItemErrors(t *testing.T) {
	sink := newFakeSink()
	sink.failUpsert["Broken Co"] = true

	counts, _ := run(t, sink,
		[]row.Row{primaryRow("Acme Corp"), primaryRow("Broken Co"), primaryRow("Beta Inc")},
		nil)

	if counts.Processed != 3 {
		t.Fatalf("Processed = %d, want 3", counts.Processed)
	}
	if counts.Errored != 1 {
		t.Fatalf("Errored = %d, want 1", counts.Errored)
	}
	if counts.Created != 2 {
		t.Fatalf("Created = %d, want 2 (loop must continue past the failure)", counts.Created)
	}
}

func TestRunRetireFailureCountsAsItemError(t *testing.T) {
	sink := newFakeSink()
	sink.failRetire["acme corp"] = true

	counts, _ := run(t, sink,
		[]row.Row{primaryRow("Acme Corp")},
		[]row.Row{referralFor("Jane", "Acme Corp")})

	if counts.Errored != 1 || counts.Created != 0 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestRunCreatedVersusUpdated(t *testing.T) {
	sink := newFakeSink()
	sink.existing["Acme Corp"] = true

	counts, _ := run(t, sink,
		[]row.Row{primaryRow("Acme Corp"), primaryRow("Beta Inc")},
		nil)

	if counts.Updated != 1 || counts.Created != 1 {
		t.Fatalf("counts = %+v, want one updated and one created", counts)
	}
}

func TestRunPostIndexContainsExactlyUnclaimedKeys(t *testing.T) {
	sink := newFakeSink()
	_, idx := run(t, sink,
		[]row.Row{primaryRow("Acme Corp")},
		[]row.Row{
			referralFor("Jane", "Acme Corp"),
			referralFor("Bob", "Beta Inc"),
			referralFor("Ada", "Gamma LLC"),
		})

	keys := idx.Keys()
	if len(keys) != 2 || keys[0] != "beta inc" || keys[1] != "gamma llc" {
		t.Fatalf("post-run keys = %v, want [beta inc, gamma llc]", keys)
	}
}
