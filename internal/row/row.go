// Package row defines the positional response-sheet row and the single
// authoritative mapping from named fields to column indices. All cell
// access goes through named accessors so a column shift is a one-line
// change here instead of a scattered index hunt.
package row

import (
	"strconv"
	"strings"
)

// Column indices into the response sheet, zero-based relative to the
// configured read range. The form writes one column per question; the
// columns after TeamCount repeat as name/role pairs per team member.
const (
	ColSubmittedAt  = 0
	ColIntent       = 1
	ColName         = 2 // entity name on primaries, referrer name on referrals
	ColEmail        = 3
	ColOneLiner     = 4
	ColStage        = 5
	ColTeamCount    = 6 // founder primaries only
	ColReferredName = 7 // referrals only
	ColEndorsement  = 8 // referrals only

	// Team member blocks start here: member i occupies
	// ColTeamStart+2i (name) and ColTeamStart+2i+1 (role).
	ColTeamStart = 9

	// MaxTeamMembers caps how many declared members extend the
	// completion check, regardless of what the count cell claims.
	MaxTeamMembers = 4
)

// Row is one submission as read from the sheet. Rows are immutable once
// read; trailing empty cells may be absent entirely.
type Row []string

// Cell returns the trimmed cell at index i, or "" when the row is too
// short. Sheets drops trailing empty cells, so out-of-range reads are
// normal rather than errors.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Has reports whether the cell at index i is non-empty after trimming.
func (r Row) Has(i int) bool {
	return r.Cell(i) != ""
}

// Intent returns the raw declared-intent cell.
func (r Row) Intent() string { return r.Cell(ColIntent) }

// Name returns the entity name (primaries) or referrer name (referrals).
func (r Row) Name() string { return r.Cell(ColName) }

// Email returns the contact email cell.
func (r Row) Email() string { return r.Cell(ColEmail) }

// OneLiner returns the one-line description cell.
func (r Row) OneLiner() string { return r.Cell(ColOneLiner) }

// Stage returns the stage/background cell.
func (r Row) Stage() string { return r.Cell(ColStage) }

// ReferredName returns the name of the entity a referral row vouches for.
func (r Row) ReferredName() string { return r.Cell(ColReferredName) }

// Endorsement returns the free-text endorsement cell of a referral row.
func (r Row) Endorsement() string { return r.Cell(ColEndorsement) }

// TeamCount returns the declared team-member count, clamped to
// [0, MaxTeamMembers]. Non-numeric or negative declarations read as 0.
func (r Row) TeamCount() int {
	n, err := strconv.Atoi(r.Cell(ColTeamCount))
	if err != nil || n < 0 {
		return 0
	}
	if n > MaxTeamMembers {
		return MaxTeamMembers
	}
	return n
}

// TeamMemberCols returns the column indices of the name/role pair for
// declared member i.
func TeamMemberCols(i int) (name, role int) {
	return ColTeamStart + 2*i, ColTeamStart + 2*i + 1
}
