package reconcile

import (
	"math"

	"github.com/sgx-labs/intakesync/internal/classify"
	"github.com/sgx-labs/intakesync/internal/row"
)

// requiredFields returns the column indices that count toward the
// completion percentage for a primary row. Founder submissions extend
// the base set with a name/role pair per declared team member; the
// declared count is already clamped by TeamCount.
func requiredFields(r row.Row, cat classify.Category) []int {
	switch cat {
	case classify.CategoryFounder:
		fields := []int{row.ColName, row.ColEmail, row.ColOneLiner, row.ColStage, row.ColTeamCount}
		for i := 0; i < r.TeamCount(); i++ {
			name, role := row.TeamMemberCols(i)
			fields = append(fields, name, role)
		}
		return fields
	case classify.CategorySearcher:
		return []int{row.ColName, row.ColEmail, row.ColOneLiner, row.ColStage}
	default:
		return nil
	}
}

// CompletionPercent is the rounded share of required fields a primary
// row has filled, 0-100.
func CompletionPercent(r row.Row, cat classify.Category) int {
	fields := requiredFields(r, cat)
	if len(fields) == 0 {
		return 0
	}
	filled := 0
	for _, i := range fields {
		if r.Has(i) {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(fields))))
}

// tierNumerals is the referral-count label table. Five and above
// collapse to the single ceiling label.
var tierNumerals = map[int]string{1: "I", 2: "II", 3: "III", 4: "IV"}

// TierLabel maps a referral count to its display tier. Zero referrals
// carry no label.
func TierLabel(referralCount int) string {
	if referralCount <= 0 {
		return ""
	}
	if referralCount >= 5 {
		return "Tier V+"
	}
	return "Tier " + tierNumerals[referralCount]
}
