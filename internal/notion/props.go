package notion

import (
	"github.com/jomei/notionapi"

	"github.com/sgx-labs/intakesync/internal/reconcile"
)

// Database property names. The database schema is provisioned by hand
// once; these must match it exactly.
const (
	propTitle         = "Name"
	propType          = "Type"
	propCompletion    = "Completion"
	propReferralCount = "Referral Count"
	propTier          = "Tier"
	propStatus        = "Status"
)

// Status select values.
const (
	statusActive    = "Active"
	statusUnmatched = "Unmatched Referral"
)

func titleProp(text string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{{
			Text: &notionapi.Text{Content: text},
		}},
	}
}

func selectProp(name string) notionapi.SelectProperty {
	return notionapi.SelectProperty{Select: notionapi.Option{Name: name}}
}

func numberProp(n int) notionapi.NumberProperty {
	return notionapi.NumberProperty{Number: float64(n)}
}

// recordProperties builds the page properties for a reconciled primary.
// The tier select is omitted entirely at zero referrals rather than
// written empty.
func recordProperties(rec reconcile.Record) notionapi.Properties {
	props := notionapi.Properties{
		propTitle:         titleProp(rec.DisplayName),
		propType:          selectProp(typeName(rec)),
		propCompletion:    numberProp(rec.Completion),
		propReferralCount: numberProp(len(rec.Referrals)),
		propStatus:        selectProp(statusActive),
	}
	if rec.Tier != "" {
		props[propTier] = selectProp(rec.Tier)
	}
	return props
}

func typeName(rec reconcile.Record) string {
	if rec.Category.Kind().String() == "searcher" {
		return "Searcher"
	}
	return "Founder"
}

// placeholderProperties builds the page properties for an unmatched
// referral bucket.
func placeholderProperties(ph reconcile.Placeholder) notionapi.Properties {
	return notionapi.Properties{
		propTitle:         titleProp(ph.DisplayName),
		propReferralCount: numberProp(len(ph.Rows)),
		propStatus:        selectProp(statusUnmatched),
	}
}
