package notion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/sgx-labs/intakesync/internal/reconcile"
	"github.com/sgx-labs/intakesync/internal/row"
)

// PlaceholderRegistry tracks placeholder pages across runs so retirement
// can find a page without rescanning the whole database. The ledger
// package implements it; the Notion database stays the source of truth
// and the registry is reconciled against it on a miss.
type PlaceholderRegistry interface {
	// ActivePlaceholder returns the page id recorded for key, or
	// ok=false when none is active.
	ActivePlaceholder(key string) (pageID string, ok bool)
	// RecordPlaceholder marks key as having an active placeholder page.
	RecordPlaceholder(key, displayName, pageID string) error
	// RetirePlaceholder marks key's placeholder retired. Terminal: a
	// retired entry never becomes active again.
	RetirePlaceholder(key string) error
}

// Sink projects reconciliation output into Notion writes. It implements
// reconcile.Sink.
type Sink struct {
	client   *Client
	registry PlaceholderRegistry
}

// NewSink builds the document sink.
func NewSink(client *Client, registry PlaceholderRegistry) *Sink {
	return &Sink{client: client, registry: registry}
}

// UpsertRecord finds the page titled with the entity's display name,
// creating it if absent, rewrites its properties, and ensures the
// content sections exist exactly once.
func (s *Sink) UpsertRecord(ctx context.Context, rec reconcile.Record) (bool, error) {
	props := recordProperties(rec)

	created := false
	var pageID string
	page, err := s.client.FindPageByTitle(ctx, rec.DisplayName)
	switch {
	case err == nil:
		pageID = string(page.ID)
		if err := s.client.UpdatePageProperties(ctx, pageID, props); err != nil {
			return false, err
		}
	case errors.Is(err, ErrPageNotFound):
		page, err := s.client.CreatePage(ctx, props)
		if err != nil {
			return false, err
		}
		pageID = string(page.ID)
		created = true
	default:
		return false, err
	}

	if err := s.client.EnsureSection(ctx, pageID, sectionApplication, applicationChildren(rec)); err != nil {
		return created, err
	}
	if len(rec.Referrals) > 0 {
		if err := s.client.EnsureSection(ctx, pageID, sectionReferrals, referralChildren(rec.Referrals)); err != nil {
			return created, err
		}
	}
	if err := s.client.DedupeSections(ctx, pageID); err != nil {
		return created, err
	}
	return created, nil
}

// CreatePlaceholder ensures a page exists for an unmatched referral
// bucket. Re-running with the same leftover bucket updates the existing
// page instead of stacking a new one.
func (s *Sink) CreatePlaceholder(ctx context.Context, ph reconcile.Placeholder) (bool, error) {
	props := placeholderProperties(ph)

	if pageID, ok := s.registry.ActivePlaceholder(ph.Key); ok {
		if err := s.client.UpdatePageProperties(ctx, pageID, props); err != nil {
			return false, err
		}
		return false, s.ensureReferralSection(ctx, pageID, ph.Rows)
	}

	// Registry miss: the page may still exist from a run on another
	// machine. Check before creating.
	page, err := s.client.FindPageByTitle(ctx, ph.DisplayName)
	if err == nil {
		pageID := string(page.ID)
		if err := s.client.UpdatePageProperties(ctx, pageID, props); err != nil {
			return false, err
		}
		if err := s.registry.RecordPlaceholder(ph.Key, ph.DisplayName, pageID); err != nil {
			return false, err
		}
		return false, s.ensureReferralSection(ctx, pageID, ph.Rows)
	}
	if !errors.Is(err, ErrPageNotFound) {
		return false, err
	}

	created, err := s.client.CreatePage(ctx, props)
	if err != nil {
		return false, err
	}
	pageID := string(created.ID)
	if err := s.registry.RecordPlaceholder(ph.Key, ph.DisplayName, pageID); err != nil {
		return true, err
	}
	return true, s.ensureReferralSection(ctx, pageID, ph.Rows)
}

func (s *Sink) ensureReferralSection(ctx context.Context, pageID string, rows []row.Row) error {
	if err := s.client.EnsureSection(ctx, pageID, sectionReferrals, referralChildren(rows)); err != nil {
		return err
	}
	return s.client.DedupeSections(ctx, pageID)
}

// RetirePlaceholder archives the placeholder page recorded for key, if
// any. Called when a primary claims the key this run. Retirement is
// terminal; the registry never reactivates a retired entry.
func (s *Sink) RetirePlaceholder(ctx context.Context, key, displayName string) error {
	pageID, ok := s.registry.ActivePlaceholder(key)
	if !ok {
		// Nothing recorded locally. A placeholder may still exist in
		// the database under the referral bucket's display name from a
		// run elsewhere; retire it when its status marks it unmatched.
		page, err := s.client.FindPageByTitle(ctx, displayName)
		if errors.Is(err, ErrPageNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !isUnmatchedPlaceholder(page) {
			return nil
		}
		pageID = string(page.ID)
	}
	if err := s.client.ArchivePage(ctx, pageID); err != nil {
		return fmt.Errorf("retire placeholder %q: %w", displayName, err)
	}
	return s.registry.RetirePlaceholder(key)
}

// isUnmatchedPlaceholder reports whether a page's Status select marks
// it as an unmatched-referral placeholder.
func isUnmatchedPlaceholder(page *notionapi.Page) bool {
	prop, ok := page.Properties[propStatus]
	if !ok {
		return false
	}
	sel, ok := prop.(*notionapi.SelectProperty)
	if !ok {
		return false
	}
	return sel.Select.Name == statusUnmatched
}

// applicationChildren renders the Application section body.
func applicationChildren(rec reconcile.Record) []notionapi.Block {
	var blocks []notionapi.Block
	if v := rec.Primary.OneLiner(); v != "" {
		blocks = append(blocks, bulletBlock(v))
	}
	if v := rec.Primary.Stage(); v != "" {
		blocks = append(blocks, bulletBlock("Stage: "+v))
	}
	if v := rec.Primary.Email(); v != "" {
		blocks = append(blocks, bulletBlock("Contact: "+v))
	}
	if len(blocks) == 0 {
		blocks = append(blocks, bulletBlock("No details provided"))
	}
	return blocks
}

// referralChildren renders one bullet per referral row.
func referralChildren(rows []row.Row) []notionapi.Block {
	blocks := make([]notionapi.Block, 0, len(rows))
	for _, r := range rows {
		line := r.Name()
		if e := r.Endorsement(); e != "" {
			line += " — " + e
		}
		blocks = append(blocks, bulletBlock(line))
	}
	return blocks
}
