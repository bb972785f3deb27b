package ledger

import "fmt"

// ActivePlaceholder returns the page id recorded for key when its state
// is active.
func (db *DB) ActivePlaceholder(key string) (string, bool) {
	var pageID string
	err := db.conn.QueryRow(
		`SELECT page_id FROM placeholders WHERE key = ? AND state = 'active'`, key,
	).Scan(&pageID)
	if err != nil {
		return "", false
	}
	return pageID, true
}

// RecordPlaceholder upserts an active placeholder entry for key. A key
// whose previous page was retired gets a fresh entry pointing at the
// new page; the retired page itself is never unarchived.
func (db *DB) RecordPlaceholder(key, displayName, pageID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT INTO placeholders (key, display_name, page_id, state, updated_at)
		 VALUES (?, ?, ?, 'active', unixepoch())
		 ON CONFLICT(key) DO UPDATE SET
		   display_name = excluded.display_name,
		   page_id = excluded.page_id,
		   state = 'active',
		   updated_at = excluded.updated_at`,
		key, displayName, pageID,
	)
	if err != nil {
		return fmt.Errorf("record placeholder %q: %w", key, err)
	}
	return nil
}

// RetirePlaceholder marks key's placeholder retired. Retiring an
// unknown key is a no-op: the page may have been created and archived
// entirely by another machine.
func (db *DB) RetirePlaceholder(key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`UPDATE placeholders SET state = 'retired', updated_at = unixepoch() WHERE key = ?`, key,
	)
	if err != nil {
		return fmt.Errorf("retire placeholder %q: %w", key, err)
	}
	return nil
}
