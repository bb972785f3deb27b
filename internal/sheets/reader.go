// Package sheets reads response rows from the Google Sheets source.
// It is a pass-through adapter: no decisions about row content are made
// here beyond string coercion.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sgx-labs/intakesync/internal/retry"
	"github.com/sgx-labs/intakesync/internal/row"
)

// Reader fetches rows from one spreadsheet range.
type Reader struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewReader builds a Reader using a service-account credentials file.
func NewReader(ctx context.Context, credentialsFile, spreadsheetID, readRange string) (*Reader, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Reader{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// ReadRows fetches the configured range in sheet order. Cells come back
// as strings; non-string values are formatted. Rows shorter than the
// widest row are returned as-is - row.Row indexes defensively.
func (r *Reader) ReadRows(ctx context.Context) ([]row.Row, error) {
	var resp *sheets.ValueRange
	err := retry.Do(ctx, func() error {
		var err error
		resp, err = r.svc.Spreadsheets.Values.
			Get(r.spreadsheetID, r.readRange).
			Context(ctx).Do()
		return classifyAPIError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("read range %q: %w", r.readRange, err)
	}

	rows := make([]row.Row, 0, len(resp.Values))
	for _, raw := range resp.Values {
		cells := make([]string, len(raw))
		for i, v := range raw {
			if s, ok := v.(string); ok {
				cells[i] = s
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, row.Row(cells))
	}
	return rows, nil
}

// Ping verifies the spreadsheet is reachable with the configured
// credentials. Used by `intake doctor`.
func (r *Reader) Ping(ctx context.Context) error {
	_, err := r.svc.Spreadsheets.
		Get(r.spreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reach spreadsheet: %w", err)
	}
	return nil
}

// classifyAPIError marks non-retryable API failures as permanent so the
// retry wrapper stops immediately. 429 and 5xx stay retryable.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code >= 400 && gerr.Code < 500 && gerr.Code != 429 {
			return retry.Permanent(err)
		}
	}
	return err
}
