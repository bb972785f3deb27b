package notion

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jomei/notionapi"

	"github.com/sgx-labs/intakesync/internal/logging"
)

// stubTransport serves a canned response for every request.
type stubTransport struct {
	status int
	body   string
}

func (s *stubTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func stubbedClient(body string, log *logging.Logger) *Client {
	api := notionapi.NewClient("secret-token", notionapi.WithHTTPClient(&http.Client{
		Transport: &stubTransport{status: http.StatusOK, body: body},
	}))
	return &Client{api: api, databaseID: "db-1", log: log}
}

func TestCreatePageLogsPageID(t *testing.T) {
	log, logs := logging.NewObserved()
	c := stubbedClient(`{"object":"page","id":"page-1"}`, log)

	page, err := c.CreatePage(context.Background(), notionapi.Properties{})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if string(page.ID) != "page-1" {
		t.Fatalf("page id = %q, want page-1", page.ID)
	}

	entries := logs.FilterMessage("page created").All()
	if len(entries) != 1 {
		t.Fatalf("got %d 'page created' entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["page_id"]; got != "page-1" {
		t.Fatalf("page_id field = %v, want page-1", got)
	}
}

func TestArchivePageLogs(t *testing.T) {
	log, logs := logging.NewObserved()
	c := stubbedClient(`{"object":"page","id":"page-2"}`, log)

	if err := c.ArchivePage(context.Background(), "page-2"); err != nil {
		t.Fatalf("ArchivePage: %v", err)
	}

	entries := logs.FilterMessage("page archived").All()
	if len(entries) != 1 {
		t.Fatalf("got %d 'page archived' entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["page_id"]; got != "page-2" {
		t.Fatalf("page_id field = %v, want page-2", got)
	}
}
