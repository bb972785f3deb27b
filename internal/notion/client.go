// Package notion is the document store adapter: every Notion call in
// the system goes through this package. It translates reconciled
// records into page and block writes and owns nothing algorithmic.
package notion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/sgx-labs/intakesync/internal/logging"
	"github.com/sgx-labs/intakesync/internal/retry"
)

// ErrPageNotFound is returned by FindPageByTitle when no page matches.
var ErrPageNotFound = errors.New("page not found")

// Client wraps the Notion API for one database.
type Client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
	log        *logging.Logger
}

// NewClient builds a client for the given integration token and database.
func NewClient(token, databaseID string, log *logging.Logger) *Client {
	return &Client{
		api:        notionapi.NewClient(notionapi.Token(token)),
		databaseID: notionapi.DatabaseID(databaseID),
		log:        log,
	}
}

// Ping verifies the database is reachable with the configured token.
// Used by `intake doctor`.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Database.Get(ctx, c.databaseID); err != nil {
		return fmt.Errorf("reach database: %w", err)
	}
	return nil
}

// FindPageByTitle returns the first page whose title property equals
// title exactly, or ErrPageNotFound.
func (c *Client) FindPageByTitle(ctx context.Context, title string) (*notionapi.Page, error) {
	var resp *notionapi.DatabaseQueryResponse
	err := retry.Do(ctx, func() error {
		var err error
		resp, err = c.api.Database.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{
			Filter: notionapi.PropertyFilter{
				Property: propTitle,
				RichText: &notionapi.TextFilterCondition{Equals: title},
			},
			PageSize: 1,
		})
		return classifyAPIError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("query page %q: %w", title, err)
	}
	if len(resp.Results) == 0 {
		return nil, ErrPageNotFound
	}
	return &resp.Results[0], nil
}

// ListAllPages enumerates every non-archived page in the database,
// exhausting pagination cursors before returning.
func (c *Client) ListAllPages(ctx context.Context) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	var cursor notionapi.Cursor
	for {
		var resp *notionapi.DatabaseQueryResponse
		err := retry.Do(ctx, func() error {
			var err error
			resp, err = c.api.Database.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{
				StartCursor: cursor,
				PageSize:    100,
			})
			return classifyAPIError(err)
		})
		if err != nil {
			return nil, fmt.Errorf("list pages: %w", err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// CreatePage creates a page in the database with the given properties.
func (c *Client) CreatePage(ctx context.Context, props notionapi.Properties) (*notionapi.Page, error) {
	var page *notionapi.Page
	err := retry.Do(ctx, func() error {
		var err error
		page, err = c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: c.databaseID,
			},
			Properties: props,
		})
		return classifyAPIError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	c.log.Debug("page created", "page_id", string(page.ID))
	return page, nil
}

// UpdatePageProperties overwrites the given properties on a page.
func (c *Client) UpdatePageProperties(ctx context.Context, pageID string, props notionapi.Properties) error {
	err := retry.Do(ctx, func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
			Properties: props,
		})
		return classifyAPIError(err)
	})
	if err != nil {
		return fmt.Errorf("update page %s: %w", pageID, err)
	}
	return nil
}

// ArchivePage archives (retires) a page.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	err := retry.Do(ctx, func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
			// The API requires a non-nil properties map even when only
			// flipping the archived bit.
			Properties: notionapi.Properties{},
			Archived:   true,
		})
		return classifyAPIError(err)
	})
	if err != nil {
		return fmt.Errorf("archive page %s: %w", pageID, err)
	}
	c.log.Debug("page archived", "page_id", pageID)
	return nil
}

// AppendBlocks appends children to a block (or page) by id.
func (c *Client) AppendBlocks(ctx context.Context, parentID string, blocks []notionapi.Block) error {
	err := retry.Do(ctx, func() error {
		_, err := c.api.Block.AppendChildren(ctx, notionapi.BlockID(parentID), &notionapi.AppendBlockChildrenRequest{
			Children: blocks,
		})
		return classifyAPIError(err)
	})
	if err != nil {
		return fmt.Errorf("append blocks to %s: %w", parentID, err)
	}
	return nil
}

// ListBlocks returns all direct children of a block, exhausting
// pagination before returning.
func (c *Client) ListBlocks(ctx context.Context, parentID string) ([]notionapi.Block, error) {
	var blocks []notionapi.Block
	var cursor notionapi.Cursor
	for {
		var resp *notionapi.GetChildrenResponse
		err := retry.Do(ctx, func() error {
			var err error
			resp, err = c.api.Block.GetChildren(ctx, notionapi.BlockID(parentID), &notionapi.Pagination{
				StartCursor: cursor,
				PageSize:    100,
			})
			return classifyAPIError(err)
		})
		if err != nil {
			return nil, fmt.Errorf("list blocks of %s: %w", parentID, err)
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore {
			return blocks, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// DeleteBlock archives a single block.
func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	err := retry.Do(ctx, func() error {
		_, err := c.api.Block.Delete(ctx, notionapi.BlockID(blockID))
		return classifyAPIError(err)
	})
	if err != nil {
		return fmt.Errorf("delete block %s: %w", blockID, err)
	}
	c.log.Debug("block archived", "block_id", blockID)
	return nil
}

// classifyAPIError marks non-retryable Notion failures as permanent.
// Rate limits (429) and server errors stay retryable.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}
	var nerr *notionapi.Error
	if errors.As(err, &nerr) {
		if nerr.Status >= 400 && nerr.Status < 500 && nerr.Status != 429 {
			return retry.Permanent(err)
		}
	}
	return err
}
