package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

// Section titles on submission and placeholder pages.
const (
	sectionApplication = "Application"
	sectionReferrals   = "Referrals"
)

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{Text: &notionapi.Text{Content: s}}}
}

func toggleBlock(title string, children []notionapi.Block) notionapi.Block {
	return &notionapi.ToggleBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeToggle,
		},
		Toggle: notionapi.Toggle{
			RichText: richText(title),
			Children: children,
		},
	}
}

func bulletBlock(text string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeBulletedListItem,
		},
		BulletedListItem: notionapi.ListItem{RichText: richText(text)},
	}
}

// toggleTitle extracts the plain title of a toggle block, or "" for any
// other block type.
func toggleTitle(b notionapi.Block) string {
	t, ok := b.(*notionapi.ToggleBlock)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, rt := range t.Toggle.RichText {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}

// EnsureSection creates a toggle section titled title under the page
// unless one already exists: check-then-create keyed on the toggle's
// title text, so repeated runs do not stack duplicate sections.
func (c *Client) EnsureSection(ctx context.Context, pageID, title string, children []notionapi.Block) error {
	existing, err := c.ListBlocks(ctx, pageID)
	if err != nil {
		return fmt.Errorf("ensure section %q: %w", title, err)
	}
	for _, b := range existing {
		if toggleTitle(b) == title {
			return nil
		}
	}
	return c.AppendBlocks(ctx, pageID, []notionapi.Block{toggleBlock(title, children)})
}

// DedupeSections archives every toggle after the first with a given
// title. Manual edits between runs can leave doubled sections behind;
// the first occurrence always survives.
func (c *Client) DedupeSections(ctx context.Context, pageID string) error {
	existing, err := c.ListBlocks(ctx, pageID)
	if err != nil {
		return fmt.Errorf("dedupe sections: %w", err)
	}
	seen := make(map[string]bool)
	for _, b := range existing {
		title := toggleTitle(b)
		if title == "" {
			continue
		}
		if !seen[title] {
			seen[title] = true
			continue
		}
		if err := c.DeleteBlock(ctx, string(b.GetID())); err != nil {
			return fmt.Errorf("dedupe sections: %w", err)
		}
	}
	return nil
}
