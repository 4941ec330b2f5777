package valueobjects

import (
	"strings"
	"unicode/utf8"

	pkgerrors "crossroads-backend/pkg/errors"
)

// NodeContent is the title and body text of one decision node. The body is
// stored in full; display layers truncate via Summary.
type NodeContent struct {
	title string
	body  string
}

// NewNodeContent creates content. The title must be non-empty; the parser
// guarantees this by falling back to the topic or option text, so an empty
// title here means a caller bug.
func NewNodeContent(title, body string) (NodeContent, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return NodeContent{}, pkgerrors.New(pkgerrors.ErrorTypeValidation, "NODE_TITLE_REQUIRED", "node title cannot be empty")
	}
	return NodeContent{title: title, body: body}, nil
}

// Title returns the short heading for the node.
func (c NodeContent) Title() string { return c.title }

// Body returns the full body text. May be empty.
func (c NodeContent) Body() string { return c.body }

// Equals checks if two contents are equal.
func (c NodeContent) Equals(other NodeContent) bool {
	return c.title == other.title && c.body == other.body
}

// Summary returns a truncated single-line rendition for list views.
func (c NodeContent) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	combined := c.title
	if c.body != "" {
		combined += ": " + c.body
	}
	if utf8.RuneCountInString(combined) <= maxLength {
		return combined
	}
	runes := []rune(combined)
	// Too tight for an ellipsis; hard-cut instead.
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
