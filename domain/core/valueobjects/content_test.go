package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeContent(t *testing.T) {
	content, err := NewNodeContent("  Career Move  ", "  weigh the offers  ")
	require.NoError(t, err)
	assert.Equal(t, "Career Move", content.Title())
	assert.Equal(t, "weigh the offers", content.Body())

	_, err = NewNodeContent("   ", "body without a title")
	assert.Error(t, err)
}

func TestNodeContentEquals(t *testing.T) {
	a, err := NewNodeContent("Title", "body")
	require.NoError(t, err)
	b, err := NewNodeContent("Title", "body")
	require.NoError(t, err)
	c, err := NewNodeContent("Title", "other body")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestNodeContentSummary(t *testing.T) {
	cases := []struct {
		name      string
		title     string
		body      string
		maxLength int
		want      string
	}{
		{"fits untruncated", "Title", "body", 11, "Title: body"},
		{"truncated with ellipsis", "Title", "body text", 10, "Title: ..."},
		{"zero length", "Title", "body", 0, ""},
		{"negative length", "Title", "body", -5, ""},
		{"length one", "Title", "body text", 1, "T"},
		{"length two", "Title", "body text", 2, "Ti"},
		{"length three", "Title", "body text", 3, "Tit"},
		{"length four", "Title", "body text", 4, "T..."},
		{"no body", "Title", "", 20, "Title"},
		{"multibyte runes", "日本語のタイトル", "", 4, "日..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content, err := NewNodeContent(tc.title, tc.body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, content.Summary(tc.maxLength))
		})
	}
}
