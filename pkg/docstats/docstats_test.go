package docstats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdstream/pkg/docstats"
	"github.com/yaklabco/mdstream/pkg/md"
)

func TestCollectBasic(t *testing.T) {
	t.Parallel()

	src := []byte("# Title\n\nHello brave new world.\n\n- one\n- two\n")
	stats, err := docstats.Collect(src, md.DialectCommonMark)
	require.NoError(t, err)

	assert.Equal(t, len(src), stats.Bytes)
	assert.Equal(t, 1, stats.Headings)
	assert.Equal(t, 1, stats.MaxHeadingLevel)
	assert.Equal(t, 1, stats.Paragraphs)
	assert.Equal(t, 1, stats.Lists)
	assert.Equal(t, 2, stats.ListItems)
	// Title + hello brave new world + one + two.
	assert.Equal(t, 7, stats.Words)
}

func TestCollectListParagraphs(t *testing.T) {
	t.Parallel()

	// Tight list items carry paragraph envelopes that render without
	// <p> tags; only loose items contribute real paragraphs.
	tight, err := docstats.Collect([]byte("- a\n- b\n"), md.DialectCommonMark)
	require.NoError(t, err)
	assert.Zero(t, tight.Paragraphs)
	assert.Equal(t, 2, tight.ListItems)

	loose, err := docstats.Collect([]byte("- a\n\n- b\n"), md.DialectCommonMark)
	require.NoError(t, err)
	assert.Equal(t, 2, loose.Paragraphs)

	// Deeper nesting inside a tight item still counts.
	quoted, err := docstats.Collect([]byte("- > q\n"), md.DialectCommonMark)
	require.NoError(t, err)
	assert.Equal(t, 1, quoted.Paragraphs)
}

func TestCollectSpans(t *testing.T) {
	t.Parallel()

	src := []byte("See [docs](https://example.com) and <https://example.org> or `x`.\n\n![logo](img.png)\n")
	stats, err := docstats.Collect(src, md.DialectCommonMark)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Links)
	assert.Equal(t, 1, stats.Autolinks)
	assert.Equal(t, 1, stats.Images)
	assert.Equal(t, 1, stats.CodeSpans)
}

func TestCollectBlocks(t *testing.T) {
	t.Parallel()

	src := []byte("## Two\n\n### Three\n\n> quoted\n\n```go\npackage main\n```\n\n| a | b |\n| - | - |\n| 1 | 2 |\n")
	stats, err := docstats.Collect(src, md.DialectGitHub)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Headings)
	assert.Equal(t, 3, stats.MaxHeadingLevel)
	assert.Equal(t, 1, stats.Blockquotes)
	assert.Equal(t, 1, stats.CodeBlocks)
	assert.Equal(t, 1, stats.Tables)
}

func TestCollectWordsAcrossEntities(t *testing.T) {
	t.Parallel()

	// "caf&eacute; bar" is two words; the entity continues the first.
	stats, err := docstats.Collect([]byte("caf&eacute; bar\n"), md.DialectCommonMark)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Words)
}

func TestCollectEmpty(t *testing.T) {
	t.Parallel()

	stats, err := docstats.Collect(nil, md.DialectCommonMark)
	require.NoError(t, err)

	assert.Zero(t, stats.Bytes)
	assert.Zero(t, stats.Words)
	assert.Zero(t, stats.Paragraphs)
}
