package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdstream/internal/ui/pretty"
	"github.com/yaklabco/mdstream/pkg/docstats"
)

func sampleFiles() []pretty.FileStats {
	return []pretty.FileStats{
		{
			Path: "docs/readme.md",
			Stats: &docstats.Stats{
				Bytes:      1200,
				Paragraphs: 4,
				Headings:   2,
				Links:      3,
				Autolinks:  1,
				Words:      180,
			},
		},
		{
			Path: "docs/guide.md",
			Stats: &docstats.Stats{
				Bytes:      800,
				Paragraphs: 2,
				Headings:   1,
				CodeBlocks: 1,
				Words:      90,
			},
		},
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatSummaryOneLine(sampleFiles())

	assert.Contains(t, out, "2 files checked")
	assert.Contains(t, out, "2000 bytes")
	assert.Contains(t, out, "270 words")
	assert.Contains(t, out, "3 links")
}

func TestFormatSummaryOneLine_SingleFile(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatSummaryOneLine(sampleFiles()[:1])

	assert.Contains(t, out, "1 file checked")
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatSummary(sampleFiles())

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Files checked:  2")
	assert.Contains(t, out, "Words:          270")
	assert.Contains(t, out, "Paragraphs:     6")
	assert.Contains(t, out, "Headings:       3")
	assert.Contains(t, out, "Code blocks:    1")
	assert.Contains(t, out, "Links:          3 (1 autolinks)")
	assert.Contains(t, out, "All files parsed")
	// Zero-count sections are omitted.
	assert.NotContains(t, out, "Tables:")
	assert.NotContains(t, out, "Images:")
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	formatter := pretty.NewTableFormatter(styles, 100)
	out := formatter.FormatTable(sampleFiles())

	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "WORDS")
	assert.Contains(t, out, "docs/readme.md")
	assert.Contains(t, out, "180")
	assert.Contains(t, out, "docs/guide.md")
}

func TestFormatTable_Empty(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	formatter := pretty.NewTableFormatter(styles, 100)

	assert.Empty(t, formatter.FormatTable(nil))
}

func TestFormatTable_LongPathTruncated(t *testing.T) {
	t.Parallel()

	files := []pretty.FileStats{{
		Path:  "very/long/nested/directory/structure/with/many/components/readme.md",
		Stats: &docstats.Stats{Words: 1},
	}}

	styles := pretty.NewStyles(false)
	formatter := pretty.NewTableFormatter(styles, 80)
	out := formatter.FormatTable(files)

	assert.Contains(t, out, "...")
	assert.Contains(t, out, "readme.md")
}
