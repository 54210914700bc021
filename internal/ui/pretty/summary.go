package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdstream/pkg/docstats"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FileStats pairs a file path with its collected statistics.
type FileStats struct {
	Path  string
	Stats *docstats.Stats
}

// totals sums statistics across files.
func totals(files []FileStats) docstats.Stats {
	var sum docstats.Stats
	for _, f := range files {
		if f.Stats == nil {
			continue
		}
		sum.Bytes += f.Stats.Bytes
		sum.Paragraphs += f.Stats.Paragraphs
		sum.Headings += f.Stats.Headings
		sum.CodeBlocks += f.Stats.CodeBlocks
		sum.Blockquotes += f.Stats.Blockquotes
		sum.Lists += f.Stats.Lists
		sum.ListItems += f.Stats.ListItems
		sum.Tables += f.Stats.Tables
		sum.HTMLBlocks += f.Stats.HTMLBlocks
		sum.Links += f.Stats.Links
		sum.Autolinks += f.Stats.Autolinks
		sum.Images += f.Stats.Images
		sum.CodeSpans += f.Stats.CodeSpans
		sum.Words += f.Stats.Words
	}
	return sum
}

// FormatSummaryOneLine formats collected statistics as a single line.
// Example: "3 files checked, 2456 bytes, 412 words".
func (s *Styles) FormatSummaryOneLine(files []FileStats) string {
	sum := totals(files)

	fileWord := wordFiles
	if len(files) == 1 {
		fileWord = wordFile
	}

	parts := []string{
		s.Success.Render(fmt.Sprintf("%d %s checked", len(files), fileWord)),
		fmt.Sprintf("%d bytes", sum.Bytes),
		fmt.Sprintf("%d words", sum.Words),
	}
	if sum.Links > 0 {
		parts = append(parts, fmt.Sprintf("%d links", sum.Links))
	}
	if sum.Images > 0 {
		parts = append(parts, fmt.Sprintf("%d images", sum.Images))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats collected statistics as a summary block.
func (s *Styles) FormatSummary(files []FileStats) string {
	sum := totals(files)

	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:  " +
		s.SummaryValue.Render(strconv.Itoa(len(files))) + "\n")
	builder.WriteString("  Total bytes:    " +
		s.SummaryValue.Render(strconv.Itoa(sum.Bytes)) + "\n")
	builder.WriteString("  Words:          " +
		s.SummaryValue.Render(strconv.Itoa(sum.Words)) + "\n")

	builder.WriteString("\n")

	builder.WriteString("  Paragraphs:     " +
		s.SummaryValue.Render(strconv.Itoa(sum.Paragraphs)) + "\n")
	builder.WriteString("  Headings:       " +
		s.SummaryValue.Render(strconv.Itoa(sum.Headings)) + "\n")

	if sum.Lists > 0 {
		builder.WriteString("  Lists:          " +
			s.SummaryValue.Render(fmt.Sprintf("%d (%d items)", sum.Lists, sum.ListItems)) + "\n")
	}
	if sum.CodeBlocks > 0 {
		builder.WriteString("  Code blocks:    " +
			s.SummaryValue.Render(strconv.Itoa(sum.CodeBlocks)) + "\n")
	}
	if sum.Blockquotes > 0 {
		builder.WriteString("  Blockquotes:    " +
			s.SummaryValue.Render(strconv.Itoa(sum.Blockquotes)) + "\n")
	}
	if sum.Tables > 0 {
		builder.WriteString("  Tables:         " +
			s.SummaryValue.Render(strconv.Itoa(sum.Tables)) + "\n")
	}
	if sum.HTMLBlocks > 0 {
		builder.WriteString("  HTML blocks:    " +
			s.SummaryValue.Render(strconv.Itoa(sum.HTMLBlocks)) + "\n")
	}
	if sum.Links > 0 {
		builder.WriteString("  Links:          " +
			s.SummaryValue.Render(fmt.Sprintf("%d (%d autolinks)", sum.Links, sum.Autolinks)) + "\n")
	}
	if sum.Images > 0 {
		builder.WriteString("  Images:         " +
			s.SummaryValue.Render(strconv.Itoa(sum.Images)) + "\n")
	}
	if sum.CodeSpans > 0 {
		builder.WriteString("  Code spans:     " +
			s.SummaryValue.Render(strconv.Itoa(sum.CodeSpans)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString(s.Success.Render("All files parsed"))
	builder.WriteString("\n")

	return builder.String()
}
