package pretty

import (
	"fmt"
	"strings"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	numColumnWidth   = 7
	numColumnCount   = 5 // WORDS, HEADS, PARAS, LINKS, CODE
	heavySeparator   = "="
	defaultTermWidth = 100
)

// TableFormatter formats per-file statistics as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats one row of statistics per file.
func (t *TableFormatter) FormatTable(files []FileStats) string {
	if len(files) == 0 {
		return ""
	}

	fileWidth := t.fileColumnWidth(files)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(fileWidth))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(fileWidth))
	builder.WriteString("\n")

	for _, f := range files {
		builder.WriteString(t.formatRow(f, fileWidth))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(fileWidth))
	builder.WriteString("\n")

	return builder.String()
}

// fileColumnWidth sizes the FILE column to the longest path, constrained
// to the terminal width.
func (t *TableFormatter) fileColumnWidth(files []FileStats) int {
	width := minFileWidth
	for _, f := range files {
		if len(f.Path) > width {
			width = len(f.Path)
		}
	}

	total := t.totalWidth(width)
	if total > t.termWidth {
		width = max(minFileWidth, width-(total-t.termWidth))
	}
	return width
}

func (t *TableFormatter) totalWidth(fileWidth int) int {
	return fileWidth + numColumnCount*(numColumnWidth+tablePadding) + tablePadding
}

func (t *TableFormatter) formatHeader(fileWidth int) string {
	header := fmt.Sprintf(" %-*s  %*s  %*s  %*s  %*s  %*s",
		fileWidth, "FILE",
		numColumnWidth, "WORDS",
		numColumnWidth, "HEADS",
		numColumnWidth, "PARAS",
		numColumnWidth, "LINKS",
		numColumnWidth, "CODE",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(fileWidth int) string {
	sep := strings.Repeat(heavySeparator, t.totalWidth(fileWidth))
	return t.styles.TableSeparator.Render(sep)
}

func (t *TableFormatter) formatRow(f FileStats, fileWidth int) string {
	var words, heads, paras, links, code int
	if f.Stats != nil {
		words = f.Stats.Words
		heads = f.Stats.Headings
		paras = f.Stats.Paragraphs
		links = f.Stats.Links
		code = f.Stats.CodeBlocks + f.Stats.CodeSpans
	}

	return fmt.Sprintf(" %-*s  %*d  %*d  %*d  %*d  %*d",
		fileWidth, truncateFilePath(f.Path, fileWidth),
		numColumnWidth, words,
		numColumnWidth, heads,
		numColumnWidth, paras,
		numColumnWidth, links,
		numColumnWidth, code,
	)
}

// truncateFilePath truncates a file path, preserving the end (filename)
// rather than the beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
