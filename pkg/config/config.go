// Package config defines the rendering profile for mdstream.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import (
	"fmt"

	"github.com/yaklabco/mdstream/pkg/md"
	"github.com/yaklabco/mdstream/pkg/mdhtml"
)

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is a known value.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// Extension names accepted in the extensions list. Each toggles one
// dialect flag on top of the flavor's baseline.
const (
	ExtTables             = "tables"
	ExtTaskLists          = "task-lists"
	ExtStrikethrough      = "strikethrough"
	ExtAutolinks          = "autolinks"
	ExtWikiLinks          = "wiki-links"
	ExtMath               = "math"
	ExtUnderline          = "underline"
	ExtHardSoftBreaks     = "hard-soft-breaks"
	ExtCollapseWhitespace = "collapse-whitespace"
	ExtPermissiveATX      = "permissive-atx"
	ExtNoIndentedCode     = "no-indented-code"
	ExtNoHTML             = "no-html"
)

// extensionFlags maps extension names to the dialect flags they enable.
//
//nolint:gochecknoglobals // Read-only lookup table.
var extensionFlags = map[string]md.Flags{
	ExtTables:        md.Tables,
	ExtTaskLists:     md.TaskLists,
	ExtStrikethrough: md.Strikethrough,
	ExtAutolinks: md.PermissiveURLAutolinks |
		md.PermissiveWWWAutolinks |
		md.PermissiveEmailAutolinks,
	ExtWikiLinks:          md.WikiLinks,
	ExtMath:               md.LaTeXMathSpans,
	ExtUnderline:          md.Underline,
	ExtHardSoftBreaks:     md.HardSoftBreaks,
	ExtCollapseWhitespace: md.CollapseWhitespace,
	ExtPermissiveATX:      md.PermissiveATXHeaders,
	ExtNoIndentedCode:     md.NoIndentedCodeBlocks,
	ExtNoHTML:             md.NoHTMLBlocks | md.NoHTMLSpans,
}

// KnownExtensions returns the accepted extension names.
func KnownExtensions() []string {
	return []string{
		ExtTables, ExtTaskLists, ExtStrikethrough, ExtAutolinks,
		ExtWikiLinks, ExtMath, ExtUnderline, ExtHardSoftBreaks,
		ExtCollapseWhitespace, ExtPermissiveATX, ExtNoIndentedCode,
		ExtNoHTML,
	}
}

// Config is the root configuration structure for mdstream.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor"`

	// Extensions lists dialect extensions enabled on top of the flavor.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// XHTML renders void elements in XHTML style (<br />).
	XHTML bool `mapstructure:"xhtml" yaml:"xhtml"`

	// VerbatimEntities copies entity references through undecoded.
	VerbatimEntities bool `mapstructure:"verbatim_entities" yaml:"verbatim_entities"`

	// SkipBOM ignores a leading UTF-8 byte order mark.
	SkipBOM bool `mapstructure:"skip_bom" yaml:"skip_bom"`

	// DetectLanguage canonicalizes code fence languages and detects the
	// language of unlabeled code blocks.
	DetectLanguage bool `mapstructure:"detect_language" yaml:"detect_language"`

	// CLI-level options (not persisted to config files).

	// Output is the output file path; empty means stdout.
	Output string `mapstructure:"-" yaml:"-"`

	// Debug enables parser diagnostics.
	Debug bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:  FlavorCommonMark,
		SkipBOM: true,
	}
}

// DialectFlags resolves the flavor and extension list to parser flags.
func (c *Config) DialectFlags() (md.Flags, error) {
	var flags md.Flags
	switch c.Flavor {
	case FlavorCommonMark, "":
		flags = md.DialectCommonMark
	case FlavorGFM:
		flags = md.DialectGitHub
	default:
		return 0, fmt.Errorf("unknown flavor: %q", c.Flavor)
	}
	for _, ext := range c.Extensions {
		f, ok := extensionFlags[ext]
		if !ok {
			return 0, fmt.Errorf("unknown extension: %q", ext)
		}
		flags |= f
	}
	return flags, nil
}

// RenderFlags resolves the HTML renderer flags.
func (c *Config) RenderFlags() mdhtml.Flags {
	var flags mdhtml.Flags
	if c.XHTML {
		flags |= mdhtml.XHTML
	}
	if c.VerbatimEntities {
		flags |= mdhtml.VerbatimEntities
	}
	if c.SkipBOM {
		flags |= mdhtml.SkipUTF8BOM
	}
	if c.Debug {
		flags |= mdhtml.Debug
	}
	return flags
}
