// Package langdetect resolves code block language tags for rendering.
// It canonicalizes fence info-string aliases through go-enry's alias
// table and detects the language of unlabeled code blocks from their
// content, so renderers can emit stable class names like language-go.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Common fence tags.
const (
	langBash = "bash"
	langText = "text"
)

// tagOverrides fixes up enry names whose lowercase form is not the
// conventional highlighter tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tagOverrides = map[string]string{
	"shell":       langBash,
	"py":          "python",
	"c++":         "cpp",
	"c#":          "csharp",
	"objective-c": "objc",
	"dockerfile":  "dockerfile",
}

// classifierCandidates limits content classification to languages that
// commonly appear in fenced code blocks.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Canonical maps a fence language tag or alias to its canonical form:
// "golang" becomes "go", "yml" becomes "yaml", "sh" becomes "bash".
// Unknown tags are returned lowercased so class names stay predictable.
func Canonical(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(tag); ok {
		return fenceTag(lang)
	}
	return fenceTag(tag)
}

// Detect returns the language tag for unlabeled code content.
// Returns "text" when nothing reliable can be determined.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return langText
	}

	// Shebang lines are the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	// The classifier result is only trusted when enry reports it safe.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}

	return langText
}

// detectByPattern checks a few high-signal syntactic markers that the
// statistical classifier tends to miss on short snippets.
func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)

	if bytes.HasPrefix(trimmed, []byte("package ")) &&
		bytes.Contains(content, []byte("func ")) {
		return "go"
	}
	if bytes.HasPrefix(trimmed, []byte("#!/")) {
		return langBash
	}
	if bytes.HasPrefix(trimmed, []byte("FROM ")) &&
		bytes.Contains(content, []byte("RUN ")) {
		return "dockerfile"
	}
	if (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`":`)) {
		return "json"
	}
	lower := bytes.ToLower(trimmed)
	if bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html")) {
		return "html"
	}

	return ""
}

// fenceTag converts an enry language name to a fence tag.
func fenceTag(lang string) string {
	lower := strings.ToLower(lang)
	if tag, ok := tagOverrides[lower]; ok {
		return tag
	}
	return lower
}
