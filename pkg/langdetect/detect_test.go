package langdetect_test

import (
	"testing"

	"github.com/yaklabco/mdstream/pkg/langdetect"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tag      string
		expected string
	}{
		{
			name:     "empty tag",
			tag:      "",
			expected: "",
		},
		{
			name:     "already canonical",
			tag:      "go",
			expected: "go",
		},
		{
			name:     "golang alias",
			tag:      "golang",
			expected: "go",
		},
		{
			name:     "uppercase name",
			tag:      "Go",
			expected: "go",
		},
		{
			name:     "yml alias",
			tag:      "yml",
			expected: "yaml",
		},
		{
			name:     "js alias",
			tag:      "js",
			expected: "javascript",
		},
		{
			name:     "py alias",
			tag:      "py",
			expected: "python",
		},
		{
			name:     "sh maps to bash",
			tag:      "sh",
			expected: "bash",
		},
		{
			name:     "cplusplus tag",
			tag:      "c++",
			expected: "cpp",
		},
		{
			name:     "ts alias",
			tag:      "ts",
			expected: "typescript",
		},
		{
			name:     "surrounding whitespace",
			tag:      "  ruby  ",
			expected: "ruby",
		},
		{
			name:     "unknown tag passes through lowercased",
			tag:      "FooScript",
			expected: "fooscript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := langdetect.Canonical(tt.tag)

			if result != tt.expected {
				t.Errorf("Canonical(%q) = %q, want %q", tt.tag, result, tt.expected)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang sh",
			content:  "#!/bin/sh\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang python",
			content:  "#!/usr/bin/env python3\nprint('hello')",
			expected: "python",
		},
		{
			name:     "go source",
			content:  "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}",
			expected: "go",
		},
		{
			name:     "json object",
			content:  `{"key": "value", "number": 123}`,
			expected: "json",
		},
		{
			name:     "html document",
			content:  "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>",
			expected: "html",
		},
		{
			name:     "dockerfile",
			content:  "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build",
			expected: "dockerfile",
		},
		{
			name:     "empty content fallback",
			content:  "",
			expected: "text",
		},
		{
			name:     "whitespace only fallback",
			content:  "   \n\t\n",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := langdetect.Detect([]byte(tt.content))

			if result != tt.expected {
				t.Errorf("Detect() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Content looks like Python but has a bash shebang.
	content := []byte("#!/bin/bash\ndef foo():\n    pass")
	result := langdetect.Detect(content)

	if result != "bash" {
		t.Errorf("Detect() = %q, want %q (shebang should take precedence)", result, "bash")
	}
}
