package md_test

import (
	"testing"

	"github.com/yaklabco/mdstream/pkg/md"
)

// balanceVisitor checks stack discipline without recording content.
type balanceVisitor struct {
	blocks []md.BlockType
	spans  []md.SpanType
	bad    bool
}

func (v *balanceVisitor) EnterBlock(t md.BlockType, _ md.BlockDetail) error {
	v.blocks = append(v.blocks, t)
	return nil
}

func (v *balanceVisitor) LeaveBlock(t md.BlockType, _ md.BlockDetail) error {
	if len(v.blocks) == 0 || v.blocks[len(v.blocks)-1] != t {
		v.bad = true
		return nil
	}
	v.blocks = v.blocks[:len(v.blocks)-1]
	return nil
}

func (v *balanceVisitor) EnterSpan(t md.SpanType, _ md.SpanDetail) error {
	v.spans = append(v.spans, t)
	return nil
}

func (v *balanceVisitor) LeaveSpan(t md.SpanType, _ md.SpanDetail) error {
	if len(v.spans) == 0 || v.spans[len(v.spans)-1] != t {
		v.bad = true
		return nil
	}
	v.spans = v.spans[:len(v.spans)-1]
	return nil
}

func (v *balanceVisitor) Text(md.TextType, []byte) error { return nil }

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"# Heading\n",
		"para *em* **strong** `code`\n",
		"> quote\n\n- list\n- items\n",
		"```\ncode\n```\n",
		"[link](/url \"title\")\n![img](/x.png)\n",
		"| a | b |\n| - | - |\n| 1 | 2 |\n",
		"~~del~~ www.example.com user@example.com\n",
		"[[wiki|label]] $math$ _under_\n",
		"[ref]: /dest\n[ref]\n",
		"a\x00b &amp; &#x41; \\*lit\\*\n",
		"<div>\n<span>x</span>\n</div>\n",
	}
	for _, s := range seeds {
		f.Add([]byte(s), uint32(0))
		f.Add([]byte(s), uint32(md.DialectGitHub))
	}

	f.Fuzz(func(t *testing.T, src []byte, flagBits uint32) {
		v := &balanceVisitor{}
		if err := md.Parse(src, md.Flags(flagBits), v); err != nil {
			t.Fatalf("Parse() error = %v with no aborting visitor", err)
		}
		if v.bad {
			t.Fatal("event stream violated stack discipline")
		}
		if len(v.blocks) != 0 || len(v.spans) != 0 {
			t.Fatalf("unclosed events: blocks %v, spans %v", v.blocks, v.spans)
		}
	})
}
