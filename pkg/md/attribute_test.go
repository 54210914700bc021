package md_test

import (
	"testing"

	"github.com/yaklabco/mdstream/pkg/md"
)

// checkAttribute verifies the structural invariants every attribute
// carries: offsets start at zero, end at len(Text), increase
// monotonically, and each part kind is one of the three valid kinds.
func checkAttribute(t *testing.T, a md.Attribute) {
	t.Helper()

	if len(a.PartOffsets) != len(a.PartKinds)+1 {
		t.Fatalf("PartOffsets length %d, want %d", len(a.PartOffsets), len(a.PartKinds)+1)
	}
	if a.PartOffsets[0] != 0 {
		t.Errorf("PartOffsets[0] = %d, want 0", a.PartOffsets[0])
	}
	if last := a.PartOffsets[len(a.PartOffsets)-1]; last != len(a.Text) {
		t.Errorf("final offset = %d, want %d", last, len(a.Text))
	}
	for i := 1; i < len(a.PartOffsets); i++ {
		if a.PartOffsets[i] < a.PartOffsets[i-1] {
			t.Errorf("offsets not monotonic at %d: %v", i, a.PartOffsets)
		}
	}
	for _, kind := range a.PartKinds {
		switch kind {
		case md.TextNormal, md.TextEntity, md.TextNullChar:
		default:
			t.Errorf("invalid part kind %d", kind)
		}
	}
}

// linkHrefs parses src and returns the href attribute of every link.
func linkHrefs(t *testing.T, src string, flags md.Flags) []md.Attribute {
	t.Helper()
	rec := parseDoc(t, src, flags)
	attrs := make([]md.Attribute, 0, len(rec.links))
	for _, l := range rec.links {
		attrs = append(attrs, l.Href)
	}
	return attrs
}

func TestAttribute_PlainDestination(t *testing.T) {
	t.Parallel()

	attrs := linkHrefs(t, "[x](/plain/path)\n", md.DialectCommonMark)
	if len(attrs) != 1 {
		t.Fatalf("attrs = %v, want one", attrs)
	}
	a := attrs[0]
	checkAttribute(t, a)

	parts := a.Parts()
	if len(parts) != 1 {
		t.Fatalf("parts = %v, want one", parts)
	}
	if parts[0].Kind != md.TextNormal || string(parts[0].Text) != "/plain/path" {
		t.Errorf("part = %+v, want normal %q", parts[0], "/plain/path")
	}
}

func TestAttribute_EntityParts(t *testing.T) {
	t.Parallel()

	attrs := linkHrefs(t, "[x](/a&amp;b)\n", md.DialectCommonMark)
	if len(attrs) != 1 {
		t.Fatalf("attrs = %v, want one", attrs)
	}
	a := attrs[0]
	checkAttribute(t, a)

	parts := a.Parts()
	if len(parts) != 3 {
		t.Fatalf("parts = %v, want three", parts)
	}
	wantKinds := []md.TextType{md.TextNormal, md.TextEntity, md.TextNormal}
	wantText := []string{"/a", "&amp;", "b"}
	for i, p := range parts {
		if p.Kind != wantKinds[i] {
			t.Errorf("part %d kind = %d, want %d", i, p.Kind, wantKinds[i])
		}
		if string(p.Text) != wantText[i] {
			t.Errorf("part %d text = %q, want %q", i, p.Text, wantText[i])
		}
	}
}

func TestAttribute_BackslashEscapesResolved(t *testing.T) {
	t.Parallel()

	attrs := linkHrefs(t, `[x](/a\(b\))`+"\n", md.DialectCommonMark)
	if len(attrs) != 1 {
		t.Fatalf("attrs = %v, want one", attrs)
	}
	a := attrs[0]
	checkAttribute(t, a)
	if got := a.String(); got != "/a(b)" {
		t.Errorf("Href = %q, want %q", got, "/a(b)")
	}
}

func TestAttribute_Empty(t *testing.T) {
	t.Parallel()

	attrs := linkHrefs(t, "[x]()\n", md.DialectCommonMark)
	if len(attrs) != 1 {
		t.Fatalf("attrs = %v, want one", attrs)
	}
	a := attrs[0]
	checkAttribute(t, a)
	if !a.Empty() {
		t.Errorf("Empty() = false for %q", a.String())
	}
	if a.Size() != 0 {
		t.Errorf("Size() = %d, want 0", a.Size())
	}
	if len(a.Parts()) != 0 {
		t.Errorf("Parts() = %v, want none", a.Parts())
	}
}

func TestAttribute_CodeInfo(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "```c&amp;v info\nx\n```\n", md.DialectCommonMark)
	if len(rec.code) != 1 {
		t.Fatalf("code blocks = %v, want one", rec.code)
	}
	checkAttribute(t, rec.code[0].Info)
	checkAttribute(t, rec.code[0].Lang)
	if got := rec.code[0].Lang.String(); got != "c&amp;v" {
		t.Errorf("Lang = %q, want %q", got, "c&amp;v")
	}
}
