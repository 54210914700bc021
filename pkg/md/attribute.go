package md

// Attribute is a string value flowing outside the main text channel (link
// destinations and titles, image alt/src, code fence info strings). The
// value decomposes into typed substrings so a renderer can apply the right
// escaping rule to each: ordinary text, syntactically valid entities, and
// NUL replacements.
type Attribute struct {
	// Text is the complete attribute value with backslash escapes
	// resolved.
	Text []byte

	// PartKinds classifies each substring. Valid kinds are TextNormal,
	// TextEntity and TextNullChar.
	PartKinds []TextType

	// PartOffsets has len(PartKinds)+1 monotonically increasing entries;
	// PartOffsets[0] == 0 and PartOffsets[len(PartKinds)] == len(Text).
	// Part i spans Text[PartOffsets[i]:PartOffsets[i+1]].
	PartOffsets []int
}

// AttributePart is one typed substring of an Attribute.
type AttributePart struct {
	Kind TextType
	Text []byte
}

// Empty reports whether the attribute has no text.
func (a Attribute) Empty() bool {
	return len(a.Text) == 0
}

// Size returns the total length of the attribute in bytes.
func (a Attribute) Size() int {
	return len(a.Text)
}

// Parts returns the attribute's typed substrings in order.
func (a Attribute) Parts() []AttributePart {
	parts := make([]AttributePart, 0, len(a.PartKinds))
	for i, kind := range a.PartKinds {
		parts = append(parts, AttributePart{
			Kind: kind,
			Text: a.Text[a.PartOffsets[i]:a.PartOffsets[i+1]],
		})
	}
	return parts
}

// String returns the raw text of the attribute.
func (a Attribute) String() string {
	return string(a.Text)
}

// makeAttribute builds an Attribute from resolved text, classifying
// entity and NUL substrings. The text must already have backslash escapes
// removed.
func makeAttribute(text []byte) Attribute {
	a := Attribute{Text: text}
	if len(text) == 0 {
		a.PartKinds = []TextType{}
		a.PartOffsets = []int{0}
		return a
	}

	flush := func(from, to int, kind TextType) {
		if to <= from && kind == TextNormal {
			return
		}
		a.PartKinds = append(a.PartKinds, kind)
		a.PartOffsets = append(a.PartOffsets, to)
	}

	a.PartOffsets = append(a.PartOffsets, 0)
	runStart := 0
	for i := 0; i < len(text); {
		switch text[i] {
		case '&':
			if end, ok := scanEntity(text, i); ok {
				flush(runStart, i, TextNormal)
				flush(i, end, TextEntity)
				i = end
				runStart = end
				continue
			}
			i++
		case 0:
			flush(runStart, i, TextNormal)
			flush(i, i+1, TextNullChar)
			i++
			runStart = i
		default:
			i++
		}
	}
	flush(runStart, len(text), TextNormal)

	if len(a.PartKinds) == 0 {
		a.PartKinds = []TextType{TextNormal}
		a.PartOffsets = append(a.PartOffsets, len(text))
	}
	return a
}
