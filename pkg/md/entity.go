package md

import "github.com/yaklabco/mdstream/pkg/entity"

// scanEntity matches a character reference at position i of text, where
// text[i] must be '&'. Named references must exist in the entity table;
// numeric and hex references are validated by grammar alone, so an
// out-of-range codepoint still scans and the consumer decides how to
// render it.
func scanEntity(text []byte, i int) (int, bool) {
	if i >= len(text) || text[i] != '&' {
		return 0, false
	}
	j := i + 1
	if j >= len(text) {
		return 0, false
	}

	if text[j] == '#' {
		j++
		hex := false
		if j < len(text) && (text[j] == 'x' || text[j] == 'X') {
			hex = true
			j++
		}
		digits := 0
		for j < len(text) && digits <= 8 {
			c := text[j]
			if hex && !isHexDigit(c) {
				break
			}
			if !hex && !isASCIIDigit(c) {
				break
			}
			digits++
			j++
		}
		max := 7
		if hex {
			max = 6
		}
		if digits < 1 || digits > max || j >= len(text) || text[j] != ';' {
			return 0, false
		}
		return j + 1, true
	}

	if !isASCIILetter(text[j]) {
		return 0, false
	}
	start := j
	for j < len(text) && (isASCIILetter(text[j]) || isASCIIDigit(text[j])) {
		j++
	}
	if j >= len(text) || text[j] != ';' {
		return 0, false
	}
	if _, ok := entity.Lookup(string(text[start:j])); !ok {
		return 0, false
	}
	return j + 1, true
}

func isHexDigit(c byte) bool {
	return isASCIIDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
