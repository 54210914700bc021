package md

// Autolinks. The angle-bracket forms come from CommonMark; the
// permissive forms recognize bare URLs, email addresses and www.
// domains mid-text when the corresponding dialect flag is on.

// scanAutolink matches an angle-bracket autolink at i (text[i] == '<')
// and returns the position past '>' plus the href to use.
func scanAutolink(text []byte, i int) (int, []byte, bool) {
	if end, ok := scanURIAutolink(text, i); ok {
		return end, text[i+1 : end-1], true
	}
	if end, ok := scanEmailAutolink(text, i); ok {
		addr := text[i+1 : end-1]
		href := make([]byte, 0, len("mailto:")+len(addr))
		href = append(href, "mailto:"...)
		href = append(href, addr...)
		return end, href, true
	}
	return 0, nil, false
}

// scanURIAutolink matches <scheme:...> with a 2 to 32 character scheme
// and no whitespace or '<' in the body.
func scanURIAutolink(text []byte, i int) (int, bool) {
	j := i + 1
	if j >= len(text) || !isASCIILetter(text[j]) {
		return 0, false
	}
	s := j
	for j < len(text) && isSchemeByte(text[j]) {
		j++
	}
	if n := j - s; n < 2 || n > 32 {
		return 0, false
	}
	if j >= len(text) || text[j] != ':' {
		return 0, false
	}
	j++
	for j < len(text) {
		c := text[j]
		switch {
		case c == '>':
			return j + 1, true
		case c == '<' || c == ' ' || c == '\t' || c == '\n' || c < 0x20:
			return 0, false
		}
		j++
	}
	return 0, false
}

func isSchemeByte(c byte) bool {
	return isASCIILetter(c) || isASCIIDigit(c) || c == '+' || c == '-' || c == '.'
}

// scanEmailAutolink matches <local@domain>.
func scanEmailAutolink(text []byte, i int) (int, bool) {
	j := i + 1
	s := j
	for j < len(text) && isEmailLocalByte(text[j]) {
		j++
	}
	if j == s || j >= len(text) || text[j] != '@' {
		return 0, false
	}
	j, ok := scanEmailDomain(text, j+1)
	if !ok || j >= len(text) || text[j] != '>' {
		return 0, false
	}
	return j + 1, true
}

func isEmailLocalByte(c byte) bool {
	if isASCIILetter(c) || isASCIIDigit(c) {
		return true
	}
	switch c {
	case '.', '!', '#', '$', '%', '&', '\'', '*', '+', '/', '=', '?',
		'^', '_', '`', '{', '|', '}', '~', '-':
		return true
	}
	return false
}

// scanEmailDomain matches dot-separated labels of letters, digits and
// hyphens, each beginning and ending alphanumeric.
func scanEmailDomain(text []byte, i int) (int, bool) {
	labels := 0
	j := i
	for {
		if j >= len(text) || !isAlnum(text[j]) {
			return 0, false
		}
		last := j
		for j < len(text) && (isAlnum(text[j]) || text[j] == '-') {
			if isAlnum(text[j]) {
				last = j
			}
			j++
		}
		j = last + 1
		labels++
		// A trailing dot stays outside the domain.
		if j+1 < len(text) && text[j] == '.' && isAlnum(text[j+1]) {
			j++
			continue
		}
		break
	}
	return j, labels > 0
}

func isAlnum(c byte) bool {
	return isASCIILetter(c) || isASCIIDigit(c)
}

// scanPermissiveURL matches a bare URL around the ':' at i. The scheme
// must be http, https or ftp and start at a word boundary.
func scanPermissiveURL(text []byte, i int) (int, int, bool) {
	var start int
	switch {
	case hasSuffixAt(text, i, "https"):
		start = i - 5
	case hasSuffixAt(text, i, "http"):
		start = i - 4
	case hasSuffixAt(text, i, "ftp"):
		start = i - 3
	default:
		return 0, 0, false
	}
	if start > 0 && (isAlnum(text[start-1]) || text[start-1] == '.') {
		return 0, 0, false
	}
	j := i + 1
	if j+2 > len(text) || text[j] != '/' || text[j+1] != '/' {
		return 0, 0, false
	}
	j += 2
	end, ok := scanURLTail(text, j)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// scanPermissiveWWW matches a bare www. domain starting at i.
func scanPermissiveWWW(text []byte, i int) (int, bool) {
	if i > 0 && (isAlnum(text[i-1]) || text[i-1] == '.') {
		return 0, false
	}
	if i+4 > len(text) || string(text[i:i+4]) != "www." && string(text[i:i+4]) != "WWW." {
		return 0, false
	}
	end, ok := scanURLTail(text, i)
	if !ok || end <= i+4 {
		return 0, false
	}
	return end, true
}

// scanURLTail consumes host and path characters from j, then backs off
// trailing punctuation so "visit www.example.com." keeps its period.
func scanURLTail(text []byte, j int) (int, bool) {
	if j >= len(text) || !isAlnum(text[j]) {
		return 0, false
	}
	k := j
	for k < len(text) && isURLByte(text[k]) {
		k++
	}
	for k > j && !isAlnum(text[k-1]) && text[k-1] != '/' {
		k--
	}
	if k == j {
		return 0, false
	}
	return k, true
}

func isURLByte(c byte) bool {
	if isAlnum(c) {
		return true
	}
	switch c {
	case '.', '-', '_', '~', ':', '/', '?', '#', '[', ']', '@', '!',
		'$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', '%':
		return true
	}
	return false
}

// scanPermissiveEmail matches a bare email address around the '@' at i.
func scanPermissiveEmail(text []byte, i int) (int, int, bool) {
	start := i
	for start > 0 && isPermissiveLocalByte(text[start-1]) {
		start--
	}
	if start == i {
		return 0, 0, false
	}
	if start > 0 && text[start-1] == '@' {
		return 0, 0, false
	}
	end, ok := scanEmailDomain(text, i+1)
	if !ok {
		return 0, 0, false
	}
	// Require a dot in the domain with something after it.
	dot := false
	for k := i + 1; k < end-1; k++ {
		if text[k] == '.' {
			dot = true
			break
		}
	}
	if !dot {
		return 0, 0, false
	}
	return start, end, true
}

func isPermissiveLocalByte(c byte) bool {
	return isAlnum(c) || c == '.' || c == '-' || c == '_' || c == '+'
}

func hasSuffixAt(text []byte, i int, s string) bool {
	if i < len(s) {
		return false
	}
	for k := 0; k < len(s); k++ {
		if lowerByte(text[i-len(s)+k]) != s[k] {
			return false
		}
	}
	return true
}
