package cpp

// Minify strips // and /* */ comments, drops carriage returns,
// turns tabs into spaces, and collapses runs of spaces and of blank
// lines. Double-quoted string literals pass through untouched.
// Minify is idempotent: minified text minifies to itself.
func Minify(src string) string {
	out := make([]byte, 0, len(src))

	// emit writes one byte, collapsing space and newline runs.
	emit := func(c byte) {
		if len(out) > 0 && (c == ' ' || c == '\n') && out[len(out)-1] == c {
			return
		}
		out = append(out, c)
	}

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				i++
			}
			if i < len(src) {
				i += 2
			}
		case c == '"':
			out = append(out, c)
			i++
			for i < len(src) && !(src[i] == '"' && src[i-1] != '\\') {
				out = append(out, src[i])
				i++
			}
			if i < len(src) {
				out = append(out, src[i])
				i++
			}
		case c == '\r':
			i++
		case c == '\t':
			emit(' ')
			i++
		default:
			emit(c)
			i++
		}
	}

	return string(out)
}
