// Package scan provides the low-level lexical primitives the IDL
// frontend is built on. Every primitive operates on a string slice
// and returns the number of bytes it consumed, so callers advance
// with src = src[n:]. The primitives never allocate intermediate
// state; failures are structural and fatal to the current parse.
package scan

// nameChar reports whether c may appear inside an identifier.
func nameChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == ':'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// NameStart reports whether c may start an identifier.
func NameStart(c byte) bool {
	return isAlpha(c) || c == '_' || c == ':'
}

// SkipSpaces returns the number of leading space and newline bytes.
// Tabs and carriage returns are normalized away by minification
// before anything scans the text.
func SkipSpaces(src string) int {
	i := 0
	for i < len(src) && (src[i] == ' ' || src[i] == '\n') {
		i++
	}
	return i
}

// ReadName reads an identifier. The first non-space byte must be
// alphabetic, '_' or ':'. cap bounds the output length; cap <= 0
// means unbounded.
func ReadName(src string, cap int) (string, int, error) {
	i := SkipSpaces(src)

	if i >= len(src) || !NameStart(src[i]) {
		return "", 0, &Error{Code: InvalidName, Fragment: src[i:]}
	}

	start := i
	for i < len(src) && nameChar(src[i]) {
		if cap > 0 && i-start >= cap {
			return "", 0, &Error{Code: BufferOverflow, Fragment: src[start:i]}
		}
		i++
	}

	return src[start:i], i, nil
}

// ReadDigit reads a numeric literal: either a 0x/0X hex literal or a
// decimal literal with optional fraction, exponent and trailing f/F
// suffix. Each extension is accepted only when the previous byte was
// a digit (or e/E for an exponent sign), which rejects malformed
// extensions.
func ReadDigit(src string, cap int) (string, int, error) {
	i := SkipSpaces(src)
	start := i

	if i+1 < len(src) && src[i] == '0' && (src[i+1] == 'x' || src[i+1] == 'X') {
		i += 2
		for i < len(src) && isHexDigit(src[i]) {
			if cap > 0 && i-start >= cap {
				return "", 0, &Error{Code: BufferOverflow, Fragment: src[start:i]}
			}
			i++
		}
	} else {
		for i < len(src) {
			if cap > 0 && i-start >= cap {
				return "", 0, &Error{Code: BufferOverflow, Fragment: src[start:i]}
			}
			c := src[i]
			switch {
			case isDigit(c):
			case c == '.' && i > start && isDigit(src[i-1]):
			case (c == 'e' || c == 'E') && i > start && isDigit(src[i-1]):
			case (c == '+' || c == '-') && i > start && (src[i-1] == 'e' || src[i-1] == 'E'):
			case (c == 'f' || c == 'F') && i > start && isDigit(src[i-1]):
			default:
				return src[start:i], i, nil
			}
			i++
		}
	}

	return src[start:i], i, nil
}

// ReadToken reads the next token. With an empty symbol set it
// consumes identifier-class bytes; otherwise it consumes only bytes
// in the set. At end of input it returns an empty token and zero
// consumed bytes, which is not an error.
func ReadToken(src string, symbols string, cap int) (string, int, error) {
	i := SkipSpaces(src)
	if i >= len(src) {
		return "", 0, nil
	}

	start := i
	if symbols != "" {
		for i < len(src) && indexByte(symbols, src[i]) {
			if cap > 0 && i-start >= cap {
				return "", 0, &Error{Code: BufferOverflow, Fragment: src[start:i]}
			}
			i++
		}
	} else {
		for i < len(src) && nameChar(src[i]) {
			if cap > 0 && i-start >= cap {
				return "", 0, &Error{Code: BufferOverflow, Fragment: src[start:i]}
			}
			i++
		}
	}

	return src[start:i], i, nil
}

// ReadBlock reads a delimiter-balanced span ending at to. If the
// first byte (after leading spaces) equals from, it is consumed as
// the opening delimiter and not copied. The scan tracks nested
// from/to pairs, independently nested parentheses, and double-quoted
// strings whose content (including escaped quotes) is copied
// verbatim without affecting any count. The closing delimiter is
// consumed but not copied. from may be zero, meaning the span simply
// runs to the first unnested to.
func ReadBlock(src string, from, to byte, cap int) (string, int, error) {
	i := 0
	for i < len(src) && src[i] == ' ' {
		i++
	}

	if i >= len(src) {
		return "", i, nil
	}

	inString := false
	parens := 0
	counter := 0

	if src[i] == from {
		if src[i] == '"' {
			inString = true
		}
		if src[i] == '(' {
			parens++
		}
		counter++
		i++
	}

	var out []byte
	for i < len(src) {
		if cap > 0 && len(out) >= cap {
			return "", 0, &Error{Code: BufferOverflow, Fragment: string(out)}
		}
		c := src[i]
		if !inString {
			if c == '"' {
				inString = true
			} else {
				if c == '(' {
					parens++
				} else if c == ')' {
					parens--
					if parens < 0 {
						return "", 0, &Error{Code: UnbalancedDelimiters, Fragment: src[:i+1]}
					}
				}
				// line continuation
				if c == '\\' && i+1 < len(src) && src[i+1] == '\n' {
					i += 2
					if i >= len(src) {
						break
					}
					c = src[i]
				}
				if from != 0 && to != 0 {
					if c == from {
						counter++
					} else if c == to {
						counter--
						if counter < 0 {
							return "", 0, &Error{Code: UnbalancedDelimiters, Fragment: src[:i+1]}
						}
					}
				}
			}
			if c == to && counter == 0 && parens == 0 {
				i++
				return string(out), i, nil
			}
			out = append(out, c)
			i++
		} else {
			if c == '"' && i > 0 && src[i-1] != '\\' {
				inString = false
				if c == to {
					i++
					return string(out), i, nil
				}
			}
			out = append(out, c)
			i++
		}
	}

	return string(out), i, nil
}

// ExpectSymbol skips spaces and consumes the expected symbol,
// failing when input ends or another byte is found.
func ExpectSymbol(src string, symbol byte) (int, error) {
	i := SkipSpaces(src)
	if i >= len(src) {
		return 0, &Error{Code: UnexpectedEndOfInput, Fragment: "", Expected: symbol}
	}
	if src[i] != symbol {
		return 0, &Error{Code: UnexpectedSymbol, Fragment: src[i:], Expected: symbol, Got: src[i]}
	}
	return i + 1, nil
}

// GetSymbol peeks at the next non-space byte without consuming it.
// With a non-empty symbol set, a byte outside the set (or end of
// input) is an error. Without a set, end of input yields zero.
func GetSymbol(src string, symbols string) (byte, error) {
	i := SkipSpaces(src)
	if i >= len(src) {
		if symbols != "" {
			return 0, &Error{Code: UnexpectedSymbol, Fragment: ""}
		}
		return 0, nil
	}
	c := src[i]
	if symbols != "" && !indexByte(symbols, c) {
		return 0, &Error{Code: UnexpectedSymbol, Fragment: src[i:], Got: c}
	}
	return c, nil
}

func indexByte(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}
