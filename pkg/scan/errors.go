package scan

import "fmt"

// ErrorCode identifies the structural failure a primitive hit.
type ErrorCode int

const (
	InvalidName ErrorCode = iota
	BufferOverflow
	UnbalancedDelimiters
	UnexpectedEndOfInput
	UnexpectedSymbol
)

func (c ErrorCode) String() string {
	switch c {
	case InvalidName:
		return "invalid name"
	case BufferOverflow:
		return "buffer overflow"
	case UnbalancedDelimiters:
		return "unbalanced delimiters"
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	case UnexpectedSymbol:
		return "unexpected symbol"
	}
	return "scan error"
}

// Error is a fatal scanner-level failure. Fragment carries the
// offending text, truncated for display.
type Error struct {
	Code     ErrorCode
	Fragment string
	Expected byte
	Got      byte
}

func (e *Error) Error() string {
	frag := e.Fragment
	if len(frag) > 40 {
		frag = frag[:40] + "..."
	}
	switch e.Code {
	case UnexpectedSymbol:
		if e.Expected != 0 {
			return fmt.Sprintf("%s: got %q, expecting %q", e.Code, e.Got, e.Expected)
		}
		return fmt.Sprintf("%s: got %q near %q", e.Code, e.Got, frag)
	case UnexpectedEndOfInput:
		if e.Expected != 0 {
			return fmt.Sprintf("%s: expecting %q", e.Code, e.Expected)
		}
		return e.Code.String()
	default:
		return fmt.Sprintf("%s near %q", e.Code, frag)
	}
}

// CodeOf returns the code of a scan error, or -1 when err is not one.
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*Error); ok {
		return se.Code
	}
	return -1
}
