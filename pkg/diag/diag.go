// Package diag collects the recoverable diagnostics emitted while
// preprocessing, resolving and parsing. Fatal conditions travel as
// error values instead; everything here is log-and-continue.
package diag

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("idlforge.diag")

// Severity of a diagnostic.
type Severity int

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	if s == SevWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one structured message. Line is zero when the
// location is not known.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	}
	if d.File != "" {
		return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Reporter accumulates diagnostics and mirrors them to the logger.
// The zero value is not usable; call NewReporter.
type Reporter struct {
	file  string
	diags []Diagnostic
}

// NewReporter creates a reporter attached to one source file.
func NewReporter(file string) *Reporter {
	return &Reporter{file: file}
}

// SetFile changes the file attributed to subsequent diagnostics
// (used when includes switch the current file).
func (r *Reporter) SetFile(file string) {
	r.file = file
}

// File returns the currently attributed file.
func (r *Reporter) File() string {
	return r.file
}

// Errorf records a recoverable error.
func (r *Reporter) Errorf(line int, format string, args ...any) {
	d := Diagnostic{Severity: SevError, File: r.file, Line: line, Message: fmt.Sprintf(format, args...)}
	r.diags = append(r.diags, d)
	log.Error(d.String())
}

// Warningf records a warning.
func (r *Reporter) Warningf(line int, format string, args ...any) {
	d := Diagnostic{Severity: SevWarning, File: r.file, Line: line, Message: fmt.Sprintf(format, args...)}
	r.diags = append(r.diags, d)
	log.Warning(d.String())
}

// Diagnostics returns everything recorded so far, in order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// ErrorCount returns the number of error-severity diagnostics.
func (r *Reporter) ErrorCount() int {
	n := 0
	for _, d := range r.diags {
		if d.Severity == SevError {
			n++
		}
	}
	return n
}
