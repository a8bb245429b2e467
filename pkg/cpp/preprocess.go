// preprocess.go implements the main preprocessor driver: directive
// processing, conditional gating and macro substitution over
// minified source, with recursive include expansion.
package cpp

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/tliron/commonlog"

	"github.com/idlforge/idlforge/pkg/diag"
	"github.com/idlforge/idlforge/pkg/scan"
)

var log = commonlog.GetLogger("idlforge.cpp")

// substDelims is the set of bytes that terminate a bare word and
// trigger macro substitution when written to the output.
const substDelims = " \n,.=:;()[]{}<>+-*/%!&|^\"'"

// Options configures the preprocessing step.
type Options struct {
	IncludePaths []string          // -I directories
	Defines      map[string]string // -D macros (empty value for simple define)
	Undefines    []string          // -U macros
}

// Preprocessor drives preprocessing. Macros defined in included
// files persist into the including file, so one instance carries one
// translation unit.
type Preprocessor struct {
	macros   *MacroTable
	resolver *IncludeResolver
	rep      *diag.Reporter
}

// NewPreprocessor creates a preprocessor with the command-line
// defines applied.
func NewPreprocessor(opts Options, rep *diag.Reporter) *Preprocessor {
	macros := NewMacroTable()

	names := make([]string, 0, len(opts.Defines))
	for name := range opts.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		macros.Define(name, opts.Defines[name])
	}
	for _, name := range opts.Undefines {
		macros.Undefine(name)
	}

	resolver := NewIncludeResolver()
	for _, p := range opts.IncludePaths {
		resolver.AddUserPath(p)
	}

	return &Preprocessor{macros: macros, resolver: resolver, rep: rep}
}

// Macros returns the macro table; the declaration parser consults it
// to recognize macro-invocation statements.
func (p *Preprocessor) Macros() *MacroTable {
	return p.macros
}

// PreprocessFile loads, minifies and preprocesses a file, returning
// the expanded text.
func (p *Preprocessor) PreprocessFile(filename string) (string, error) {
	return p.processFile(filename)
}

// PreprocessString preprocesses in-memory source, with filename used
// for __FILE__, diagnostics and relative include resolution.
func (p *Preprocessor) PreprocessString(source, filename string) (string, error) {
	p.resolver.SetCurrentFile(filename)
	return p.process(source, filename)
}

func (p *Preprocessor) processFile(path string) (string, error) {
	if p.resolver.Depth() >= MaxIncludeDepth {
		return "", fmt.Errorf("%s: #include nested too deeply", path)
	}
	if err := p.resolver.PushFile(path); err != nil {
		return "", err
	}
	defer p.resolver.PopFile()

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	savedDir := p.resolver.CurrentDir
	savedFile := p.rep.File()
	p.resolver.SetCurrentFile(path)
	p.rep.SetFile(path)

	result, perr := p.process(string(content), path)

	p.resolver.CurrentDir = savedDir
	p.rep.SetFile(savedFile)

	return result, perr
}

// process runs the two preprocessing phases over one buffer:
// minification, then a single left-to-right scan handling
// directives, conditional gating and macro substitution.
func (p *Preprocessor) process(data, name string) (string, error) {
	data = Minify(data)

	var out []byte
	var conds []bool // conditional-compilation stack
	line := 0        // zero-based, as __LINE__ reports it

	allActive := func() bool {
		for _, c := range conds {
			if !c {
				return false
			}
		}
		return true
	}

	i := 0
	for i < len(data) {
		c := data[i]
		if c == '\n' {
			line++
		}

		if c == '#' {
			i++
			tok, n, err := scan.ReadToken(data[i:], "", 0)
			if err != nil {
				return string(out), fmt.Errorf("%s:%d: %w", name, line, err)
			}
			i += n

			switch tok {
			case "ifdef", "ifndef":
				mname, n, err := scan.ReadName(data[i:], 0)
				if err != nil {
					return string(out), fmt.Errorf("%s:%d: #%s: %w", name, line, tok, err)
				}
				i += n
				defined := p.macros.IsDefined(mname)
				if tok == "ifndef" {
					defined = !defined
				}
				conds = append(conds, defined)

			case "else":
				if len(conds) == 0 {
					return string(out), &UnbalancedConditionalError{File: name, Line: line, Directive: "else"}
				}
				conds[len(conds)-1] = !conds[len(conds)-1]

			case "endif":
				if len(conds) == 0 {
					return string(out), &UnbalancedConditionalError{File: name, Line: line, Directive: "endif"}
				}
				conds = conds[:len(conds)-1]

			case "if", "elif":
				// expression evaluation is out of scope: warn and
				// treat the branch as always satisfied
				p.rep.Warningf(line, "directive '#%s' is not supported, skipping", tok)
				for i < len(data) && data[i] != '\n' {
					i++
				}

			case "define":
				mname, n, err := scan.ReadName(data[i:], 0)
				if err != nil {
					return string(out), fmt.Errorf("%s:%d: #define: %w", name, line, err)
				}
				i += n
				value := ""
				if i < len(data) && data[i] == '\n' {
					i++
				} else {
					value, n, err = scan.ReadBlock(data[i:], 0, '\n', 0)
					if err != nil {
						return string(out), fmt.Errorf("%s:%d: #define %s: %w", name, line, mname, err)
					}
					i += n
				}
				if allActive() {
					p.macros.Define(mname, value)
				}

			case "undef":
				mname, n, err := scan.ReadName(data[i:], 0)
				if err != nil {
					return string(out), fmt.Errorf("%s:%d: #undef: %w", name, line, err)
				}
				i += n
				if allActive() {
					p.macros.Undefine(mname)
				}

			case "pragma":
				pname, n, err := scan.ReadName(data[i:], 0)
				if err != nil {
					return string(out), fmt.Errorf("%s:%d: #pragma: %w", name, line, err)
				}
				i += n
				value, n, _ := scan.ReadBlock(data[i:], 0, '\n', 0)
				i += n
				// recognized, not interpreted (keylist included)
				log.Debugf("pragma %s %s ignored", pname, value)

			case "include":
				sym, err := scan.GetSymbol(data[i:], "\"<")
				if err != nil {
					return string(out), fmt.Errorf("%s:%d: #include: %w", name, line, err)
				}
				var incName string
				var n int
				if sym == '"' {
					incName, n, err = scan.ReadBlock(data[i:], '"', '"', 0)
				} else {
					incName, n, err = scan.ReadBlock(data[i:], '<', '>', 0)
				}
				if err != nil {
					return string(out), fmt.Errorf("%s:%d: #include: %w", name, line, err)
				}
				i += n
				if allActive() {
					path, err := p.resolver.Resolve(incName)
					if err != nil {
						return string(out), fmt.Errorf("%s:%d: %w", name, line, err)
					}
					expanded, err := p.processFile(path)
					if err != nil {
						return string(out), err
					}
					out = append(out, expanded...)
				}

			default:
				return string(out), fmt.Errorf("%s:%d: unknown preprocessor token %q", name, line, "#"+tok)
			}
			continue
		}

		// synthetic macros track the scan position
		p.macros.Define("__FILE__", strconv.Quote(name+":"+strconv.Itoa(line)))
		p.macros.Define("__LINE__", strconv.Itoa(line))

		if !allActive() {
			i++
			continue
		}

		// character literals pass through whole
		if c == '\'' && i+3 < len(data) && data[i+1] == '\\' && data[i+3] == '\'' {
			out = append(out, data[i:i+4]...)
			i += 4
			continue
		}
		if c == '\'' && i+2 < len(data) && data[i+2] == '\'' {
			out = append(out, data[i:i+3]...)
			i += 3
			continue
		}

		isString := c == '"'
		out = append(out, c)
		i++

		if isSubstDelim(c) && len(out) > 1 {
			out = p.substitute(out)
		}

		// string literals are copied verbatim, no substitution inside
		if isString {
			for i < len(data) && !(data[i] == '"' && data[i-1] != '\\') {
				out = append(out, data[i])
				i++
			}
			if i < len(data) {
				out = append(out, data[i])
				i++
			}
		}
	}

	if len(conds) != 0 {
		return string(out), &UnterminatedConditionalError{File: name, Depth: len(conds)}
	}

	return string(out), nil
}

// substitute checks the bare word immediately before the delimiter
// just written to out and splices the macro value over it on an
// exact match. An empty or "0" value deletes the word instead. The
// spliced value is not rescanned.
func (p *Preprocessor) substitute(out []byte) []byte {
	d := len(out) - 1 // delimiter position
	t := d - 1
	for t >= 0 && !isSubstDelim(out[t]) {
		t--
	}
	t++
	if t >= d {
		return out
	}

	value, ok := p.macros.Value(string(out[t:d]))
	if !ok {
		return out
	}

	repl := make([]byte, 0, t+len(value)+1)
	repl = append(repl, out[:t]...)
	if value != "" && value != "0" {
		repl = append(repl, value...)
	}
	repl = append(repl, out[d])
	return repl
}

func isSubstDelim(c byte) bool {
	for i := 0; i < len(substDelims); i++ {
		if substDelims[i] == c {
			return true
		}
	}
	return false
}

// UnbalancedConditionalError reports #else/#endif with no matching
// #ifdef or #ifndef.
type UnbalancedConditionalError struct {
	File      string
	Line      int
	Directive string
}

func (e *UnbalancedConditionalError) Error() string {
	return fmt.Sprintf("%s:%d: #%s without matching #ifdef or #ifndef", e.File, e.Line, e.Directive)
}

// UnterminatedConditionalError reports a conditional block still
// open at end of input.
type UnterminatedConditionalError struct {
	File  string
	Depth int
}

func (e *UnterminatedConditionalError) Error() string {
	return fmt.Sprintf("%s: unterminated conditional directive, %d level(s) unclosed", e.File, e.Depth)
}
