package parser

import (
	"github.com/idlforge/idlforge/pkg/cpp"
	"github.com/idlforge/idlforge/pkg/diag"
	"github.com/idlforge/idlforge/pkg/model"
)

// ParseFile preprocesses and parses an IDL file. The returned model
// holds everything parsed up to a fatal error, so callers get a
// partial result even when err is non-nil. Recoverable problems are
// accumulated on rep.
func ParseFile(filename string, opts cpp.Options, rep *diag.Reporter) (*model.Model, error) {
	pp := cpp.NewPreprocessor(opts, rep)
	text, err := pp.PreprocessFile(filename)
	if err != nil {
		return model.New(), err
	}

	p := New(rep)
	p.SetMacros(pp.Macros())
	err = p.Parse(text)
	return p.Model(), err
}

// ParseString is ParseFile over in-memory source, with filename used
// only for diagnostics and __FILE__.
func ParseString(source, filename string, opts cpp.Options, rep *diag.Reporter) (*model.Model, error) {
	pp := cpp.NewPreprocessor(opts, rep)
	text, err := pp.PreprocessString(source, filename)
	if err != nil {
		return model.New(), err
	}

	p := New(rep)
	p.SetMacros(pp.Macros())
	err = p.Parse(text)
	return p.Model(), err
}
