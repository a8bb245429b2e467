// Package parser implements a recursive descent parser for the IDL
// declaration subset: module scopes, structs with @key fields,
// typedefs (including bounded and unbounded sequences), and plain
// variable declarations. It walks preprocessed text and populates a
// model.Model.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/idlforge/idlforge/pkg/cpp"
	"github.com/idlforge/idlforge/pkg/diag"
	"github.com/idlforge/idlforge/pkg/model"
	"github.com/idlforge/idlforge/pkg/scan"
	"github.com/idlforge/idlforge/pkg/symtab"
)

var log = commonlog.GetLogger("idlforge.parser")

// ErrUnterminatedScope is the fatal condition for a '{' whose
// matching '}' never arrives before end of input.
var ErrUnterminatedScope = errors.New("unterminated scope: '{' with no matching '}'")

// Parser owns the tables being populated. One instance parses one
// translation unit; it is not safe for concurrent use.
type Parser struct {
	model   *model.Model
	syms    *symtab.Table
	rep     *diag.Reporter
	macros  *cpp.MacroTable
	nsStack []string
}

// New creates a parser with empty tables.
func New(rep *diag.Reporter) *Parser {
	m := model.New()
	return &Parser{
		model:  m,
		syms:   symtab.New(m, rep),
		rep:    rep,
		macros: cpp.NewMacroTable(),
	}
}

// SetMacros hands the parser the preprocessor's macro table so that
// macro-invocation statements surviving in the text are recognized
// and recorded instead of reported as unknown tokens.
func (p *Parser) SetMacros(mt *cpp.MacroTable) {
	if mt != nil {
		p.macros = mt
	}
}

// Model returns the populated model.
func (p *Parser) Model() *model.Model {
	return p.model
}

// Symbols returns the resolver over this parser's tables.
func (p *Parser) Symbols() *symtab.Table {
	return p.syms
}

// Reset clears all tables for reuse.
func (p *Parser) Reset() {
	p.model.Reset()
	p.nsStack = nil
}

// Parse walks preprocessed source text and populates the model.
// Scanner-level structural failures and unterminated scopes are
// fatal; semantic problems are reported and skipped, leaving a
// best-effort partial model.
func (p *Parser) Parse(src string) error {
	_, err := p.parseScope(src, 0)
	return err
}

// namespace is the ::-joined name of the active module stack.
func (p *Parser) namespace() string {
	return strings.Join(p.nsStack, "::")
}

// parseScope consumes declarations until end of input (top level) or
// the closing '}' of the current nesting level, returning the number
// of bytes consumed.
func (p *Parser) parseScope(src string, depth int) (int, error) {
	consumed := 0
	advance := func(n int) {
		src = src[n:]
		consumed += n
	}

	for {
		advance(scan.SkipSpaces(src))
		if len(src) == 0 {
			if depth > 0 {
				return consumed, ErrUnterminatedScope
			}
			return consumed, nil
		}

		switch src[0] {
		case ';':
			advance(1)
			continue
		case '{':
			advance(1)
			n, err := p.parseScope(src, depth+1)
			advance(n)
			if err != nil {
				return consumed, err
			}
			continue
		case '}':
			advance(1)
			return consumed, nil
		}

		if !scan.NameStart(src[0]) {
			p.rep.Errorf(0, "unknown symbol %q", src[0])
			advance(1)
			continue
		}

		tok, n, err := scan.ReadToken(src, "", 0)
		if err != nil {
			return consumed, err
		}
		advance(n)
		if tok == "" {
			return consumed, nil
		}

		fromNS, local := symtab.SplitQualified(tok)
		switch id := p.syms.ClassifyName(local).(type) {
		case model.Builtin, model.UserTypedef, model.UserStruct:
			// start of a variable declaration: the remainder of the
			// statement is the declared name
			body, n, err := scan.ReadBlock(src, 0, ';', 0)
			if err != nil {
				return consumed, err
			}
			advance(n)
			p.parseVariable(symtab.Hash(local), "", strings.TrimSpace(body), fromNS, false)

		case model.Keyword:
			n, err := p.parseKeyword(id.Kind, src, depth)
			advance(n)
			if err != nil {
				return consumed, err
			}

		default:
			if p.macros.IsDefined(tok) {
				// macro-invocation statement, recorded verbatim
				body, n, err := scan.ReadBlock(src, 0, ')', 0)
				if err != nil {
					return consumed, err
				}
				advance(n)
				p.model.UserLines = append(p.model.UserLines, tok+body+");")
			} else {
				p.rep.Errorf(0, "unknown token %q", tok)
			}
		}
	}
}

// parseKeyword handles a struct, module or typedef declaration whose
// keyword has just been consumed.
func (p *Parser) parseKeyword(kind model.KeywordKind, src string, depth int) (int, error) {
	consumed := 0
	advance := func(n int) {
		src = src[n:]
		consumed += n
	}

	switch kind {
	case model.KindTypedef:
		body, n, err := scan.ReadBlock(src, 0, ';', 0)
		if err != nil {
			return consumed, err
		}
		advance(n)
		p.parseTypedef(strings.TrimSpace(body))

	case model.KindStruct:
		name, n, err := scan.ReadName(src, 0)
		if err != nil {
			return consumed, fmt.Errorf("struct: %w", err)
		}
		advance(n)
		n, err = scan.ExpectSymbol(src, '{')
		if err != nil {
			return consumed, fmt.Errorf("struct %s: %w", name, err)
		}
		advance(n)
		body, n, err := scan.ReadBlock(src, 0, '}', 0)
		if err != nil {
			return consumed, fmt.Errorf("struct %s: %w", name, err)
		}
		if n == 0 || src[n-1] != '}' {
			return consumed, fmt.Errorf("struct %s: %w", name, ErrUnterminatedScope)
		}
		advance(n)
		p.parseStruct(name, body)
		if len(src) > 0 && src[0] == ';' {
			advance(1)
		}

	case model.KindModule:
		name, n, err := scan.ReadName(src, 0)
		if err != nil {
			return consumed, fmt.Errorf("module: %w", err)
		}
		advance(n)
		p.model.Modules = append(p.model.Modules, model.Module{
			Hash: symtab.Hash(name),
			Name: name,
		})
		n, err = scan.ExpectSymbol(src, '{')
		if err != nil {
			return consumed, fmt.Errorf("module %s: %w", name, err)
		}
		advance(n)
		p.nsStack = append(p.nsStack, name)
		n, err = p.parseScope(src, depth+1)
		advance(n)
		p.nsStack = p.nsStack[:len(p.nsStack)-1]
		if err != nil {
			return consumed, err
		}
	}

	return consumed, nil
}

// parseStruct walks the ;-delimited field statements of a struct
// body. A 2-token statement is "type name"; a 3-token statement
// starting with @key marks a key field. The type token may carry a
// ::ns:: qualifier, stripped and recorded as the field's origin
// namespace. Fields are appended in declaration order.
func (p *Parser) parseStruct(name, body string) {
	st := model.Struct{
		Hash:      symtab.Hash(name),
		Kind:      model.Keyword{Kind: model.KindStruct},
		Name:      name,
		Namespace: p.namespace(),
	}

	log.Debugf("storing struct %q", name)

	src := body[scan.SkipSpaces(body):]
	for len(src) > 0 {
		stmt, n, err := scan.ReadBlock(src, 0, ';', 0)
		if err != nil {
			p.rep.Errorf(0, "struct %s: %v", name, err)
			break
		}
		if n == 0 {
			break
		}
		src = src[n:]
		src = src[scan.SkipSpaces(src):]

		toks := strings.Fields(stmt)
		if len(toks) < 2 {
			if len(toks) == 1 {
				p.rep.Errorf(0, "struct %s: malformed field %q", name, strings.TrimSpace(stmt))
			}
			continue
		}

		isKey := false
		typeTok, varName := toks[0], toks[1]
		if len(toks) >= 3 {
			if toks[0] != "@key" {
				p.rep.Errorf(0, "struct %s: unknown field form %q", name, strings.TrimSpace(stmt))
				continue
			}
			isKey = true
			typeTok, varName = toks[1], toks[2]
		}

		fromNS, local := symtab.SplitQualified(typeTok)
		v := p.parseVariable(symtab.Hash(local), name, varName, fromNS, isKey)
		st.Fields = append(st.Fields, v)
	}

	p.model.Structs = append(p.model.Structs, st)
}

// parseTypedef handles the body of a typedef (keyword and trailing
// ';' already stripped). Two forms: "BaseType NewName" and
// "sequence<Elem[,N]> NewName". Anything else is reported and
// dropped.
func (p *Parser) parseTypedef(body string) {
	// keep a bounded sequence's arguments as one token
	input := strings.ReplaceAll(body, ", ", ",")
	toks := strings.Fields(input)
	if len(toks) < 2 {
		p.rep.Errorf(0, "malformed typedef %q", body)
		return
	}

	if id := p.syms.ClassifyName(toks[0]); symtab.IsType(id) {
		newName := toks[1]
		td := model.Typedef{
			Hash:      symtab.Hash(newName),
			Kind:      id,
			Name:      newName,
			BaseName:  p.syms.TypeName(id),
			Namespace: p.namespace(),
			SeqBound:  model.NotASequence,
		}
		log.Debugf("storing typedef %q -> %q", td.Name, td.BaseName)
		p.model.Typedefs = append(p.model.Typedefs, td)
		return
	}

	if strings.Contains(toks[0], "sequence") {
		p.parseSequenceTypedef(toks[0], toks[1])
		return
	}

	p.rep.Errorf(0, "unknown typedef form: %q", body)
}

// parseSequenceTypedef parses "sequence<Elem[,N]>" into a sequence
// typedef. A missing bound means unbounded, stored as 0. The element
// name re-resolves to its canonical base so a sequence of a typedef
// reports the ultimate base type.
func (p *Parser) parseSequenceTypedef(seqTok, newName string) {
	inner := seqTok
	if open := strings.IndexByte(inner, '<'); open >= 0 {
		inner = inner[open+1:]
	}
	if end := strings.LastIndexByte(inner, '>'); end >= 0 {
		inner = inner[:end]
	}

	parts := strings.Split(inner, ",")
	elem := strings.TrimSpace(parts[0])
	bound := 0
	if len(parts) >= 2 {
		b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || b < 0 {
			p.rep.Errorf(0, "typedef %s: bad sequence bound %q", newName, parts[1])
		} else {
			bound = b
		}
	}

	baseName := elem
	if real := p.syms.ResolveReal(symtab.Hash(elem)); real.Name != "" {
		baseName = real.Name
	}

	td := model.Typedef{
		Hash:      symtab.Hash(newName),
		Kind:      model.Builtin{Kind: model.KindSequence},
		Name:      newName,
		BaseName:  baseName,
		Namespace: p.namespace(),
		SeqBound:  bound,
	}
	log.Debugf("storing sequence typedef %q of %q bound %d", td.Name, td.BaseName, td.SeqBound)
	p.model.Typedefs = append(p.model.Typedefs, td)
}

// parseVariable resolves the declared type and appends the variable
// both to the flat table and, via the caller, to its struct's field
// list. Resolution failures leave a zero type on the stored variable
// rather than dropping it.
func (p *Parser) parseVariable(typeHash uint64, structName, name, fromNS string, isKey bool) model.Variable {
	v := model.Variable{
		Hash:          symtab.Hash(name),
		Type:          p.syms.ResolveReal(typeHash),
		IsKey:         isKey,
		Name:          name,
		StructName:    structName,
		FromNamespace: fromNS,
	}

	if structName != "" {
		log.Debugf("storing variable %s.%s (key: %v)", structName, name, isKey)
	} else {
		log.Debugf("storing global variable %s", name)
	}

	p.model.Variables = append(p.model.Variables, v)
	return v
}
