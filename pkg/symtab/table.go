package symtab

import (
	"github.com/idlforge/idlforge/pkg/diag"
	"github.com/idlforge/idlforge/pkg/model"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("idlforge.symtab")

// Table resolves identifiers against the builtin tables and the user
// typedef/struct tables of one model. It does not own the model; the
// parser appends to the tables and the Table reads them live, so a
// typedef declared earlier in the file is visible to later
// declarations.
type Table struct {
	m   *model.Model
	rep *diag.Reporter
}

// New creates a resolver over the given model.
func New(m *model.Model, rep *diag.Reporter) *Table {
	return &Table{m: m, rep: rep}
}

// Classify maps an identifier hash to its TypeID. Order matters:
// builtin types, then declaration keywords, then user typedefs, then
// user structs. Unknown hashes classify as model.Unknown.
func (t *Table) Classify(hash uint64) model.TypeID {
	if e, ok := lookupBuiltinType(hash, ""); ok {
		return e.id
	}
	if e, ok := lookupBuiltinKeyword(hash, ""); ok {
		return e.id
	}
	return t.classifyUser(hash, "")
}

// ClassifyName is Classify with a verified-equality check on every
// hash hit, closing the collision window for known names.
func (t *Table) ClassifyName(name string) model.TypeID {
	hash := Hash(name)
	if e, ok := lookupBuiltinType(hash, name); ok {
		return e.id
	}
	if e, ok := lookupBuiltinKeyword(hash, name); ok {
		return e.id
	}
	return t.classifyUser(hash, name)
}

func (t *Table) classifyUser(hash uint64, name string) model.TypeID {
	for i, td := range t.m.Typedefs {
		if td.Hash == hash && (name == "" || name == td.Name) {
			return model.UserTypedef{Index: i}
		}
	}
	for i, st := range t.m.Structs {
		if st.Hash == hash && (name == "" || name == st.Name) {
			return model.UserStruct{Index: i}
		}
	}
	return model.Unknown{}
}

// IsType reports whether id names something usable as a variable
// type: a builtin primitive or a user typedef/struct.
func IsType(id model.TypeID) bool {
	switch id.(type) {
	case model.Builtin, model.UserTypedef, model.UserStruct:
		return true
	}
	return false
}

// ResolveReal returns the canonical type for a hash. Builtins yield
// a synthetic typedef carrying the primitive's name and kind. A
// typedef resolves recursively through its base name; the original
// declared kind and sequence bound are re-applied over the resolved
// base, so a sequence alias keeps its bound while its element name
// canonicalizes. A struct yields a typedef whose base name is the
// struct's own name. Unknown hashes produce a zero typedef and a
// recoverable diagnostic.
func (t *Table) ResolveReal(hash uint64) model.Typedef {
	if e, ok := lookupBuiltinType(hash, ""); ok {
		return model.Typedef{
			Hash:     hash,
			Kind:     e.id,
			Name:     e.name,
			SeqBound: model.NotASequence,
		}
	}

	for _, td := range t.m.Typedefs {
		if td.Hash != hash {
			continue
		}
		if td.BaseName != "" {
			kind, bound := td.Kind, td.SeqBound
			resolved := t.ResolveReal(Hash(td.BaseName))
			resolved.Kind = kind
			resolved.SeqBound = bound
			return resolved
		}
		return td
	}

	for i, st := range t.m.Structs {
		if st.Hash != hash {
			continue
		}
		return model.Typedef{
			Hash:      hash,
			Kind:      model.UserStruct{Index: i},
			Name:      st.Name,
			BaseName:  st.Name,
			Namespace: st.Namespace,
			SeqBound:  model.NotASequence,
		}
	}

	if t.rep != nil {
		t.rep.Errorf(0, "unknown type: %#x", hash)
	} else {
		log.Errorf("unknown type: %#x", hash)
	}
	return model.Typedef{SeqBound: model.NotASequence}
}

// Name is the reverse lookup: hash to identifier name, checking
// builtins, then typedefs, then structs. Unknown hashes yield "".
func (t *Table) Name(hash uint64) string {
	if e, ok := lookupBuiltinType(hash, ""); ok {
		return e.name
	}
	if e, ok := lookupBuiltinKeyword(hash, ""); ok {
		return e.name
	}
	for _, td := range t.m.Typedefs {
		if td.Hash == hash {
			return td.Name
		}
	}
	for _, st := range t.m.Structs {
		if st.Hash == hash {
			return st.Name
		}
	}
	return ""
}

// TypeName renders a TypeID back to its declared name: the
// primitive or keyword name for builtins, the alias name for a user
// typedef, the struct name for a user struct.
func (t *Table) TypeName(id model.TypeID) string {
	switch v := id.(type) {
	case model.Builtin:
		return v.Kind.String()
	case model.Keyword:
		return v.Kind.String()
	case model.UserTypedef:
		if v.Index < len(t.m.Typedefs) {
			return t.m.Typedefs[v.Index].Name
		}
	case model.UserStruct:
		if v.Index < len(t.m.Structs) {
			return t.m.Structs[v.Index].Name
		}
	}
	return ""
}
