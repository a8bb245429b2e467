package symtab

import "github.com/idlforge/idlforge/pkg/model"

// entry is one precomputed builtin identifier.
type entry struct {
	name string
	hash uint64
	id   model.TypeID
}

// The builtin type table mirrors the IDL subset the parser accepts.
// "long long" is the one multi-word name; it can never come out of
// the tokenizer as a single token but stays here so reverse lookup
// and classification by full name work.
var builtinTypes []entry

// The declaration keywords.
var builtinKeywords []entry

func init() {
	kinds := []model.BuiltinKind{
		model.KindVoid, model.KindOctet, model.KindInt8, model.KindInt16,
		model.KindShort, model.KindInt32, model.KindInt, model.KindLong,
		model.KindInt64, model.KindLongLong, model.KindUint8,
		model.KindUint16, model.KindUint32, model.KindUint64,
		model.KindBool, model.KindBoolean, model.KindChar, model.KindFloat,
		model.KindString, model.KindDouble, model.KindSequence,
		model.KindConst,
	}
	for _, k := range kinds {
		name := k.String()
		builtinTypes = append(builtinTypes, entry{name: name, hash: Hash(name), id: model.Builtin{Kind: k}})
	}

	for _, k := range []model.KeywordKind{model.KindStruct, model.KindModule, model.KindTypedef} {
		name := k.String()
		builtinKeywords = append(builtinKeywords, entry{name: name, hash: Hash(name), id: model.Keyword{Kind: k}})
	}
}

// lookupBuiltinType finds a builtin primitive by hash, verifying the
// name when one is supplied.
func lookupBuiltinType(hash uint64, name string) (entry, bool) {
	for _, e := range builtinTypes {
		if e.hash == hash && (name == "" || name == e.name) {
			return e, true
		}
	}
	return entry{}, false
}

func lookupBuiltinKeyword(hash uint64, name string) (entry, bool) {
	for _, e := range builtinKeywords {
		if e.hash == hash && (name == "" || name == e.name) {
			return e, true
		}
	}
	return entry{}, false
}
