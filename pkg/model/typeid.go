// Package model defines the in-memory representation of parsed IDL:
// type classifications, typedefs, structs, fields and the tables that
// own them for the lifetime of one parse.
package model

// TypeID classifies an identifier. It is a closed set of variants:
// a built-in primitive type, a built-in declaration keyword, a user
// typedef (index into the typedef table), a user struct (index into
// the struct table), or unknown.
type TypeID interface {
	implTypeID()
	String() string
}

// BuiltinKind enumerates the built-in primitive types.
type BuiltinKind int

const (
	KindVoid BuiltinKind = iota
	KindOctet
	KindInt8
	KindInt16
	KindShort
	KindInt32
	KindInt
	KindLong
	KindInt64
	KindLongLong
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindBool
	KindBoolean
	KindChar
	KindFloat
	KindString
	KindDouble
	KindSequence
	KindConst
)

var builtinNames = []string{
	"void", "octet", "int8_t", "int16_t", "short", "int32_t", "int",
	"long", "int64_t", "long long", "uint8_t", "uint16_t", "uint32_t",
	"uint64_t", "bool", "boolean", "char", "float", "string", "double",
	"sequence", "const",
}

func (k BuiltinKind) String() string {
	if int(k) < len(builtinNames) {
		return builtinNames[k]
	}
	return "?"
}

// KeywordKind enumerates the built-in declaration keywords.
type KeywordKind int

const (
	KindStruct KeywordKind = iota
	KindModule
	KindTypedef
)

var keywordNames = []string{"struct", "module", "typedef"}

func (k KeywordKind) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return "?"
}

// Builtin is the TypeID of a built-in primitive type.
type Builtin struct {
	Kind BuiltinKind
}

// Keyword is the TypeID of a built-in declaration keyword.
type Keyword struct {
	Kind KeywordKind
}

// UserTypedef is the TypeID of a user-declared typedef. Index points
// into the owning Model's Typedefs table.
type UserTypedef struct {
	Index int
}

// UserStruct is the TypeID of a user-declared struct. Index points
// into the owning Model's Structs table.
type UserStruct struct {
	Index int
}

// Unknown is the TypeID of an unrecognized identifier.
type Unknown struct{}

func (Builtin) implTypeID()     {}
func (Keyword) implTypeID()     {}
func (UserTypedef) implTypeID() {}
func (UserStruct) implTypeID()  {}
func (Unknown) implTypeID()     {}

func (t Builtin) String() string { return t.Kind.String() }
func (t Keyword) String() string { return t.Kind.String() }

func (t UserTypedef) String() string { return "typedef" }
func (t UserStruct) String() string  { return "struct" }
func (Unknown) String() string       { return "unknown" }

// IsSequence reports whether id is the built-in sequence type.
func IsSequence(id TypeID) bool {
	b, ok := id.(Builtin)
	return ok && b.Kind == KindSequence
}
