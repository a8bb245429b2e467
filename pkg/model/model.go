package model

// NotASequence is the SeqBound value of a typedef that is not a
// sequence. A bound of 0 means an unbounded sequence; a positive
// bound is the maximum element count of a bounded sequence.
const NotASequence = -1

// Typedef is a type alias. BaseName may itself name another typedef;
// chains are followed by the resolver until a builtin or struct is
// reached.
type Typedef struct {
	Hash      uint64 `yaml:"-"`
	Kind      TypeID `yaml:"-"`
	Name      string `yaml:"name"`
	BaseName  string `yaml:"base"`
	Namespace string `yaml:"namespace,omitempty"`
	SeqBound  int    `yaml:"seq_bound"`
}

// IsSeq reports whether the typedef declares a sequence.
func (t Typedef) IsSeq() bool {
	return t.SeqBound != NotASequence
}

// Variable is a struct field or a global variable declaration.
// FromNamespace is non-empty only when the field's type was written
// with an explicit ::ns:: qualifier in source.
type Variable struct {
	Hash          uint64  `yaml:"-"`
	Type          Typedef `yaml:"type"`
	IsKey         bool    `yaml:"key,omitempty"`
	Name          string  `yaml:"name"`
	StructName    string  `yaml:"struct,omitempty"`
	FromNamespace string  `yaml:"from_namespace,omitempty"`
}

// Struct is a parsed struct declaration. Field order is declaration
// order and must be preserved.
type Struct struct {
	Hash      uint64     `yaml:"-"`
	Kind      TypeID     `yaml:"-"`
	Name      string     `yaml:"name"`
	Namespace string     `yaml:"namespace,omitempty"`
	Fields    []Variable `yaml:"fields"`
}

// Module records a module (namespace) declaration.
type Module struct {
	Hash uint64 `yaml:"-"`
	Name string `yaml:"name"`
}

// Model holds everything produced by one parse pass. All tables are
// created empty, appended to monotonically during the pass, and
// cleared only by Reset.
type Model struct {
	Typedefs  []Typedef `yaml:"typedefs,omitempty"`
	Structs   []Struct  `yaml:"structs,omitempty"`
	Variables []Variable `yaml:"variables,omitempty"`
	Modules   []Module  `yaml:"modules,omitempty"`

	// UserLines collects macro-invocation statements recorded
	// verbatim for the generator's own use.
	UserLines []string `yaml:"user_lines,omitempty"`
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// Reset clears all tables.
func (m *Model) Reset() {
	m.Typedefs = nil
	m.Structs = nil
	m.Variables = nil
	m.Modules = nil
	m.UserLines = nil
}
