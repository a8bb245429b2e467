// Package cpp implements the IDL macro preprocessor: minification,
// directive processing with a conditional-compilation stack, macro
// substitution, and recursive #include expansion.
package cpp

// MacroTable is an insertion-ordered name -> value mapping. It backs
// both conditional compilation (#ifdef tests membership) and text
// substitution (non-empty, non-"0" values are spliced into source).
type MacroTable struct {
	order  []string
	values map[string]string
}

// NewMacroTable creates an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{values: make(map[string]string)}
}

// Define sets a macro. Redefining keeps the original position.
func (m *MacroTable) Define(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.order = append(m.order, name)
	}
	m.values[name] = value
}

// Undefine removes a macro; removing an unknown name is a no-op.
func (m *MacroTable) Undefine(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// IsDefined reports membership, which is all #ifdef cares about.
func (m *MacroTable) IsDefined(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Value returns the macro's value. Lookup is length-exact by
// construction: map keys match whole words only.
func (m *MacroTable) Value(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Names returns the macro names in insertion order.
func (m *MacroTable) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of defined macros.
func (m *MacroTable) Len() int {
	return len(m.order)
}
