// Package gen turns a populated model back into declaration text.
// The Generator interface is the hook surface for custom emitters;
// DeclEmitter is the built-in one.
package gen

import (
	"fmt"
	"strings"

	"github.com/idlforge/idlforge/pkg/model"
)

// Generator produces output text from a parsed model.
type Generator interface {
	Generate(m *model.Model, sourceFile string) (string, error)
}

// DeclEmitter re-emits the parsed declarations. With Linearize set
// it writes the flat variable table instead of struct bodies.
type DeclEmitter struct {
	Config Config
}

// NewDeclEmitter returns an emitter with the given configuration.
func NewDeclEmitter(cfg Config) *DeclEmitter {
	return &DeclEmitter{Config: cfg}
}

// VarDecl renders a single variable declaration. A field whose type
// came from another namespace keeps the fully qualified type name.
func VarDecl(v model.Variable) string {
	if v.FromNamespace != "" {
		return "::" + v.FromNamespace + "::" + v.Type.Name + " " + v.Name + ";\n"
	}
	return v.Type.Name + " " + v.Name + ";\n"
}

// TypedefDecl renders a typedef declaration, restoring the sequence
// spelling for sequence typedefs.
func TypedefDecl(td model.Typedef) string {
	if td.IsSeq() {
		if td.SeqBound > 0 {
			return fmt.Sprintf("typedef sequence<%s, %d> %s;\n", td.BaseName, td.SeqBound, td.Name)
		}
		return fmt.Sprintf("typedef sequence<%s> %s;\n", td.BaseName, td.Name)
	}
	return fmt.Sprintf("typedef %s %s;\n", td.BaseName, td.Name)
}

// Generate implements Generator.
func (e *DeclEmitter) Generate(m *model.Model, sourceFile string) (string, error) {
	var b strings.Builder

	if e.Config.GenerateComment {
		fmt.Fprintf(&b, "// generated from %s\n", sourceFile)
	}

	for _, td := range m.Typedefs {
		b.WriteString(TypedefDecl(td))
	}

	if e.Config.Linearize {
		for _, v := range m.Variables {
			b.WriteString(VarDecl(v))
		}
	} else {
		for _, st := range m.Structs {
			e.emitStruct(&b, st)
		}
		for _, v := range m.Variables {
			if v.StructName == "" {
				b.WriteString(VarDecl(v))
			}
		}
	}

	for _, line := range m.UserLines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func (e *DeclEmitter) emitStruct(b *strings.Builder, st model.Struct) {
	fmt.Fprintf(b, "struct %s {\n", st.Name)
	for _, f := range st.Fields {
		b.WriteString("  ")
		if f.IsKey {
			b.WriteString("@key ")
		}
		b.WriteString(VarDecl(f))
	}
	b.WriteString("};\n")
}
