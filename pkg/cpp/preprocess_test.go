package cpp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idlforge/idlforge/pkg/diag"
)

func newPP(t *testing.T, opts Options) *Preprocessor {
	t.Helper()
	return NewPreprocessor(opts, diag.NewReporter("test.idl"))
}

func TestConditionalGating(t *testing.T) {
	src := "#ifdef FOO\nstruct A;\n#endif\nstruct B;\n"

	tests := []struct {
		name    string
		defines map[string]string
		wantA   bool
	}{
		{"undefined", nil, false},
		{"defined", map[string]string{"FOO": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := newPP(t, Options{Defines: tt.defines})
			out, err := pp.PreprocessString(src, "test.idl")
			if err != nil {
				t.Fatalf("PreprocessString error: %v", err)
			}
			if got := strings.Contains(out, "struct A"); got != tt.wantA {
				t.Errorf("struct A present = %v, want %v", got, tt.wantA)
			}
			if !strings.Contains(out, "struct B") {
				t.Error("struct B missing from output")
			}
		})
	}
}

func TestConditionalElse(t *testing.T) {
	src := "#ifdef FOO\nint a;\n#else\nint b;\n#endif\n"

	pp := newPP(t, Options{})
	out, err := pp.PreprocessString(src, "test.idl")
	if err != nil {
		t.Fatalf("PreprocessString error: %v", err)
	}
	if strings.Contains(out, "int a") || !strings.Contains(out, "int b") {
		t.Errorf("else branch not selected; got %q", out)
	}
}

func TestConditionalNested(t *testing.T) {
	// inner block is gated by the AND of all active conditions
	src := "#ifdef A\n#ifdef B\nint ab;\n#endif\nint a;\n#endif\n"

	pp := newPP(t, Options{Defines: map[string]string{"A": ""}})
	out, err := pp.PreprocessString(src, "test.idl")
	if err != nil {
		t.Fatalf("PreprocessString error: %v", err)
	}
	if strings.Contains(out, "int ab") {
		t.Error("inner block leaked despite undefined B")
	}
	if !strings.Contains(out, "int a") {
		t.Error("outer block missing")
	}
}

func TestDefineInInactiveRegion(t *testing.T) {
	src := "#ifdef FOO\n#define BAR 1\n#endif\n"

	pp := newPP(t, Options{})
	if _, err := pp.PreprocessString(src, "test.idl"); err != nil {
		t.Fatalf("PreprocessString error: %v", err)
	}
	if pp.Macros().IsDefined("BAR") {
		t.Error("BAR defined inside inactive region")
	}
}

func TestUnterminatedConditional(t *testing.T) {
	pp := newPP(t, Options{})
	_, err := pp.PreprocessString("#ifdef FOO\nint a;\n", "test.idl")

	var uerr *UnterminatedConditionalError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnterminatedConditionalError, got %v", err)
	}
	if uerr.Depth != 1 {
		t.Errorf("Depth = %d, want 1", uerr.Depth)
	}
}

func TestUnbalancedEndif(t *testing.T) {
	pp := newPP(t, Options{})
	_, err := pp.PreprocessString("#endif\n", "test.idl")

	var uerr *UnbalancedConditionalError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnbalancedConditionalError, got %v", err)
	}
}

func TestIfReportsWarning(t *testing.T) {
	rep := diag.NewReporter("test.idl")
	pp := NewPreprocessor(Options{}, rep)

	// #if has no stack effect, so the #endif below is unbalanced
	_, err := pp.PreprocessString("#if FOO > 1\nint a;\n#endif\n", "test.idl")
	var uerr *UnbalancedConditionalError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnbalancedConditionalError, got %v", err)
	}
	if len(rep.Diagnostics()) == 0 {
		t.Error("expected a warning diagnostic for #if")
	}
}

func TestMacroSubstitution(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"simple replacement", "#define N 32\nint a[N];\n", "int a[32];"},
		{"word boundary", "#define N 32\nint NN;\n", "int NN;"},
		{"empty value deletes word", "#define DLL_EXPORT\nDLL_EXPORT int a;\n", " int a;"},
		{"zero value deletes word", "#define DEBUG 0\nDEBUG int a;\n", " int a;"},
		{"string untouched", "#define N 32\ns = \"N\";\n", "s = \"N\";"},
		{"char literal untouched", "#define x 9\nc = 'x';\n", "c = 'x';"},
		{"escaped char literal", "#define n 9\nc = '\\n';\n", "c = '\\n';"},
		{"undef stops replacement", "#define N 32\n#undef N\nint a[N];\n", "int a[N];"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := newPP(t, Options{})
			out, err := pp.PreprocessString(tt.src, "test.idl")
			if err != nil {
				t.Fatalf("PreprocessString error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestCmdlineDefines(t *testing.T) {
	pp := newPP(t, Options{Defines: map[string]string{"MAX": "16"}})
	out, err := pp.PreprocessString("int a[MAX];\n", "test.idl")
	if err != nil {
		t.Fatalf("PreprocessString error: %v", err)
	}
	if !strings.Contains(out, "int a[16];") {
		t.Errorf("-D macro not applied: %q", out)
	}
}

func TestLineMacro(t *testing.T) {
	pp := newPP(t, Options{})
	out, err := pp.PreprocessString("a\nb\nx = __LINE__;\n", "test.idl")
	if err != nil {
		t.Fatalf("PreprocessString error: %v", err)
	}
	// zero-based counter: the third line is line 2
	if !strings.Contains(out, "x = 2;") {
		t.Errorf("__LINE__ not substituted, got %q", out)
	}
}

func TestPragmaDiscarded(t *testing.T) {
	pp := newPP(t, Options{})
	out, err := pp.PreprocessString("#pragma keylist Point id\nint a;\n", "test.idl")
	if err != nil {
		t.Fatalf("PreprocessString error: %v", err)
	}
	if strings.Contains(out, "keylist") {
		t.Errorf("pragma leaked into output: %q", out)
	}
	if !strings.Contains(out, "int a;") {
		t.Errorf("following text missing: %q", out)
	}
}

func TestUnknownDirective(t *testing.T) {
	pp := newPP(t, Options{})
	if _, err := pp.PreprocessString("#frobnicate\n", "test.idl"); err == nil {
		t.Fatal("expected error for unknown directive")
	}
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	inc := filepath.Join(dir, "types.idl")
	main := filepath.Join(dir, "main.idl")

	if err := os.WriteFile(inc, []byte("typedef char T_Char;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(main, []byte("#include \"types.idl\"\nstruct S { T_Char c; };\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pp := newPP(t, Options{})
	out, err := pp.PreprocessFile(main)
	if err != nil {
		t.Fatalf("PreprocessFile error: %v", err)
	}
	if !strings.Contains(out, "typedef char T_Char;") {
		t.Errorf("included text missing: %q", out)
	}
	if !strings.Contains(out, "struct S") {
		t.Errorf("including text missing: %q", out)
	}
	// include output lands at the include point
	if strings.Index(out, "T_Char;") > strings.Index(out, "struct S") {
		t.Errorf("include not spliced in place: %q", out)
	}
}

func TestIncludeDefinesPersist(t *testing.T) {
	dir := t.TempDir()
	inc := filepath.Join(dir, "defs.idl")
	main := filepath.Join(dir, "main.idl")

	if err := os.WriteFile(inc, []byte("#define MAX 8\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(main, []byte("#include \"defs.idl\"\nint a[MAX];\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pp := newPP(t, Options{})
	out, err := pp.PreprocessFile(main)
	if err != nil {
		t.Fatalf("PreprocessFile error: %v", err)
	}
	if !strings.Contains(out, "int a[8];") {
		t.Errorf("macro from include not applied: %q", out)
	}
}

func TestIncludeNotFound(t *testing.T) {
	pp := newPP(t, Options{})
	_, err := pp.PreprocessString("#include \"missing.idl\"\n", "test.idl")

	var ierr *IncludeError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IncludeError, got %v", err)
	}
	if ierr.Filename != "missing.idl" {
		t.Errorf("Filename = %q, want missing.idl", ierr.Filename)
	}
}

func TestIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.idl")
	b := filepath.Join(dir, "b.idl")

	if err := os.WriteFile(a, []byte("#include \"b.idl\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("#include \"a.idl\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pp := newPP(t, Options{})
	_, err := pp.PreprocessFile(a)

	var cerr *CircularIncludeError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CircularIncludeError, got %v", err)
	}
}

func TestIncludeSearchPath(t *testing.T) {
	incDir := t.TempDir()
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(incDir, "lib.idl"), []byte("typedef long T_L;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(srcDir, "main.idl")
	if err := os.WriteFile(main, []byte("#include <lib.idl>\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pp := newPP(t, Options{IncludePaths: []string{incDir}})
	out, err := pp.PreprocessFile(main)
	if err != nil {
		t.Fatalf("PreprocessFile error: %v", err)
	}
	if !strings.Contains(out, "typedef long T_L;") {
		t.Errorf("-I path not searched: %q", out)
	}
}

func TestMacroTableOrder(t *testing.T) {
	mt := NewMacroTable()
	mt.Define("B", "1")
	mt.Define("A", "2")
	mt.Define("B", "3") // redefinition keeps position
	mt.Define("C", "4")
	mt.Undefine("A")

	want := []string{"B", "C"}
	got := mt.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v, _ := mt.Value("B"); v != "3" {
		t.Errorf("Value(B) = %q, want 3", v)
	}
}
