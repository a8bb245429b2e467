package cpp

import "testing"

func TestMinify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"line comment", "int a; // trailing\nint b;", "int a; \nint b;"},
		{"block comment", "int /* x */ a;", "int a;"},
		{"multiline block comment", "a/* one\ntwo */b", "ab"},
		{"string untouched", `s = "a  //  b";`, `s = "a  //  b";`},
		{"escaped quote in string", `s = "a\"b";`, `s = "a\"b";`},
		{"carriage returns", "a\r\nb\r\n", "a\nb\n"},
		{"tabs to spaces", "a\tb", "a b"},
		{"tab runs collapse", "a\t\t\tb", "a b"},
		{"double spaces", "a    b", "a b"},
		{"blank lines", "a\n\n\nb", "a\nb"},
		{"unterminated block comment", "a/* x", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Minify(tt.input); got != tt.want {
				t.Errorf("Minify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMinifyIdempotent(t *testing.T) {
	inputs := []string{
		"module A { struct B { int32_t c; }; };",
		"a\t b // c\n\n\nd /* e */ f\r\n",
		`s = "keep  this";` + "\n\nnext",
	}

	for _, input := range inputs {
		once := Minify(input)
		twice := Minify(once)
		if once != twice {
			t.Errorf("Minify not idempotent on %q: %q != %q", input, once, twice)
		}
	}
}
