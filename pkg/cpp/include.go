// Include path handling for the IDL preprocessor.
package cpp

import (
	"os"
	"path/filepath"
	"strings"
)

// MaxIncludeDepth bounds include nesting; a file including itself
// (directly or through a cycle) is also caught by the include stack.
const MaxIncludeDepth = 100

// IncludeResolver locates #include targets. A name is tried as
// given, then relative to the including file's directory, then in
// the -I search paths, in that order.
type IncludeResolver struct {
	UserPaths    []string // -I directories
	CurrentDir   string   // directory of the file being processed
	includeStack []string // for cycle detection
}

// NewIncludeResolver creates an empty resolver.
func NewIncludeResolver() *IncludeResolver {
	return &IncludeResolver{}
}

// AddUserPath appends a -I include directory.
func (r *IncludeResolver) AddUserPath(path string) {
	r.UserPaths = append(r.UserPaths, path)
}

// SetCurrentFile records the file currently being processed, for
// resolving relative includes.
func (r *IncludeResolver) SetCurrentFile(filename string) {
	r.CurrentDir = filepath.Dir(filename)
}

// Resolve finds the include file and returns its path.
func (r *IncludeResolver) Resolve(filename string) (string, error) {
	candidates := []string{filename}
	if r.CurrentDir != "" {
		candidates = append(candidates, filepath.Join(r.CurrentDir, filename))
	}
	for _, dir := range r.UserPaths {
		candidates = append(candidates, filepath.Join(dir, filename))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}

	return "", &IncludeError{Filename: filename}
}

// PushFile pushes a file onto the include stack, failing on a
// circular include.
func (r *IncludeResolver) PushFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, f := range r.includeStack {
		if f == abs {
			return &CircularIncludeError{Path: abs, Stack: r.includeStack}
		}
	}
	r.includeStack = append(r.includeStack, abs)
	return nil
}

// PopFile removes the innermost file from the include stack.
func (r *IncludeResolver) PopFile() {
	if len(r.includeStack) > 0 {
		r.includeStack = r.includeStack[:len(r.includeStack)-1]
	}
}

// Depth returns the include nesting depth.
func (r *IncludeResolver) Depth() int {
	return len(r.includeStack)
}

// IncludeError indicates that an include target was not found.
type IncludeError struct {
	Filename string
}

func (e *IncludeError) Error() string {
	return "include file not found: " + e.Filename
}

// CircularIncludeError indicates an include cycle.
type CircularIncludeError struct {
	Path  string
	Stack []string
}

func (e *CircularIncludeError) Error() string {
	var sb strings.Builder
	sb.WriteString("circular include detected: ")
	sb.WriteString(e.Path)
	sb.WriteString("\ninclude stack:\n")
	for _, f := range e.Stack {
		sb.WriteString("  ")
		sb.WriteString(filepath.Base(f))
		sb.WriteString("\n")
	}
	return sb.String()
}
