package dust

import (
	"path/filepath"
	"strings"
)

// Library compiles template source into the source of a JavaScript template
// function registered under name.
type Library interface {
	Compile(source, name string) (string, error)
}

// LibraryFunc adapts a function to Library
type LibraryFunc func(source, name string) (string, error)

// Compile implements Library
func (f LibraryFunc) Compile(source, name string) (string, error) {
	return f(source, name)
}

// CompileError is a failure reported by the compiler itself. Its Error text
// is the compiler's message, unchanged.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return e.Message
}

// TemplateName derives the registered template name from a source path:
// the base name without its final extension. Any extension is stripped, not
// only .dust, since build.extensions may admit others; MapOutput relies on
// the same rule so the output file and the registered name agree.
func TemplateName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}
