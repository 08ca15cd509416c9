// Package dust defines the compilation library contract used by the
// in-process strategy, and ScriptLibrary, which runs the dustjs compiler
// inside a goja JavaScript runtime.
//
// Nothing in this package parses templates; compilation is always done by
// dustjs itself.
package dust
