// Package types defines the core types and interfaces shared by the compile
// adapter and its host: CompileRequest, the lifecycle Event and its Emitter,
// the CompileTask capability, error reporting and the filesystem surface.
package types
