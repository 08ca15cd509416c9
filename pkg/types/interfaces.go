package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem surface used by the compiler and the host.
// This allows for testing with in-memory filesystems.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Emitter receives the lifecycle signals of one compile call.
type Emitter interface {
	Emit(event Event)
}

// ErrorReporter surfaces a failed compile to the user. The host decides how
// the message is presented.
type ErrorReporter interface {
	ReportError(message, filePath string)
}

// CompileTask is the capability a host invokes once per file that needs
// compiling. Implementations signal the outcome only through the emitter
// (and the reporter they were built with): exactly one of EventDone or
// EventFail, followed by EventAlways.
type CompileTask interface {
	Compile(ctx context.Context, req CompileRequest, emitter Emitter)
}
