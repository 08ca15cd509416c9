// Package filesystem provides filesystem implementations for dustup.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and afero-backed filesystems for tests.
package filesystem
