// Package build is the host side of a compile: it finds template files,
// maps each to an output path and drives a types.CompileTask over them with
// bounded concurrency, turning lifecycle events into per-file results.
package build
