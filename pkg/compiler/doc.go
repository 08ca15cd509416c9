// Package compiler implements TemplateCompiler, the per-file compile task
// for .dust templates.
//
// A compile call picks one of two strategies from the current settings:
//
//   - library: read the source, hand it to a dust.Library together with the
//     template name, write the returned code to the output path
//   - command: run an external dustc-compatible executable with the name,
//     source and output as arguments, under a hard timeout
//
// Either way the emitter receives exactly one of done or fail, then always.
// Failures are also passed to the ErrorReporter with the source path.
package compiler
