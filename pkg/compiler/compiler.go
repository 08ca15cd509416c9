package compiler

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dustup/pkg/command"
	"github.com/arthur-debert/dustup/pkg/config"
	"github.com/arthur-debert/dustup/pkg/dust"
	"github.com/arthur-debert/dustup/pkg/filesystem"
	"github.com/arthur-debert/dustup/pkg/logging"
	"github.com/arthur-debert/dustup/pkg/report"
	"github.com/arthur-debert/dustup/pkg/types"
)

// outputPerm is the mode of files written by the library strategy
const outputPerm = 0644

// Options contains the collaborators of a TemplateCompiler
type Options struct {
	// Settings is read on every Compile call
	Settings config.Provider

	// FS is used by the library strategy; defaults to the OS filesystem
	FS types.FS

	// Library compiles in-process; required for the library strategy
	Library dust.Library

	// Runner executes the external command; defaults to a ShellRunner
	Runner command.Runner

	// Reporter receives (message, source path) for every failure
	Reporter types.ErrorReporter

	// Logger defaults to the "compiler" component logger when nil
	Logger *zerolog.Logger
}

// TemplateCompiler compiles a single .dust file per call. It keeps no state
// between calls, so one instance can serve concurrent compiles.
type TemplateCompiler struct {
	settings config.Provider
	fs       types.FS
	library  dust.Library
	runner   command.Runner
	reporter types.ErrorReporter
	logger   zerolog.Logger
}

var _ types.CompileTask = (*TemplateCompiler)(nil)

// New creates a TemplateCompiler
func New(opts Options) *TemplateCompiler {
	logger := logging.Resolve(opts.Logger, "compiler")

	settings := opts.Settings
	if settings == nil {
		settings = config.Static(config.Default())
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	runner := opts.Runner
	if runner == nil {
		runner = command.NewShellRunner()
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.LogReporter{Logger: logger}
	}

	return &TemplateCompiler{
		settings: settings,
		fs:       fs,
		library:  opts.Library,
		runner:   runner,
		reporter: reporter,
		logger:   logger,
	}
}

// Compile implements types.CompileTask. It returns once always has been
// emitted.
func (c *TemplateCompiler) Compile(ctx context.Context, req types.CompileRequest, emitter types.Emitter) {
	settings := c.settings.Settings()
	strategy := StrategyFor(settings.Advanced)

	c.logger.Debug().
		Str("source", req.Source).
		Str("output", req.Output).
		Str("strategy", strategy.String()).
		Msg("Compiling template")

	switch strategy {
	case StrategyCommand:
		c.compileWithCommand(ctx, req, emitter, settings.Advanced)
	default:
		c.compileWithLibrary(req, emitter)
	}
}

// compileWithLibrary reads, compiles and writes in-process
func (c *TemplateCompiler) compileWithLibrary(req types.CompileRequest, emitter types.Emitter) {
	fail := func(message string) {
		emitter.Emit(types.EventFail)
		emitter.Emit(types.EventAlways)
		c.reporter.ReportError(message, req.Source)
	}

	if c.library == nil {
		fail(dust.ErrLibraryUnavailable.Message)
		return
	}

	code, err := c.fs.ReadFile(req.Source)
	if err != nil {
		fail(err.Error())
		return
	}

	compiled, err := c.library.Compile(string(code), dust.TemplateName(req.Source))
	if err != nil {
		fail(err.Error())
		return
	}

	if err := c.fs.WriteFile(req.Output, []byte(compiled), outputPerm); err != nil {
		fail(err.Error())
		return
	}

	emitter.Emit(types.EventDone)
	emitter.Emit(types.EventAlways)
}

// compileWithCommand runs the external compiler
func (c *TemplateCompiler) compileWithCommand(ctx context.Context, req types.CompileRequest, emitter types.Emitter, advanced config.Advanced) {
	cmd := BuildCommand(advanced, req)

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("source", req.Source).
			Bool("timedOut", res.TimedOut).
			Msg("Compile command failed")

		emitter.Emit(types.EventFail)
		c.reporter.ReportError(res.Stderr, req.Source)
	} else {
		emitter.Emit(types.EventDone)
	}

	emitter.Emit(types.EventAlways)
}

// BuildCommand assembles the external compiler invocation for req:
// <executable> -n="<name>" "<source>" "<output>", run from the source's
// directory with the configured timeout.
func BuildCommand(advanced config.Advanced, req types.CompileRequest) command.Command {
	return command.Command{
		Path: command.QuoteIfSpaced(advanced.Executable()),
		Args: []string{
			`-n=` + command.Quote(dust.TemplateName(req.Source)),
			command.Quote(req.Source),
			command.Quote(req.Output),
		},
		Dir:     filepath.Dir(req.Source),
		Timeout: advanced.Timeout(),
	}
}
