package dustup

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dustup/pkg/build"
	"github.com/arthur-debert/dustup/pkg/config"
	"github.com/arthur-debert/dustup/pkg/errors"
	"github.com/arthur-debert/dustup/pkg/filesystem"
	"github.com/arthur-debert/dustup/pkg/logging"
	"github.com/arthur-debert/dustup/pkg/report"
	"github.com/arthur-debert/dustup/pkg/types"
	"github.com/arthur-debert/dustup/pkg/ui"
)

func newCompileCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "compile [paths...]",
		Short:   MsgCompileShort,
		Long:    MsgCompileLong,
		Example: MsgCompileExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args)
		},
	}
}

func runCompile(cmd *cobra.Command, opts *globalOptions, args []string) error {
	logger := logging.GetLogger("cmd.compile")

	settings, err := opts.loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := opts.outputFormat(cmd)
	if err != nil {
		return err
	}
	roots, err := resolveRoots(args)
	if err != nil {
		return err
	}

	fsys := filesystem.NewOS()
	sources, err := build.Discover(fsys, roots, settings.Build.Extensions)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), MsgNoTemplates)
		return nil
	}
	targets := build.Targets(sources, settings.Build.OutDir, settings.Build.OutputExtension)

	logger.Info().
		Strs("roots", roots).
		Int("templates", len(targets)).
		Bool("useCommand", settings.Advanced.UseCommand).
		Msg("Starting compile")

	printer := newResultPrinter(cmd.OutOrStdout(), ui.NewRenderer(format, workingDir()))
	runner := newBuildRunner(fsys, config.Static(settings), settings.Build.Jobs, printer.print)

	results, err := runner.Run(cmd.Context(), targets)
	if err != nil {
		return err
	}
	if err := printer.summary(results); err != nil {
		return err
	}
	if err := writeJUnit(opts.junit, results); err != nil {
		return err
	}

	if summary := build.Summarize(results); summary.Failed > 0 {
		return errors.Newf(errors.ErrCompile, MsgErrFailedTargets, summary.Failed, summary.Total)
	}
	return nil
}

func newBuildRunner(fsys types.FS, provider config.Provider, jobs int, onResult func(build.Result)) *build.Runner {
	logger := logging.GetLogger("build")
	return build.NewRunner(build.Options{
		NewTask:  newTaskFactory(fsys, provider),
		FS:       fsys,
		Jobs:     jobs,
		Reporter: report.LogReporter{Logger: logging.GetLogger("report")},
		OnResult: onResult,
		Logger:   &logger,
	})
}

// resultPrinter serializes renderer output from concurrent workers
type resultPrinter struct {
	mu       sync.Mutex
	w        io.Writer
	renderer ui.Renderer
}

func newResultPrinter(w io.Writer, renderer ui.Renderer) *resultPrinter {
	return &resultPrinter{w: w, renderer: renderer}
}

func (p *resultPrinter) print(res build.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.renderer.RenderResult(p.w, res)
}

func (p *resultPrinter) summary(results []build.Result) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderer.RenderSummary(p.w, results)
}

func writeJUnit(path string, results []build.Result) error {
	if path == "" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, MsgErrWriteJUnit, path)
	}
	if err := ui.WriteJUnit(f, MsgJUnitSuiteName, results); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, MsgErrWriteJUnit, path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, MsgErrWriteJUnit, path)
	}
	return nil
}

// compileOne runs a single changed file through runner using the current
// settings for its output location
func compileOne(ctx context.Context, runner *build.Runner, provider config.Provider, path string) build.Result {
	s := provider.Settings()
	target := build.Target{Source: path, Output: build.MapOutput(path, s.Build.OutDir, s.Build.OutputExtension)}
	return runner.RunOne(ctx, target)
}
