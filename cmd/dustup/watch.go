package dustup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dustup/pkg/build"
	"github.com/arthur-debert/dustup/pkg/config"
	"github.com/arthur-debert/dustup/pkg/filesystem"
	"github.com/arthur-debert/dustup/pkg/logging"
	"github.com/arthur-debert/dustup/pkg/ui"
	"github.com/arthur-debert/dustup/pkg/watch"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "watch [paths...]",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, opts, args)
		},
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *globalOptions, args []string) error {
	logger := logging.GetLogger("cmd.watch")

	live, err := config.NewLive(func() (config.Settings, error) {
		return opts.loadSettings(cmd)
	})
	if err != nil {
		return err
	}
	settings := live.Settings()

	format, err := opts.outputFormat(cmd)
	if err != nil {
		return err
	}
	if format == ui.FormatJSON {
		// A JSON document needs an end; watch output is line oriented
		format = ui.FormatText
	}
	roots, err := resolveRoots(args)
	if err != nil {
		return err
	}

	fsys := filesystem.NewOS()
	printer := newResultPrinter(cmd.OutOrStdout(), ui.NewRenderer(format, workingDir()))
	runner := newBuildRunner(fsys, live, settings.Build.Jobs, printer.print)

	sources, err := build.Discover(fsys, roots, settings.Build.Extensions)
	if err != nil {
		return err
	}
	if len(sources) > 0 {
		results, err := runner.Run(ctx, build.Targets(sources, settings.Build.OutDir, settings.Build.OutputExtension))
		if err != nil {
			return err
		}
		if err := printer.summary(results); err != nil {
			return err
		}
	}

	watchLogger := logging.GetLogger("watch")
	w, err := watch.New(watch.Options{
		Roots:      roots,
		Extensions: settings.Build.Extensions,
		Debounce:   settings.Watch.Debounce,
		OnChange: func(ctx context.Context, path string) {
			printer.print(compileOne(ctx, runner, live, path))
		},
		ConfigFiles: config.ProjectConfigFiles,
		OnConfigChange: func() {
			if err := live.Reload(); err != nil {
				logger.Warn().Err(err).Msg(MsgConfigNotReload)
				return
			}
			logger.Info().
				Bool("useCommand", live.Settings().Advanced.UseCommand).
				Msg(MsgConfigReloaded)
		},
		Logger: &watchLogger,
	})
	if err != nil {
		return err
	}

	if err := w.Run(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), MsgWatchStopped)
	return nil
}
