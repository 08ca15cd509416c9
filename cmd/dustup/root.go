package dustup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dustup/internal/version"
	"github.com/arthur-debert/dustup/pkg/build"
	"github.com/arthur-debert/dustup/pkg/cobrax/topics"
	"github.com/arthur-debert/dustup/pkg/command"
	"github.com/arthur-debert/dustup/pkg/compiler"
	"github.com/arthur-debert/dustup/pkg/config"
	"github.com/arthur-debert/dustup/pkg/dust"
	"github.com/arthur-debert/dustup/pkg/errors"
	"github.com/arthur-debert/dustup/pkg/logging"
	"github.com/arthur-debert/dustup/pkg/types"
	"github.com/arthur-debert/dustup/pkg/ui"
)

// globalOptions holds the persistent flags shared by all commands
type globalOptions struct {
	verbosity   int
	projectDir  string
	configFile  string
	useCommand  bool
	commandPath string
	timeout     time.Duration
	outDir      string
	jobs        int
	script      string
	format      string
	junit       string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "dustup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&opts.projectDir, "project", "C", ".", MsgFlagProject)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.BoolVar(&opts.useCommand, "use-command", false, MsgFlagUseCommand)
	flags.StringVar(&opts.commandPath, "command-path", "", MsgFlagCommandPath)
	flags.DurationVar(&opts.timeout, "timeout", config.DefaultCommandTimeout, MsgFlagTimeout)
	flags.StringVar(&opts.outDir, "out-dir", "", MsgFlagOutDir)
	flags.IntVarP(&opts.jobs, "jobs", "j", 4, MsgFlagJobs)
	flags.StringVar(&opts.script, "script", "", MsgFlagScript)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&opts.junit, "junit", "", MsgFlagJUnit)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newCompileCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	renderer := topics.RendererFor(isTerminal(os.Stdout))
	if _, err := topics.Initialize(rootCmd, topicsFS(), topics.Options{Renderer: renderer}); err != nil {
		log.Warn().Err(err).Msg(MsgErrLoadHelpTopics)
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// overrides turns the flags the user actually set into config keys
func (o *globalOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	out := make(map[string]interface{})

	if flags.Changed("use-command") {
		out["advanced.useCommand"] = o.useCommand
	}
	if flags.Changed("command-path") {
		out["advanced.commandPath"] = o.commandPath
	}
	if flags.Changed("timeout") {
		out["advanced.commandTimeout"] = o.timeout.String()
	}
	if flags.Changed("out-dir") {
		out["build.outDir"] = o.outDir
	}
	if flags.Changed("jobs") {
		out["build.jobs"] = o.jobs
	}
	if flags.Changed("script") {
		out["library.scriptPath"] = o.script
	}
	if o.verbosity > 0 {
		out["logging.verbosity"] = o.verbosity
	}
	return out
}

// loadSettings merges every config layer with the flags of cmd. Relative
// paths in the result are made absolute against the working directory.
func (o *globalOptions) loadSettings(cmd *cobra.Command) (config.Settings, error) {
	settings, err := config.Load(config.Options{
		ProjectDir:     o.projectDir,
		UserConfigFile: o.configFile,
		Overrides:      o.overrides(cmd),
	})
	if err != nil {
		return config.Settings{}, err
	}

	if settings.Logging.Verbosity > o.verbosity {
		zerolog.SetGlobalLevel(logging.LevelFor(settings.Logging.Verbosity))
	}

	if settings.Build.OutDir != "" {
		if settings.Build.OutDir, err = absPath(settings.Build.OutDir); err != nil {
			return config.Settings{}, err
		}
	}
	if settings.Library.ScriptPath != "" {
		if settings.Library.ScriptPath, err = absPath(settings.Library.ScriptPath); err != nil {
			return config.Settings{}, err
		}
	}
	return settings, nil
}

// outputFormat resolves --format against the command's stdout
func (o *globalOptions) outputFormat(cmd *cobra.Command) (ui.Format, error) {
	format, err := ui.ParseFormat(o.format)
	if err != nil {
		return ui.FormatAuto, errors.Wrap(err, errors.ErrInvalidInput, MsgErrInvalidFormat)
	}
	if format != ui.FormatAuto {
		return format, nil
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return ui.DetectFormat(f), nil
	}
	return ui.FormatText, nil
}

// newTaskFactory wires a TemplateCompiler per target. The library and the
// runner are shared; settings are read from provider on every compile.
func newTaskFactory(fsys types.FS, provider config.Provider) build.TaskFactory {
	library := dust.NewScriptCache(fsys, func() string {
		return provider.Settings().Library.ScriptPath
	})
	runner := command.NewShellRunner()
	logger := logging.GetLogger("compiler")

	return func(reporter types.ErrorReporter) types.CompileTask {
		return compiler.New(compiler.Options{
			Settings: provider,
			FS:       fsys,
			Library:  library,
			Runner:   runner,
			Reporter: reporter,
			Logger:   &logger,
		})
	}
}

// resolveRoots makes the paths given on the command line absolute, so the
// external compiler gets paths that work from the template's directory
func resolveRoots(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := absPath(arg)
		if err != nil {
			return nil, err
		}
		roots = append(roots, abs)
	}
	return roots, nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, MsgErrResolvePath, path)
	}
	return abs, nil
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
