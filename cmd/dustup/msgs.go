package dustup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Compile dust templates to JavaScript"
	MsgCompileShort    = "Compile templates"
	MsgWatchShort      = "Compile templates and recompile them on change"
	MsgConfigShort     = "Show the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgNoTemplates     = "No templates found."
	MsgConfigCreated   = "Created %s\n"
	MsgWatchStopped    = "Stopped watching."
	MsgVersionFormat   = "dustup version %s\n  commit: %s\n  built:  %s\n"
	MsgJUnitSuiteName  = "dustup"
	MsgConfigReloaded  = "Configuration reloaded"
	MsgConfigNotReload = "Failed to reload configuration, keeping previous settings"

	// Error messages
	MsgErrNoCommand      = "no command specified"
	MsgErrFailedTargets  = "%d of %d templates failed to compile"
	MsgErrConfigExists   = "%s already exists"
	MsgErrWriteConfig    = "failed to write %s"
	MsgErrWriteJUnit     = "failed to write JUnit report %s"
	MsgErrUnknownFormat  = "unknown config format %q, expected toml or yaml"
	MsgErrResolvePath    = "cannot resolve %s"
	MsgErrInvalidFormat  = "invalid --format value"
	MsgErrLoadHelpTopics = "failed to load help topics"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagProject     = "Project directory searched for .dustup.toml"
	MsgFlagConfig      = "User config file (default $XDG_CONFIG_HOME/dustup/config.toml)"
	MsgFlagUseCommand  = "Compile with the external command instead of the library"
	MsgFlagCommandPath = "External compiler to run (default dustc)"
	MsgFlagTimeout     = "Time limit for one external compiler run"
	MsgFlagOutDir      = "Write compiled files to this directory"
	MsgFlagJobs        = "Number of templates compiled at the same time"
	MsgFlagScript      = "dustjs compiler script used in library mode"
	MsgFlagFormat      = "Output format: auto, term, text or json"
	MsgFlagJUnit       = "Also write a JUnit XML report to this file"
	MsgFlagConfigOut   = "Print the configuration as toml or yaml"
	MsgFlagInit        = "Write a commented .dustup.toml to the project directory"
	MsgFlagDefaults    = "Print the built-in defaults"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/compile-long.txt
	msgCompileLongRaw string
	MsgCompileLong    = strings.TrimSpace(msgCompileLongRaw)

	//go:embed msgs/compile-example.txt
	msgCompileExampleRaw string
	MsgCompileExample    = strings.TrimRight(msgCompileExampleRaw, "\n")

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = msgUsageTemplateRaw
)
