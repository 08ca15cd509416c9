package dustup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dustup/pkg/config"
	"github.com/arthur-debert/dustup/pkg/errors"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var (
		output   string
		initFile bool
		defaults bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case initFile:
				return writeProjectConfig(cmd, opts.projectDir)
			case defaults:
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultsContent())
				return err
			}

			if output != "toml" && output != "yaml" {
				return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownFormat, output)
			}

			settings, err := opts.loadSettings(cmd)
			if err != nil {
				return err
			}
			rendered, err := config.Render(settings, output)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "toml", MsgFlagConfigOut)
	cmd.Flags().BoolVar(&initFile, "init", false, MsgFlagInit)
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	cmd.MarkFlagsMutuallyExclusive("init", "defaults")

	return cmd
}

func writeProjectConfig(cmd *cobra.Command, projectDir string) error {
	path := filepath.Join(projectDir, config.ProjectConfigFiles[0])
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, path)
	}

	if err := os.WriteFile(path, []byte(config.GenerateConfigContent()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, MsgErrWriteConfig, path)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigCreated, path)
	return nil
}
