package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/aidir/internal/config"
	"github.com/Makepad-fr/aidir/internal/ui"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the aidir configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigPathCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write a configuration file with default values",
		Long:        "Writes the defaults to --config or $HOME/.aidir.yaml. An existing file is never overwritten.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.flags.cfgFile
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			a.log.Info().Str("path", path).Msg("config written")
			ui.OK(cmd.OutOrStdout(), "wrote "+path)
			return nil
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.File != "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.cfg.File)
				return err
			}
			def, err := config.DefaultPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "none (defaults in use; would read %s)\n", def)
			return err
		},
	}
}
