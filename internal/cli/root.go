package cli

import (
	"github.com/spf13/cobra"
)

const annotationNoConfig = "aidir/no-config"

// NewRootCmd builds the command tree. Exposed for docs and completion.
func NewRootCmd(version string) *cobra.Command {
	cmd, _ := newRootCmd(version)
	return cmd
}

func newRootCmd(version string) (*cobra.Command, *app) {
	a := newApp()
	browse := newBrowseCmd(a)

	cmd := &cobra.Command{
		Use:   "aidir",
		Short: "Browse the AI company directory from your terminal",
		Long: `aidir lists AI companies from the directory database, filters them by
capability (inference, GPUs, Web3, fine-tuning) and shows each company's
products, pricing models and notable customers.

Run without a subcommand to open the interactive browser.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: `  # Interactive browser
  aidir

  # Companies offering GPUs, as JSON
  aidir ls --filter gpus --output json

  # One company
  aidir show 3f1c9a4e-...

  # Use a local snapshot instead of the API
  aidir --driver fixture ls   # with AIDIR_STORE_PATH=companies.yaml`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: browse.RunE,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.cfgFile, "config", "", "config file (default is $HOME/.aidir.yaml)")
	pf.StringVar(&a.flags.driver, "driver", "", "store driver: postgrest, postgres, sqlite or fixture")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
	pf.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.flags.theme, "theme", "", "color theme: classic, neon or mono")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		browse,
		newLsCmd(a),
		newShowCmd(a),
		newAuthCmd(a),
		newConfigCmd(a),
	)
	return cmd, a
}
