package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/aidir/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive company browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.isTTY() {
				return errors.New("browse needs an interactive terminal; use `aidir ls` or `aidir show ID` instead")
			}
			b, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			return tui.Run(cmd.Context(), b, a.logs.Logger)
		},
	}
}
