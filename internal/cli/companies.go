package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/model"
	"github.com/Makepad-fr/aidir/internal/ui"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func checkOutput(s string) error {
	switch s {
	case outputText, outputJSON:
		return nil
	}
	return fmt.Errorf("unknown output %q (want text or json)", s)
}

// listOutput is the --output json shape of `aidir ls`.
type listOutput struct {
	Filter    string          `json:"filter"`
	Shown     int             `json:"shown"`
	Total     int             `json:"total"`
	Companies []model.Company `json:"companies"`
}

func newLsCmd(a *app) *cobra.Command {
	var filter, output string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List companies, optionally filtered by capability",
		Args:    cobra.NoArgs,
		Example: `  aidir ls
  aidir ls --filter inference
  aidir ls --filter fine-tuning --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := directory.ParseFilter(filter)
			if err != nil {
				return err
			}
			if err := checkOutput(output); err != nil {
				return err
			}
			b, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			v := directory.NewListView(b, directory.WithLogger(a.logs.Logger))
			v.Load(cmd.Context())
			if v.Phase() == directory.PhaseFailed {
				ui.Fail(cmd.ErrOrStderr(), v.Err())
				return errReported
			}
			v.SetFilter(f)

			out := cmd.OutOrStdout()
			if output == outputJSON {
				shown, total := v.Counts()
				return writeJSON(out, listOutput{
					Filter:    v.Filter().String(),
					Shown:     shown,
					Total:     total,
					Companies: v.Companies(),
				})
			}
			_, err = fmt.Fprintln(out, ui.CompanyList(v, a.width()))
			return err
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "capability filter: all, inference, gpus, web3 or finetuning")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one company with its products, pricing models and customers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("company id must not be blank")
			}
			if err := checkOutput(output); err != nil {
				return err
			}
			b, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			v := directory.NewDetailView(b, directory.WithLogger(a.logs.Logger))
			v.Load(cmd.Context(), id)
			if v.Phase() == directory.PhaseFailed {
				ui.Fail(cmd.ErrOrStderr(), v.Err())
				return errReported
			}

			out := cmd.OutOrStdout()
			if output == outputJSON {
				return writeJSON(out, v.Data())
			}
			_, err = fmt.Fprintln(out, ui.CompanyDetail(v.Data(), a.width(), time.Now()))
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
