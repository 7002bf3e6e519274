package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Makepad-fr/aidir/internal/auth"
	"github.com/Makepad-fr/aidir/internal/ui"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API key used by the postgrest driver",
	}
	cmd.AddCommand(newAuthLoginCmd(a), newAuthLogoutCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [API_KEY]",
		Short: "Save an API key to ~/.aidir/credentials.json",
		Long: `Saves the API key used as both the apikey header and the bearer token.
Without an argument the key is read from stdin (hidden when stdin is a terminal).
` + auth.EnvAPIKey + ` overrides the saved key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				k, err := readKey(cmd)
				if err != nil {
					return fmt.Errorf("read key: %w", err)
				}
				key = k
			}
			creds, err := auth.Set(key)
			if err != nil {
				return fmt.Errorf("save key: %w", err)
			}
			a.log.Info().Bool("jwt", creds.ExpiresAt != nil).Msg("api key saved")
			ui.OK(cmd.OutOrStdout(), "logged in")
			if creds.Expired(time.Now()) {
				ui.Fail(cmd.ErrOrStderr(), "warning: this key is already expired")
			}
			return nil
		},
	}
}

// readKey prompts on stdin, without echo when it is a terminal.
func readKey(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Paste your API key: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		return string(b), err
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, _ := auth.Get()
			if creds != nil && creds.Source == "env" {
				ui.OK(cmd.OutOrStdout(), "key is provided by "+auth.EnvAPIKey+" (nothing to delete)")
				return nil
			}
			if err := auth.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from and what it grants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			t := ui.Current()
			creds, err := auth.Get()
			if err != nil {
				return err
			}
			if creds == nil {
				fmt.Fprintln(out, t.Muted.Render("not logged in"))
				fmt.Fprintln(out, "Run: aidir auth login")
				return nil
			}

			lines := []string{
				"source:  " + creds.Source,
				"key:     " + creds.Masked(),
			}
			if kc, err := auth.Claims(creds.APIKey); err == nil {
				if kc.Role != "" {
					lines = append(lines, "role:    "+kc.Role)
				}
				if kc.Ref != "" {
					lines = append(lines, "project: "+kc.Ref)
				}
			} else {
				lines = append(lines, t.Muted.Render("opaque key (no claims to show)"))
			}
			switch {
			case creds.ExpiresAt == nil:
				lines = append(lines, "expires: (unknown)")
			case creds.Expired(time.Now()):
				lines = append(lines, t.Error.Render("expired: "+humanize.Time(*creds.ExpiresAt)))
			default:
				lines = append(lines, "expires: "+creds.ExpiresAt.Format(time.RFC3339)+" ("+humanize.Time(*creds.ExpiresAt)+")")
			}
			if !creds.CreatedAt.IsZero() {
				lines = append(lines, "saved:   "+humanize.Time(creds.CreatedAt))
			}
			lines = append(lines, t.Muted.Render("env override: "+auth.EnvAPIKey))
			fmt.Fprintln(out, ui.Panel(lines, 0))
			return nil
		},
	}
}
