// Package cli wires the aidir cobra commands to configuration, logging, the
// store drivers and the two view-models.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/aidir/internal/auth"
	"github.com/Makepad-fr/aidir/internal/config"
	"github.com/Makepad-fr/aidir/internal/logging"
	"github.com/Makepad-fr/aidir/internal/store"
	"github.com/Makepad-fr/aidir/internal/ui"
)

// errReported marks an error already printed to stderr.
var errReported = errors.New("reported")

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	cfgFile  string
	driver   string
	logLevel string
	theme    string
	debug    bool
	noColor  bool
}

// app is the state one invocation builds in PersistentPreRunE.
type app struct {
	flags rootFlags
	cfg   *config.Config
	logs  logging.Result
	log   zerolog.Logger

	openStore func(ctx context.Context, cfg config.Store, logger zerolog.Logger) (store.Backend, error)
	isTTY     func() bool
}

func newApp() *app {
	return &app{
		log:       zerolog.Nop(),
		openStore: store.Open,
		isTTY:     func() bool { return ui.IsTTY(os.Stdout) },
	}
}

// Execute runs the CLI with args and returns the process exit code:
// 0 ok, 1 any error (usage errors included).
func Execute(ctx context.Context, version string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd, a := newRootCmd(version)
	defer a.close()

	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			ui.Fail(stderr, err.Error())
		}
		return 1
	}
	return 0
}

// setup loads config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.cfgFile)
	if err != nil {
		if cmd.Annotations[annotationNoConfig] != "" {
			// config init must work before any file exists.
			cfg = &config.Config{}
		} else {
			return err
		}
	}

	if cmd.Flags().Changed("driver") {
		cfg.Store.Driver = strings.ToLower(strings.TrimSpace(a.flags.driver))
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.debug {
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("theme") {
		cfg.UI.Theme = a.flags.theme
	}
	if cfg.UI.Theme != "" && !ui.KnownTheme(cfg.UI.Theme) {
		return errors.New("unknown theme " + cfg.UI.Theme + " (want " + strings.Join(ui.ThemeNames(), ", ") + ")")
	}

	if cfg.Store.APIKey == "" {
		if creds, err := auth.Get(); err == nil && creds != nil {
			cfg.Store.APIKey = creds.APIKey
		}
	}

	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorForcing(false, a.flags.noColor)

	a.cfg = cfg
	a.logs = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}, cmd.ErrOrStderr())
	a.log = logging.Component(a.logs.Logger, "cli")
	a.log.Debug().
		Str("command", cmd.CommandPath()).
		Str("config", cfg.File).
		Str("driver", cfg.Store.Driver).
		Msg("starting")
	return nil
}

func (a *app) close() {
	_ = a.logs.Close()
}

// backend validates the store config and opens the selected driver.
func (a *app) backend(ctx context.Context) (store.Backend, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := a.openStore(ctx, a.cfg.Store, a.logs.Logger)
	if err != nil {
		a.log.Error().Err(err).Msg("open store")
		return nil, err
	}
	return b, nil
}

// width is the wrap width for text output; 0 when stdout is not a terminal.
func (a *app) width() int {
	if !a.isTTY() {
		return 0
	}
	w, _ := ui.TermSize()
	return w
}
