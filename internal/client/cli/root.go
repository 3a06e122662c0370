package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/mitteie/internal/client/config"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

// Root runs the interactive session until the user exits or ctx ends.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to mitteie (type 'help' for commands)")

	if _, err := a.cache.Resolve(ctx); err != nil {
		a.report(err)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

// NewRootCommand builds the command tree. The app is created once flags
// are parsed and closed when the command finishes.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var (
		flags *config.Flags
		app   *App
	)

	root := &cobra.Command{
		Use:   "mitteie",
		Short: "Command-line client for the mitteie home inventory",
		Long: `mitteie keeps track of your belongings: what you own, what it is worth
and the receipts that prove it.

Without a subcommand an interactive session starts. The subcommands
handle single links so the client can be registered as a URL handler.

Environment Variables:
  MITTEIE_SERVER_URL   Server base URL (default: http://localhost:8001)
  MITTEIE_LOG_LEVEL    debug, info, warn or error`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags)
			if err != nil {
				return err
			}
			log := logging.NewTextLogger(errOut, cfg.LogLevel)
			app, err = NewApp(cmd.Context(), cfg, in, out, log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Root(cmd.Context())
			return nil
		},
	}
	flags = config.BindFlags(root.PersistentFlags())

	oneShot := func(use, short string, nargs cobra.PositionalArgs, run func(a *App) handler) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  nargs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(app)(cmd.Context(), args)
			},
		}
	}

	root.AddCommand(
		oneShot("callback <url>", "Complete a login link", cobra.ExactArgs(1),
			func(a *App) handler { return a.Open }),
		oneShot("payment-return <url>", "Check a payment after returning from checkout", cobra.ExactArgs(1),
			func(a *App) handler { return a.Open }),
		oneShot("status", "Show who is signed in", cobra.NoArgs,
			func(a *App) handler { return a.Status }),
		oneShot("export [file|s3]", "Export the inventory to a .json/.yaml(.zst) file or the configured bucket", cobra.MaximumNArgs(1),
			func(a *App) handler { return a.Export }),
	)
	return root
}

// Execute runs the CLI against the process's stdio.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errNotified) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
