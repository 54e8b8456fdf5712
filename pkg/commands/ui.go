package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/app"
	"tableflip.dev/kiosk/pkg/config"
	"tableflip.dev/kiosk/pkg/logging"
	"tableflip.dev/kiosk/pkg/runner/ui"
)

type uiOptions struct {
	Debug bool
}

func addUIArgs(cmd *cobra.Command, o *uiOptions) {
	cmd.Flags().BoolVarP(&o.Debug, "debug", "d", false,
		"Start with the event viewer open.")
}

// run logs to the configured file; the terminal belongs to the dashboard.
func (o *uiOptions) run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, closer, err := logging.ToFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(contextOrBackground(ctx), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("kiosk: starting dashboard", "store", cfg.Path, "refresh", cfg.Refresh)
	u := ui.UI{Service: svc, Debug: o.Debug}
	return u.Do(ctx)
}

func addUI(topLevel *cobra.Command) {
	o := &uiOptions{}
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the full-screen dashboard.",
		Example: `
kiosk ui
kiosk ui --debug
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context())
		},
	}
	addUIArgs(cmd, o)

	topLevel.AddCommand(cmd)
}
