package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/app"
	"tableflip.dev/kiosk/pkg/commands/options"
	"tableflip.dev/kiosk/pkg/config"
	"tableflip.dev/kiosk/pkg/logging"
)

func New() *cobra.Command {
	uo := &uiOptions{}
	cmd := &cobra.Command{
		Use:   "kiosk",
		Short: options.Wrap80("Clock, weather, news, alarms and a voice assistant for a wall-mounted screen."),
		Long: options.Wrap80(`Running kiosk without a subcommand opens the dashboard. The
subcommands manage alarms and query the same providers from a shell.`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return uo.run(cmd.Context())
		},
	}
	addUIArgs(cmd, uo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAlarm(topLevel)
	addWeather(topLevel)
	addNews(topLevel)
	addAsk(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// cliService loads config and opens the service with warnings going to
// stderr.
func cliService(ctx context.Context) (*app.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.ToStderr(cfg.Log.Level)
	return app.New(contextOrBackground(ctx), cfg)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
