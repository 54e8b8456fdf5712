package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/commands/options"
	"tableflip.dev/kiosk/pkg/runner/alarms"
	"tableflip.dev/kiosk/pkg/snake"
)

func addAlarm(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "alarm",
		Aliases: []string{"alarms"},
		Short:   "List and manage alarms.",
		Long: options.Wrap80(`Alarms are shared with a running dashboard: changes made
here show up on screen without a restart.`),
		Example: `
kiosk alarm
kiosk alarm add 06:30 wake up
kiosk alarm add --in 20m nap
kiosk alarm toggle 0190a1b2
kiosk alarm rm 0190a1b2
kiosk alarm -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return snake.PromptNext(cmd, args)
			}
			svc, err := cliService(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			l := alarms.List{
				Output: alarms.Output{JSON: oo.JSON, ShowID: io.ShowID},
				Alarms: svc.Alarms,
			}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, io)

	addAlarmList(cmd)
	addAlarmAdd(cmd)
	addAlarmToggle(cmd)
	addAlarmRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addAlarmList(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	io := &options.IDOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List alarms and the next one due.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cliService(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			l := alarms.List{
				Output: alarms.Output{JSON: oo.JSON, ShowID: io.ShowID},
				Alarms: svc.Alarms,
			}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

func addAlarmAdd(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}
	var in time.Duration

	cmd := &cobra.Command{
		Use:   "add [HH:MM] [label...]",
		Short: "Add an enabled alarm.",
		Example: `
kiosk alarm add 06:30
kiosk alarm add 21:00 take out the trash
kiosk alarm add --in 1h30m
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cliService(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			a := alarms.Add{
				Output:      alarms.Output{JSON: oo.JSON},
				Alarms:      svc.Alarms,
				In:          in,
				Interactive: i.Interactive || (len(args) == 0 && in == 0),
			}
			switch {
			case in > 0:
				a.Label = strings.Join(args, " ")
			case len(args) > 0:
				a.Time = args[0]
				a.Label = strings.Join(args[1:], " ")
			}
			return oo.HandleError(a.Do(cmd.Context()))
		},
	}
	cmd.Flags().DurationVar(&in, "in", 0, "Ring this long from now instead of at a fixed time, rounded up to the minute.")
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addAlarmToggle(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "toggle [id]",
		Short: "Enable or disable an alarm. Without an id, pick one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cliService(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			t := alarms.Toggle{
				Output: alarms.Output{JSON: oo.JSON},
				Alarms: svc.Alarms,
			}
			if len(args) == 1 {
				t.ID = args[0]
			} else {
				t.Pick = alarms.Prompt(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return oo.HandleError(t.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addAlarmRemove(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove an alarm. Without an id, pick one.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cliService(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			r := alarms.Remove{
				Output: alarms.Output{JSON: oo.JSON},
				Alarms: svc.Alarms,
			}
			if len(args) == 1 {
				r.ID = args[0]
			} else {
				r.Pick = alarms.Prompt(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
