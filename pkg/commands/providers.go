package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/commands/options"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/runner/ask"
	newsrunner "tableflip.dev/kiosk/pkg/runner/news"
	"tableflip.dev/kiosk/pkg/runner/weather"
)

func addWeather(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	lo := &options.LocationOptions{}
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Print the current conditions and the daily forecast.",
		Example: `
kiosk weather
kiosk weather --lat 43.06 --lon 141.35 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := lo.Coordinates(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			svc, err := cliService(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			f := weather.Forecast{
				Weather: svc.Weather,
				Locate:  svc.Locate,
				At:      at,
				JSON:    oo.JSON,
			}
			return oo.HandleError(f.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddLocationArgs(cmd, lo)
	topLevel.AddCommand(cmd)
}

func addNews(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var category string
	var limit int

	valid := make([]string, 0, len(news.Categories))
	long := strings.Builder{}
	long.WriteString("Print headlines for one category.\n\nCategories:\n")
	for _, c := range news.Categories {
		valid = append(valid, c.ID)
		long.WriteString("  " + c.ID + "  " + c.Name + "\n")
	}

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Print news headlines.",
		Long:  long.String(),
		Example: `
kiosk news
kiosk news --category cat5 --limit 5
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cliService(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			h := newsrunner.Headlines{
				News:     svc.News,
				Category: category,
				Limit:    limit,
				JSON:     oo.JSON,
			}
			return oo.HandleError(h.Do(cmd.Context()))
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", news.Categories[0].ID, "Category id or name.")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Print at most this many items.")
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return valid, cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addAsk(topLevel *cobra.Command) {
	var raw bool
	var width int
	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Ask the assistant one question.",
		Example: `
kiosk ask 明日の天気は？
kiosk ask --raw summarize today in one line
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cliService(cmd.Context())
			if err != nil {
				return err
			}
			a := ask.Ask{
				Assistant: svc.Assistant,
				Prompt:    strings.Join(args, " "),
				Raw:       raw,
				Width:     width,
			}
			return a.Do(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering.")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "Wrap the rendered reply at this width.")
	topLevel.AddCommand(cmd)
}
