package options

import (
	"github.com/spf13/cobra"
)

// InteractiveOptions turns on promptui prompts for whatever the arguments
// left out.
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		"Prompt for the subcommand or for missing values.")
}
