// Package options defines shared flag helpers for CLI commands.
package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions selects between pretty and JSON output.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError prints err as {"error": ...} in JSON mode so scripts always get
// a document, and passes it through otherwise.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	b, merr := json.Marshal(map[string]string{"error": err.Error()})
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
