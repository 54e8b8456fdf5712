package options

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

func Wrap80(text string) string {
	return Wrap(text, 80)
}

// Wrap reflows help text to width, collapsing runs of whitespace first.
func Wrap(text string, width int) string {
	return wordwrap.String(strings.Join(strings.Fields(text), " "), width)
}
