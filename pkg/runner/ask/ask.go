// Package ask implements `kiosk ask`, a one-shot assistant query.
package ask

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// Responder is satisfied by *assistant.Responder.
type Responder interface {
	Reply(ctx context.Context, prompt string) string
}

type Ask struct {
	Assistant Responder
	Prompt    string
	// Raw skips markdown rendering.
	Raw   bool
	Width int
	Out   io.Writer
}

func (a *Ask) out() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return color.Output
}

func (a *Ask) Do(ctx context.Context) error {
	prompt := strings.TrimSpace(a.Prompt)
	if prompt == "" {
		return fmt.Errorf("ask: empty prompt")
	}
	reply := a.Assistant.Reply(ctx, prompt)
	if a.Raw {
		_, err := fmt.Fprintln(a.out(), reply)
		return err
	}
	_, err := fmt.Fprint(a.out(), Render(reply, a.Width))
	return err
}

// Render formats reply as terminal markdown, returning it unchanged when the
// renderer cannot be built.
func Render(reply string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		slog.Debug("ask: markdown renderer", "error", err)
		return reply + "\n"
	}
	out, err := renderer.Render(reply)
	if err != nil {
		return reply + "\n"
	}
	return out
}
