// Package news implements `kiosk news`.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	feed "tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/printers"
)

// Source is satisfied by *news.Client.
type Source interface {
	Fetch(ctx context.Context, category feed.Category) ([]feed.Item, error)
}

// Headlines prints one category's items.
type Headlines struct {
	News     Source
	Category string
	Limit    int
	JSON     bool
	Out      io.Writer
}

func (h *Headlines) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return color.Output
}

func (h *Headlines) Do(ctx context.Context) error {
	cat := feed.Categories[0]
	if h.Category != "" {
		c, _, ok := feed.CategoryByID(h.Category)
		if !ok {
			return fmt.Errorf("news: unknown category %q", h.Category)
		}
		cat = c
	}
	items, err := h.News.Fetch(ctx, cat)
	if err != nil {
		return err
	}
	if h.Limit > 0 && len(items) > h.Limit {
		items = items[:h.Limit]
	}
	if h.JSON {
		b, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(h.out(), string(b))
		return err
	}
	pp := printers.PrettyPrint{Out: h.out()}
	pp.NewLine()
	pp.Title(cat.Name)
	pp.Headlines(time.Now(), items...)
	return nil
}
