// Package news renders the headline widget and the category browser.
package news

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/tui/theme"
	"tableflip.dev/kiosk/pkg/tui/ui"
)

// Ago renders a publish time relative to now.
func Ago(published, now time.Time) string {
	d := now.Sub(published)
	switch {
	case d < time.Minute:
		return "たった今"
	case d < time.Hour:
		return fmt.Sprintf("%d分前", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d時間前", int(d/time.Hour))
	default:
		return published.Format("1/2 15:04")
	}
}

// Widget renders the first headlines.
func Widget(th theme.Theme, items []news.Item, now time.Time, width int) string {
	frame := th.Panel.Frame.Width(width)
	inner := max(10, width-4)
	lines := []string{th.Panel.Title.Render("ニュース")}
	if items == nil {
		lines = append(lines, th.Panel.Muted.Render("読み込み中…"))
	}
	for _, it := range news.Summary(items) {
		title := truncate.StringWithTail(it.Title, uint(inner-2), "…")
		lines = append(lines, th.Panel.Body.Render("• "+title))
		if !it.Failed {
			lines = append(lines, th.Panel.Muted.Render("  "+Ago(it.Published, now)))
		}
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Browser is the category news modal. The coordinator owns the item list
// and the fetch; the browser keeps the scroll position.
type Browser struct {
	th       theme.Theme
	viewport viewport.Model
	category int
	items    []news.Item
	loading  bool
	now      time.Time
	width    int
	height   int
}

var _ ui.Component = (*Browser)(nil)

func NewBrowser(th theme.Theme) *Browser {
	return &Browser{
		th:       th,
		viewport: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
	}
}

func (b *Browser) Init() tea.Cmd { return nil }

// Update scrolls the list with the viewport's default keys and the wheel.
func (b *Browser) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyPressMsg, tea.MouseWheelMsg:
		var cmd tea.Cmd
		b.viewport, cmd = b.viewport.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *Browser) SetSize(width, height int) {
	b.width, b.height = width, height
	b.viewport.SetWidth(max(1, width))
	b.viewport.SetHeight(max(1, height-3))
	b.refresh()
}

func (b *Browser) SetTheme(th theme.Theme) {
	b.th = th
	b.refresh()
}

// Category is the selected category index.
func (b *Browser) Category() int { return b.category }

// SetCategory selects a category and marks the list as loading.
func (b *Browser) SetCategory(i int) {
	b.category = i
	b.loading = true
	b.refresh()
}

// SetItems shows a fetched list.
func (b *Browser) SetItems(items []news.Item, now time.Time) {
	b.items = items
	b.loading = false
	b.now = now
	b.refresh()
	b.viewport.GotoTop()
}

func (b *Browser) refresh() {
	inner := max(10, b.width-2)
	var lines []string
	if b.loading {
		lines = append(lines, b.th.Panel.Muted.Render("読み込み中…"))
	}
	for i, it := range b.items {
		title := truncate.StringWithTail(it.Title, uint(inner-4), "…")
		lines = append(lines, b.th.Modal.Body.Render(fmt.Sprintf("%2d. %s", i+1, title)))
		if !it.Failed {
			meta := Ago(it.Published, b.now)
			if it.Link != "" && it.Link != "#" {
				meta += "  " + it.Link
			}
			lines = append(lines, b.th.Panel.Muted.Render("    "+truncate.String(meta, uint(inner-4))))
		}
	}
	b.viewport.SetContent(strings.Join(lines, "\n"))
}

func (b *Browser) tabs() string {
	var tabs []string
	for i, c := range news.Categories {
		label := fmt.Sprintf("%d:%s", i+1, c.Name)
		if i == b.category {
			tabs = append(tabs, b.th.Modal.Selected.Render(label))
		} else {
			tabs = append(tabs, b.th.Panel.Muted.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (b *Browser) View() string {
	header := b.th.Modal.Title.Render("ニュース") + "  " + b.tabs()
	return lipgloss.JoinVertical(lipgloss.Left, header, "", b.viewport.View())
}
