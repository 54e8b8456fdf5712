package teaui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/location"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/poll"
	"tableflip.dev/kiosk/pkg/speech"
	"tableflip.dev/kiosk/pkg/tui/events"
	"tableflip.dev/kiosk/pkg/weather"
)

func locateCmd(ctx context.Context, provider location.Provider, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		return events.LocationMsg{Result: location.Resolve(ctx, provider, timeout)}
	}
}

// fetchWeather issues a weather poll for the resolved coordinates.
func (m *Model) fetchWeather() tea.Cmd {
	if m.deps.Weather == nil {
		return nil
	}
	ticket := m.weatherSeq.Issue()
	src, ctx, at := m.deps.Weather, m.ctx, m.coords
	return func() tea.Msg {
		snap, err := src.Snapshot(ctx, at)
		if err != nil {
			snap = weather.Fallback()
		}
		return events.WeatherMsg{Ticket: ticket, Snapshot: snap, Err: err}
	}
}

// fetchHeadlines polls the dashboard feed, always the first category.
func (m *Model) fetchHeadlines() tea.Cmd {
	if m.deps.News == nil {
		return nil
	}
	return fetchNewsCmd(m.ctx, m.deps.News, events.FeedHeadlines, m.headlineSeq.Issue(), 0)
}

// fetchDetail polls the browser's selected category.
func (m *Model) fetchDetail() tea.Cmd {
	if m.deps.News == nil {
		return nil
	}
	return fetchNewsCmd(m.ctx, m.deps.News, events.FeedDetail, m.detailSeq.Issue(), m.browser.Category())
}

func fetchNewsCmd(ctx context.Context, src NewsSource, feed events.Feed, ticket poll.Ticket, idx int) tea.Cmd {
	cat := news.Categories[idx]
	return func() tea.Msg {
		items, err := src.Fetch(ctx, cat)
		if err != nil && len(items) == 0 {
			items = news.Failure(time.Now())
		}
		return events.NewsMsg{Feed: feed, Ticket: ticket, Category: idx, Items: items, Err: err}
	}
}

// listen starts a capture for turn. The capture is cancelled when the turn is
// abandoned.
func (m *Model) listen(turn assistant.Turn) tea.Cmd {
	m.stopListening()
	ctx, cancel := context.WithCancel(m.ctx)
	m.listenCancel = cancel
	rec := m.deps.Recognizer
	return func() tea.Msg {
		defer cancel()
		if rec == nil {
			return events.TranscriptMsg{Turn: turn, Err: speech.ErrUnavailable}
		}
		text, err := rec.Listen(ctx)
		return events.TranscriptMsg{Turn: turn, Text: text, Err: err}
	}
}

func askCmd(ctx context.Context, r Responder, turn assistant.Turn, prompt string) tea.Cmd {
	return func() tea.Msg {
		return events.ReplyMsg{Turn: turn, Text: r.Reply(ctx, prompt)}
	}
}

func refreshNowCmd(now time.Time) tea.Cmd {
	return func() tea.Msg {
		return events.RefreshMsg{Time: now, Manual: true}
	}
}

func startWatchCmd(parent context.Context, watch Watcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := watch(ctx)
		if err != nil {
			cancel()
			return events.WatchStartedMsg{Err: err}
		}
		return events.WatchStartedMsg{Ch: ch, Cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return events.WatchEventMsg{Event: ev}
		}
		return events.WatchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}
