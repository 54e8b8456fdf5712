// Package teaui hosts the Bubble Tea program for the kiosk dashboard. The
// root Model is the coordinator: it owns every piece of application state and
// is the only place that state changes.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/location"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/poll"
	"tableflip.dev/kiosk/pkg/schedule"
	"tableflip.dev/kiosk/pkg/speech"
	"tableflip.dev/kiosk/pkg/store"
	"tableflip.dev/kiosk/pkg/tui/components/alarms"
	assistantview "tableflip.dev/kiosk/pkg/tui/components/assistant"
	"tableflip.dev/kiosk/pkg/tui/components/eventviewer"
	"tableflip.dev/kiosk/pkg/tui/components/help"
	newsview "tableflip.dev/kiosk/pkg/tui/components/news"
	"tableflip.dev/kiosk/pkg/tui/events"
	"tableflip.dev/kiosk/pkg/tui/nav"
	"tableflip.dev/kiosk/pkg/tui/theme"
	"tableflip.dev/kiosk/pkg/weather"
)

// WeatherSource fetches a forecast. On failure it returns a fallback snapshot
// alongside the error.
type WeatherSource interface {
	Snapshot(ctx context.Context, at location.Coordinates) (weather.Snapshot, error)
}

// NewsSource fetches one category's headlines. On failure it returns the
// synthetic failure item alongside the error.
type NewsSource interface {
	Fetch(ctx context.Context, category news.Category) ([]news.Item, error)
}

// Responder answers assistant prompts. It never fails; failures come back as
// display text.
type Responder interface {
	Reply(ctx context.Context, prompt string) string
}

// Audio is the single audio output. audio.Arbiter implements it.
type Audio interface {
	Ring()
	Silence()
	Speak(text string) bool
	Hush()
	Speaking() bool
}

// Watcher streams store changes.
type Watcher func(ctx context.Context) (<-chan store.Event, error)

// Deps are the external collaborators the coordinator drives.
type Deps struct {
	Alarms        *alarm.Store
	Weather       WeatherSource
	News          NewsSource
	Locator       location.Provider
	LocateTimeout time.Duration
	Assistant     Responder
	// Recognizer is nil when voice capture is unsupported.
	Recognizer speech.Recognizer
	Audio      Audio
	Watch      Watcher
	Now        func() time.Time

	SwipeThreshold   int
	DefaultAlarmTime string
	Debug            bool
}

type modal int

const (
	modalNone modal = iota
	modalWeather
	modalNews
	modalHelp
)

// Model is the root model.
type Model struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	now time.Time
	th  theme.Theme

	coords  location.Coordinates
	located bool

	forecast      weather.Snapshot
	forecastShown bool
	forecastGood  bool
	weatherSeq    poll.Sequencer

	headlines   []news.Item
	headlineSeq poll.Sequencer
	detailSeq   poll.Sequencer

	alarmList []alarm.Alarm
	monitor   alarm.Monitor

	turn         assistant.Controller
	listenCancel context.CancelFunc

	nav        *nav.Navigator
	modal      modal
	fullscreen bool
	status     string

	alarmView *alarms.Model
	prompt    *assistantview.Model
	browser   *newsview.Browser
	help      *help.Model

	debug     bool
	eventView *eventviewer.Model

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New constructs the coordinator. Nil collaborators are replaced with inert
// defaults so the dashboard always starts.
func New(parent context.Context, deps Deps) *Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Audio == nil {
		deps.Audio = silentAudio{}
	}
	if deps.Assistant == nil {
		deps.Assistant = assistant.NewResponder(nil, 0)
	}
	if deps.LocateTimeout <= 0 {
		deps.LocateTimeout = location.DefaultTimeout
	}
	if deps.DefaultAlarmTime == "" {
		deps.DefaultAlarmTime = "07:00"
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	now := deps.Now()
	th := theme.ForBand(theme.BandFor(now.Hour()))
	m := &Model{
		deps:       deps,
		ctx:        ctx,
		cancel:     cancel,
		now:        now,
		th:         th,
		forecast:   weather.Fallback(),
		nav:        nav.New(deps.SwipeThreshold),
		fullscreen: true,
		alarmView:  alarms.New(th),
		prompt:     assistantview.New(th),
		browser:    newsview.NewBrowser(th),
		help:       help.New(),
	}
	if deps.Alarms != nil {
		m.alarmList = deps.Alarms.List()
	}
	m.alarmView.SetAlarms(m.alarmList)
	m.alarmView.SetNow(now)
	if deps.Debug {
		m.toggleDebug()
	}
	return m
}

// Init starts the one-shot location lookup, the first headline poll and the
// store watcher. The first weather poll follows the location result.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		locateCmd(m.ctx, m.deps.Locator, m.deps.LocateTimeout),
		m.fetchHeadlines(),
	}
	if m.deps.Watch != nil {
		cmds = append(cmds, startWatchCmd(m.ctx, m.deps.Watch))
	}
	return tea.Batch(cmds...)
}

// Close releases the watcher and any capture in progress.
func (m *Model) Close() {
	m.stopListening()
	m.stopWatch()
	m.cancel()
}

// Update is the single inbox. All state changes happen here.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applySizes()
	case events.TickMsg:
		m.handleTick(msg.Time, &cmds)
	case events.RefreshMsg:
		m.handleRefresh(msg, &cmds)
	case events.LocationMsg:
		m.coords = msg.Result.Coordinates
		m.located = true
		if msg.Result.Fallback {
			slog.Warn("location: using default", "coords", m.coords.String(), "error", msg.Result.Err)
		}
		cmds = append(cmds, m.fetchWeather())
	case events.WeatherMsg:
		m.applyWeather(msg)
	case events.NewsMsg:
		m.applyNews(msg)
	case events.AlarmRingMsg:
		slog.Info("alarm: ringing", "id", msg.Alarm.ID, "time", msg.Alarm.Time.String(), "label", msg.Alarm.Label)
	case events.AlarmsChangedMsg:
		if msg.Err != nil {
			slog.Warn("alarm: persist failed", "action", msg.Action, "error", msg.Err)
			m.setStatus("保存に失敗しました: " + msg.Err.Error())
		}
		m.syncAlarms()
	case events.TranscriptMsg:
		m.handleTranscript(msg, &cmds)
	case events.ReplyMsg:
		if m.turn.Resolve(msg.Turn, msg.Text) {
			m.deps.Audio.Speak(msg.Text)
		}
	case events.WatchStartedMsg:
		if msg.Err != nil {
			slog.Warn("store: watch failed", "error", msg.Err)
			break
		}
		m.stopWatch()
		m.watchCh = msg.Ch
		m.watchCancel = msg.Cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case events.WatchEventMsg:
		m.handleWatchEvent(msg.Event)
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case events.WatchStoppedMsg:
		m.stopWatch()
		if m.ctx.Err() == nil && m.deps.Watch != nil {
			cmds = append(cmds, startWatchCmd(m.ctx, m.deps.Watch))
		}
	case tea.KeyPressMsg:
		if cmd := m.handleKeyPress(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseClickMsg:
		if m.gesturesEnabled() {
			m.nav.Press(msg.Mouse().X)
		}
	case tea.MouseReleaseMsg:
		if m.gesturesEnabled() && m.nav.Release(msg.Mouse().X) {
			m.screenChanged()
		}
	case tea.MouseWheelMsg:
		m.routeScroll(msg, &cmds)
	default:
		m.routeToFocused(msg, &cmds)
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleTick(now time.Time, cmds *[]tea.Cmd) {
	m.now = now
	if band := theme.BandFor(now.Hour()); band != m.th.Band {
		m.setTheme(theme.ForBand(band))
	}
	m.alarmView.SetNow(now)
	if a, ok := m.monitor.Check(now, m.alarmList); ok {
		m.deps.Audio.Ring()
		*cmds = append(*cmds, func() tea.Msg { return events.AlarmRingMsg{Alarm: a} })
	}
}

// handleRefresh issues the interval polls. A scheduled trigger is skipped for
// a poller that still has a request outstanding; a manual one always issues.
func (m *Model) handleRefresh(msg events.RefreshMsg, cmds *[]tea.Cmd) {
	if m.located && (msg.Manual || !m.weatherSeq.Busy()) {
		*cmds = append(*cmds, m.fetchWeather())
	}
	if msg.Manual || !m.headlineSeq.Busy() {
		*cmds = append(*cmds, m.fetchHeadlines())
	}
	if m.modal == modalNews && (msg.Manual || !m.detailSeq.Busy()) {
		*cmds = append(*cmds, m.fetchDetail())
	}
}

// applyWeather keeps the last good snapshot when a poll fails. Until the first
// success the fallback snapshot is shown.
func (m *Model) applyWeather(msg events.WeatherMsg) {
	if !m.weatherSeq.Accept(msg.Ticket) {
		slog.Debug("weather: stale response dropped", "ticket", msg.Ticket, "applied", m.weatherSeq.Applied())
		return
	}
	if !m.weatherSeq.Current(msg.Ticket) {
		slog.Debug("weather: newer poll still outstanding", "ticket", msg.Ticket)
	}
	m.forecastShown = true
	if msg.Err != nil {
		slog.Warn("weather: poll failed", "error", msg.Err)
		if !m.forecastGood {
			m.forecast = weather.Fallback()
		}
		return
	}
	m.forecast = msg.Snapshot
	m.forecastGood = true
}

func (m *Model) applyNews(msg events.NewsMsg) {
	switch msg.Feed {
	case events.FeedDetail:
		if !m.detailSeq.Accept(msg.Ticket) {
			slog.Debug("news: stale response dropped", "feed", msg.Feed.String(), "ticket", msg.Ticket, "applied", m.detailSeq.Applied())
			return
		}
		m.browser.SetItems(msg.Items, m.now)
	default:
		if !m.headlineSeq.Accept(msg.Ticket) {
			slog.Debug("news: stale response dropped", "feed", msg.Feed.String(), "ticket", msg.Ticket, "applied", m.headlineSeq.Applied())
			return
		}
		m.headlines = msg.Items
	}
	if msg.Err != nil {
		slog.Warn("news: poll failed", "feed", msg.Feed.String(), "category", msg.Category, "error", msg.Err)
	}
}

func (m *Model) handleTranscript(msg events.TranscriptMsg, cmds *[]tea.Cmd) {
	if msg.Turn == m.turn.Turn() {
		m.listenCancel = nil
	}
	switch {
	case errors.Is(msg.Err, speech.ErrUnavailable):
		if m.turn.CaptureFailed(msg.Turn) {
			m.turn.CaptureUnavailable()
		}
	case msg.Err != nil:
		if m.turn.CaptureFailed(msg.Turn) && !errors.Is(msg.Err, speech.ErrNoSpeech) && !errors.Is(msg.Err, context.Canceled) {
			slog.Warn("speech: capture failed", "error", msg.Err)
		}
	default:
		if m.turn.Transcribed(msg.Turn, msg.Text) {
			*cmds = append(*cmds, askCmd(m.ctx, m.deps.Assistant, msg.Turn, msg.Text))
		}
	}
}

func (m *Model) handleWatchEvent(ev store.Event) {
	if m.deps.Alarms == nil || !ev.Affects(alarm.Slot) {
		return
	}
	m.deps.Alarms.Reload()
	m.syncAlarms()
}

func (m *Model) syncAlarms() {
	if m.deps.Alarms == nil {
		return
	}
	m.alarmList = m.deps.Alarms.List()
	m.alarmView.SetAlarms(m.alarmList)
}

func (m *Model) setTheme(th theme.Theme) {
	m.th = th
	m.alarmView.SetTheme(th)
	m.prompt.SetTheme(th)
	m.browser.SetTheme(th)
	if m.eventView != nil {
		m.eventView.SetTheme(th)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
}

func (m *Model) gesturesEnabled() bool {
	_, ringing := m.monitor.Ringing()
	return !ringing && m.modal == modalNone && !m.alarmView.Editing()
}

// screenChanged drops input focus that belongs to the screen being left.
func (m *Model) screenChanged() {
	m.prompt.Blur()
	if m.alarmView.Editing() {
		m.alarmView.EndAdd()
	}
}

func (m *Model) routeScroll(msg tea.MouseWheelMsg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.modal == modalNews:
		_, cmd = m.browser.Update(msg)
	case m.modal == modalHelp:
		_, cmd = m.help.Update(msg)
	case m.debug && m.eventView != nil:
		_, cmd = m.eventView.Update(msg)
	}
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// routeToFocused forwards non-key messages (cursor blinks) to the input that
// owns focus.
func (m *Model) routeToFocused(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.alarmView.Editing():
		_, cmd = m.alarmView.Update(msg)
	case m.prompt.Focused():
		_, cmd = m.prompt.Update(msg)
	}
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) stopListening() {
	if m.listenCancel != nil {
		m.listenCancel()
		m.listenCancel = nil
	}
}

func (m *Model) toggleDebug() {
	if m.debug {
		m.debug = false
		m.eventView = nil
		m.applySizes()
		return
	}
	m.debug = true
	m.eventView = eventviewer.NewModel(m.th, 400)
	m.appendEvent(eventviewer.Entry{Summary: "debug", Detail: "event log enabled", Source: "ui"})
	m.applySizes()
}

func (m *Model) noteEvent(msg tea.Msg) {
	if m.eventView == nil {
		return
	}
	if _, ok := msg.(events.TickMsg); ok {
		return
	}
	source := "tea"
	if id, ok := events.Source(msg); ok {
		source = string(id)
	}
	entry := eventviewer.Entry{
		Timestamp: m.now,
		Source:    source,
		Summary:   fmt.Sprintf("%T", msg),
		Detail:    describeMsg(msg),
		Level:     eventviewer.LevelInfo,
	}
	switch v := msg.(type) {
	case events.WeatherMsg:
		if v.Err != nil {
			entry.Level = eventviewer.LevelWarn
		}
	case events.NewsMsg:
		if v.Err != nil {
			entry.Level = eventviewer.LevelWarn
		}
	case events.AlarmRingMsg:
		entry.Level = eventviewer.LevelWarn
	case events.AlarmsChangedMsg:
		if v.Err != nil {
			entry.Level = eventviewer.LevelError
		}
	}
	m.appendEvent(entry)
}

func (m *Model) appendEvent(entry eventviewer.Entry) {
	if m.eventView == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.deps.Now()
	}
	m.eventView.Append(entry)
}

func describeMsg(msg tea.Msg) string {
	if d, ok := msg.(interface{ Describe() string }); ok {
		return d.Describe()
	}
	switch v := msg.(type) {
	case tea.KeyPressMsg:
		return fmt.Sprintf("key=%q", v.String())
	case tea.WindowSizeMsg:
		return fmt.Sprintf("size=%dx%d", v.Width, v.Height)
	case tea.MouseMsg:
		return fmt.Sprintf("mouse=%s", v)
	default:
		return ""
	}
}

// Run launches the dashboard and blocks until it exits. The clock and the
// refresh interval run as scheduled tasks that only post messages.
func Run(ctx context.Context, deps Deps, refresh time.Duration) error {
	m := New(ctx, deps)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	sched := schedule.New(time.Local)
	if _, err := sched.Every("clock", "* * * * * *", func() {
		p.Send(events.TickMsg{Time: time.Now()})
	}); err != nil {
		return fmt.Errorf("teaui: schedule clock: %w", err)
	}
	if _, err := sched.Every("refresh", schedule.Interval(refresh), func() {
		p.Send(events.RefreshMsg{Time: time.Now()})
	}); err != nil {
		return fmt.Errorf("teaui: schedule refresh: %w", err)
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}

type silentAudio struct{}

func (silentAudio) Ring()             {}
func (silentAudio) Silence()          {}
func (silentAudio) Speak(string) bool { return false }
func (silentAudio) Hush()             {}
func (silentAudio) Speaking() bool    { return false }
