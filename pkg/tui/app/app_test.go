package teaui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/location"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/store"
	"tableflip.dev/kiosk/pkg/tui/events"
	"tableflip.dev/kiosk/pkg/tui/nav"
	"tableflip.dev/kiosk/pkg/tui/theme"
	"tableflip.dev/kiosk/pkg/weather"
)

type memoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (b *memoryBackend) Read(slot string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[slot]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *memoryBackend) Write(slot string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		b.data = map[string][]byte{}
	}
	b.data[slot] = append([]byte(nil), data...)
	return nil
}

type fakeWeather struct {
	calls []location.Coordinates
	snap  weather.Snapshot
	err   error
}

func (f *fakeWeather) Snapshot(_ context.Context, at location.Coordinates) (weather.Snapshot, error) {
	f.calls = append(f.calls, at)
	return f.snap, f.err
}

type fakeNews struct{}

func (fakeNews) Fetch(_ context.Context, c news.Category) ([]news.Item, error) {
	return []news.Item{{Title: c.Name + " headline"}}, nil
}

type fakeResponder struct{ reply string }

func (f fakeResponder) Reply(context.Context, string) string { return f.reply }

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Listen(context.Context) (string, error) { return f.text, f.err }

type fakeAudio struct {
	rings, silences, hushes int
	spoken                  []string
	ringing, speaking       bool
}

func (f *fakeAudio) Ring()    { f.rings++; f.ringing = true }
func (f *fakeAudio) Silence() { f.silences++; f.ringing = false }
func (f *fakeAudio) Hush()    { f.hushes++ }
func (f *fakeAudio) Speaking() bool {
	return f.speaking
}
func (f *fakeAudio) Speak(text string) bool {
	if f.ringing {
		return false
	}
	f.spoken = append(f.spoken, text)
	return true
}

var morning = time.Date(2024, 5, 1, 6, 59, 0, 0, time.Local)

func newTestModel(t *testing.T, deps Deps) *Model {
	t.Helper()
	if deps.Now == nil {
		deps.Now = func() time.Time { return morning }
	}
	m := New(context.Background(), deps)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Text: s, Code: r}
}

// run executes cmd and every command it batches, returning the messages.
// Commands that would block (cursor blink) are never produced by the paths
// under test.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestLocationTriggersWeatherPoll(t *testing.T) {
	wx := &fakeWeather{snap: weather.Snapshot{Current: weather.Current{Temperature: 18}}}
	m := newTestModel(t, Deps{Weather: wx})

	_, cmd := m.Update(events.LocationMsg{Result: location.Result{Coordinates: location.Default, Fallback: true}})
	for _, msg := range run(cmd) {
		m.Update(msg)
	}
	if len(wx.calls) != 1 || wx.calls[0] != location.Default {
		t.Fatalf("expected one poll at the default location, got %v", wx.calls)
	}
	if m.forecast.Current.Temperature != 18 || !m.forecastShown {
		t.Fatalf("snapshot not applied: %+v", m.forecast.Current)
	}
}

func TestWeatherStaleResponseDropped(t *testing.T) {
	m := newTestModel(t, Deps{Weather: &fakeWeather{}})
	m.Update(events.LocationMsg{Result: location.Result{Coordinates: location.Default}})
	m.Update(events.RefreshMsg{Time: morning, Manual: true})

	later := weather.Snapshot{Current: weather.Current{Temperature: 22}}
	earlier := weather.Snapshot{Current: weather.Current{Temperature: 11}}
	m.Update(events.WeatherMsg{Ticket: 2, Snapshot: later})
	m.Update(events.WeatherMsg{Ticket: 1, Snapshot: earlier})

	if got := m.forecast.Current.Temperature; got != 22 {
		t.Fatalf("expected the later-issued snapshot to win, got %.0f", got)
	}
}

func TestWeatherFailureFallsBackThenKeepsLastGood(t *testing.T) {
	m := newTestModel(t, Deps{Weather: &fakeWeather{}})
	m.Update(events.LocationMsg{Result: location.Result{Coordinates: location.Default}})

	m.Update(events.WeatherMsg{Ticket: 1, Snapshot: weather.Fallback(), Err: errors.New("boom")})
	if !m.forecastShown || !m.forecast.Empty() || m.forecast.Current.Temperature != 0 {
		t.Fatalf("expected zeroed fallback, got %+v", m.forecast)
	}

	m.Update(events.RefreshMsg{Time: morning})
	m.Update(events.WeatherMsg{Ticket: 2, Snapshot: weather.Snapshot{Current: weather.Current{Temperature: 25, Code: 1}}})
	m.Update(events.RefreshMsg{Time: morning})
	m.Update(events.WeatherMsg{Ticket: 3, Snapshot: weather.Fallback(), Err: errors.New("boom")})
	if got := m.forecast.Current.Temperature; got != 25 {
		t.Fatalf("expected last good snapshot to survive a failure, got %.0f", got)
	}
}

func TestScheduledRefreshCoalescesWhileBusy(t *testing.T) {
	m := newTestModel(t, Deps{News: fakeNews{}})
	m.fetchHeadlines()

	m.Update(events.RefreshMsg{Time: morning})
	if !m.headlineSeq.Current(1) {
		t.Fatalf("scheduled refresh should be skipped while a poll is outstanding")
	}
	m.Update(events.RefreshMsg{Time: morning, Manual: true})
	if !m.headlineSeq.Current(2) {
		t.Fatalf("manual refresh should always issue")
	}
}

func TestNewsFailureShowsSyntheticItem(t *testing.T) {
	m := newTestModel(t, Deps{News: fakeNews{}})
	ticket := m.headlineSeq.Issue()
	m.Update(events.NewsMsg{Feed: events.FeedHeadlines, Ticket: ticket, Items: news.Failure(morning), Err: errors.New("down")})
	if len(m.headlines) != 1 || !m.headlines[0].Failed || m.headlines[0].Title != news.FailedTitle {
		t.Fatalf("unexpected headlines %+v", m.headlines)
	}
}

func TestNewsCategorySwitchAppliesLatest(t *testing.T) {
	m := newTestModel(t, Deps{News: fakeNews{}})
	first := m.handleKeyPress(key("n"))
	second := m.handleKeyPress(key("2"))
	if m.modal != modalNews || m.browser.Category() != 1 {
		t.Fatalf("expected news modal on category 2")
	}
	late := run(first)
	for _, msg := range run(second) {
		m.Update(msg)
	}
	for _, msg := range late {
		m.Update(msg)
	}
	view := m.browser.View()
	if !strings.Contains(view, news.Categories[1].Name+" headline") || strings.Contains(view, news.Categories[0].Name+" headline") {
		t.Fatalf("expected only the latest category's items:\n%s", view)
	}
}

func newAlarmStore(t *testing.T, backend *memoryBackend, times ...string) *alarm.Store {
	t.Helper()
	s := alarm.Open(backend)
	for _, at := range times {
		if _, err := s.Add(alarm.MustParseClock(at), ""); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	return s
}

func TestAlarmRingsAndStops(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestModel(t, Deps{Alarms: newAlarmStore(t, &memoryBackend{}, "07:00"), Audio: audio})

	m.Update(events.TickMsg{Time: time.Date(2024, 5, 1, 7, 0, 0, 0, time.Local)})
	if _, ok := m.monitor.Ringing(); !ok || audio.rings != 1 {
		t.Fatalf("expected ringing at 07:00:00 (rings=%d)", audio.rings)
	}
	m.Update(events.TickMsg{Time: time.Date(2024, 5, 1, 7, 0, 30, 0, time.Local)})
	if audio.rings != 1 {
		t.Fatalf("no new trigger expected mid-minute")
	}

	m.Update(key("w"))
	if m.modal != modalNone {
		t.Fatalf("ringing should capture keys")
	}
	m.Update(key("s"))
	if _, ok := m.monitor.Ringing(); ok || audio.silences != 1 {
		t.Fatalf("expected stop to silence the alarm")
	}
}

func TestRingingSuppressesSpeech(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestModel(t, Deps{
		Alarms:    newAlarmStore(t, &memoryBackend{}, "07:00"),
		Audio:     audio,
		Assistant: fakeResponder{reply: "おはようございます。"},
	})
	cmd := m.submit("おはよう")
	m.Update(events.TickMsg{Time: time.Date(2024, 5, 1, 7, 0, 0, 0, time.Local)})
	for _, msg := range run(cmd) {
		m.Update(msg)
	}
	if m.turn.Status() != assistant.Displaying || len(audio.spoken) != 0 {
		t.Fatalf("reply should display without speech while ringing (spoken=%v)", audio.spoken)
	}
}

func TestTypedTurnAndDismiss(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestModel(t, Deps{Audio: audio, Assistant: fakeResponder{reply: "晴れです。"}})

	cmd := m.submit("天気は？")
	if m.turn.Status() != assistant.Processing {
		t.Fatalf("expected processing, got %s", m.turn.Status())
	}
	if again := m.submit("もう一度"); again != nil {
		t.Fatalf("second submission must be refused while processing")
	}
	for _, msg := range run(cmd) {
		m.Update(msg)
	}
	if m.turn.Status() != assistant.Displaying || m.turn.Reply() != "晴れです。" {
		t.Fatalf("unexpected turn %s %q", m.turn.Status(), m.turn.Reply())
	}
	if len(audio.spoken) != 1 {
		t.Fatalf("expected spoken playback, got %v", audio.spoken)
	}

	m.Update(key("x"))
	if m.turn.Status() != assistant.Idle || m.turn.Transcript() != "" || m.turn.Reply() != "" {
		t.Fatalf("dismiss should clear the turn")
	}
	if audio.hushes == 0 {
		t.Fatalf("dismiss should stop playback")
	}
}

func TestDraftKeptWhileReplyPending(t *testing.T) {
	m := newTestModel(t, Deps{Assistant: fakeResponder{reply: "はい"}})
	cmd := m.submit("最初")

	m.Update(key("i"))
	m.Update(key("a"))
	m.Update(key("b"))
	if next := m.handlePromptKey(key("enter")); next != nil {
		t.Fatalf("enter must not start a turn while processing")
	}
	if m.turn.Transcript() != "最初" {
		t.Fatalf("pending turn replaced by %q", m.turn.Transcript())
	}

	for _, msg := range run(cmd) {
		m.Update(msg)
	}
	if m.handlePromptKey(key("enter")) == nil {
		t.Fatalf("expected the kept draft to be submitted")
	}
	if m.turn.Status() != assistant.Processing || m.turn.Transcript() != "ab" {
		t.Fatalf("unexpected turn %s %q", m.turn.Status(), m.turn.Transcript())
	}
}

func TestLateReplyAfterDismissIsDropped(t *testing.T) {
	m := newTestModel(t, Deps{Assistant: fakeResponder{reply: "遅い返事"}})
	cmd := m.submit("質問")
	m.Update(key("x"))
	for _, msg := range run(cmd) {
		m.Update(msg)
	}
	if m.turn.Status() != assistant.Idle || m.turn.Reply() != "" {
		t.Fatalf("late reply should be discarded")
	}
}

func TestVoiceTurn(t *testing.T) {
	m := newTestModel(t, Deps{
		Recognizer: fakeRecognizer{text: "今日の天気"},
		Assistant:  fakeResponder{reply: "晴れです。"},
	})
	_, cmd := m.Update(key("m"))
	if m.turn.Status() != assistant.Listening {
		t.Fatalf("expected listening, got %s", m.turn.Status())
	}
	for _, msg := range run(cmd) {
		_, next := m.Update(msg)
		for _, reply := range run(next) {
			m.Update(reply)
		}
	}
	if m.turn.Transcript() != "今日の天気" || m.turn.Reply() != "晴れです。" {
		t.Fatalf("unexpected turn %q -> %q", m.turn.Transcript(), m.turn.Reply())
	}
}

func TestVoiceUnavailable(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.Update(key("m"))
	if m.turn.Status() != assistant.Displaying || m.turn.Reply() != assistant.MsgSpeechUnsupported {
		t.Fatalf("expected in-band unsupported message, got %s %q", m.turn.Status(), m.turn.Reply())
	}
}

func TestCaptureErrorReturnsToIdle(t *testing.T) {
	m := newTestModel(t, Deps{Recognizer: fakeRecognizer{err: errors.New("mic busy")}})
	_, cmd := m.Update(key("m"))
	for _, msg := range run(cmd) {
		m.Update(msg)
	}
	if m.turn.Status() != assistant.Idle || m.turn.Reply() != "" {
		t.Fatalf("capture error should return to idle, got %s", m.turn.Status())
	}
}

func TestAlarmScreenEditing(t *testing.T) {
	backend := &memoryBackend{}
	s := newAlarmStore(t, backend)
	m := newTestModel(t, Deps{Alarms: s, DefaultAlarmTime: "06:45"})

	m.Update(key("left"))
	if m.nav.Screen() != nav.Alarms {
		t.Fatalf("left should show alarms")
	}
	m.Update(key("a"))
	if !m.alarmView.Editing() {
		t.Fatalf("a should open the time input")
	}
	m.Update(key("enter"))
	list := s.List()
	if len(list) != 1 || list[0].Time.String() != "06:45" || !list[0].Enabled {
		t.Fatalf("unexpected alarms %+v", list)
	}

	m.Update(key("t"))
	if s.List()[0].Enabled {
		t.Fatalf("t should toggle the selected alarm")
	}
	m.Update(key("x"))
	if len(s.List()) != 0 || len(m.alarmList) != 0 {
		t.Fatalf("x should remove the selected alarm")
	}
	m.Update(key("right"))
	if m.nav.Screen() != nav.Dashboard {
		t.Fatalf("right should return to the dashboard")
	}
}

func TestWatchEventReloadsAlarms(t *testing.T) {
	backend := &memoryBackend{}
	m := newTestModel(t, Deps{Alarms: newAlarmStore(t, backend)})

	other := alarm.Open(backend)
	if _, err := other.Add(alarm.MustParseClock("05:30"), "CLI"); err != nil {
		t.Fatalf("add: %v", err)
	}
	m.Update(events.WatchEventMsg{Event: store.Event{Type: store.EventSlotChanged, Slot: alarm.Slot}})
	if len(m.alarmList) != 1 || m.alarmList[0].Label != "CLI" {
		t.Fatalf("expected reloaded alarms, got %+v", m.alarmList)
	}
}

func TestTickUpdatesThemeBand(t *testing.T) {
	m := newTestModel(t, Deps{})
	if m.th.Band != theme.Morning {
		t.Fatalf("expected morning at start, got %s", m.th.Band)
	}
	m.Update(events.TickMsg{Time: time.Date(2024, 5, 1, 11, 0, 0, 0, time.Local)})
	if m.th.Band != theme.Day {
		t.Fatalf("expected day band at 11:00, got %s", m.th.Band)
	}
}

func TestViewRendersDashboard(t *testing.T) {
	m := newTestModel(t, Deps{Alarms: newAlarmStore(t, &memoryBackend{}, "07:00")})
	view := m.View()
	for _, want := range []string{"06:59:00", "アシスタント", "ニュース"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
	m.Update(key("w"))
	if !strings.Contains(m.View(), "詳細天気予報") {
		t.Fatalf("weather modal not rendered")
	}
}

func TestHelpModalOpensAndCloses(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.Update(key("?"))
	if m.modal != modalHelp {
		t.Fatalf("expected help modal, got %v", m.modal)
	}
	m.Update(key("q"))
	if m.modal != modalNone {
		t.Fatalf("expected help closed, got %v", m.modal)
	}
}

func TestFooterReportsSpeechAndMissingKey(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestModel(t, Deps{Audio: audio})
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	footer := m.footer()
	if !strings.Contains(footer, "AIキー未設定") {
		t.Fatalf("expected missing key hint in footer %q", footer)
	}
	if strings.Contains(footer, "読み上げ中") {
		t.Fatalf("nothing is being spoken yet")
	}

	audio.speaking = true
	m = newTestModel(t, Deps{Audio: audio, Assistant: fakeResponder{reply: "はい"}})
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	footer = m.footer()
	if !strings.Contains(footer, "読み上げ中") {
		t.Fatalf("expected speech hint in footer %q", footer)
	}
	if strings.Contains(footer, "AIキー未設定") {
		t.Fatalf("a configured responder should not show the key hint")
	}
}
