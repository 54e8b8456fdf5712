// Package events defines the typed messages that flow through the dashboard's
// single update loop. Every asynchronous completion, timer firing and store
// change arrives as one of these.
package events

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/location"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/poll"
	"tableflip.dev/kiosk/pkg/store"
	"tableflip.dev/kiosk/pkg/weather"
)

// ComponentID names the producer of an event for the debug log.
type ComponentID string

const (
	SourceClock     ComponentID = "clock"
	SourceScheduler ComponentID = "scheduler"
	SourceLocation  ComponentID = "location"
	SourceWeather   ComponentID = "weather"
	SourceNews      ComponentID = "news"
	SourceAlarm     ComponentID = "alarm"
	SourceAssistant ComponentID = "assistant"
	SourceStore     ComponentID = "store"
)

// TickMsg is the once-per-second clock tick.
type TickMsg struct {
	Time time.Time
}

func (m TickMsg) Describe() string {
	return "time:" + m.Time.Format("15:04:05")
}

// RefreshMsg is the fixed-interval poll trigger.
type RefreshMsg struct {
	Time   time.Time
	Manual bool
}

func (m RefreshMsg) Describe() string {
	return fmt.Sprintf("time:%s manual:%t", m.Time.Format("15:04:05"), m.Manual)
}

// LocationMsg carries the one-shot location resolution.
type LocationMsg struct {
	Result location.Result
}

func (m LocationMsg) Describe() string {
	return fmt.Sprintf("coords:%s fallback:%t", m.Result.Coordinates, m.Result.Fallback)
}

// WeatherMsg carries one weather poll response.
type WeatherMsg struct {
	Ticket   poll.Ticket
	Snapshot weather.Snapshot
	Err      error
}

func (m WeatherMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf("seq:%d err:%q", m.Ticket, m.Err.Error())
	}
	return fmt.Sprintf("seq:%d temp:%.1f code:%d", m.Ticket, m.Snapshot.Current.Temperature, m.Snapshot.Current.Code)
}

// Feed distinguishes the two news pollers.
type Feed int

const (
	// FeedHeadlines backs the dashboard widget.
	FeedHeadlines Feed = iota
	// FeedDetail backs the category browser.
	FeedDetail
)

func (f Feed) String() string {
	if f == FeedDetail {
		return "detail"
	}
	return "headlines"
}

// NewsMsg carries one news poll response.
type NewsMsg struct {
	Feed     Feed
	Ticket   poll.Ticket
	Category int
	Items    []news.Item
	Err      error
}

func (m NewsMsg) Describe() string {
	return fmt.Sprintf("feed:%s seq:%d category:%d items:%d failed:%t", m.Feed, m.Ticket, m.Category, len(m.Items), m.Err != nil)
}

// AlarmRingMsg is logged when the monitor starts ringing.
type AlarmRingMsg struct {
	Alarm alarm.Alarm
}

func (m AlarmRingMsg) Describe() string {
	return fmt.Sprintf("id:%q time:%s label:%q", m.Alarm.ID, m.Alarm.Time, m.Alarm.Label)
}

// AlarmsChangedMsg is emitted after the alarm list is mutated or reloaded.
type AlarmsChangedMsg struct {
	Action string
	Alarm  alarm.Alarm
	Err    error
}

func (m AlarmsChangedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf("action:%q err:%q", m.Action, m.Err.Error())
	}
	return fmt.Sprintf("action:%q id:%q", m.Action, m.Alarm.ID)
}

// AlarmsChangedCmd wraps AlarmsChangedMsg into a tea.Cmd.
func AlarmsChangedCmd(action string, a alarm.Alarm, err error) tea.Cmd {
	return func() tea.Msg {
		return AlarmsChangedMsg{Action: action, Alarm: a, Err: err}
	}
}

// TranscriptMsg delivers the outcome of one voice capture.
type TranscriptMsg struct {
	Turn assistant.Turn
	Text string
	Err  error
}

func (m TranscriptMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf("turn:%d err:%q", m.Turn, m.Err.Error())
	}
	return fmt.Sprintf("turn:%d text:%q", m.Turn, m.Text)
}

// ReplyMsg delivers the assistant's answer for one turn.
type ReplyMsg struct {
	Turn assistant.Turn
	Text string
}

func (m ReplyMsg) Describe() string {
	return fmt.Sprintf("turn:%d chars:%d", m.Turn, len([]rune(m.Text)))
}

// WatchStartedMsg reports that the store watcher is running.
type WatchStartedMsg struct {
	Ch     <-chan store.Event
	Cancel func()
	Err    error
}

func (m WatchStartedMsg) Describe() string {
	if m.Err != nil {
		return "err:" + m.Err.Error()
	}
	return "watching"
}

// WatchEventMsg forwards one store change.
type WatchEventMsg struct {
	Event store.Event
}

func (m WatchEventMsg) Describe() string {
	if m.Event.Type == store.EventInvalidated {
		return "invalidated"
	}
	return fmt.Sprintf("slot:%q", m.Event.Slot)
}

// WatchStoppedMsg reports that the watch channel closed.
type WatchStoppedMsg struct{}

func (WatchStoppedMsg) Describe() string { return "stopped" }

// Source maps a message to its producing component.
func Source(msg tea.Msg) (ComponentID, bool) {
	switch msg.(type) {
	case TickMsg:
		return SourceClock, true
	case RefreshMsg:
		return SourceScheduler, true
	case LocationMsg:
		return SourceLocation, true
	case WeatherMsg:
		return SourceWeather, true
	case NewsMsg:
		return SourceNews, true
	case AlarmRingMsg, AlarmsChangedMsg:
		return SourceAlarm, true
	case TranscriptMsg, ReplyMsg:
		return SourceAssistant, true
	case WatchStartedMsg, WatchEventMsg, WatchStoppedMsg:
		return SourceStore, true
	}
	return "", false
}
