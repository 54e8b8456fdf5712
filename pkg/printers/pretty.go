// Package printers renders alarms, forecasts and headlines for the CLI.
package printers

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/timeutil"
	"tableflip.dev/kiosk/pkg/weather"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

const shortID = 8

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Alarms prints the alarm list with the time left until each enabled alarm.
func (pp *PrettyPrint) Alarms(now time.Time, alarms ...alarm.Alarm) {
	if len(alarms) == 0 {
		pp.none()
		return
	}
	on := color.New(color.FgGreen, color.Bold)
	off := color.New(color.Faint)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, a := range alarms {
		state := off.Sprint("off")
		left := ""
		if a.Enabled {
			state = on.Sprint("on")
			left = "in " + timeutil.FormatCountdown(a.NextAfter(now).Sub(now))
		}
		row := []interface{}{a.Time.String(), state, a.Label, left}
		if pp.ShowID {
			row = append([]interface{}{id.Sprint(short(a.ID))}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func short(id string) string {
	if len(id) > shortID {
		return id[:shortID]
	}
	return id
}

// Forecast prints current conditions and the daily outlook.
func (pp *PrettyPrint) Forecast(s weather.Snapshot) {
	c := s.Current
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = bold.Fprintf(pp.out(), "%s  %d°C\n", weather.Label(c.Code), int(math.Round(c.Temperature)))
	_, _ = faint.Fprintf(pp.out(), "humidity %d%%  wind %.1fkm/h %s\n\n",
		int(math.Round(c.Humidity)), c.WindSpeed, weather.WindDirection(c.WindDirection))

	days := s.Days()
	if len(days) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, d := range days {
		tbl.AddRow(d.Date.Format("Mon 1/2"), weather.Label(d.Code),
			fmt.Sprintf("%d°", int(math.Round(d.Max))), faint.Sprintf("%d°", int(math.Round(d.Min))))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Headlines prints one line per item followed by its link.
func (pp *PrettyPrint) Headlines(now time.Time, items ...news.Item) {
	if len(items) == 0 {
		pp.none()
		return
	}
	bad := color.New(color.FgRed)
	faint := color.New(color.Faint)
	for i, it := range items {
		if it.Failed {
			_, _ = bad.Fprintln(pp.out(), it.Title)
			continue
		}
		_, _ = fmt.Fprintf(pp.out(), "%2d. %s\n", i+1, strings.TrimSpace(it.Title))
		_, _ = faint.Fprintf(pp.out(), "    %s  %s\n", it.Published.In(now.Location()).Format("01/02 15:04"), it.Link)
	}
	pp.NewLine()
}
