// Package alarms implements the `kiosk alarm` subcommands.
package alarms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/printers"
	"tableflip.dev/kiosk/pkg/snake"
	"tableflip.dev/kiosk/pkg/timeutil"
)

var errNoStore = errors.New("alarms: no alarm store")

// Output is shared by every alarm subcommand.
type Output struct {
	JSON   bool
	ShowID bool
	Out    io.Writer
	Now    func() time.Time
}

func (o Output) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return color.Output
}

func (o Output) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Output) print(alarms ...alarm.Alarm) error {
	if o.JSON {
		if alarms == nil {
			alarms = []alarm.Alarm{}
		}
		b, err := json.MarshalIndent(alarms, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.out(), string(b))
		return err
	}
	pp := printers.PrettyPrint{ShowID: o.ShowID, Out: o.out()}
	pp.Alarms(o.now(), alarms...)
	return nil
}

// List prints every alarm and the next one due.
type List struct {
	Output
	Alarms *alarm.Store
}

func (l *List) Do(ctx context.Context) error {
	if l.Alarms == nil {
		return errNoStore
	}
	all := l.Alarms.List()
	if l.JSON {
		return l.print(all...)
	}
	pp := printers.PrettyPrint{Out: l.out()}
	pp.NewLine()
	title := "Alarms"
	if next, d, ok := alarm.Next(l.now(), all); ok {
		title = fmt.Sprintf("Alarms (next %s in %s)", next.Time, timeutil.FormatCountdown(d))
	}
	pp.Title(title)
	return l.print(all...)
}

// Add creates one alarm, either at Time, after In, or from prompts.
type Add struct {
	Output
	Alarms      *alarm.Store
	Time        string
	In          time.Duration
	Label       string
	Interactive bool
}

func (a *Add) Do(ctx context.Context) error {
	if a.Alarms == nil {
		return errNoStore
	}
	if a.Interactive {
		if err := a.prompt(); err != nil {
			return err
		}
	}
	at, err := a.clock()
	if err != nil {
		return err
	}
	created, err := a.Alarms.Add(at, a.Label)
	if err != nil {
		return err
	}
	return a.print(created)
}

func (a *Add) clock() (alarm.ClockTime, error) {
	if a.In > 0 {
		// Round up so the alarm never rings before the offset has elapsed.
		t := a.now().Add(a.In)
		if t.Second() != 0 || t.Nanosecond() != 0 {
			t = t.Add(time.Minute)
		}
		return alarm.ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
	}
	if a.Time == "" {
		return alarm.ClockTime{}, errors.New("alarms: a time (HH:MM) or --in is required")
	}
	return alarm.ParseClock(a.Time)
}

func (a *Add) prompt() error {
	timePrompt := promptui.Prompt{
		Label:   "Time (HH:MM)",
		Default: a.Time,
		Validate: func(s string) error {
			_, err := alarm.ParseClock(s)
			return err
		},
	}
	v, err := timePrompt.Run()
	if err != nil {
		return err
	}
	a.Time = v
	a.In = 0

	labelPrompt := promptui.Prompt{Label: "Label", Default: a.Label}
	if a.Label, err = labelPrompt.Run(); err != nil {
		return err
	}
	return nil
}

// Toggle flips one alarm, found by id or unique id prefix.
type Toggle struct {
	Output
	Alarms *alarm.Store
	ID     string
	// Pick, when set and ID is empty, chooses the alarm interactively.
	Pick Picker
}

func (t *Toggle) Do(ctx context.Context) error {
	if t.Alarms == nil {
		return errNoStore
	}
	found, err := find(t.Alarms, t.ID, t.Pick)
	if err != nil {
		return err
	}
	updated, _, err := t.Alarms.Toggle(found.ID)
	if err != nil {
		return err
	}
	return t.print(updated)
}

// Remove deletes one alarm, found by id or unique id prefix.
type Remove struct {
	Output
	Alarms *alarm.Store
	ID     string
	Pick   Picker
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Alarms == nil {
		return errNoStore
	}
	found, err := find(r.Alarms, r.ID, r.Pick)
	if err != nil {
		return err
	}
	if _, err := r.Alarms.Remove(found.ID); err != nil {
		return err
	}
	if r.JSON {
		return r.print(found)
	}
	_, err = fmt.Fprintf(r.out(), "removed %s %s\n", found.Time, found.Label)
	return err
}

// Picker chooses one alarm from the list.
type Picker func(alarms []alarm.Alarm) (alarm.Alarm, error)

// Prompt returns a Picker that asks on in/out.
func Prompt(in io.Reader, out io.Writer) Picker {
	return func(alarms []alarm.Alarm) (alarm.Alarm, error) {
		choices := make([]snake.Choice, len(alarms))
		for i, a := range alarms {
			state := "off"
			if a.Enabled {
				state = "on"
			}
			choices[i] = snake.Choice{Name: a.Time.String(), Detail: state + " " + a.Label}
		}
		i, err := snake.Select(in, out, "Alarm", choices)
		if err != nil {
			return alarm.Alarm{}, err
		}
		return alarms[i], nil
	}
}

func find(s *alarm.Store, id string, pick Picker) (alarm.Alarm, error) {
	if id == "" && pick != nil {
		return pick(s.List())
	}
	return s.Get(id)
}
