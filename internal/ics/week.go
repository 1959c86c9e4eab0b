// Package ics exchanges the planner week with iCalendar clients: exporting
// the week as VEVENTs and flattening imported feeds into plain events.
package ics

import (
	"fmt"
	"math"
	"time"

	"github.com/teambition/rrule-go"

	"weekplan/internal/model"
	"weekplan/internal/timeval"
)

// WeekStart returns midnight of the Monday on or before t, in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
}

// WeekDates returns the seven calendar dates Monday..Sunday of the week
// beginning at weekStart.
func WeekDates(weekStart time.Time) ([]time.Time, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   model.DaysPerWeek,
		Dtstart: weekStart,
	})
	if err != nil {
		return nil, fmt.Errorf("ics: week rule: %w", err)
	}
	return r.All(), nil
}

// dayOf finds which column of dates t falls on.
func dayOf(dates []time.Time, t time.Time) (model.Day, bool) {
	t = t.In(dates[0].Location())
	for i, d := range dates {
		if d.Year() == t.Year() && d.Month() == t.Month() && d.Day() == t.Day() {
			return model.Day(i), true
		}
	}
	return 0, false
}

// at places a stored clock value on date. An hour of 24 lands on the next
// day's midnight.
func at(date time.Time, hour float64) time.Time {
	minutes := int(math.Round(hour * 60))
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minutes, 0, 0, date.Location())
}

// span converts an event into concrete start/end instants within the week.
func span(dates []time.Time, ev model.Event) (time.Time, time.Time) {
	date := dates[ev.Day]
	startH, endH := timeval.Bounds(ev.Start, ev.End)
	return at(date, startH), at(date, endH)
}
