package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "weekplan/internal/log"
	"weekplan/internal/model"
	"weekplan/internal/timeval"
)

// vevent is the subset of a VEVENT the planner can represent.
type vevent struct {
	UID     string
	Summary string
	Color   model.Color

	Start  time.Time
	End    time.Time
	AllDay bool

	RawRRule   string
	ExDates    []time.Time
	Recurrence *time.Time // RECURRENCE-ID of an overridden instance
}

// Import parses an iCalendar payload and returns the events that fall inside
// the week beginning at weekStart. Recurring events are flattened into one
// plain event per occurrence in that week; all-day events are dropped since
// the grid only shows timed entries.
func Import(body []byte, weekStart time.Time) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("ics import: empty body")
	}
	dates, err := WeekDates(weekStart)
	if err != nil {
		return nil, err
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var base []vevent
	overrides := make(map[string][]vevent)
	for _, comp := range cal.Events() {
		ve, perr := parseVEvent(comp)
		if perr != nil {
			appLog.Warn("ics import: skipping vevent", "err", perr)
			continue
		}
		if ve.AllDay {
			continue
		}
		if ve.Recurrence != nil {
			overrides[ve.UID] = append(overrides[ve.UID], ve)
		}
		base = append(base, ve)
	}

	weekEnd := dates[len(dates)-1].AddDate(0, 0, 1)
	out := make([]model.Event, 0)
	for _, ve := range base {
		for _, start := range occurrences(ve, overrides[ve.UID], weekStart, weekEnd) {
			ev, ok := toEvent(dates, ve, start, start.Add(ve.End.Sub(ve.Start)))
			if ok {
				out = append(out, ev)
			}
		}
	}

	appLog.Info("ics import parsed", "vevents", len(base), "events", len(out))
	return out, nil
}

// occurrences lists the start instants of ve inside [from, to). Instances
// replaced by an override are left out; the override is its own vevent.
func occurrences(ve vevent, overrides []vevent, from, to time.Time) []time.Time {
	if ve.RawRRule == "" || ve.Recurrence != nil {
		if !ve.Start.Before(from) && ve.Start.Before(to) {
			return []time.Time{ve.Start}
		}
		return nil
	}

	r, err := rrule.StrToRRule(ve.RawRRule)
	if err != nil {
		appLog.Warn("ics import: bad RRULE", "uid", ve.UID, "rrule", ve.RawRRule, "err", err)
		return nil
	}
	r.DTStart(ve.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ve.ExDates {
		set.ExDate(ex.In(ve.Start.Location()))
	}

	loc := ve.Start.Location()
	var out []time.Time
	for _, t := range set.Between(from.In(loc), to.In(loc), true) {
		if !t.Before(to) || overridden(t, overrides) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func overridden(t time.Time, overrides []vevent) bool {
	for _, o := range overrides {
		if o.Recurrence != nil && o.Recurrence.Equal(t) {
			return true
		}
	}
	return false
}

// toEvent maps one occurrence to a planner event. Occurrences running past
// midnight are clipped to end at 00:00.
func toEvent(dates []time.Time, ve vevent, start, end time.Time) (model.Event, bool) {
	loc := dates[0].Location()
	start, end = start.In(loc), end.In(loc)

	day, ok := dayOf(dates, start)
	if !ok {
		return model.Event{}, false
	}
	endClock := timeval.Clock(end.Hour(), end.Minute())
	nextMidnight := time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, loc)
	if !end.Before(nextMidnight) {
		endClock = "00:00"
	}

	return model.Event{
		Title: ve.Summary,
		Day:   day,
		Start: timeval.Clock(start.Hour(), start.Minute()),
		End:   endClock,
		Color: ve.Color,
	}, true
}

func parseVEvent(comp *ical.VEvent) (vevent, error) {
	var out vevent

	uid := comp.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uid.Value

	if p := comp.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}

	out.Color = model.DefaultColor
	if p := comp.GetProperty(propertyColor); p != nil {
		if c, err := model.ParseColor(p.Value); err == nil {
			out.Color = c
		}
	}

	dtStart := comp.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, errors.New("missing DTSTART")
	}
	if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}
	if !strings.Contains(dtStart.Value, "T") {
		out.AllDay = true
	}
	if out.AllDay {
		return out, nil
	}

	start, err := comp.GetStartAt()
	if err != nil {
		return out, err
	}
	out.Start = start
	if end, err := comp.GetEndAt(); err == nil && end.After(start) {
		out.End = end
	} else {
		out.End = start.Add(time.Hour)
	}

	if p := comp.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range comp.Properties {
		if !strings.EqualFold(p.IANAToken, string(ical.ComponentPropertyExdate)) {
			continue
		}
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, start.Location()); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := comp.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); p != nil {
		if t, err := parseICSTime(p.Value, start.Location()); err == nil {
			out.Recurrence = &t
		}
	}
	return out, nil
}

// parseICSTime reads bare DATE-TIME values (EXDATE, RECURRENCE-ID), where
// the TZID parameter is assumed to match the event's DTSTART.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
