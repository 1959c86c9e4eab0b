package ics

import (
	"errors"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "weekplan/internal/log"
	"weekplan/internal/model"
)

const productID = "-//weekplan//Week Planner//EN"

// propertyColor is the RFC 7986 COLOR property; it carries the palette id.
const propertyColor = ical.ComponentProperty("COLOR")

// Export renders events as an iCalendar document, placing each one on its
// weekday in the week beginning at weekStart.
func Export(events []model.Event, weekStart time.Time, now time.Time) ([]byte, error) {
	dates, err := WeekDates(weekStart)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		if !ev.Day.Valid() {
			appLog.Warn("ics export: skipping event with invalid day", "id", ev.ID, "day", int(ev.Day))
			continue
		}
		if ev.ID == "" {
			return nil, errors.New("ics export: event without id")
		}
		start, end := span(dates, ev)

		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(now)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(ev.Title)
		ve.SetProperty(propertyColor, ev.Color.String())
	}

	appLog.Debug("ics export completed", "events", len(events), "week_start", weekStart.Format("2006-01-02"))
	return []byte(cal.Serialize()), nil
}
