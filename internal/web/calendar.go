package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"weekplan/internal/ics"
	"weekplan/internal/layout"
	appLog "weekplan/internal/log"
	"weekplan/internal/model"
	"weekplan/internal/planner"
)

var funcMap = template.FuncMap{
	"px": func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64) + "px"
	},
	"blockStyle": func(b layout.Block, width int) template.CSS {
		sw := b.Color.Swatch()
		return template.CSS(fmt.Sprintf(
			"top:%gpx;height:%gpx;z-index:%d;width:%dpx;background:%s;border-left:4px solid %s",
			b.Top, b.Height, b.Z, width-8, sw.Background, sw.Border,
		))
	},
	"labelTop": func(i int, slotHeight float64) string {
		return strconv.FormatFloat(float64(i)*slotHeight, 'f', -1, 64) + "px"
	},
}

type calendarColumn struct {
	planner.DayView
	Date string
}

type calendarPage struct {
	Week        planner.WeekView
	Columns     []calendarColumn
	ColumnWidth int
	Palette     []model.Swatch
	Generated   string
}

// handleCalendar renders the week as static HTML. The root element carries
// data-ready="true" once rendered so the capture job knows when to shoot.
func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	now := s.now().In(s.loc)
	dates, err := ics.WeekDates(ics.WeekStart(now, s.loc))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute week")
		return
	}

	var week planner.WeekView
	s.Locked(func(p *planner.Planner) { week = p.Week() })

	page := calendarPage{
		Week:        week,
		Columns:     make([]calendarColumn, 0, len(week.Days)),
		ColumnWidth: s.cfg.Grid.ColumnWidth,
		Palette:     model.Palette(),
		Generated:   now.Format(time.RFC3339),
	}
	for i, d := range week.Days {
		page.Columns = append(page.Columns, calendarColumn{
			DayView: d,
			Date:    dates[i].Format("Jan 2"),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "calendar.html", page); err != nil {
		appLog.Error("calendar template failed", err)
	}
}
