package planner

import (
	"weekplan/internal/layout"
	"weekplan/internal/model"
)

// DayView is one column of the rendered week.
type DayView struct {
	Day    model.Day      `json:"day"`
	Name   string         `json:"name"`
	Blocks []layout.Block `json:"blocks"`
}

// WeekView is everything a renderer needs to draw the grid.
type WeekView struct {
	ViewRange    layout.ViewRange `json:"view_range"`
	Use24h       bool             `json:"use24h"`
	SlotHeight   float64          `json:"slot_height"`
	ColumnHeight float64          `json:"column_height"`
	Labels       []string         `json:"labels"`
	Days         []DayView        `json:"days"`
}

// Day lays out the events of a single day.
func (p *Planner) Day(day model.Day) []layout.Block {
	return p.engine.Blocks(p.store.FilterByDay(day), day, p.view, p.use24h)
}

// Week lays out the whole grid.
func (p *Planner) Week() WeekView {
	w := WeekView{
		ViewRange:    p.view,
		Use24h:       p.use24h,
		SlotHeight:   p.engine.SlotHeight,
		ColumnHeight: p.engine.ColumnHeight(p.view),
		Labels:       layout.TimeLabels(p.view, p.use24h),
		Days:         make([]DayView, 0, model.DaysPerWeek),
	}
	for _, d := range model.Days() {
		w.Days = append(w.Days, DayView{
			Day:    d,
			Name:   d.String(),
			Blocks: p.Day(d),
		})
	}
	return w
}
