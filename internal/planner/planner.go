// Package planner is the application state of the week planner: it owns the
// event store and clock preference, validates edits, keeps the view range in
// step with the events and persists every change.
package planner

import (
	"errors"
	"fmt"

	"weekplan/internal/layout"
	appLog "weekplan/internal/log"
	"weekplan/internal/model"
	"weekplan/internal/persist"
	"weekplan/internal/store"
	"weekplan/internal/timeval"
)

var (
	ErrTimeRequired    = errors.New("time is required")
	ErrInvalidInterval = errors.New("the end time must be after the start time")
	ErrInvalidDay      = errors.New("day must be between Monday and Sunday")
	ErrInvalidColor    = errors.New("unknown color")
	ErrNotFound        = errors.New("event not found")
	ErrPersist         = errors.New("saving planner data failed")
)

// Options tune the grid geometry.
type Options struct {
	SlotHeight   float64
	DefaultRange layout.ViewRange
}

// Planner is not safe for concurrent use; callers serialise access.
type Planner struct {
	store    *store.Store
	persist  persist.Persistence
	engine   layout.Engine
	defaults layout.ViewRange

	use24h bool
	view   layout.ViewRange
}

// New loads the persisted snapshot and derives the initial view range.
func New(p persist.Persistence, opts Options) *Planner {
	if opts.DefaultRange == (layout.ViewRange{}) {
		opts.DefaultRange = layout.DefaultRange
	}
	snap := p.Load()

	pl := &Planner{
		store:    store.New(snap.Events...),
		persist:  p,
		engine:   layout.NewEngine(opts.SlotHeight),
		defaults: opts.DefaultRange,
		use24h:   snap.Use24h,
	}
	pl.recompute()
	appLog.Info("planner loaded",
		"events", pl.store.Len(),
		"use24h", pl.use24h,
		"view_start", pl.view.Start,
		"view_end", pl.view.End,
	)
	return pl
}

// Draft is an event as entered in the edit form. An empty ID creates a new
// event; otherwise the event with that ID is replaced.
type Draft struct {
	ID    string      `json:"id,omitempty"`
	Title string      `json:"title"`
	Day   model.Day   `json:"day"`
	Start string      `json:"start"`
	End   string      `json:"end"`
	Color model.Color `json:"color"`
}

// NewDraft returns the form defaults for a fresh entry.
func NewDraft() Draft {
	return Draft{
		Day:   model.Monday,
		Start: "09:00",
		End:   "10:00",
		Color: model.DefaultColor,
	}
}

// DraftFrom pre-fills the form for editing ev.
func DraftFrom(ev model.Event) Draft {
	return Draft{
		ID:    ev.ID,
		Title: ev.Title,
		Day:   ev.Day,
		Start: ev.Start,
		End:   ev.End,
		Color: ev.Color,
	}
}

// Validate normalises the draft's times and checks it can be saved. It does
// not look at the store.
func (d Draft) Validate() (model.Event, error) {
	start, okStart := timeval.Normalize(d.Start)
	end, okEnd := timeval.Normalize(d.End)
	if !okStart || !okEnd {
		return model.Event{}, ErrTimeRequired
	}
	startH, endH := timeval.Bounds(start, end)
	if endH <= startH {
		return model.Event{}, ErrInvalidInterval
	}
	if !d.Day.Valid() {
		return model.Event{}, ErrInvalidDay
	}
	if !d.Color.Valid() {
		return model.Event{}, ErrInvalidColor
	}
	return model.Event{
		ID:    d.ID,
		Title: d.Title,
		Day:   d.Day,
		Start: start,
		End:   end,
		Color: d.Color,
	}, nil
}

// Save creates or updates an event and returns its id. Validation failures
// leave the planner untouched.
func (p *Planner) Save(d Draft) (string, error) {
	ev, err := d.Validate()
	if err != nil {
		return "", err
	}

	id := d.ID
	if id == "" {
		id = p.store.Add(ev)
		appLog.Info("event created", "id", id, "day", ev.Day, "start", ev.Start, "end", ev.End)
	} else {
		if !p.store.Update(id, ev) {
			appLog.Warn("update for unknown event ignored", "id", id)
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		appLog.Info("event updated", "id", id, "day", ev.Day, "start", ev.Start, "end", ev.End)
	}

	return id, p.commit()
}

// Delete removes an event. Deleting an unknown id is a no-op reported as
// false.
func (p *Planner) Delete(id string) (bool, error) {
	if !p.store.Remove(id) {
		return false, nil
	}
	appLog.Info("event deleted", "id", id)
	return true, p.commit()
}

// Import adds externally sourced events, skipping invalid ones and exact
// duplicates of events already planned. It returns how many were added.
func (p *Planner) Import(events []model.Event) (int, error) {
	added := 0
	for _, ev := range events {
		d := DraftFrom(ev)
		d.ID = ""
		valid, err := d.Validate()
		if err != nil {
			appLog.Warn("import: skipping event", "title", ev.Title, "start", ev.Start, "end", ev.End, "reason", err)
			continue
		}
		if p.contains(valid) {
			continue
		}
		p.store.Add(valid)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	appLog.Info("events imported", "count", added)
	return added, p.commit()
}

func (p *Planner) contains(ev model.Event) bool {
	for _, have := range p.store.FilterByDay(ev.Day) {
		if have.Title == ev.Title && have.Start == ev.Start && have.End == ev.End {
			return true
		}
	}
	return false
}

// Use24h reports the clock preference.
func (p *Planner) Use24h() bool {
	return p.use24h
}

// SetUse24h changes and persists the clock preference.
func (p *Planner) SetUse24h(v bool) error {
	p.use24h = v
	return p.commit()
}

// ToggleFormat flips the clock preference and returns the new value.
func (p *Planner) ToggleFormat() (bool, error) {
	err := p.SetUse24h(!p.use24h)
	return p.use24h, err
}

// ViewRange is the hour window derived from the current events.
func (p *Planner) ViewRange() layout.ViewRange {
	return p.view
}

// Engine exposes the layout geometry in use.
func (p *Planner) Engine() layout.Engine {
	return p.engine
}

func (p *Planner) Events() []model.Event {
	return p.store.All()
}

func (p *Planner) Event(id string) (model.Event, bool) {
	return p.store.Get(id)
}

// ResolveSlot turns a click offset inside a day column into a pre-filled
// draft for a new event.
func (p *Planner) ResolveSlot(offsetY float64, day model.Day) Draft {
	slot := layout.ResolveSlot(offsetY, p.view.Start, p.engine.SlotHeight)
	d := NewDraft()
	d.Day = day
	d.Start = slot.Start
	d.End = slot.End
	return d
}

// commit recomputes derived state and persists the snapshot. The in-memory
// change stands even when the write fails.
func (p *Planner) commit() error {
	p.recompute()
	snap := model.Snapshot{Events: p.store.All(), Use24h: p.use24h}
	if err := p.persist.Save(snap); err != nil {
		appLog.Error("persist snapshot failed", err, "events", len(snap.Events))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (p *Planner) recompute() {
	p.view = layout.CalculateViewRange(p.store.All(), p.defaults)
}
