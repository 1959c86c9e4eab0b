// Package store holds the planner's events in memory, in insertion order.
//
// The store performs no validation; callers check times and fields before
// calling Add or Update.
package store

import (
	"github.com/google/uuid"

	"weekplan/internal/model"
)

// Store is the sole owner of the event list. It is not safe for concurrent
// use.
type Store struct {
	events []model.Event
	newID  func() string
}

// New seeds a store with previously persisted events. Records without an id
// get a fresh one.
func New(events ...model.Event) *Store {
	s := &Store{
		events: make([]model.Event, 0, len(events)),
		newID:  newID,
	}
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = s.newID()
		}
		s.events = append(s.events, ev)
	}
	return s
}

// newID returns a time-ordered UUIDv7, falling back to a random v4 if the
// clock source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Add appends ev under a fresh id and returns that id. Any id already set on
// ev is ignored.
func (s *Store) Add(ev model.Event) string {
	ev.ID = s.newID()
	s.events = append(s.events, ev)
	return ev.ID
}

// Update replaces every field of the event with the given id except the id
// itself. It reports false when no such event exists.
func (s *Store) Update(id string, patch model.Event) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	patch.ID = id
	s.events[i] = patch
	return true
}

// Remove deletes the event with the given id. It reports false when no such
// event exists.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	return true
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (model.Event, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Event{}, false
	}
	return s.events[i], true
}

// FilterByDay returns the events of one day in insertion order.
func (s *Store) FilterByDay(day model.Day) []model.Event {
	out := make([]model.Event, 0)
	for _, ev := range s.events {
		if ev.Day == day {
			out = append(out, ev)
		}
	}
	return out
}

// All returns a copy of every event in insertion order.
func (s *Store) All() []model.Event {
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) Len() int {
	return len(s.events)
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}
