package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekplan/internal/model"
)

func sample(title string, day model.Day) model.Event {
	return model.Event{Title: title, Day: day, Start: "09:00", End: "10:00", Color: model.Blue}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	s := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.Add(sample("e", model.Monday))
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 100, s.Len())
}

func TestAddIgnoresCallerID(t *testing.T) {
	s := New()
	ev := sample("e", model.Monday)
	ev.ID = "caller-chosen"
	id := s.Add(ev)
	assert.NotEqual(t, "caller-chosen", id)
	_, ok := s.Get("caller-chosen")
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	s := New()
	id := s.Add(sample("before", model.Monday))

	patch := model.Event{ID: "ignored", Title: "after", Day: model.Friday, Start: "20:00", End: "00:00", Color: model.Grey}
	require.True(t, s.Update(id, patch))

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, model.Friday, got.Day)
	assert.Equal(t, "00:00", got.End)
	assert.Equal(t, model.Grey, got.Color)
}

func TestUpdateUnknownIDLeavesCollection(t *testing.T) {
	s := New()
	s.Add(sample("keep", model.Monday))
	before := s.All()

	assert.False(t, s.Update("missing", sample("new", model.Sunday)))
	assert.Equal(t, before, s.All())
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := New()
	id := s.Add(sample("a", model.Monday))
	s.Add(sample("b", model.Monday))

	require.True(t, s.Remove(id))
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Remove(id))
	assert.Equal(t, 1, s.Len())
}

func TestFilterByDayKeepsOrder(t *testing.T) {
	s := New()
	s.Add(sample("mon-1", model.Monday))
	s.Add(sample("tue", model.Tuesday))
	s.Add(sample("mon-2", model.Monday))

	got := s.FilterByDay(model.Monday)
	require.Len(t, got, 2)
	assert.Equal(t, "mon-1", got[0].Title)
	assert.Equal(t, "mon-2", got[1].Title)
	assert.Empty(t, s.FilterByDay(model.Sunday))
}

func TestNewSeedsAndFillsMissingIDs(t *testing.T) {
	s := New(
		model.Event{ID: "kept", Title: "a"},
		model.Event{Title: "b"},
	)
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "kept", all[0].ID)
	assert.NotEmpty(t, all[1].ID)
}

func TestAllReturnsCopy(t *testing.T) {
	s := New()
	id := s.Add(sample("a", model.Monday))
	all := s.All()
	all[0].Title = "mutated"

	got, _ := s.Get(id)
	assert.Equal(t, "a", got.Title)
}
