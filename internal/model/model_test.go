package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	cases := map[string]Day{
		"0":         Monday,
		"6":         Sunday,
		"wednesday": Wednesday,
		"Fri":       Friday,
		" SAT ":     Saturday,
	}
	for in, want := range cases {
		got, err := ParseDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDay("7")
	assert.Error(t, err)
	_, err = ParseDay("someday")
	assert.Error(t, err)
}

func TestDayValid(t *testing.T) {
	assert.True(t, Monday.Valid())
	assert.True(t, Sunday.Valid())
	assert.False(t, Day(-1).Valid())
	assert.False(t, Day(7).Valid())
	assert.Len(t, Days(), DaysPerWeek)
}

func TestPaletteOrder(t *testing.T) {
	ids := make([]string, 0)
	for _, s := range Palette() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"blue", "green", "rose", "purple", "orange", "grey"}, ids)
	assert.Equal(t, "#FF8B66", Orange.Swatch().Border)
}

func TestColorJSON(t *testing.T) {
	ev := Event{ID: "1", Day: Tuesday, Start: "09:00", End: "10:00", Color: Rose}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","title":"","day":1,"start":"09:00","end":"10:00","color":"rose"}`, string(b))

	var back Event
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ev, back)

	err = json.Unmarshal([]byte(`{"color":"teal"}`), &back)
	assert.Error(t, err)
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Untitled", Event{}.DisplayTitle())
	assert.Equal(t, "Standup", Event{Title: "Standup"}.DisplayTitle())
}

func TestDefaultSnapshot(t *testing.T) {
	s := DefaultSnapshot()
	assert.True(t, s.Use24h)
	assert.NotNil(t, s.Events)
	assert.Empty(t, s.Events)
}
