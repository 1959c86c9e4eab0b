package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weekplan/internal/layout"
	"weekplan/internal/model"
	"weekplan/internal/persist"
)

// MockPersistence is a testify mock of persist.Persistence.
type MockPersistence struct {
	mock.Mock
}

func (m *MockPersistence) Load() model.Snapshot {
	args := m.Called()
	return args.Get(0).(model.Snapshot)
}

func (m *MockPersistence) Save(s model.Snapshot) error {
	args := m.Called(s)
	return args.Error(0)
}

func newPlanner(t *testing.T) (*Planner, *persist.Memory) {
	t.Helper()
	mem := persist.NewMemory()
	return New(mem, Options{SlotHeight: 60}), mem
}

func draft(start, end string) Draft {
	d := NewDraft()
	d.Title = "entry"
	d.Start = start
	d.End = end
	return d
}

func TestSaveCreatesAndPersists(t *testing.T) {
	p, mem := newPlanner(t)

	id, err := p.Save(draft("09:00", "10:30"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap := mem.Load()
	require.Len(t, snap.Events, 1)
	assert.Equal(t, id, snap.Events[0].ID)
	assert.Equal(t, "10:30", snap.Events[0].End)
}

func TestSaveRejectsInvertedInterval(t *testing.T) {
	p, mem := newPlanner(t)

	_, err := p.Save(draft("10:00", "09:00"))
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.Empty(t, p.Events())
	assert.Empty(t, mem.Load().Events)
}

func TestSaveRejectsEqualTimes(t *testing.T) {
	p, _ := newPlanner(t)
	_, err := p.Save(draft("10:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestSaveAcceptsMidnightEnd(t *testing.T) {
	p, _ := newPlanner(t)

	_, err := p.Save(draft("20:00", "00:00"))
	require.NoError(t, err)
	assert.Equal(t, layout.ViewRange{Start: 8, End: 24}, p.ViewRange())
}

func TestSaveMidnightToMidnightRejected(t *testing.T) {
	p, _ := newPlanner(t)
	_, err := p.Save(draft("00:00", "00:00"))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestSaveRequiresTimes(t *testing.T) {
	p, _ := newPlanner(t)

	for _, d := range []Draft{draft("", "10:00"), draft("09:00", ""), draft("nine", "10:00")} {
		_, err := p.Save(d)
		assert.ErrorIs(t, err, ErrTimeRequired)
	}
	assert.Empty(t, p.Events())
}

func TestSaveRejectsOutOfRangeClock(t *testing.T) {
	p, _ := newPlanner(t)

	for _, d := range []Draft{
		draft("25:00", "26:00"),
		draft("10:75", "12:00"),
		draft("10:60", "11:00"),
		draft("-1:00", "01:00"),
		draft("-3:00", "01:00"),
	} {
		_, err := p.Save(d)
		assert.ErrorIs(t, err, ErrTimeRequired, "%s-%s", d.Start, d.End)
	}
	assert.Empty(t, p.Events())
	assert.Equal(t, layout.DefaultRange, p.ViewRange())
}

func TestSaveRejectsSlotPastMidnight(t *testing.T) {
	p, _ := newPlanner(t)

	d := NewDraft()
	d.Start, d.End = "23:30", "24:30"
	_, err := p.Save(d)
	assert.ErrorIs(t, err, ErrTimeRequired)
	assert.Empty(t, p.Events())
}

func TestSaveNormalisesTwelveHourInput(t *testing.T) {
	p, _ := newPlanner(t)

	id, err := p.Save(draft("9:00 pm", "11:30 PM"))
	require.NoError(t, err)
	ev, ok := p.Event(id)
	require.True(t, ok)
	assert.Equal(t, "21:00", ev.Start)
	assert.Equal(t, "23:30", ev.End)
}

func TestSaveRejectsBadDayAndColor(t *testing.T) {
	p, _ := newPlanner(t)

	d := draft("09:00", "10:00")
	d.Day = 7
	_, err := p.Save(d)
	assert.ErrorIs(t, err, ErrInvalidDay)

	d = draft("09:00", "10:00")
	d.Color = 42
	_, err = p.Save(d)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestSaveUpdatesExisting(t *testing.T) {
	p, _ := newPlanner(t)
	id, err := p.Save(draft("09:00", "10:00"))
	require.NoError(t, err)

	d := draft("06:30", "07:00")
	d.ID = id
	d.Title = "moved"
	d.Day = model.Thursday
	got, err := p.Save(d)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	ev, _ := p.Event(id)
	assert.Equal(t, "moved", ev.Title)
	assert.Equal(t, model.Thursday, ev.Day)
	assert.Equal(t, layout.ViewRange{Start: 6, End: 18}, p.ViewRange())
}

func TestSaveUnknownIDIsNoOp(t *testing.T) {
	p, _ := newPlanner(t)
	_, err := p.Save(draft("09:00", "10:00"))
	require.NoError(t, err)
	before := p.Events()

	d := draft("07:00", "08:00")
	d.ID = "missing"
	_, err = p.Save(d)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, p.Events())
	assert.Equal(t, layout.DefaultRange, p.ViewRange())
}

func TestDeleteIsIdempotentAndShrinksRange(t *testing.T) {
	p, _ := newPlanner(t)
	id, err := p.Save(draft("05:00", "06:00"))
	require.NoError(t, err)
	assert.Equal(t, 5, p.ViewRange().Start)

	ok, err := p.Delete(id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, layout.DefaultRange, p.ViewRange())

	ok, err = p.Delete(id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggleFormatPersists(t *testing.T) {
	p, mem := newPlanner(t)
	assert.True(t, p.Use24h())

	v, err := p.ToggleFormat()
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, mem.Load().Use24h)

	reloaded := New(mem, Options{})
	assert.False(t, reloaded.Use24h())
}

func TestNewLoadsSnapshot(t *testing.T) {
	mp := new(MockPersistence)
	mp.On("Load").Return(model.Snapshot{
		Events: []model.Event{{ID: "x", Day: model.Sunday, Start: "21:00", End: "23:15"}},
		Use24h: false,
	})

	p := New(mp, Options{})
	assert.Equal(t, layout.ViewRange{Start: 8, End: 24}, p.ViewRange())
	assert.False(t, p.Use24h())
	mp.AssertExpectations(t)
	mp.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPersistFailureIsReported(t *testing.T) {
	mp := new(MockPersistence)
	mp.On("Load").Return(model.DefaultSnapshot())
	mp.On("Save", mock.Anything).Return(errors.New("disk full"))

	p := New(mp, Options{})
	id, err := p.Save(draft("09:00", "10:00"))
	assert.ErrorIs(t, err, ErrPersist)
	assert.Contains(t, err.Error(), "disk full")
	_, ok := p.Event(id)
	assert.True(t, ok)
}

func TestResolveSlotUsesViewStart(t *testing.T) {
	p, _ := newPlanner(t)
	d := p.ResolveSlot(65, model.Wednesday)
	assert.Equal(t, model.Wednesday, d.Day)
	assert.Equal(t, "09:00", d.Start)
	assert.Equal(t, "10:00", d.End)
	assert.Empty(t, d.ID)

	_, err := p.Save(draft("06:00", "07:00"))
	require.NoError(t, err)
	d = p.ResolveSlot(30, model.Monday)
	assert.Equal(t, "06:30", d.Start)
}

func TestImportSkipsInvalidAndDuplicates(t *testing.T) {
	p, _ := newPlanner(t)
	evs := []model.Event{
		{Title: "a", Day: model.Monday, Start: "09:00", End: "10:00"},
		{Title: "a", Day: model.Monday, Start: "09:00", End: "10:00"},
		{Title: "broken", Day: model.Monday, Start: "11:00", End: "10:00"},
		{Title: "b", Day: model.Friday, Start: "22:00", End: "00:00", Color: model.Orange},
	}
	n, err := p.Import(evs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = p.Import(evs)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, p.Events(), 2)
}

func TestWeek(t *testing.T) {
	p, _ := newPlanner(t)
	_, err := p.Save(Draft{Title: "Standup", Day: model.Tuesday, Start: "09:00", End: "10:30", Color: model.Rose})
	require.NoError(t, err)

	w := p.Week()
	assert.Equal(t, layout.DefaultRange, w.ViewRange)
	assert.Equal(t, 600.0, w.ColumnHeight)
	assert.Len(t, w.Labels, 11)
	require.Len(t, w.Days, 7)
	assert.Equal(t, "Tuesday", w.Days[1].Name)
	require.Len(t, w.Days[1].Blocks, 1)

	b := w.Days[1].Blocks[0]
	assert.Equal(t, 60.0, b.Top)
	assert.Equal(t, 90.0, b.Height)
	assert.Equal(t, "09:00 - 10:30", b.Label)
	assert.Empty(t, w.Days[0].Blocks)
}
