package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekplan/internal/model"
)

func snapshot() model.Snapshot {
	return model.Snapshot{
		Events: []model.Event{
			{ID: "1", Title: "Gym", Day: model.Monday, Start: "07:00", End: "08:00", Color: model.Green},
			{ID: "2", Title: "Late show", Day: model.Saturday, Start: "20:00", End: "00:00", Color: model.Purple},
		},
		Use24h: false,
	}
}

func TestDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewDisk(dir)
	require.NoError(t, err)

	assert.False(t, p.Stored())
	require.NoError(t, p.Save(snapshot()))
	assert.True(t, p.Stored())

	reopened, err := NewDisk(dir)
	require.NoError(t, err)
	assert.Equal(t, snapshot(), reopened.Load())
}

func TestDiskMissingIsDefault(t *testing.T) {
	p, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSnapshot(), p.Load())
}

func TestDiskCorruptPayloadIsDefault(t *testing.T) {
	dir := t.TempDir()
	_, err := NewDisk(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "store", snapshotKey), []byte("{not json"), 0o600))

	p, err := NewDisk(dir)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSnapshot(), p.Load())
}

func TestNewDiskRequiresDir(t *testing.T) {
	_, err := NewDisk("")
	assert.Error(t, err)
}

func TestDecodeSkipsBadRecords(t *testing.T) {
	payload := `{
		"events": [
			{"id":"ok","title":"fine","day":2,"start":"09:00","end":"10:00","color":"rose"},
			{"id":"bad-color","day":1,"start":"09:00","end":"10:00","color":"teal"},
			{"id":"bad-day","day":9,"start":"09:00","end":"10:00","color":"blue"},
			"garbage"
		],
		"use24h": false
	}`
	s, err := decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, s.Events, 1)
	assert.Equal(t, "ok", s.Events[0].ID)
	assert.Equal(t, model.Rose, s.Events[0].Color)
	assert.False(t, s.Use24h)
}

func TestDecodeMissingPreferenceDefaultsTo24h(t *testing.T) {
	s, err := decode([]byte(`{"events":[]}`))
	require.NoError(t, err)
	assert.True(t, s.Use24h)
}

func TestDecodeEmpty(t *testing.T) {
	s, err := decode(nil)
	assert.Error(t, err)
	assert.Equal(t, model.DefaultSnapshot(), s)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, model.DefaultSnapshot(), m.Load())

	require.NoError(t, m.Save(snapshot()))
	assert.Equal(t, snapshot(), m.Load())

	require.NoError(t, m.Save(model.Snapshot{Use24h: true}))
	got := m.Load()
	assert.NotNil(t, got.Events)
	assert.Empty(t, got.Events)
}
