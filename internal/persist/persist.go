// Package persist loads and saves the planner snapshot (events plus the
// clock preference).
//
// Loading never fails: a missing or unreadable payload yields the default
// snapshot so the planner always starts.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	appLog "weekplan/internal/log"
	"weekplan/internal/model"
)

// Persistence is the storage contract the planner depends on.
type Persistence interface {
	Load() model.Snapshot
	Save(s model.Snapshot) error
}

// document is the on-disk shape. Events are decoded one by one so a single
// bad record does not discard the rest.
type document struct {
	Events []json.RawMessage `json:"events"`
	Use24h *bool             `json:"use24h"`
}

func encode(s model.Snapshot) ([]byte, error) {
	if s.Events == nil {
		s.Events = []model.Event{}
	}
	return json.Marshal(s)
}

// decode parses a stored payload, skipping records that do not describe a
// valid event.
func decode(data []byte) (model.Snapshot, error) {
	out := model.DefaultSnapshot()
	if len(data) == 0 {
		return out, errors.New("persist: empty payload")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return out, fmt.Errorf("persist: decode snapshot: %w", err)
	}
	if doc.Use24h != nil {
		out.Use24h = *doc.Use24h
	}

	for i, raw := range doc.Events {
		var ev model.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			appLog.Warn("persist: skipping unreadable event", "index", i, "err", err)
			continue
		}
		if !ev.Day.Valid() {
			appLog.Warn("persist: skipping event with invalid day", "index", i, "id", ev.ID, "day", int(ev.Day))
			continue
		}
		out.Events = append(out.Events, ev)
	}
	return out, nil
}

// Memory keeps the snapshot in process. It is used by tests and ephemeral
// runs.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return model.DefaultSnapshot()
	}
	s, err := decode(m.data)
	if err != nil {
		appLog.Error("persist: memory snapshot unreadable", err)
		return model.DefaultSnapshot()
	}
	return s
}

func (m *Memory) Save(s model.Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}
