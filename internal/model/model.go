package model

// Event is a single timed entry in the planner week.
//
// Start and End are wall-clock "HH:MM" strings in 24-hour form. An End of
// "00:00" means the end of the day rather than the start of it.
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Day   Day    `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
	Color Color  `json:"color"`
}

// DisplayTitle returns the title, or "Untitled" when it is empty.
func (e Event) DisplayTitle() string {
	if e.Title == "" {
		return "Untitled"
	}
	return e.Title
}

// Snapshot is the persisted state: the event list plus the clock preference.
type Snapshot struct {
	Events []Event `json:"events"`
	Use24h bool    `json:"use24h"`
}

// DefaultSnapshot is what an empty or unreadable store yields.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Events: []Event{},
		Use24h: true,
	}
}
