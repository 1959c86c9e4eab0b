// Package layout turns planner events into column geometry: the visible hour
// window, the position of each block, and the reverse click-to-slot mapping.
package layout

import (
	"math"

	"weekplan/internal/model"
	"weekplan/internal/timeval"
)

// ViewRange is the hour window rendered by the grid, both ends whole hours.
type ViewRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DefaultRange is shown when no event falls outside working hours.
var DefaultRange = ViewRange{Start: 8, End: 18}

// Hours is the number of hour rows in the window.
func (v ViewRange) Hours() int {
	return v.End - v.Start
}

// CalculateViewRange widens def until every event fits. Events missing a
// start or end are ignored. A midnight end counts as hour 24.
func CalculateViewRange(events []model.Event, def ViewRange) ViewRange {
	out := def
	for _, ev := range events {
		if ev.Start == "" || ev.End == "" {
			continue
		}
		startH, endH := timeval.Bounds(ev.Start, ev.End)
		if s := int(math.Floor(startH)); s < out.Start {
			out.Start = s
		}
		if e := int(math.Ceil(endH)); e > out.End {
			out.End = e
		}
	}
	return out
}

// TimeLabels returns one label per hour line from Start to End inclusive.
func TimeLabels(v ViewRange, use24h bool) []string {
	if v.End < v.Start {
		return nil
	}
	labels := make([]string, 0, v.Hours()+1)
	for h := v.Start; h <= v.End; h++ {
		labels = append(labels, timeval.FormatHour(float64(h), use24h))
	}
	return labels
}
