package layout

import (
	"math"

	"weekplan/internal/timeval"
)

// Slot is a proposed one-hour entry produced from a click in a day column.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ResolveSlot maps a vertical offset inside a day column to the half-hour
// slot it falls in. Minutes below 30 snap to :00, the rest to :30; the end is
// always one hour after the start.
func ResolveSlot(offsetY float64, viewStart int, slotHeight float64) Slot {
	if slotHeight <= 0 {
		slotHeight = DefaultSlotHeight
	}
	clicked := float64(viewStart) + offsetY/slotHeight
	h := int(math.Floor(clicked))
	m := int(math.Floor((clicked - float64(h)) * 60))

	snapped := 0
	if m >= 30 {
		snapped = 30
	}
	return Slot{
		Start: timeval.Clock(h, snapped),
		End:   timeval.Clock(h+1, snapped),
	}
}
