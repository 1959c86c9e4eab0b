package layout

import (
	"math"

	"weekplan/internal/model"
	"weekplan/internal/timeval"
)

// DefaultSlotHeight is the number of layout units per hour row.
const DefaultSlotHeight = 60.0

// Engine positions events inside a day column.
type Engine struct {
	// SlotHeight is the height of one hour row in layout units.
	SlotHeight float64
}

// NewEngine returns an Engine, falling back to DefaultSlotHeight for
// non-positive heights.
func NewEngine(slotHeight float64) Engine {
	if slotHeight <= 0 {
		slotHeight = DefaultSlotHeight
	}
	return Engine{SlotHeight: slotHeight}
}

// Geometry is the position of one event block relative to the column top.
type Geometry struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	// Z is the start minute of day; later starts draw above earlier ones.
	Z int `json:"z"`
}

// Block is everything a renderer needs to draw one event.
type Block struct {
	EventID string      `json:"event_id"`
	Title   string      `json:"title"`
	Label   string      `json:"label"`
	Color   model.Color `json:"color"`
	Geometry
}

// Place computes the geometry of ev within v.
func (e Engine) Place(ev model.Event, v ViewRange) Geometry {
	startH, endH := timeval.Bounds(ev.Start, ev.End)
	return Geometry{
		Top:    (startH - float64(v.Start)) * e.SlotHeight,
		Height: (endH - startH) * e.SlotHeight,
		Z:      int(math.Floor(startH * 60)),
	}
}

// ColumnHeight is the height of a full day column for v.
func (e Engine) ColumnHeight(v ViewRange) float64 {
	return float64(v.Hours()) * e.SlotHeight
}

// Blocks lays out the events of one day in insertion order. Overlaps
// are left to the Z ordering.
func (e Engine) Blocks(events []model.Event, day model.Day, v ViewRange, use24h bool) []Block {
	out := make([]Block, 0)
	for _, ev := range events {
		if ev.Day != day {
			continue
		}
		out = append(out, Block{
			EventID:  ev.ID,
			Title:    ev.DisplayTitle(),
			Label:    timeval.FormatRange(ev.Start, ev.End, use24h),
			Color:    ev.Color,
			Geometry: e.Place(ev, v),
		})
	}
	return out
}
