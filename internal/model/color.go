package model

import (
	"fmt"
	"strings"
)

// Color is one of the fixed palette entries an event can be drawn with.
type Color int

const (
	Blue Color = iota
	Green
	Rose
	Purple
	Orange
	Grey
)

// DefaultColor is preselected for new entries.
const DefaultColor = Blue

// Swatch is the renderer-facing description of a palette colour.
type Swatch struct {
	ID         string `json:"id"`
	Background string `json:"background"`
	Border     string `json:"border"`
}

// Palette returns the swatches in display order.
func Palette() []Swatch {
	colors := []Color{Blue, Green, Rose, Purple, Orange, Grey}
	out := make([]Swatch, 0, len(colors))
	for _, c := range colors {
		out = append(out, c.Swatch())
	}
	return out
}

func (c Color) Valid() bool {
	return c >= Blue && c <= Grey
}

// String returns the palette id.
func (c Color) String() string {
	return c.Swatch().ID
}

func (c Color) Swatch() Swatch {
	switch c {
	case Blue:
		return Swatch{ID: "blue", Background: "#E1F5FE", Border: "#0288D1"}
	case Green:
		return Swatch{ID: "green", Background: "#E8F5E9", Border: "#388E3C"}
	case Rose:
		return Swatch{ID: "rose", Background: "#FCE4EC", Border: "#D81B60"}
	case Purple:
		return Swatch{ID: "purple", Background: "#F3E5F5", Border: "#7B1FA2"}
	case Orange:
		return Swatch{ID: "orange", Background: "#FFF0EB", Border: "#FF8B66"}
	case Grey:
		return Swatch{ID: "grey", Background: "#F5F5F5", Border: "#616161"}
	default:
		return Swatch{ID: fmt.Sprintf("color(%d)", int(c))}
	}
}

// ParseColor resolves a palette id.
func ParseColor(id string) (Color, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for c := Blue; c <= Grey; c++ {
		if c.Swatch().ID == id {
			return c, nil
		}
	}
	return 0, fmt.Errorf("model: unknown color %q", id)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("model: invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
