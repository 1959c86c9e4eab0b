package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport(t *testing.T) {
	w, h := Viewport(600, 160)
	assert.Equal(t, 80+7*160+64, w)
	assert.Equal(t, 72+600+64, h)

	_, h = Viewport(600.4, 160)
	assert.Equal(t, 72+601+64, h)
}

func TestCalendarPNGValidatesOptions(t *testing.T) {
	err := CalendarPNG(context.Background(), Options{OutputPath: "x.png"})
	assert.ErrorContains(t, err, "URL is required")

	err = CalendarPNG(context.Background(), Options{URL: "http://127.0.0.1/calendar"})
	assert.ErrorContains(t, err, "OutputPath is required")
}
