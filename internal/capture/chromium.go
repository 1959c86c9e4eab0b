package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	appLog "weekplan/internal/log"
)

// Default capture parameters, matching the /calendar page at the default grid.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 960
	DefaultTimeoutSec = 30

	// chrome is the space /calendar uses around the grid: the day header row,
	// the time-label gutter and page padding.
	headerHeight = 72
	gutterWidth  = 80
	pagePadding  = 32
)

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar".
	URL string

	// OutputPath is where the PNG is written, e.g. "<data_dir>/preview.png".
	OutputPath string

	// Width and Height are the viewport in pixels. Zero uses the defaults.
	Width  int
	Height int

	// Username / Password are sent as HTTP Basic credentials when set.
	Username string
	Password string

	Timeout time.Duration
}

// Viewport returns the smallest viewport that shows the whole week grid
// without scrolling, given the grid's column height and day column width.
func Viewport(columnHeight float64, columnWidth int) (width, height int) {
	width = gutterWidth + 7*columnWidth + 2*pagePadding
	height = headerHeight + int(math.Ceil(columnHeight)) + 2*pagePadding
	return width, height
}

// CalendarPNG loads opts.URL in headless Chromium, waits until the page marks
// itself with data-ready="true" and writes a full-page PNG.
func CalendarPNG(parentCtx context.Context, opts Options) error {
	if opts.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{network.Enable()}
	if opts.Username != "" {
		token := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		tasks = append(tasks, network.SetExtraHTTPHeaders(network.Headers{"Authorization": "Basic " + token}))
	}
	tasks = append(tasks,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		chromedp.Sleep(250*time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	)

	start := time.Now()
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("calendar captured", "path", opts.OutputPath, "bytes", len(png), "width", opts.Width, "height", opts.Height, "elapsed", time.Since(start).String())
	return nil
}
