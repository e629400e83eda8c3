package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Snapshot is a point-in-time capture of the session's current page:
// the readable text for the transcript and a viewport screenshot.
type Snapshot struct {
	Text string
	PNG  []byte
}

// Capture connects to a running browser over CDP, optionally navigates
// to pageURL first, and captures the rendered page. Works against both
// local and containerized sessions; the caller owns the browser's
// lifetime, Capture only attaches to it.
func Capture(ctx context.Context, cdpURL, pageURL string) (*Snapshot, error) {
	if cdpURL == "" {
		return nil, fmt.Errorf("cdp url is required")
	}

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, cdpURL)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var actions []chromedp.Action
	if pageURL != "" {
		actions = append(actions,
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
		)
	}

	var html string
	var png []byte
	actions = append(actions,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.CaptureScreenshot(&png),
	)

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("page capture failed: %w", err)
	}

	text, err := PageText(html)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Text: text, PNG: png}, nil
}
