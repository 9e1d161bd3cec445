package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const bodySelector = "body"

// RenderedHTML navigates to pageURL and waits until either the content marker
// or the no-results marker appears, then returns the rendered body HTML. Both
// markers are CSS selectors. A page that shows neither within the navigation
// timeout yields ErrNavigationTimeout.
func (s *Session) RenderedHTML(ctx context.Context, pageURL, contentMarker, noResultsMarker string) (string, error) {
	navCtx, cancel := context.WithTimeout(s.ctx, s.manager.opts.NavigationTimeout)
	defer cancel()
	go cancelOn(ctx, navCtx, cancel)

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(pageURL),
		waitForEither(contentMarker, noResultsMarker),
		chromedp.OuterHTML(bodySelector, &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrNavigationTimeout
		}
		return "", fmt.Errorf("rendering %s: %w", pageURL, err)
	}
	return html, nil
}

// ExpandedHTML renders pageURL like RenderedHTML, then repeatedly scrolls to
// the bottom with a settle delay so lazy-loaded results expand, and returns
// the final body HTML.
func (s *Session) ExpandedHTML(ctx context.Context, pageURL, contentMarker, noResultsMarker string, scrolls int, settle time.Duration) (string, error) {
	navCtx, cancel := context.WithTimeout(s.ctx, s.manager.opts.NavigationTimeout)
	defer cancel()
	go cancelOn(ctx, navCtx, cancel)

	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		waitForEither(contentMarker, noResultsMarker),
	}
	for i := 0; i < scrolls; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(settle),
		)
	}
	var html string
	actions = append(actions, chromedp.OuterHTML(bodySelector, &html, chromedp.ByQuery))

	if err := chromedp.Run(navCtx, actions...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrNavigationTimeout
		}
		return "", fmt.Errorf("rendering %s: %w", pageURL, err)
	}
	return html, nil
}

// waitForEither polls until one of the two selectors matches.
func waitForEither(a, b string) chromedp.Action {
	expr := fmt.Sprintf(`document.querySelector(%q) !== null || document.querySelector(%q) !== null`, a, b)
	return chromedp.Poll(expr, nil, chromedp.WithPollingInterval(250*time.Millisecond))
}

// cancelOn propagates caller cancellation into a navigation context. The
// goroutine exits once either context finishes.
func cancelOn(caller, nav context.Context, cancel context.CancelFunc) {
	select {
	case <-caller.Done():
		cancel()
	case <-nav.Done():
	}
}
