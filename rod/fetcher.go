// Package rod provides browser-backed implementations of the webclip
// rendering-engine boundary: a Fetcher that snapshots rendered pages with
// computed style and geometry annotations, and a PermalinkResolver that
// asks the hosting page's own script context for a quoted-post URL.
package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/yult97/webclip"
)

// Ensure Fetcher implements webclip.Fetcher at compile time.
var _ webclip.Fetcher = (*Fetcher)(nil)

// annotateScript stamps every element with its computed display,
// visibility, bounding geometry, border radius and background image, plus
// natural image dimensions, so the static pipeline can read rendering
// facts from attributes.
const annotateScript = `() => {
	const els = document.querySelectorAll('*');
	for (const el of els) {
		const cs = getComputedStyle(el);
		const box = el.getBoundingClientRect();
		el.setAttribute('data-wc-display', cs.display);
		el.setAttribute('data-wc-visibility', cs.visibility);
		el.setAttribute('data-wc-w', Math.round(box.width));
		el.setAttribute('data-wc-h', Math.round(box.height));
		if (cs.borderRadius && cs.borderRadius !== '0px') {
			el.setAttribute('data-wc-radius', cs.borderRadius);
		}
		const bg = cs.backgroundImage;
		if (bg && bg !== 'none') {
			el.setAttribute('data-wc-bg', bg);
		}
		if (el.tagName === 'IMG') {
			if (el.naturalWidth) el.setAttribute('data-wc-nw', el.naturalWidth);
			if (el.naturalHeight) el.setAttribute('data-wc-nh', el.naturalHeight);
			if (el.currentSrc) el.setAttribute('data-wc-currentsrc', el.currentSrc);
		}
	}
}`

// Fetcher retrieves rendered, annotated HTML from URLs using Chrome
// browser automation. The most recently fetched page stays open so that
// Resolver can resolve permalinks through its script context; each new
// Fetch replaces it. Fetcher is safe for concurrent use by multiple
// goroutines.
type Fetcher struct {
	browser *rod.Browser

	mu   sync.Mutex
	page *rod.Page
}

// NewFetcher creates a new Fetcher that launches a headless Chrome
// browser. Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher() (*Fetcher, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Fetcher{browser: browser}, nil
}

// Fetch navigates to the URL, annotates the rendered tree and returns
// its HTML snapshot. The page remains open until the next Fetch or
// Close so Resolver can still reach its script context.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		page.Close()
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return "", err
	}

	if _, err := page.Eval(annotateScript); err != nil {
		page.Close()
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		page.Close()
		return "", err
	}

	f.retain(page)
	return html, nil
}

// Resolver returns a PermalinkResolver bound to the fetcher's current
// page. It may be constructed before the first Fetch; resolution
// degrades to "not found" while no page is live.
func (f *Fetcher) Resolver() *Resolver {
	return &Resolver{source: f}
}

func (f *Fetcher) retain(page *rod.Page) {
	f.mu.Lock()
	prev := f.page
	f.page = page
	f.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (f *Fetcher) currentPage() *rod.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// Close releases the retained page and browser resources.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	page := f.page
	f.page = nil
	f.mu.Unlock()
	if page != nil {
		page.Close()
	}
	return f.browser.Close()
}
