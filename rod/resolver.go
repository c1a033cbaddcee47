package rod

import (
	"context"
	"errors"

	"github.com/go-rod/rod"
	"github.com/yult97/webclip"
)

// Ensure Resolver implements webclip.PermalinkResolver at compile time.
var _ webclip.PermalinkResolver = (*Resolver)(nil)

// resolveScript asks the page's own script context for the permalink
// registered under a correlation token. Pages that expose no resolver
// hook answer null, which degrades to "not found".
const resolveScript = `(token) => {
	const hook = window.__wcResolvePermalink;
	if (typeof hook !== 'function') {
		return null;
	}
	return Promise.resolve(hook(token)).then(url => url || null);
}`

// pageSource supplies the live page a Resolver should talk to. The
// Fetcher implements it with its most recently fetched page.
type pageSource interface {
	currentPage() *rod.Page
}

type staticPage struct {
	page *rod.Page
}

func (s staticPage) currentPage() *rod.Page { return s.page }

// Resolver resolves quoted-post permalinks through the hosting page's
// execution context. It is the pipeline's only externally-suspending
// collaborator; the caller bounds every call with a timeout and treats
// expiry as "not found".
type Resolver struct {
	source pageSource
}

// NewResolver creates a Resolver bound to one page. Fetcher.Resolver is
// the usual construction; this one serves callers that manage the page
// themselves.
func NewResolver(page *rod.Page) *Resolver {
	return &Resolver{source: staticPage{page: page}}
}

// ResolvePermalink sends the correlation token into the page context and
// waits for the matching response. Returns "" when no page is live or
// the page has no answer.
func (r *Resolver) ResolvePermalink(ctx context.Context, token string) (string, error) {
	live := r.source.currentPage()
	if live == nil {
		return "", nil
	}

	page := live.Context(ctx)
	obj, err := page.Eval(resolveScript, token)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		// A page-side failure is indistinguishable from "no answer".
		return "", nil
	}
	if obj == nil || obj.Value.Nil() {
		return "", nil
	}
	return obj.Value.Str(), nil
}
