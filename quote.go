package webclip

import "context"

// UnknownLink is the sentinel emitted when a quoted post's permalink
// cannot be resolved by any strategy.
const UnknownLink = "(unknown link)"

// QuotedPost is an embedded or referenced secondary post detected inside
// a primary post's subtree. It is owned exclusively by the extraction
// call that produced it and is never persisted beyond one extraction.
type QuotedPost struct {
	URL    string
	Text   string
	HTML   string
	Images []ImageCandidate
}

// PermalinkResolver resolves a quoted post's permalink through the
// hosting page's own script context. It is the only externally-suspending
// capability in the pipeline.
type PermalinkResolver interface {
	// ResolvePermalink sends a correlation-token request into the page
	// context and waits for the matching response. It returns "" when the
	// page has no answer; the caller applies its own timeout and treats
	// context.DeadlineExceeded identically to "not found".
	ResolvePermalink(ctx context.Context, token string) (string, error)
}

// PermalinkCache memoizes resolved quoted-post permalinks across repeated
// extraction passes over the same document, keyed by a short
// content-derived hash. Entries are write-once: the first writer wins.
//
// The cache is owned by the orchestrating layer, which must call
// Invalidate when the observed document identity changes (navigation);
// stale mappings from a previous page are otherwise indistinguishable
// from fresh ones. The pipeline is single-threaded, so the cache is not
// safe for concurrent use.
type PermalinkCache struct {
	entries map[string]string
}

// NewPermalinkCache returns an empty cache.
func NewPermalinkCache() *PermalinkCache {
	return &PermalinkCache{entries: make(map[string]string)}
}

// Get returns the cached permalink for key, if any.
func (c *PermalinkCache) Get(key string) (string, bool) {
	url, ok := c.entries[key]
	return url, ok
}

// Put stores url under key unless the key is already present.
func (c *PermalinkCache) Put(key, url string) {
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = url
}

// Len returns the number of cached entries.
func (c *PermalinkCache) Len() int {
	return len(c.entries)
}

// Invalidate discards all entries. The orchestrator calls this on every
// navigation signal.
func (c *PermalinkCache) Invalidate() {
	c.entries = make(map[string]string)
}
