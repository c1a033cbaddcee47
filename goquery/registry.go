package goquery

import "github.com/yult97/webclip"

var _ webclip.ExtractorRegistry = (*Registry)(nil)

// Registry manages site-specific extractors and auto-detects the site
// kind from the page. It uses a SiteDetector to identify the page family
// and returns the appropriate extractor, falling back to the generic
// extractor when the kind is unknown or no specific extractor is
// registered.
type Registry struct {
	detector   webclip.SiteDetector
	fallback   webclip.Extractor
	extractors map[webclip.SiteKind]webclip.Extractor
}

// NewRegistry creates a new Registry with the given detector and
// fallback extractor. The fallback is used when GetForPage cannot find a
// specific extractor for the detected site kind.
func NewRegistry(detector webclip.SiteDetector, fallback webclip.Extractor) *Registry {
	return &Registry{
		detector:   detector,
		fallback:   fallback,
		extractors: make(map[webclip.SiteKind]webclip.Extractor),
	}
}

// Get returns the extractor for a specific site kind.
// Returns nil if no extractor is registered for the kind.
func (r *Registry) Get(kind webclip.SiteKind) webclip.Extractor {
	return r.extractors[kind]
}

// GetForPage detects the site kind and returns the appropriate
// extractor, falling back to the generic extractor if the kind is
// unknown or has no registered extractor.
func (r *Registry) GetForPage(html string, pageURL string) webclip.Extractor {
	kind := r.detector.Detect(html, pageURL)
	if e, ok := r.extractors[kind]; ok {
		return e
	}
	return r.fallback
}

// Register adds an extractor for a site kind.
// If an extractor is already registered for the kind, it is replaced.
func (r *Registry) Register(kind webclip.SiteKind, e webclip.Extractor) {
	r.extractors[kind] = e
}

// List returns all registered site kinds.
func (r *Registry) List() []webclip.SiteKind {
	kinds := make([]webclip.SiteKind, 0, len(r.extractors))
	for k := range r.extractors {
		kinds = append(kinds, k)
	}
	return kinds
}
