package webclip

// SiteKind identifies a page family with a dedicated extraction strategy.
type SiteKind string

// Supported site kinds.
const (
	SiteUnknown SiteKind = ""
	SiteSocial  SiteKind = "social"
	SiteWeixin  SiteKind = "weixin"
	SiteGeneric SiteKind = "generic"
)

// SiteDetector identifies the site kind from the page URL and rendered
// HTML signature.
type SiteDetector interface {
	// Detect analyzes the page and returns the identified site kind.
	// Returns SiteUnknown if no dedicated strategy applies.
	Detect(html string, pageURL string) SiteKind
}

// ExtractorRegistry manages site-specific extractors.
type ExtractorRegistry interface {
	// Get returns the extractor for a specific site kind.
	// Returns nil if no extractor is registered for the kind.
	Get(kind SiteKind) Extractor

	// GetForPage detects the site kind and returns the appropriate
	// extractor, falling back to the generic extractor when the kind is
	// unknown or has no registered extractor.
	GetForPage(html string, pageURL string) Extractor

	// Register adds an extractor for a site kind.
	Register(kind SiteKind, e Extractor)

	// List returns all registered site kinds.
	List() []SiteKind
}
