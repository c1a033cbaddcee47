package webclip

// ImageKind classifies how an image candidate was discovered.
type ImageKind string

// Image candidate kinds. Only direct, lazy and responsive-source
// candidates can survive into ExtractResult.Images; the remaining kinds
// are extraction signals only.
const (
	KindDirect     ImageKind = "direct"
	KindLazy       ImageKind = "lazy"
	KindResponsive ImageKind = "responsive-source"
	KindBackground ImageKind = "background"
	KindMetaHint   ImageKind = "meta-hint"
	KindPreload    ImageKind = "preload-hint"
)

// ContentKind reports whether candidates of this kind may appear in
// ExtractResult.Images.
func (k ImageKind) ContentKind() bool {
	switch k {
	case KindDirect, KindLazy, KindResponsive:
		return true
	}
	return false
}

// ImageCandidate is one harvested image signal prior to final inclusion
// filtering. NormalizedURL is the deduplication key: two candidates with
// equal NormalizedURL collapse to the first seen.
type ImageCandidate struct {
	ID string `json:"id"`

	// URL is the reference exactly as found in markup; NormalizedURL is
	// its canonicalized, best-quality form.
	URL           string `json:"url"`
	NormalizedURL string `json:"normalizedUrl"`

	Kind ImageKind `json:"kind"`

	// Order is the harvesting sequence, not necessarily visual order.
	Order int `json:"order"`

	// InMainContent marks candidates found inside the harvested subtree
	// rather than page-level hints.
	InMainContent bool `json:"inMainContent"`

	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`

	// Caption is the nearby human-visible caption, when one was found.
	Caption string `json:"caption,omitempty"`
}
