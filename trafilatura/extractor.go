package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/yult97/webclip"
	"golang.org/x/net/html"
)

// Ensure Extractor implements webclip.Readability at compile time.
var _ webclip.Readability = (*Extractor)(nil)

// Extractor wraps go-trafilatura as an alternate boilerplate-removal
// collaborator.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Parse consumes a full document and returns its best-effort article
// projection, or nil when no article could be identified.
func (e *Extractor) Parse(rawHTML string, pageURL string) (*webclip.Readable, error) {
	if rawHTML == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  true,
	}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			opts.OriginalURL = u
		}
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}
	if result.ContentNode == nil {
		return nil, nil
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &webclip.Readable{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
		Author:      result.Metadata.Author,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
