package readability

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/yult97/webclip"
)

// Ensure Extractor implements webclip.Readability at compile time.
var _ webclip.Readability = (*Extractor)(nil)

// Extractor wraps go-readability as the boilerplate-removal collaborator.
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

	var base *url.URL
	if pageURL != "" {
		base, _ = url.Parse(pageURL)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, nil
	}

	return &webclip.Readable{
		Title:       article.Title,
		ContentHTML: article.Content,
		Author:      article.Byline,
	}, nil
}
