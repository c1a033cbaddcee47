package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yult97/webclip"
)

// Ensure Detector implements webclip.SiteDetector at compile time.
var _ webclip.SiteDetector = (*Detector)(nil)

// Detector identifies the site kind from the page URL signature and
// DOM markers that are unique to each page family.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes the page and returns the identified site kind.
// Returns webclip.SiteUnknown if no dedicated strategy applies.
func (d *Detector) Detect(rawHTML string, pageURL string) webclip.SiteKind {
	// URL signature first - most reliable when present.
	if u, err := url.Parse(pageURL); err == nil {
		host := strings.ToLower(u.Hostname())
		switch {
		case host == "x.com" || host == "twitter.com" ||
			strings.HasSuffix(host, ".x.com") || strings.HasSuffix(host, ".twitter.com"):
			return webclip.SiteSocial
		case host == "mp.weixin.qq.com":
			return webclip.SiteWeixin
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return webclip.SiteUnknown
	}

	// Post markup markers for saved/proxied pages whose URL no longer
	// carries the platform host.
	if d.hasSelector(doc, `article[data-testid="tweet"]`) ||
		d.hasSelector(doc, `[data-testid="tweetText"]`) {
		return webclip.SiteSocial
	}
	if d.hasSelector(doc, "#js_content") && d.hasSelector(doc, "#activity-name") {
		return webclip.SiteWeixin
	}

	return webclip.SiteUnknown
}

// hasSelector checks if the document contains at least one element
// matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
