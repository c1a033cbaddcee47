// Package goquery implements the extraction and normalization pipeline on
// top of github.com/PuerkitoBio/goquery. It contains the boilerplate
// cleaner, image harvester, avatar classifier, caption heuristic, block
// parser, the generic article extractor and the social-post extractor,
// plus the site-kind detector and extractor registry.
package goquery

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Annotation attributes stamped onto elements by the rod fetcher before
// the page is snapshotted. They carry computed style and bounding
// geometry from the rendering engine into the static tree; when absent,
// the resolvers below fall back to inline style declarations and declared
// width/height attributes.
const (
	AttrDisplay    = "data-wc-display"
	AttrVisibility = "data-wc-visibility"
	AttrRenderedW  = "data-wc-w"
	AttrRenderedH  = "data-wc-h"
	AttrNaturalW   = "data-wc-nw"
	AttrNaturalH   = "data-wc-nh"
	AttrCurrentSrc = "data-wc-currentsrc"
	AttrRadius     = "data-wc-radius"
	AttrBackground = "data-wc-bg"

	// AttrCaption stashes a pre-computed caption on an image during
	// preprocessing so it survives the readability delegate.
	AttrCaption = "data-wc-caption"

	// AttrPermalink stamps a resolved quoted-post permalink on its
	// container so repeated extraction passes skip re-resolution.
	AttrPermalink = "data-wc-permalink"
)

var (
	styleDeclRe = regexp.MustCompile(`(?i)([a-z-]+)\s*:\s*([^;]+)`)
	bgURLRe     = regexp.MustCompile(`(?i)url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

// inlineStyle returns the value of one property from the element's inline
// style attribute, lowercased and trimmed. Returns "" when absent.
func inlineStyle(s *goquery.Selection, prop string) string {
	style, ok := s.Attr("style")
	if !ok {
		return ""
	}
	for _, m := range styleDeclRe.FindAllStringSubmatch(style, -1) {
		if strings.EqualFold(strings.TrimSpace(m[1]), prop) {
			return strings.ToLower(strings.TrimSpace(m[2]))
		}
	}
	return ""
}

// computedDisplay returns the annotated computed display value, falling
// back to the inline declaration.
func computedDisplay(s *goquery.Selection) string {
	if v, ok := s.Attr(AttrDisplay); ok {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return inlineStyle(s, "display")
}

// computedVisibility returns the annotated computed visibility value,
// falling back to the inline declaration.
func computedVisibility(s *goquery.Selection) string {
	if v, ok := s.Attr(AttrVisibility); ok {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return inlineStyle(s, "visibility")
}

// isHidden reports whether the element is hidden by style.
func isHidden(s *goquery.Selection) bool {
	return computedDisplay(s) == "none" || computedVisibility(s) == "hidden"
}

// backgroundImageURL returns the element's background image URL, if any.
func backgroundImageURL(s *goquery.Selection) string {
	bg, ok := s.Attr(AttrBackground)
	if !ok {
		bg = inlineStyle(s, "background-image")
		if bg == "" {
			bg = inlineStyle(s, "background")
		}
	}
	if bg == "" || bg == "none" {
		return ""
	}
	m := bgURLRe.FindStringSubmatch(bg)
	if m == nil {
		return ""
	}
	u := strings.TrimSpace(m[1])
	if strings.HasPrefix(u, "data:") {
		return ""
	}
	return u
}

// borderRadius returns the element's border radius declaration.
func borderRadius(s *goquery.Selection) string {
	if v, ok := s.Attr(AttrRadius); ok {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return inlineStyle(s, "border-radius")
}

// isCircular reports whether the border radius declaration makes the
// element effectively a circle (~50% or a huge pixel pill radius).
func isCircular(radius string) bool {
	if radius == "" {
		return false
	}
	first := strings.Fields(radius)[0]
	if strings.HasSuffix(first, "%") {
		if pct, err := strconv.ParseFloat(strings.TrimSuffix(first, "%"), 64); err == nil {
			return pct >= 50
		}
		return false
	}
	if strings.HasSuffix(first, "px") {
		if px, err := strconv.ParseFloat(strings.TrimSuffix(first, "px"), 64); err == nil {
			return px >= 999
		}
	}
	return false
}

func attrInt(s *goquery.Selection, name string) (int, bool) {
	v, ok := s.Attr(name)
	if !ok {
		return 0, false
	}
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// naturalSize returns the annotated natural (intrinsic) image size.
func naturalSize(s *goquery.Selection) (w, h int, ok bool) {
	w, wok := attrInt(s, AttrNaturalW)
	h, hok := attrInt(s, AttrNaturalH)
	return w, h, wok && hok
}

// renderedSize returns the annotated rendered bounding-box size.
func renderedSize(s *goquery.Selection) (w, h int, ok bool) {
	w, wok := attrInt(s, AttrRenderedW)
	h, hok := attrInt(s, AttrRenderedH)
	return w, h, wok && hok
}

// declaredSize returns the declared width/height attributes.
func declaredSize(s *goquery.Selection) (w, h int, ok bool) {
	w, wok := attrInt(s, "width")
	h, hok := attrInt(s, "height")
	return w, h, wok && hok
}

// effectiveSize returns the element's effective pixel size, preferring
// natural size, then rendered box size, then declared attributes.
func effectiveSize(s *goquery.Selection) (w, h int, ok bool) {
	if w, h, ok = naturalSize(s); ok {
		return w, h, true
	}
	if w, h, ok = renderedSize(s); ok {
		return w, h, true
	}
	return declaredSize(s)
}

// outerHTML renders the selection's first node including its own tag.
func outerHTML(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, s.Nodes[0]); err != nil {
		return ""
	}
	return buf.String()
}

// innerHTML renders the selection's children.
func innerHTML(s *goquery.Selection) string {
	h, err := s.Html()
	if err != nil {
		return ""
	}
	return h
}

// documentRoot returns the topmost selection enclosing s, used to reach
// page-level signals (head metadata) from a subtree.
func documentRoot(s *goquery.Selection) *goquery.Selection {
	parents := s.Parents()
	if parents.Length() == 0 {
		return s
	}
	return parents.Last()
}

// collapseSpace normalizes runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
