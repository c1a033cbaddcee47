package goquery

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yult97/webclip"
	"golang.org/x/net/html"
)

// ArticleConfig holds the selector cascades and thresholds of the generic
// article extractor.
type ArticleConfig struct {
	// ContentSelectors is the ordered fallback cascade tried when the
	// readability delegate fails; body is the implicit last resort.
	ContentSelectors []string

	// TitleSelectors, AuthorSelectors and TimeSelectors are ordered
	// lists; the first match wins per list.
	TitleSelectors  []string
	AuthorSelectors []string
	TimeSelectors   []string

	// CoverSelectors are known lead-image containers checked before the
	// positional scan. SpecialBodySelectors are body containers whose
	// images the readability delegate tends to miss.
	CoverSelectors       []string
	SpecialBodySelectors []string

	// MinBodyLen and MinBlockTags validate the delegate's result.
	MinBodyLen   int
	MinBlockTags int

	// MaxTitleLen bounds what still looks like a real title.
	MaxTitleLen int

	// GenericTitles are rejected as titles when matched exactly.
	GenericTitles []string

	// LeadImageMinSize is the minimum effective dimension for lead-image
	// recovery.
	LeadImageMinSize int

	// AllowedAttrs is the attribute allow-list applied during final
	// markup normalization.
	AllowedAttrs map[string]bool
}

// DefaultArticleConfig returns the built-in generic extractor
// configuration.
func DefaultArticleConfig() ArticleConfig {
	return ArticleConfig{
		ContentSelectors: []string{
			"article", "#js_content", ".rich_media_content",
			".post-content", ".article-content", ".entry-content",
			".post-body", ".article-body", "#content", ".content",
			"main", ".main-content",
		},
		TitleSelectors: []string{
			"h1.entry-title", "h1.post-title", "h1.article-title",
			"#activity-name", "h1", ".post-title", ".article-title",
		},
		AuthorSelectors: []string{
			"[rel='author']", "[itemprop='author']", ".author-name",
			"#js_name", ".byline .name", ".byline-name", ".author a",
			".author", ".post-author",
		},
		TimeSelectors: []string{
			"time[datetime]", "[itemprop='datePublished']", "#publish_time",
			"time", ".publish-time", ".post-date", ".article-date", ".date",
		},
		CoverSelectors: []string{
			".post-cover img", ".article-cover img", ".cover img",
			"[class*='featured-image'] img", "[class*='hero'] img",
		},
		SpecialBodySelectors: []string{
			"#js_content", ".rich_media_content", ".article-gallery",
		},
		MinBodyLen:   200,
		MinBlockTags: 3,
		MaxTitleLen:  50,
		GenericTitles: []string{
			"untitled", "unknown", "article", "post", "home", "blog",
			"无标题", "首页", "文章",
		},
		LeadImageMinSize: 200,
		AllowedAttrs: map[string]bool{
			"src": true, "href": true, "alt": true, "title": true,
			"width": true, "height": true, "datetime": true,
			"colspan": true, "rowspan": true,
		},
	}
}

// Ensure ArticleExtractor implements webclip.Extractor at compile time.
var _ webclip.Extractor = (*ArticleExtractor)(nil)

// ArticleExtractor extracts articles from arbitrary pages via a
// readability delegate with a selector-cascade fallback. It never fails
// past its boundary: a page it cannot make sense of yields an
// empty-but-valid result.
type ArticleExtractor struct {
	readability webclip.Readability
	canon       *webclip.Canonicalizer
	cleaner     *Cleaner
	classifier  *Classifier
	captioner   *Captioner
	harvester   *Harvester
	cfg         ArticleConfig
}

// NewArticleExtractor creates an ArticleExtractor. A nil readability
// delegate disables the delegate path; the zero-value config selects
// DefaultArticleConfig.
func NewArticleExtractor(readability webclip.Readability, cfg ArticleConfig) *ArticleExtractor {
	if cfg.MinBodyLen == 0 {
		cfg = DefaultArticleConfig()
	}
	canon := webclip.NewCanonicalizer()
	classifier := NewClassifier(DefaultClassifierConfig())
	captioner := NewCaptioner(DefaultCaptionConfig())
	return &ArticleExtractor{
		readability: readability,
		canon:       canon,
		cleaner:     NewCleaner(DefaultCleanerConfig()),
		classifier:  classifier,
		captioner:   captioner,
		harvester:   NewHarvester(canon, classifier, captioner),
		cfg:         cfg,
	}
}

// Extract processes rendered HTML and returns the extracted article.
func (e *ArticleExtractor) Extract(_ context.Context, rawHTML string, pageURL string) (*webclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}

	// Preprocess a private clone: the delegate and the fallback both work
	// on clones, never the live tree.
	pre, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}
	e.preprocess(pre, pageURL)

	if e.readability != nil {
		preHTML, renderErr := pre.Html()
		if renderErr == nil {
			readable, parseErr := e.readability.Parse(preHTML, pageURL)
			if parseErr == nil && e.validate(readable) {
				return e.fromReadable(readable, doc, pre, pageURL), nil
			}
		}
	}

	return e.fallback(doc, pageURL), nil
}

// preprocess strips noise tags, resolves relative URLs, promotes
// bold-styled spans and stashes captions as transient attributes so they
// survive the readability delegate.
func (e *ArticleExtractor) preprocess(doc *goquery.Document, pageURL string) {
	doc.Find("script, style, noscript, template, svg").Remove()
	absolutizeURLs(doc.Selection, pageURL)
	promoteBoldSpans(doc.Selection)
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if cap := e.captioner.Find(img); cap != "" {
			img.SetAttr(AttrCaption, cap)
		}
	})
}

// validate requires a non-nil delegate result with enough body text and
// block structure to be trusted.
func (e *ArticleExtractor) validate(r *webclip.Readable) bool {
	if r == nil || strings.TrimSpace(r.ContentHTML) == "" {
		return false
	}
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(r.ContentHTML))
	if err != nil {
		return false
	}
	if utf8.RuneCountInString(collapseSpace(frag.Text())) < e.cfg.MinBodyLen {
		return false
	}
	blockTags := frag.Find("p, div, h1, h2, h3, h4, h5, h6, ul, ol, blockquote, pre, figure, table").Length()
	return blockTags >= e.cfg.MinBlockTags
}

// fromReadable finishes the delegate success path: title derivation,
// lead-image recovery, special-container image recovery, heading de-dup
// and markup normalization.
func (e *ArticleExtractor) fromReadable(r *webclip.Readable, doc, pre *goquery.Document, pageURL string) *webclip.ExtractResult {
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(r.ContentHTML))
	if err != nil {
		return e.fallback(doc, pageURL)
	}
	content := frag.Find("body")

	title := strings.TrimSpace(r.Title)
	if !e.looksLikeTitle(title) {
		// Synthesize from the first sentence, removing that sentence from
		// the body to avoid duplication.
		bodyText := collapseSpace(content.Text())
		if sentence := firstSentence(bodyText); sentence != "" {
			title = truncateRunes(sentence, e.cfg.MaxTitleLen)
			removeLeadingSentence(content, sentence)
		}
	}
	if title == "" {
		title = documentTitle(doc)
	}

	if content.Find("img").Length() == 0 {
		e.recoverLeadImage(pre, content, title)
	}
	e.recoverSpecialImages(pre, content)
	stripDuplicatedHeading(content, title)

	// Harvest before pruning: the stashed caption and lazy source
	// attributes must still be on the tree when candidates are read.
	images := e.harvester.Harvest(content, pageURL)
	e.normalizeMarkup(content)
	author := strings.TrimSpace(r.Author)
	if author == "" {
		author = firstMatchText(doc.Selection, e.cfg.AuthorSelectors)
	}
	publishTime := firstMatchTime(doc.Selection, e.cfg.TimeSelectors)

	return e.buildResult(title, pageURL, content, images, author, publishTime)
}

// fallback runs the selector cascade on the original tree. Terminal
// state: a page with no usable container yields an empty-but-valid
// result.
func (e *ArticleExtractor) fallback(doc *goquery.Document, pageURL string) *webclip.ExtractResult {
	container := e.findContainer(doc)
	title := e.extractTitle(doc)
	author := firstMatchText(doc.Selection, e.cfg.AuthorSelectors)
	publishTime := firstMatchTime(doc.Selection, e.cfg.TimeSelectors)

	if container == nil {
		return e.buildResult(title, pageURL, nil, nil, author, publishTime)
	}

	// Two independent clones: aggressive cleaning for text, conservative
	// for image-bearing regions.
	textClone := cloneSelection(container)
	imageClone := cloneSelection(container)
	e.cleaner.Clean(textClone, true)
	e.cleaner.Clean(imageClone, false)

	absolutizeURLs(textClone, pageURL)
	absolutizeURLs(imageClone, pageURL)
	stripDuplicatedHeading(textClone, title)
	e.normalizeMarkup(textClone)

	images := e.harvester.Harvest(imageClone, pageURL)
	e.mergeMissingImages(textClone, images)

	return e.buildResult(title, pageURL, textClone, images, author, publishTime)
}

// findContainer tries the content-selector cascade, keeping the first
// match with enough visible text; body is the last resort.
func (e *ArticleExtractor) findContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.cfg.ContentSelectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if utf8.RuneCountInString(collapseSpace(match.Text())) > e.cfg.MinBodyLen {
			return match
		}
	}
	body := doc.Find("body").First()
	if body.Length() == 0 || utf8.RuneCountInString(collapseSpace(body.Text())) == 0 {
		return nil
	}
	return body
}

// extractTitle takes the first heading match (minus anchor-link
// decoration), falling back to the document title.
func (e *ArticleExtractor) extractTitle(doc *goquery.Document) string {
	for _, sel := range e.cfg.TitleSelectors {
		h := doc.Find(sel).First()
		if h.Length() == 0 {
			continue
		}
		clone := cloneSelection(h)
		clone.Find("a.anchor, a.headerlink, a[href^='#']").Remove()
		if text := collapseSpace(clone.Text()); text != "" {
			return text
		}
	}
	return documentTitle(doc)
}

// recoverLeadImage locates the first sufficiently large image positioned
// after the title element, checking known cover selectors first, and
// prepends it to the content.
func (e *ArticleExtractor) recoverLeadImage(doc *goquery.Document, content *goquery.Selection, title string) {
	pick := func(img *goquery.Selection) bool {
		if img.Length() == 0 || e.classifier.Excluded(img) {
			return false
		}
		src := imageSourceAttr(img)
		if src == "" {
			return false
		}
		w, h, ok := effectiveSize(img)
		if !ok || w < e.cfg.LeadImageMinSize || h < e.cfg.LeadImageMinSize/2 {
			return false
		}
		content.PrependHtml(`<figure><img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(img.AttrOr("alt", "")) + `"/></figure>`)
		return true
	}

	for _, sel := range e.cfg.CoverSelectors {
		if pick(doc.Find(sel).First()) {
			return
		}
	}

	// Positional scan: first qualifying image after the title heading
	// within a reasonable content-root scope.
	titleNode := findHeadingByText(doc, title)
	scope := doc.Find("article, main").First()
	if scope.Length() == 0 {
		scope = doc.Find("body").First()
	}
	scope.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if titleNode != nil && !followsNode(img, titleNode) {
			return true
		}
		return !pick(img)
	})
}

// recoverSpecialImages appends images from known special body containers
// that the delegate missed.
func (e *ArticleExtractor) recoverSpecialImages(doc *goquery.Document, content *goquery.Selection) {
	have := make(map[string]bool)
	content.Find("img").Each(func(_ int, img *goquery.Selection) {
		have[e.canon.Normalize(imageSourceAttr(img), "")] = true
	})

	for _, sel := range e.cfg.SpecialBodySelectors {
		doc.Find(sel).Find("img").Each(func(_ int, img *goquery.Selection) {
			if e.classifier.Excluded(img) {
				return
			}
			src := imageSourceAttr(img)
			if src == "" {
				return
			}
			key := e.canon.Normalize(src, "")
			if have[key] {
				return
			}
			have[key] = true
			content.AppendHtml(`<figure><img src="` + html.EscapeString(src) + `"/></figure>`)
		})
	}
}

// mergeMissingImages ensures every harvested content image resolves
// inside the emitted markup: candidates missing from the aggressively
// cleaned text clone are spliced back in as figures.
func (e *ArticleExtractor) mergeMissingImages(content *goquery.Selection, images []webclip.ImageCandidate) {
	have := make(map[string]bool)
	content.Find("img").Each(func(_ int, img *goquery.Selection) {
		have[e.canon.Normalize(imageSourceAttr(img), "")] = true
	})

	first := true
	for _, cand := range images {
		if !cand.InMainContent || !cand.Kind.ContentKind() || have[cand.NormalizedURL] {
			continue
		}
		markup := `<figure><img src="` + html.EscapeString(cand.URL) + `"/></figure>`
		if first && content.Find("img").Length() == 0 {
			content.PrependHtml(markup)
		} else {
			content.AppendHtml(markup)
		}
		have[cand.NormalizedURL] = true
		first = false
	}
}

// normalizeMarkup unwraps text-only wrapper containers into paragraphs,
// flattens paragraph-in-list-item nesting, re-promotes bold-styled spans
// and prunes attributes to the allow-list.
func (e *ArticleExtractor) normalizeMarkup(root *goquery.Selection) {
	// Text-only wrappers become paragraphs.
	root.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() == 0 && collapseSpace(s.Text()) != "" {
			renameNode(s, "p")
		}
	})

	// A paragraph that is a list item's only child is unwrapped.
	root.Find("li").Each(func(_ int, li *goquery.Selection) {
		children := li.Children()
		if children.Length() == 1 && goquery.NodeName(children.First()) == "p" {
			unwrapNode(children.First())
		}
	})

	promoteBoldSpans(root)
	pruneAttrs(root, e.cfg.AllowedAttrs)
}

// buildResult assembles the final ExtractResult. Only in-main-content
// candidates of matchable kind survive into Images.
func (e *ArticleExtractor) buildResult(title, pageURL string, content *goquery.Selection, images []webclip.ImageCandidate, author, publishTime string) *webclip.ExtractResult {
	contentHTML := ""
	if content != nil {
		contentHTML = innerHTML(content)
	}

	var kept []webclip.ImageCandidate
	for _, cand := range images {
		if cand.InMainContent && cand.Kind.ContentKind() {
			kept = append(kept, cand)
		}
	}

	blocks := ParseBlocks(contentHTML)
	text := ""
	if content != nil {
		text = collapseSpace(content.Text())
	}

	return &webclip.ExtractResult{
		Title:       title,
		SourceURL:   pageURL,
		Domain:      hostOf(pageURL),
		Author:      author,
		PublishTime: publishTime,
		ContentHTML: contentHTML,
		Blocks:      blocks,
		Images:      kept,
		WordCount:   webclip.CountWords(text),
	}
}

// looksLikeTitle applies the "real title" rule: non-empty, non-generic
// and not longer than the title cap.
func (e *ArticleExtractor) looksLikeTitle(title string) bool {
	if title == "" || utf8.RuneCountInString(title) > e.cfg.MaxTitleLen {
		return false
	}
	lower := strings.ToLower(title)
	for _, g := range e.cfg.GenericTitles {
		if lower == g {
			return false
		}
	}
	return true
}

// --- shared tree helpers ---

// cloneSelection deep-copies a selection into an independently mutable
// wrapper document.
func cloneSelection(s *goquery.Selection) *goquery.Selection {
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(outerHTML(s)))
	if err != nil {
		return s
	}
	clone := frag.Find("body").Children().First()
	if clone.Length() == 0 {
		return frag.Find("body")
	}
	return clone
}

// absolutizeURLs resolves img and anchor references against the page URL.
func absolutizeURLs(root *goquery.Selection, pageURL string) {
	base, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		return
	}
	resolve := func(raw string) string {
		ref, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || ref.IsAbs() {
			return raw
		}
		return base.ResolveReference(ref).String()
	}
	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		if v, ok := img.Attr("src"); ok && v != "" {
			img.SetAttr("src", resolve(v))
		}
		for _, attr := range lazySrcAttrs {
			if v, ok := img.Attr(attr); ok && v != "" {
				img.SetAttr(attr, resolve(v))
			}
		}
	})
	root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if v, ok := a.Attr("href"); ok && v != "" && !strings.HasPrefix(v, "#") {
			a.SetAttr("href", resolve(v))
		}
	})
}

var boldWeightValues = map[string]bool{
	"bold": true, "bolder": true, "600": true, "700": true, "800": true, "900": true,
}

// promoteBoldSpans rewrites bold-styled inline spans into semantic strong
// emphasis.
func promoteBoldSpans(root *goquery.Selection) {
	root.Find("span, font").Each(func(_ int, s *goquery.Selection) {
		if boldWeightValues[inlineStyle(s, "font-weight")] {
			renameNode(s, "strong")
		}
	})
}

// renameNode changes an element's tag in place.
func renameNode(s *goquery.Selection, tag string) {
	if len(s.Nodes) == 0 {
		return
	}
	s.Nodes[0].Data = tag
	s.Nodes[0].DataAtom = 0
}

// unwrapNode replaces an element with its children.
func unwrapNode(s *goquery.Selection) {
	if h, err := s.Html(); err == nil {
		s.ReplaceWithHtml(h)
	}
}

// pruneAttrs removes all attributes not in the allow-list.
func pruneAttrs(root *goquery.Selection, allowed map[string]bool) {
	prune := func(s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		kept := node.Attr[:0]
		for _, a := range node.Attr {
			if allowed[strings.ToLower(a.Key)] {
				kept = append(kept, a)
			}
		}
		node.Attr = kept
	}
	root.Find("*").Each(func(_ int, s *goquery.Selection) { prune(s) })
}

// firstMatchText tries each selector in order and returns the first
// non-empty trimmed text.
func firstMatchText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if m := root.Find(sel).First(); m.Length() > 0 {
			if text := collapseSpace(m.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstMatchTime is firstMatchText with datetime/content attribute
// preference.
func firstMatchTime(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		m := root.Find(sel).First()
		if m.Length() == 0 {
			continue
		}
		if v, ok := m.Attr("datetime"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if v, ok := m.Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if text := collapseSpace(m.Text()); text != "" {
			return text
		}
	}
	return ""
}

// documentTitle returns the trimmed document-level title.
func documentTitle(doc *goquery.Document) string {
	return collapseSpace(doc.Find("head title").First().Text())
}

// stripDuplicatedHeading removes the first body heading whose text equals
// the title, exactly once.
func stripDuplicatedHeading(content *goquery.Selection, title string) {
	if title == "" {
		return
	}
	normalized := collapseSpace(title)
	content.Find("h1, h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if collapseSpace(h.Text()) == normalized {
			h.Remove()
			return false
		}
		return true
	})
}

// findHeadingByText locates the heading element carrying the title.
func findHeadingByText(doc *goquery.Document, title string) *goquery.Selection {
	if title == "" {
		return nil
	}
	normalized := collapseSpace(title)
	var found *goquery.Selection
	doc.Find("h1, h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if collapseSpace(h.Text()) == normalized {
			found = h
			return false
		}
		return true
	})
	return found
}

// followsNode reports whether a comes after ref in document order.
func followsNode(a, ref *goquery.Selection) bool {
	if len(a.Nodes) == 0 || len(ref.Nodes) == 0 {
		return true
	}
	target := a.Nodes[0]
	refNode := ref.Nodes[0]
	root := refNode
	for root.Parent != nil {
		root = root.Parent
	}
	seenRef := false
	var walk func(n *html.Node) int
	// 0 = keep walking, 1 = target follows ref, 2 = target precedes ref
	walk = func(n *html.Node) int {
		if n == refNode {
			seenRef = true
		}
		if n == target {
			if seenRef {
				return 1
			}
			return 2
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if r := walk(c); r != 0 {
				return r
			}
		}
		return 0
	}
	return walk(root) != 2
}

// firstSentence returns the first sentence of text.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		switch r {
		case '。', '！', '？', '.', '!', '?':
			return strings.TrimSpace(text[:i])
		}
	}
	return text
}

// removeLeadingSentence strips the synthesized title sentence from the
// first text block so it is not duplicated.
func removeLeadingSentence(content *goquery.Selection, sentence string) {
	content.Find("p, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := collapseSpace(s.Text())
		if text == "" {
			return true
		}
		if strings.HasPrefix(text, sentence) {
			rest := strings.TrimSpace(strings.TrimPrefix(text, sentence))
			rest = strings.TrimLeft(rest, "。！？.!? ")
			if rest == "" {
				s.Remove()
			} else {
				s.SetText(rest)
			}
		}
		return false
	})
}

// truncateRunes bounds s to n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// hostOf returns the hostname of a URL, or "".
func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
