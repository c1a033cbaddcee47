package goquery

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/yult97/webclip"
	"golang.org/x/net/html"
)

// SocialConfig holds the selector lists and thresholds of the social-post
// extractor. The selectors target X/Twitter post markup.
type SocialConfig struct {
	// ContainerSelectors is the ordered fallback list for locating the
	// primary post container.
	ContainerSelectors []string

	// TweetTextSelector matches short-post text containers;
	// LongformBlockSelectors match rich-text article blocks.
	TweetTextSelector      string
	LongformBlockSelectors []string

	// PhotoSelector matches the post's media images; MediaURLRe is the
	// "real media" URL shape accepted without validated dimensions.
	PhotoSelector string
	MediaURLRe    *regexp.Regexp

	// QuoteMarkerSelectors are explicit quoted-post markers; CardSelector
	// matches generic clickable cards disambiguated by scoring;
	// CardWrapperSelector is the recognized card-wrapper marker.
	QuoteMarkerSelectors []string
	CardSelector         string
	CardWrapperSelector  string

	// TitleSuffixes are stripped from the page title; TitleMaxLen bounds
	// the display title synthesized from the first line of post text.
	TitleSuffixes []string
	TitleMaxLen   int

	// CardTextMin is the own-text threshold for the image+text card
	// scoring rule. MinQuoteImageSize filters tiny/icon images inside
	// quotes.
	CardTextMin       int
	MinQuoteImageSize int

	// IntrospectionDepth bounds the structured-data introspection walk.
	IntrospectionDepth int

	// ResolveTimeout bounds the asynchronous page-context permalink
	// resolution; elapsing yields "no result", never an error.
	ResolveTimeout time.Duration
}

// DefaultSocialConfig returns the built-in social extractor configuration.
func DefaultSocialConfig() SocialConfig {
	return SocialConfig{
		ContainerSelectors: []string{
			`article[data-testid="tweet"]`,
			`article[role="article"]`,
			`[data-testid="cellInnerDiv"] article`,
			`.tweet`,
		},
		TweetTextSelector: `[data-testid="tweetText"]`,
		LongformBlockSelectors: []string{
			`[data-testid="longformRichTextComponent"] [data-block="true"]`,
			`.public-DraftEditor-content [data-block="true"]`,
		},
		PhotoSelector: `[data-testid="tweetPhoto"] img`,
		MediaURLRe:    regexp.MustCompile(`pbs\.twimg\.com/media/`),
		QuoteMarkerSelectors: []string{
			`[data-testid="quoteTweet"]`,
			`article[data-testid="tweet"] article[data-testid="tweet"]`,
		},
		CardSelector:        `div[role="link"][tabindex="0"]`,
		CardWrapperSelector: `[data-testid="card.wrapper"]`,
		TitleSuffixes: []string{
			" / X", " / Twitter", " | X", " | Twitter", " - X", " - Twitter",
		},
		TitleMaxLen:        50,
		CardTextMin:        50,
		MinQuoteImageSize:  60,
		IntrospectionDepth: 4,
		ResolveTimeout:     500 * time.Millisecond,
	}
}

// Ensure SocialExtractor implements webclip.Extractor at compile time.
var _ webclip.Extractor = (*SocialExtractor)(nil)

// SocialExtractor extracts a single social post with quoted-post
// sub-extraction. The walk over long-form posts is iterative with an
// explicit stack, bounding memory on arbitrarily deep trees and keeping
// the "skip subtree" control point explicit.
type SocialExtractor struct {
	canon      *webclip.Canonicalizer
	classifier *Classifier
	resolver   webclip.PermalinkResolver
	cache      *webclip.PermalinkCache
	cfg        SocialConfig
}

// NewSocialExtractor creates a SocialExtractor. resolver may be nil
// (the asynchronous resolution fallback is skipped); cache may be nil
// (a private cache is created). The zero-value config selects
// DefaultSocialConfig.
func NewSocialExtractor(resolver webclip.PermalinkResolver, cache *webclip.PermalinkCache, cfg SocialConfig) *SocialExtractor {
	if cfg.TweetTextSelector == "" {
		cfg = DefaultSocialConfig()
	}
	if cache == nil {
		cache = webclip.NewPermalinkCache()
	}
	return &SocialExtractor{
		canon:      webclip.NewCanonicalizer(),
		classifier: NewClassifier(DefaultClassifierConfig()),
		resolver:   resolver,
		cache:      cache,
		cfg:        cfg,
	}
}

// Extract processes a rendered post page. A page without a locatable
// post container yields an empty result so the caller can retry or
// report failure.
func (e *SocialExtractor) Extract(ctx context.Context, rawHTML string, pageURL string) (*webclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}

	container := e.findContainer(doc)
	if container == nil {
		return &webclip.ExtractResult{
			Title:     cleanPageTitle(documentTitle(doc), e.cfg.TitleSuffixes),
			SourceURL: pageURL,
			Domain:    hostOf(pageURL),
		}, nil
	}

	longform := e.longformBlocks(container)
	title, fullTitle := e.deriveTitle(doc, container, longform)

	quotes := e.detectQuotes(container)
	quoteRoots := make(map[*html.Node]bool, len(quotes))
	for _, q := range quotes {
		quoteRoots[q.Nodes[0]] = true
	}

	var out postContent
	if len(longform) > 0 {
		e.walkLongform(ctx, doc, container, quoteRoots, fullTitle, pageURL, &out)
	} else {
		e.shortPost(ctx, doc, container, quotes, quoteRoots, fullTitle, pageURL, &out)
	}

	contentHTML := strings.Join(out.blockHTML, "")
	author := collapseSpace(container.Find(`[data-testid="User-Name"] span`).First().Text())
	publishTime := strings.TrimSpace(container.Find("time[datetime]").First().AttrOr("datetime", ""))

	return &webclip.ExtractResult{
		Title:       title,
		SourceURL:   pageURL,
		Domain:      hostOf(pageURL),
		Author:      author,
		PublishTime: publishTime,
		ContentHTML: contentHTML,
		Blocks:      ParseBlocks(contentHTML),
		Images:      out.images,
		WordCount:   webclip.CountWords(strings.Join(out.textParts, " ")),
	}, nil
}

// postContent accumulates emitted blocks, images and text parts in
// reading order during one extraction.
type postContent struct {
	blockHTML []string
	textParts []string
	images    []webclip.ImageCandidate
	seenURLs  map[string]bool
	seenText  map[string]bool
}

func (p *postContent) init() {
	if p.seenURLs == nil {
		p.seenURLs = make(map[string]bool)
		p.seenText = make(map[string]bool)
	}
}

func (p *postContent) emitParagraph(text string) {
	p.init()
	if text == "" || p.seenText[text] {
		return
	}
	p.seenText[text] = true
	p.blockHTML = append(p.blockHTML, "<p>"+html.EscapeString(text)+"</p>")
	p.textParts = append(p.textParts, text)
}

func (p *postContent) emitImage(e *SocialExtractor, rawURL, alt string, pageURL string) {
	p.init()
	if rawURL == "" {
		return
	}
	normalized := e.canon.Normalize(rawURL, pageURL)
	if normalized == "" || p.seenURLs[normalized] {
		return
	}
	p.seenURLs[normalized] = true
	cand := webclip.ImageCandidate{
		URL:           rawURL,
		NormalizedURL: normalized,
		Kind:          webclip.KindDirect,
		Order:         len(p.images),
		InMainContent: true,
		Alt:           alt,
	}
	cand.ID = newCandidateID()
	p.images = append(p.images, cand)
	p.blockHTML = append(p.blockHTML,
		`<figure><img src="`+html.EscapeString(rawURL)+`" alt="`+html.EscapeString(alt)+`"/></figure>`)
}

func (p *postContent) emitQuote(link string, quote *webclip.QuotedPost) {
	p.init()
	p.blockHTML = append(p.blockHTML,
		`<p><a href="`+html.EscapeString(link)+`">`+html.EscapeString(link)+`</a></p>`)
	if quote.Text != "" {
		p.blockHTML = append(p.blockHTML, "<blockquote>"+html.EscapeString(quote.Text)+"</blockquote>")
		p.textParts = append(p.textParts, quote.Text)
		p.seenText[quote.Text] = true
	}
	for _, img := range quote.Images {
		if p.seenURLs[img.NormalizedURL] {
			continue
		}
		p.seenURLs[img.NormalizedURL] = true
		img.Order = len(p.images)
		p.images = append(p.images, img)
		p.blockHTML = append(p.blockHTML,
			`<figure><img src="`+html.EscapeString(img.URL)+`" alt="`+html.EscapeString(img.Alt)+`"/></figure>`)
	}
}

// findContainer tries the ordered selector fallback list, requiring the
// match to carry text or media.
func (e *SocialExtractor) findContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.cfg.ContainerSelectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if collapseSpace(match.Text()) != "" || match.Find("img").Length() > 0 {
			return match
		}
	}
	return nil
}

// longformBlocks returns the post's non-empty rich-text blocks.
// Published articles are preferred; an editable draft's blocks are used
// only when no published blocks exist (draft-article detection).
func (e *SocialExtractor) longformBlocks(container *goquery.Selection) []*goquery.Selection {
	var published, draft []*goquery.Selection
	for _, sel := range e.cfg.LongformBlockSelectors {
		container.Find(sel).Each(func(_ int, b *goquery.Selection) {
			if collapseSpace(b.Text()) == "" {
				return
			}
			if b.Closest(`[contenteditable="true"]`).Length() > 0 {
				draft = append(draft, b)
				return
			}
			published = append(published, b)
		})
		if len(published) > 0 || len(draft) > 0 {
			break
		}
	}
	if len(published) > 0 {
		return published
	}
	return draft
}

// deriveTitle applies the title priority chain. The returned display
// title may be truncated; fullTitle retains the untruncated form used
// for de-duplication matching.
func (e *SocialExtractor) deriveTitle(doc *goquery.Document, container *goquery.Selection, longform []*goquery.Selection) (title, fullTitle string) {
	if t := cleanPageTitle(documentTitle(doc), e.cfg.TitleSuffixes); t != "" {
		return t, t
	}

	if h := container.Find(`h1, h2, [role="heading"]`).First(); h.Length() > 0 {
		if t := collapseSpace(h.Text()); t != "" {
			return t, t
		}
	}

	if len(longform) > 0 {
		if t := collapseSpace(longform[0].Text()); t != "" {
			return truncateRunes(t, e.cfg.TitleMaxLen), t
		}
	}

	if tt := container.Find(e.cfg.TweetTextSelector).First(); tt.Length() > 0 {
		full := firstLine(tt.Text())
		if full != "" {
			return truncateRunes(full, e.cfg.TitleMaxLen), full
		}
	}
	return "", ""
}

// detectQuotes locates quoted/embedded-post containers using the layered
// strategy: explicit markers, nested post articles, then generic
// clickable cards disambiguated by scoring. Anything containing the
// primary post's own text is excluded, as is any candidate nested inside
// an already-accepted one.
func (e *SocialExtractor) detectQuotes(container *goquery.Selection) []*goquery.Selection {
	primaryText := container.Find(e.cfg.TweetTextSelector).First()

	var accepted []*goquery.Selection
	add := func(q *goquery.Selection) {
		if q.Length() == 0 {
			return
		}
		// The primary post's own text disqualifies a candidate.
		if primaryText.Length() > 0 && q.Nodes[0] != primaryText.Nodes[0] &&
			containsNode(q.Nodes[0], primaryText.Nodes[0]) {
			return
		}
		for _, a := range accepted {
			if a.Nodes[0] == q.Nodes[0] || containsNode(a.Nodes[0], q.Nodes[0]) {
				return
			}
		}
		accepted = append(accepted, q)
	}

	for _, sel := range e.cfg.QuoteMarkerSelectors {
		container.Find(sel).Each(func(_ int, q *goquery.Selection) { add(q) })
	}

	container.Find(`article[data-testid="tweet"]`).Each(func(_ int, q *goquery.Selection) { add(q) })

	container.Find(e.cfg.CardSelector).Each(func(_ int, card *goquery.Selection) {
		if e.scoreCard(card) {
			add(card)
		}
	})

	return accepted
}

// scoreCard disambiguates a generic clickable card: embedded text plus a
// time/username marker; a recognized card wrapper; an image plus an
// outbound link; or an image plus sufficiently long own text while the
// card acts as a link.
func (e *SocialExtractor) scoreCard(card *goquery.Selection) bool {
	text := collapseSpace(card.Text())
	hasText := text != ""
	hasImage := card.Find("img").Length() > 0

	if hasText && (card.Find("time").Length() > 0 || card.Find(`[data-testid="User-Name"]`).Length() > 0) {
		return true
	}
	if card.Find(e.cfg.CardWrapperSelector).Length() > 0 || card.Is(e.cfg.CardWrapperSelector) {
		return true
	}
	if hasImage && card.Find(`a[href^="http"]`).Length() > 0 {
		return true
	}
	if hasImage && utf8.RuneCountInString(text) >= e.cfg.CardTextMin {
		return true
	}
	return false
}

// resolvePermalink resolves a quoted post's permalink via the ordered
// fallback chain. Successful resolutions are memoized on the element and
// in the shared cache; total failure yields the unknown-link sentinel.
func (e *SocialExtractor) resolvePermalink(ctx context.Context, doc *goquery.Document, q *goquery.Selection, quoteText string) string {
	// 1. DOM-stamped URL from an earlier pass.
	if v, ok := q.Attr(AttrPermalink); ok && v != "" {
		return v
	}

	key := quoteKey(quoteText)

	// 2. Shared cache keyed by a cheap content hash.
	if url, ok := e.cache.Get(key); ok {
		q.SetAttr(AttrPermalink, url)
		return url
	}

	memoize := func(url string) string {
		q.SetAttr(AttrPermalink, url)
		e.cache.Put(key, url)
		return url
	}

	// 3. Direct outbound status link.
	if href := q.Find(`a[href*="/status/"]`).First().AttrOr("href", ""); href != "" {
		return memoize(absoluteStatusURL(href))
	}

	// 4. Enclosing link wrapper.
	if href := q.Closest("a[href]").AttrOr("href", ""); strings.Contains(href, "/status/") {
		return memoize(absoluteStatusURL(href))
	}

	// 5. Deep attribute scan.
	if href := deepAttrStatusURL(q); href != "" {
		return memoize(absoluteStatusURL(href))
	}

	// 6. Structured-data introspection, bounded depth.
	if href := e.introspectStatusURL(doc); href != "" {
		return memoize(absoluteStatusURL(href))
	}

	// 7. Asynchronous page-context resolution, bounded by the timeout.
	// The only externally-suspending step in the pipeline; a timeout is
	// treated identically to "not found".
	if e.resolver != nil {
		rctx, cancel := context.WithTimeout(ctx, e.cfg.ResolveTimeout)
		defer cancel()
		if url, err := e.resolver.ResolvePermalink(rctx, key); err == nil && url != "" {
			return memoize(url)
		}
	}

	return webclip.UnknownLink
}

// extractQuote extracts one quoted post's text and images.
func (e *SocialExtractor) extractQuote(q *goquery.Selection, pageURL string) *webclip.QuotedPost {
	// Structured text container first; generic text with action controls
	// stripped as fallback.
	var parts []string
	q.Find(e.cfg.TweetTextSelector).Each(func(_ int, t *goquery.Selection) {
		if text := collapseSpace(t.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	text := strings.Join(parts, "\n")
	if text == "" {
		clone := cloneSelection(q)
		clone.Find(`[role="button"], [role="toolbar"], [data-testid="reply"], [data-testid="retweet"], [data-testid="like"]`).Remove()
		text = collapseSpace(clone.Text())
	}

	quote := &webclip.QuotedPost{Text: text, HTML: outerHTML(q)}

	seen := make(map[string]bool)
	addImage := func(img *goquery.Selection) {
		src := imageSourceAttr(img)
		if src == "" || e.excludedQuoteImage(img, src) {
			return
		}
		normalized := e.canon.Normalize(src, pageURL)
		if normalized == "" || seen[normalized] {
			return
		}
		seen[normalized] = true
		w, h, _ := effectiveSize(img)
		quote.Images = append(quote.Images, webclip.ImageCandidate{
			ID:            newCandidateID(),
			URL:           src,
			NormalizedURL: normalized,
			Kind:          webclip.KindDirect,
			Order:         len(quote.Images),
			InMainContent: true,
			Width:         w,
			Height:        h,
			Alt:           strings.TrimSpace(img.AttrOr("alt", "")),
		})
	}

	media := q.Find(e.cfg.PhotoSelector)
	if media.Length() > 0 {
		media.Each(func(_ int, img *goquery.Selection) { addImage(img) })
	} else {
		q.Find("img").Each(func(_ int, img *goquery.Selection) { addImage(img) })
	}
	return quote
}

// excludedQuoteImage filters avatar/emoji/ad-sprite signatures and
// images with neither validated dimensions nor a known media URL shape.
func (e *SocialExtractor) excludedQuoteImage(img *goquery.Selection, src string) bool {
	lower := strings.ToLower(src)
	if strings.Contains(lower, "/profile_images/") ||
		strings.Contains(lower, "emoji") ||
		strings.Contains(lower, "twemoji") ||
		strings.Contains(lower, "sprite") {
		return true
	}
	if e.cfg.MediaURLRe.MatchString(src) {
		return false
	}
	w, h, ok := effectiveSize(img)
	if !ok {
		return true
	}
	return w < e.cfg.MinQuoteImageSize || h < e.cfg.MinQuoteImageSize
}

// walkLongform performs the order-preserving iterative tree walk over a
// long-form post. At each node, in order: a quoted-post root is emitted
// and not descended into; a node inside an identified quote is skipped; a
// rich-text block is emitted as a paragraph without descending; an image
// leaf is emitted; anything else is descended into in document order.
func (e *SocialExtractor) walkLongform(ctx context.Context, doc *goquery.Document, container *goquery.Selection, quoteRoots map[*html.Node]bool, fullTitle string, pageURL string, out *postContent) {
	out.init()
	titleStripped := false
	firstBlock := true

	var stack []*html.Node
	pushChildren := func(n *html.Node) {
		var kids []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			kids = append(kids, c)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	pushChildren(container.Nodes[0])

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.Type != html.ElementNode {
			continue
		}
		sel := selectionFor(doc, node)

		if quoteRoots[node] {
			quote := e.extractQuote(sel, pageURL)
			link := e.resolvePermalink(ctx, doc, sel, quote.Text)
			out.emitQuote(link, quote)
			continue
		}
		if insideAny(node, quoteRoots) {
			continue
		}

		if e.isLongformBlock(sel) {
			text := collapseSpace(sel.Text())
			if firstBlock && !titleStripped && fullTitle != "" && text == fullTitle {
				// Duplicated title text is stripped only from the very
				// first block.
				titleStripped = true
				firstBlock = false
				continue
			}
			firstBlock = false
			out.emitParagraph(text)
			continue
		}

		if node.Data == "img" {
			if !e.tinyOrIconImage(sel) {
				out.emitImage(e, imageSourceAttr(sel), strings.TrimSpace(sel.AttrOr("alt", "")), "")
			}
			continue
		}

		pushChildren(node)
	}
}

// shortPost extracts a short status post: primary text containers
// (excluding quote subtrees), quote blocks appended after the text, and
// the post's own images spliced in before the first quote block.
func (e *SocialExtractor) shortPost(ctx context.Context, doc *goquery.Document, container *goquery.Selection, quotes []*goquery.Selection, quoteRoots map[*html.Node]bool, fullTitle string, pageURL string, out *postContent) {
	out.init()

	titleStripped := false
	first := true
	container.Find(e.cfg.TweetTextSelector).Each(func(_ int, t *goquery.Selection) {
		if insideAny(t.Nodes[0], quoteRoots) {
			return
		}
		text := collapseSpace(t.Text())
		if text == "" {
			return
		}
		if first && !titleStripped && fullTitle != "" {
			// The page title is matched against the normalized first line
			// and removed exactly once; an emptied block is dropped.
			line := firstLine(t.Text())
			if line == fullTitle {
				titleStripped = true
				rest := strings.TrimSpace(strings.TrimPrefix(text, line))
				first = false
				if rest == "" {
					return
				}
				text = rest
			}
		}
		first = false
		out.emitParagraph(text)
	})

	// Primary post images, excluding quote subtrees.
	var ownImages []*goquery.Selection
	container.Find(e.cfg.PhotoSelector).Each(func(_ int, img *goquery.Selection) {
		if insideAny(img.Nodes[0], quoteRoots) {
			return
		}
		if !e.tinyOrIconImage(img) {
			ownImages = append(ownImages, img)
		}
	})

	splice := func() {
		for _, img := range ownImages {
			out.emitImage(e, imageSourceAttr(img), strings.TrimSpace(img.AttrOr("alt", "")), "")
		}
		ownImages = nil
	}

	for i, q := range quotes {
		if i == 0 {
			splice()
		}
		quote := e.extractQuote(q, pageURL)
		link := e.resolvePermalink(ctx, doc, q, quote.Text)
		out.emitQuote(link, quote)
	}
	splice()
}

// isLongformBlock reports whether the selection matches a rich-text
// block selector.
func (e *SocialExtractor) isLongformBlock(s *goquery.Selection) bool {
	if s.Closest(`[contenteditable="true"]`).Length() > 0 {
		// Draft editor blocks surface through longformBlocks only.
		return s.AttrOr("data-block", "") == "true"
	}
	for _, sel := range e.cfg.LongformBlockSelectors {
		if s.Is(blockLeafSelector(sel)) && s.Closest(blockScopeSelector(sel)).Length() > 0 {
			return true
		}
	}
	return false
}

// tinyOrIconImage filters images below the quote-image size floor when
// dimensions are known, plus anything the classifier rejects.
func (e *SocialExtractor) tinyOrIconImage(img *goquery.Selection) bool {
	if e.classifier.Excluded(img) {
		return true
	}
	if w, h, ok := effectiveSize(img); ok && (w < e.cfg.MinQuoteImageSize || h < e.cfg.MinQuoteImageSize) {
		return !e.cfg.MediaURLRe.MatchString(imageSourceAttr(img))
	}
	return false
}

// introspectStatusURL searches embedded JSON-LD for a status permalink,
// bounded to a small depth so absence degrades silently.
func (e *SocialExtractor) introspectStatusURL(doc *goquery.Document) string {
	found := ""
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if url := statusURLInValue(data, e.cfg.IntrospectionDepth); url != "" {
			found = url
			return false
		}
		return true
	})
	return found
}

// statusURLInValue walks a generic key-value tree looking for a string
// value shaped like a status permalink.
func statusURLInValue(v any, depth int) string {
	if depth < 0 {
		return ""
	}
	switch val := v.(type) {
	case string:
		if strings.Contains(val, "/status/") && strings.HasPrefix(val, "http") {
			return val
		}
	case map[string]any:
		for _, key := range []string{"url", "@id", "mainEntityOfPage"} {
			if inner, ok := val[key]; ok {
				if url := statusURLInValue(inner, depth-1); url != "" {
					return url
				}
			}
		}
		for _, inner := range val {
			if url := statusURLInValue(inner, depth-1); url != "" {
				return url
			}
		}
	case []any:
		for _, inner := range val {
			if url := statusURLInValue(inner, depth-1); url != "" {
				return url
			}
		}
	}
	return ""
}

// deepAttrStatusURL scans every attribute in the subtree for a status
// permalink.
func deepAttrStatusURL(q *goquery.Selection) string {
	if len(q.Nodes) == 0 {
		return ""
	}
	var walk func(n *html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if strings.Contains(a.Val, "/status/") {
					return a.Val
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if v := walk(c); v != "" {
				return v
			}
		}
		return ""
	}
	return walk(q.Nodes[0])
}

// absoluteStatusURL makes a relative status path absolute on x.com.
func absoluteStatusURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return "https://x.com" + "/" + strings.TrimLeft(href, "/")
}

// quoteKey derives a short content hash for the permalink cache from the
// quote's leading text.
func quoteKey(text string) string {
	runes := []rune(collapseSpace(text))
	if len(runes) > 64 {
		runes = runes[:64]
	}
	sum := xxhash.Sum64String(string(runes))
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[sum&0xf]
		sum >>= 4
	}
	return string(buf)
}

// cleanPageTitle strips known suffix/prefix noise from the page title.
func cleanPageTitle(title string, suffixes []string) string {
	title = collapseSpace(title)
	title = pageCountPrefixRe.ReplaceAllString(title, "")
	for _, suffix := range suffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	// `User on X: "text"` page titles carry the post text verbatim.
	if m := onXTitleRe.FindStringSubmatch(title); m != nil {
		title = m[1]
	}
	title = strings.TrimSpace(title)
	lower := strings.ToLower(title)
	if lower == "x" || lower == "twitter" {
		return ""
	}
	return title
}

var (
	pageCountPrefixRe = regexp.MustCompile(`^\(\d+\)\s*`)
	onXTitleRe        = regexp.MustCompile(`^.+ on (?:X|Twitter): [“"](.+)[”"]$`)
)

// firstLine returns the trimmed first non-empty line of text.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = collapseSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// blockLeafSelector and blockScopeSelector split a "scope leaf" selector
// into its parts for Is/Closest matching.
func blockLeafSelector(sel string) string {
	if idx := strings.LastIndex(sel, " "); idx >= 0 {
		return sel[idx+1:]
	}
	return sel
}

func blockScopeSelector(sel string) string {
	if idx := strings.LastIndex(sel, " "); idx >= 0 {
		return sel[:idx]
	}
	return sel
}

// selectionFor wraps one node of doc in a Selection.
func selectionFor(doc *goquery.Document, n *html.Node) *goquery.Selection {
	return doc.FindNodes(n)
}

// containsNode reports whether ancestor contains descendant.
func containsNode(ancestor, descendant *html.Node) bool {
	for n := descendant.Parent; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// insideAny reports whether the node sits inside any of the given roots.
func insideAny(n *html.Node, roots map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if roots[p] {
			return true
		}
	}
	return false
}
