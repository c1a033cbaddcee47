package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yult97/webclip"
)

// Ensure WeixinExtractor implements webclip.Extractor at compile time.
var _ webclip.Extractor = (*WeixinExtractor)(nil)

// WeixinExtractor extracts WeChat public-account articles, whose markup
// is stable enough for direct selectors: #activity-name carries the
// title, #js_content the body, #js_name the account and #publish_time
// the timestamp.
type WeixinExtractor struct {
	canon     *webclip.Canonicalizer
	cleaner   *Cleaner
	harvester *Harvester
	cfg       ArticleConfig
}

// NewWeixinExtractor creates a WeixinExtractor.
func NewWeixinExtractor() *WeixinExtractor {
	canon := webclip.NewCanonicalizer()
	classifier := NewClassifier(DefaultClassifierConfig())
	captioner := NewCaptioner(DefaultCaptionConfig())
	return &WeixinExtractor{
		canon:     canon,
		cleaner:   NewCleaner(DefaultCleanerConfig()),
		harvester: NewHarvester(canon, classifier, captioner),
		cfg:       DefaultArticleConfig(),
	}
}

// Extract processes a rendered WeChat article page.
func (e *WeixinExtractor) Extract(_ context.Context, rawHTML string, pageURL string) (*webclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}

	title := collapseSpace(doc.Find("#activity-name, h1.rich_media_title").First().Text())
	if title == "" {
		title = documentTitle(doc)
	}
	author := collapseSpace(doc.Find("#js_name, .rich_media_meta_nickname").First().Text())
	publishTime := collapseSpace(doc.Find("#publish_time, em#publish_time").First().Text())

	body := doc.Find("#js_content, .rich_media_content").First()
	if body.Length() == 0 {
		return &webclip.ExtractResult{
			Title:     title,
			SourceURL: pageURL,
			Domain:    hostOf(pageURL),
			Author:    author,
		}, nil
	}

	// WeChat lazy-loads every image, so cleaning stays conservative and
	// lazy attributes are promoted to src before harvesting.
	content := cloneSelection(body)
	e.cleaner.Clean(content, false)
	absolutizeURLs(content, pageURL)
	content.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range lazySrcAttrs {
			if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" {
				img.SetAttr("src", v)
				break
			}
		}
	})

	images := e.harvester.Harvest(content, pageURL)
	pruneAttrs(content, e.cfg.AllowedAttrs)

	var kept []webclip.ImageCandidate
	for _, cand := range images {
		if cand.InMainContent && cand.Kind.ContentKind() {
			kept = append(kept, cand)
		}
	}

	contentHTML := innerHTML(content)
	return &webclip.ExtractResult{
		Title:       title,
		SourceURL:   pageURL,
		Domain:      hostOf(pageURL),
		Author:      author,
		PublishTime: publishTime,
		ContentHTML: contentHTML,
		Blocks:      ParseBlocks(contentHTML),
		Images:      kept,
		WordCount:   webclip.CountWords(collapseSpace(content.Text())),
	}, nil
}
