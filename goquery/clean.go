package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// CleanerConfig holds the rule lists for boilerplate removal.
type CleanerConfig struct {
	// JunkSelectors match always-removed noise: ads, social bars, comment
	// systems, video-player widgets, interaction bars.
	JunkSelectors []string

	// LandmarkSelectors match structural landmarks removed only in
	// aggressive mode; conservative mode preserves them because they may
	// carry the lead image.
	LandmarkSelectors []string

	// MetadataPatterns identify byline/date/edited-by boilerplate text.
	MetadataPatterns []*regexp.Regexp

	// MetadataLeafMax is the matchable leaf text size; ContainerMax caps
	// the enclosing container removed in its place.
	MetadataLeafMax      int
	MetadataContainerMax int

	// CTAPatterns identify promotional call-to-action card text.
	CTAPatterns []*regexp.Regexp

	// AuthorCardPhrases are marker phrases whose co-occurrence identifies
	// an author-card block.
	AuthorCardPhrases [][]string

	// BreadcrumbSelectors match breadcrumb trails.
	BreadcrumbSelectors []string

	// FAQHeadingRe matches FAQ section headings; FAQSectionMax skip-guards
	// the removal when the enclosing section's text is larger, to avoid
	// deleting a main article that merely contains an FAQ heading.
	FAQHeadingRe  *regexp.Regexp
	FAQSectionMax int
}

// DefaultCleanerConfig returns the built-in cleaner configuration.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		JunkSelectors: []string{
			".ad", ".ads", ".advert", ".advertisement", "[class*='ad-slot']",
			"[id^='google_ads']", "ins.adsbygoogle",
			".social-share", ".share-bar", ".share-buttons", ".sns-share",
			"#comments", ".comments", ".comment-list", "#disqus_thread",
			".gigya-comments", "[class*='comment-section']",
			".video-player", ".jwplayer", "[class*='video-widget']",
			".interaction-bar", "[role='toolbar']",
			"[data-testid='reply']", "[data-testid='retweet']",
			"[data-testid='like']", "[data-testid='bookmark']",
			".related-posts", ".recommend", ".qr_code_pc",
		},
		LandmarkSelectors: []string{
			"nav", "header", "footer", "aside", "script", "style", "noscript",
		},
		MetadataPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^published (?:on|at)\b`),
			regexp.MustCompile(`(?i)^(?:last )?(?:updated|edited)(?: on| at| by)?\b`),
			regexp.MustCompile(`(?i)^posted (?:on|by)\b`),
			regexp.MustCompile(`(?i)^\d+ min(?:ute)? read$`),
			regexp.MustCompile(`^发布于|^更新于|^编辑于|^首发于`),
			regexp.MustCompile(`^阅读 ?\d+|^\d+ ?分钟阅读`),
			regexp.MustCompile(`(?i)^by [A-Z][\w.-]+(?: [A-Z][\w.-]+)*$`),
			regexp.MustCompile(`^作者[:：]|^来源[:：]|^责任编辑[:：]`),
		},
		MetadataLeafMax:      100,
		MetadataContainerMax: 300,
		CTAPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)subscribe (?:to|now)|sign up (?:for|now)|join (?:our|the) newsletter`),
			regexp.MustCompile(`扫码关注|关注公众号|长按识别|点击订阅`),
		},
		AuthorCardPhrases: [][]string{
			{"Written by", "Follow"},
			{"作者", "关注"},
			{"About the author", ""},
		},
		BreadcrumbSelectors: []string{
			".breadcrumb", ".breadcrumbs", "[aria-label='breadcrumb']",
			"[itemtype*='BreadcrumbList']",
		},
		FAQHeadingRe:  regexp.MustCompile(`(?i)^(?:faq|frequently asked questions|常见问题)`),
		FAQSectionMax: 2000,
	}
}

// Cleaner removes boilerplate from a cloned subtree in place. The caller
// must pass a private clone, never the live document.
type Cleaner struct {
	cfg CleanerConfig
}

// NewCleaner creates a Cleaner. The zero-value config selects
// DefaultCleanerConfig.
func NewCleaner(cfg CleanerConfig) *Cleaner {
	if cfg.MetadataLeafMax == 0 {
		cfg = DefaultCleanerConfig()
	}
	return &Cleaner{cfg: cfg}
}

// Clean removes boilerplate from root in place. Aggressive mode trades
// recall of noise removal against the risk of deleting a lead image:
// it additionally removes structural landmarks, metadata-text containers
// and recurring boilerplate shapes. Conservative mode removes only junk,
// hidden elements and script/style.
func (c *Cleaner) Clean(root *goquery.Selection, aggressive bool) {
	for _, sel := range c.cfg.JunkSelectors {
		root.Find(sel).Remove()
	}

	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		if isHidden(s) {
			s.Remove()
		}
	})

	if !aggressive {
		root.Find("script, style").Remove()
		return
	}

	for _, sel := range c.cfg.LandmarkSelectors {
		root.Find(sel).Remove()
	}

	c.removeMetadataText(root)
	c.removeAuthorCards(root)
	c.removeCTACards(root)
	for _, sel := range c.cfg.BreadcrumbSelectors {
		root.Find(sel).Remove()
	}
	c.removeFAQSections(root)
}

// removeMetadataText scans short leaf-like elements against the metadata
// patterns and removes the smallest reasonably-sized enclosing container
// rather than the matched leaf itself, so legitimate content that merely
// contains a date-like fragment survives.
func (c *Cleaner) removeMetadataText(root *goquery.Selection) {
	var doomed []*goquery.Selection
	root.Find("p, span, div, time, small, em, li").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 2 {
			return
		}
		text := collapseSpace(s.Text())
		if text == "" || utf8.RuneCountInString(text) >= c.cfg.MetadataLeafMax {
			return
		}
		for _, re := range c.cfg.MetadataPatterns {
			if re.MatchString(text) {
				doomed = append(doomed, c.enclosingContainer(s))
				return
			}
		}
	})
	for _, s := range doomed {
		s.Remove()
	}
}

// enclosingContainer climbs from a matched leaf to the largest ancestor
// whose text still fits the container cap.
func (c *Cleaner) enclosingContainer(leaf *goquery.Selection) *goquery.Selection {
	node := leaf
	for {
		parent := node.Parent()
		if parent.Length() == 0 || parent.Is("body, html") {
			return node
		}
		text := collapseSpace(parent.Text())
		if utf8.RuneCountInString(text) > c.cfg.MetadataContainerMax {
			return node
		}
		node = parent
	}
}

// removeAuthorCards removes blocks identified by co-occurring marker
// phrases, capped at the metadata container size.
func (c *Cleaner) removeAuthorCards(root *goquery.Selection) {
	var doomed []*goquery.Selection
	root.Find("div, section, aside").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		n := utf8.RuneCountInString(text)
		if n == 0 || n > c.cfg.MetadataContainerMax {
			return
		}
		for _, pair := range c.cfg.AuthorCardPhrases {
			if strings.Contains(text, pair[0]) && (pair[1] == "" || strings.Contains(text, pair[1])) {
				doomed = append(doomed, s)
				return
			}
		}
	})
	for _, s := range doomed {
		s.Remove()
	}
}

// removeCTACards removes promotional call-to-action cards.
func (c *Cleaner) removeCTACards(root *goquery.Selection) {
	var doomed []*goquery.Selection
	root.Find("div, section, p").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		n := utf8.RuneCountInString(text)
		if n == 0 || n > c.cfg.MetadataContainerMax {
			return
		}
		for _, re := range c.cfg.CTAPatterns {
			if re.MatchString(text) {
				doomed = append(doomed, s)
				return
			}
		}
	})
	for _, s := range doomed {
		s.Remove()
	}
}

// removeFAQSections removes sections introduced by an FAQ heading,
// skip-guarded when the enclosing section's text exceeds the size
// threshold.
func (c *Cleaner) removeFAQSections(root *goquery.Selection) {
	var doomed []*goquery.Selection
	root.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		if !c.cfg.FAQHeadingRe.MatchString(collapseSpace(h.Text())) {
			return
		}
		section := h.Closest("section, div")
		if section.Length() == 0 {
			return
		}
		if utf8.RuneCountInString(collapseSpace(section.Text())) > c.cfg.FAQSectionMax {
			return
		}
		doomed = append(doomed, section)
	})
	for _, s := range doomed {
		s.Remove()
	}
}
