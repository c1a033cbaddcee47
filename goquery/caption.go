package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// CaptionConfig holds the rule lists for the caption heuristic.
type CaptionConfig struct {
	// MinLen/MaxLen bound valid caption length in runes.
	MinLen int
	MaxLen int

	// CaptionSelectors match elements that explicitly carry captions.
	CaptionSelectors []string

	// Placeholders are generic words rejected as exact matches.
	Placeholders []string

	// ActionStopRe rejects texts containing interaction verbs.
	ActionStopRe *regexp.Regexp

	// CreditPrefixRe accepts credit lines regardless of stopword overlap.
	CreditPrefixRe *regexp.Regexp
}

// DefaultCaptionConfig returns the built-in caption configuration.
func DefaultCaptionConfig() CaptionConfig {
	return CaptionConfig{
		MinLen: 2,
		MaxLen: 80,
		CaptionSelectors: []string{
			"figcaption", ".caption", ".image-caption", ".img-caption",
			".pic-caption", ".photo-caption", ".wp-caption-text",
			"[class*='caption']",
		},
		Placeholders: []string{
			"image", "photo", "picture", "video", "gif",
			"click to enlarge", "图片", "图像", "照片", "视频",
			"点击查看大图", "点击放大",
		},
		ActionStopRe:   regexp.MustCompile(`(?i)click|view|share|like|subscribe|follow|点击|查看|分享|点赞|关注|订阅`),
		CreditPrefixRe: regexp.MustCompile(`^(?:图|图源|来源|摄|制图|source|credit|photo by|by|©|\(c\))`),
	}
}

// Captioner finds a human-visible caption for an image via structural and
// proximity heuristics.
type Captioner struct {
	cfg CaptionConfig
}

// NewCaptioner creates a Captioner. The zero-value config selects
// DefaultCaptionConfig.
func NewCaptioner(cfg CaptionConfig) *Captioner {
	if cfg.MaxLen == 0 {
		cfg = DefaultCaptionConfig()
	}
	return &Captioner{cfg: cfg}
}

// Find returns the caption for the image, or "" when none passes the
// validity filter. Strong structural signals (enclosing caption container,
// accessible-description reference) are tried before weak proximity
// signals (following siblings).
func (c *Captioner) Find(img *goquery.Selection) string {
	if img == nil || img.Length() == 0 {
		return ""
	}

	// Strong pass: enclosing figure-like container's descriptive child.
	if fig := img.Closest("figure, .wp-caption, .image-block"); fig.Length() > 0 {
		for _, sel := range c.cfg.CaptionSelectors {
			if cap := fig.Find(sel).First(); cap.Length() > 0 {
				if text := c.validCaption(cap); text != "" {
					return text
				}
			}
		}
	}

	// Strong pass: explicit accessible-description reference.
	if id, ok := img.Attr("aria-describedby"); ok && id != "" {
		if desc := documentRoot(img).Find("#" + cssEscape(id)).First(); desc.Length() > 0 {
			if text := c.validCaption(desc); text != "" {
				return text
			}
		}
	}

	// Weak pass: nearest following sibling, looking through a thin
	// wrapping element when the image is an only child.
	sib := img.Next()
	if sib.Length() == 0 {
		wrapper := img.Parent()
		if wrapper.Length() > 0 && wrapper.Children().Length() == 1 {
			sib = wrapper.Next()
		}
	}
	if sib.Length() == 0 {
		return ""
	}

	typed := false
	for _, sel := range c.cfg.CaptionSelectors {
		if sib.Is(sel) {
			typed = true
			break
		}
	}
	text := c.validCaption(sib)
	if text == "" {
		return ""
	}
	if typed {
		return text
	}
	// Untyped siblings are accepted only when short.
	if utf8.RuneCountInString(text) <= c.cfg.MaxLen/2 {
		return text
	}
	return ""
}

// validCaption applies visibility checks and the validity filter to a
// candidate element, returning its text or "".
func (c *Captioner) validCaption(s *goquery.Selection) string {
	if isHidden(s) {
		return ""
	}
	if w, h, ok := renderedSize(s); ok && (w == 0 || h == 0) {
		return ""
	}

	text := collapseSpace(s.Text())
	n := utf8.RuneCountInString(text)
	if n < c.cfg.MinLen || n > c.cfg.MaxLen {
		return ""
	}

	lower := strings.ToLower(text)
	for _, p := range c.cfg.Placeholders {
		if lower == p {
			return ""
		}
	}

	// Credit lines are always accepted, even when they contain action
	// verbs ("图/来源" overlaps with "查看" style stopwords on some sites).
	if c.cfg.CreditPrefixRe.MatchString(lower) {
		return text
	}
	if c.cfg.ActionStopRe.MatchString(text) {
		return ""
	}
	return text
}

var cssEscapeRe = regexp.MustCompile(`([^a-zA-Z0-9_\x{00a0}-\x{10ffff}-])`)

// cssEscape escapes an attribute value for safe use inside a selector.
func cssEscape(s string) string {
	return cssEscapeRe.ReplaceAllString(s, `\$1`)
}
