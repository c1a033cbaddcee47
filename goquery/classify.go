package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ClassifierConfig holds the heuristic rule lists and thresholds for the
// avatar/decorative classifier. The values are empirically tuned against
// sites observed during development; override individual fields rather
// than re-deriving them.
type ClassifierConfig struct {
	// IconMaxSize is the small-icon threshold in pixels: an image whose
	// effective width and height are both at or below it is decorative.
	IconMaxSize int

	// AuthorPhotoMin/Max bound the square author-photo size band.
	AuthorPhotoMin int
	AuthorPhotoMax int

	// BylineTextMin/Max bound the ancestor text window for the byline
	// check, avoiding false positives on large containers.
	BylineTextMin int
	BylineTextMax int

	// AncestorDepth bounds the ancestor-chain scans.
	AncestorDepth int

	// PlatformMarkers are selectors for platform-specific authorship
	// photos; an image inside a matching ancestor is excluded outright.
	PlatformMarkers []string

	// CDNVariantPatterns match CDN thumbnail/avatar rendition signatures
	// in the image URL.
	CDNVariantPatterns []*regexp.Regexp

	// ClassKeywords are case-insensitive substrings matched against the
	// image's own class attribute.
	ClassKeywords []string

	// AvatarAltPatterns and DecorativeAltPatterns match the alt text.
	AvatarAltPatterns     []*regexp.Regexp
	DecorativeAltPatterns []*regexp.Regexp

	// SizeUtilityRe matches small fixed-size utility class pairs.
	SizeUtilityRe *regexp.Regexp

	// NonContentSelectors identify author/bio/social/meta regions; an
	// ancestor matching one excludes the image.
	NonContentSelectors []string

	// BylinePhrases are conservative authorship phrases matched against
	// ancestor text within the byline window.
	BylinePhrases []*regexp.Regexp

	// PathMarkers and AvatarHosts match the image URL's path and host.
	PathMarkers []string
	AvatarHosts []string
}

// DefaultClassifierConfig returns the built-in classifier configuration.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		IconMaxSize:    50,
		AuthorPhotoMin: 100,
		AuthorPhotoMax: 300,
		BylineTextMin:  50,
		BylineTextMax:  300,
		AncestorDepth:  6,
		PlatformMarkers: []string{
			`[data-testid="Tweet-User-Avatar"]`,
			`[data-testid="UserAvatar-Container-unknown"]`,
			`.rich_media_meta_list .profile_avatar`,
			`.author-avatar`,
		},
		CDNVariantPatterns: []*regexp.Regexp{
			regexp.MustCompile(`_(?:normal|bigger|mini|reasonably_small)\.(?:jpg|jpeg|png|gif|webp)`),
			regexp.MustCompile(`/profile_images/`),
			regexp.MustCompile(`gravatar\.com/avatar/`),
			regexp.MustCompile(`[?&]s=\d{1,2}(?:&|$)`),
			regexp.MustCompile(`/s\d{2}-c/`),
		},
		ClassKeywords: []string{
			"avatar", "profile-photo", "profile_photo", "profile-pic",
			"headshot", "user-img", "user-image", "author-img",
		},
		AvatarAltPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)avatar|headshot|portrait|profile (?:photo|picture)|author photo`),
			regexp.MustCompile(`头像|作者照片|个人照片`),
		},
		DecorativeAltPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^(?:decorative|background|divider|spacer|placeholder|icon)$`),
			regexp.MustCompile(`^(?:装饰|背景|分隔|占位)`),
		},
		SizeUtilityRe: regexp.MustCompile(`\b[wh]-(?:[1-9]|1[0-6])\b`),
		NonContentSelectors: []string{
			".author", ".author-info", ".author-card", ".bio", ".byline",
			".social", ".share", ".meta", ".post-meta", ".article-meta",
			"footer", ".footer", ".sidebar", "aside", ".ad", ".ads",
			".advertisement", ".cta", ".subscribe", ".follow",
		},
		BylinePhrases: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bwritten by\b|\bby [A-Z][a-z]+`),
			regexp.MustCompile(`(?i)\bfollow\b.{0,20}\bon\b`),
			regexp.MustCompile(`作者[:：]|撰文[:：]|文 ?[/｜|] ?`),
		},
		PathMarkers: []string{"/avatar/", "/avatars/", "/profile/", "/profile_images/", "/user/upload/"},
		AvatarHosts: []string{"gravatar.com", "secure.gravatar.com"},
	}
}

// Classifier decides whether a harvested image element is content or
// noise (avatar, icon, decorative background). It is deterministic and
// total: every input yields a verdict.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a Classifier. The zero-value config selects
// DefaultClassifierConfig.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.IconMaxSize == 0 {
		cfg = DefaultClassifierConfig()
	}
	return &Classifier{cfg: cfg}
}

// Excluded reports whether the image element must be excluded from
// harvesting. Checks run in a fixed order and the first match wins;
// size/shape checks run before broad selector checks so legitimately
// small content images inside wrongly-matched containers are not
// over-excluded.
func (c *Classifier) Excluded(img *goquery.Selection) bool {
	if img == nil || img.Length() == 0 {
		return false
	}

	// 1. Platform-specific authorship-photo markers.
	for _, marker := range c.cfg.PlatformMarkers {
		if img.Closest(marker).Length() > 0 {
			return true
		}
	}

	src := imageSourceAttr(img)

	// 2. CDN thumbnail/avatar rendition signatures.
	for _, re := range c.cfg.CDNVariantPatterns {
		if src != "" && re.MatchString(src) {
			return true
		}
	}

	// 3. Class-name keywords on the image itself.
	class := strings.ToLower(img.AttrOr("class", ""))
	for _, kw := range c.cfg.ClassKeywords {
		if strings.Contains(class, kw) {
			return true
		}
	}

	// 4. Alt-text patterns.
	alt := strings.TrimSpace(img.AttrOr("alt", ""))
	for _, re := range c.cfg.AvatarAltPatterns {
		if alt != "" && re.MatchString(alt) {
			return true
		}
	}
	for _, re := range c.cfg.DecorativeAltPatterns {
		if alt != "" && re.MatchString(alt) {
			return true
		}
	}

	// 5. Effective size at or below the small-icon threshold. Both
	// dimensions must be present.
	if w, h, ok := effectiveSize(img); ok && w <= c.cfg.IconMaxSize && h <= c.cfg.IconMaxSize {
		return true
	}

	// 6. Ancestor shape scan: circular styling, small fixed-size utility
	// classes with clipping, or a square rounded author-photo container
	// with name-like alt text.
	if c.ancestorShapeMatch(img, alt) {
		return true
	}

	// 7. Ancestor region scan: non-content region selectors, and
	// separately byline phrases within the text window.
	if c.ancestorRegionMatch(img) {
		return true
	}

	// 8. URL path markers and avatar hosts.
	lower := strings.ToLower(src)
	for _, marker := range c.cfg.PathMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	for _, host := range c.cfg.AvatarHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}

	return false
}

func (c *Classifier) ancestorShapeMatch(img *goquery.Selection, alt string) bool {
	node := img
	for depth := 0; depth <= c.cfg.AncestorDepth && node.Length() > 0; depth++ {
		class := strings.ToLower(node.AttrOr("class", ""))

		if strings.Contains(class, "rounded-full") || isCircular(borderRadius(node)) {
			return true
		}

		if c.cfg.SizeUtilityRe.MatchString(class) &&
			(strings.Contains(class, "overflow-hidden") || strings.Contains(class, "clip")) {
			return true
		}

		// Square rounded container in the author-photo size band plus a
		// name-like alt text.
		if strings.Contains(class, "rounded") && nameLikeAlt(alt) {
			if w, h, ok := renderedSize(node); ok && w == h &&
				w >= c.cfg.AuthorPhotoMin && w <= c.cfg.AuthorPhotoMax {
				return true
			}
		}

		node = node.Parent()
	}
	return false
}

func (c *Classifier) ancestorRegionMatch(img *goquery.Selection) bool {
	node := img.Parent()
	for depth := 0; depth <= c.cfg.AncestorDepth && node.Length() > 0; depth++ {
		for _, sel := range c.cfg.NonContentSelectors {
			if node.Is(sel) {
				return true
			}
		}

		text := collapseSpace(node.Text())
		n := utf8.RuneCountInString(text)
		if n >= c.cfg.BylineTextMin && n <= c.cfg.BylineTextMax {
			for _, re := range c.cfg.BylinePhrases {
				if re.MatchString(text) {
					return true
				}
			}
		}

		node = node.Parent()
	}
	return false
}

// nameLikeAlt reports whether alt text looks like a person's name: short,
// no sentence punctuation, either 2-4 capitalized latin words or 2-4 CJK
// runes.
func nameLikeAlt(alt string) bool {
	alt = strings.TrimSpace(alt)
	if alt == "" || strings.ContainsAny(alt, ".!?,;:") {
		return false
	}
	n := utf8.RuneCountInString(alt)
	if n >= 2 && n <= 4 && !strings.ContainsAny(alt, " ") {
		return true
	}
	words := strings.Fields(alt)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		if first < 'A' || first > 'Z' {
			return false
		}
	}
	return true
}

// imageSourceAttr returns the most specific source reference on an image
// element, checking lazy-load attributes before src.
func imageSourceAttr(img *goquery.Selection) string {
	for _, attr := range lazySrcAttrs {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(img.AttrOr("src", ""))
}
