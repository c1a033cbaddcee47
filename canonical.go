package webclip

import (
	"net/url"
	"regexp"
	"strings"
)

// ProviderRule unwraps one CDN provider's proxy/resizing URL grammar to a
// best-quality, comparably-stable form. A rule is a guarded no-op: it only
// activates when the URL matches the provider's recognizable signature and
// leaves non-matching URLs unchanged. Rules must be idempotent.
type ProviderRule struct {
	// Name identifies the provider (for logging and tests).
	Name string

	// Apply rewrites u in place when the URL matches the provider's
	// signature and reports whether it matched.
	Apply func(u *url.URL) bool
}

// Canonicalizer normalizes image URLs by applying a fixed ordered list of
// provider rules. The rule list is immutable after construction.
type Canonicalizer struct {
	rules []ProviderRule
}

// NewCanonicalizer creates a Canonicalizer with the given rules.
// With no rules it uses DefaultProviderRules.
func NewCanonicalizer(rules ...ProviderRule) *Canonicalizer {
	if len(rules) == 0 {
		rules = DefaultProviderRules()
	}
	return &Canonicalizer{rules: rules}
}

// Normalize returns the canonical form of an image URL found in markup.
// base is the page URL used to resolve relative and protocol-relative
// references; pass "" when unknown. Normalize is total: on any parse
// error it returns the best URL found so far.
func (c *Canonicalizer) Normalize(raw string, base string) string {
	best := strings.TrimSpace(raw)
	if best == "" {
		return best
	}

	// Protocol-relative references get an explicit scheme.
	if strings.HasPrefix(best, "//") {
		best = "https:" + best
	}

	u, err := url.Parse(best)
	if err != nil {
		return best
	}

	// Resolve relative references against the page URL.
	if !u.IsAbs() && base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return best
		}
		u = b.ResolveReference(u)
	}
	best = u.String()

	for i := range c.rules {
		if c.rules[i].Apply(u) {
			best = u.String()
		}
	}
	return best
}

var (
	zhimgVariantRe  = regexp.MustCompile(`_(\d+w|b|xl|xll|hd|fhd|qhd|im|r)(\.(?:jpg|jpeg|png|gif|webp))$`)
	twimgSuffixRe   = regexp.MustCompile(`:(small|medium|large|thumb|orig|\d+x\d+)$`)
	googleSizeRe    = regexp.MustCompile(`=[swh]\d[^/]*$|=s0[^/]*$`)
	mediumMaxRe     = regexp.MustCompile(`^\d+$`)
	qpicSizeRe      = regexp.MustCompile(`^\d+$`)
	sinaimgSizeSegs = map[string]bool{
		"large": true, "mw690": true, "mw1024": true, "mw2048": true,
		"bmiddle": true, "small": true, "square": true, "thumb150": true,
		"thumb180": true, "thumb300": true, "thumbnail": true,
		"orj360": true, "orj480": true, "orj960": true, "crop": true,
	}
)

// DefaultProviderRules returns the built-in provider rule list. Order
// matters only to the extent that a URL cannot match two providers at
// once; rules are otherwise independent.
func DefaultProviderRules() []ProviderRule {
	return []ProviderRule{
		{Name: "weserv", Apply: unwrapWeserv},
		{Name: "fetch-proxy", Apply: unwrapFetchProxy},
		{Name: "twimg", Apply: normalizeTwimg},
		{Name: "zhimg", Apply: normalizeZhimg},
		{Name: "qpic", Apply: normalizeQpic},
		{Name: "wp", Apply: normalizeWordPress},
		{Name: "medium", Apply: normalizeMedium},
		{Name: "googleusercontent", Apply: normalizeGoogle},
		{Name: "sinaimg", Apply: normalizeSinaimg},
	}
}

// setPath assigns a rewritten path together with its raw form so that
// String() reproduces it byte for byte. A stale RawPath from parsing
// would otherwise make String() re-escape characters like "*" that the
// original markup carried literally.
func setPath(u *url.URL, p string) {
	u.Path = p
	u.RawPath = p
}

// unwrapWeserv decodes images.weserv.nl/wsrv.nl proxy URLs, which carry
// the origin URL in the "url" query parameter, typically without scheme.
func unwrapWeserv(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if host != "wsrv.nl" && !strings.HasSuffix(host, "weserv.nl") {
		return false
	}
	target := u.Query().Get("url")
	if target == "" {
		return false
	}
	if !strings.Contains(target, "://") {
		target = "https://" + strings.TrimPrefix(target, "//")
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return false
	}
	*u = *parsed
	return true
}

// unwrapFetchProxy decodes Cloudinary-style fetch wrappers of the shape
// /image/fetch/<transform-segments>/<percent-encoded-origin-url>, used by
// Substack among others. Transformation segments (w_1456,c_limit,f_auto)
// are discarded along with the wrapper.
func unwrapFetchProxy(u *url.URL) bool {
	const marker = "/image/fetch/"
	idx := strings.Index(u.EscapedPath(), marker)
	if idx < 0 {
		return false
	}
	rest := u.EscapedPath()[idx+len(marker):]
	// Skip transformation segments until the embedded URL starts.
	for {
		start := strings.Index(rest, "http")
		if start < 0 {
			return false
		}
		rest = rest[start:]
		break
	}
	decoded, err := url.PathUnescape(rest)
	if err != nil {
		decoded = rest
	}
	parsed, err := url.Parse(decoded)
	if err != nil || parsed.Host == "" {
		return false
	}
	*u = *parsed
	return true
}

// normalizeTwimg rewrites pbs.twimg.com renditions to the original
// quality: the modern name= query parameter and the legacy :size path
// suffix both become "orig".
func normalizeTwimg(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if host != "pbs.twimg.com" {
		return false
	}
	matched := false
	q := u.Query()
	if name := q.Get("name"); name != "" && name != "orig" {
		q.Set("name", "orig")
		u.RawQuery = q.Encode()
		matched = true
	}
	if loc := twimgSuffixRe.FindStringIndex(u.Path); loc != nil {
		suffix := u.Path[loc[0]:]
		if suffix != ":orig" {
			setPath(u, u.Path[:loc[0]]+":orig")
			matched = true
		}
	}
	return matched
}

// normalizeZhimg strips zhimg.com size/quality filename suffixes
// (v2-abc_720w.jpg, v2-abc_b.jpg) down to the raw rendition (_r).
func normalizeZhimg(u *url.URL) bool {
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), "zhimg.com") {
		return false
	}
	m := zhimgVariantRe.FindStringSubmatch(u.Path)
	if m == nil || m[1] == "r" {
		return false
	}
	setPath(u, zhimgVariantRe.ReplaceAllString(u.Path, "_r$2"))
	return true
}

// normalizeQpic rewrites mmbiz.qpic.cn renditions: the trailing numeric
// size segment becomes /0 (the original) and sizing query parameters are
// dropped, keeping only the format hint.
func normalizeQpic(u *url.URL) bool {
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), "qpic.cn") {
		return false
	}
	matched := false
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if n := len(segs); n > 1 && qpicSizeRe.MatchString(segs[n-1]) && segs[n-1] != "0" {
		segs[n-1] = "0"
		setPath(u, "/"+strings.Join(segs, "/"))
		matched = true
	}
	if u.RawQuery != "" {
		q := u.Query()
		kept := url.Values{}
		if fmtHint := q.Get("wx_fmt"); fmtHint != "" {
			kept.Set("wx_fmt", fmtHint)
		}
		if enc := kept.Encode(); enc != u.RawQuery {
			u.RawQuery = enc
			matched = true
		}
	}
	return matched
}

// normalizeWordPress strips wp.com photon resizing query parameters.
func normalizeWordPress(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if host != "wp.com" && !strings.HasSuffix(host, ".wp.com") {
		return false
	}
	if u.RawQuery == "" {
		return false
	}
	q := u.Query()
	matched := false
	for _, key := range []string{"w", "h", "resize", "fit", "crop", "quality", "strip", "zoom"} {
		if q.Has(key) {
			q.Del(key)
			matched = true
		}
	}
	if matched {
		u.RawQuery = q.Encode()
	}
	return matched
}

// normalizeMedium removes miro.medium.com transformation path segments:
// resize:*/format:* pairs and the legacy max/<width> prefix.
func normalizeMedium(u *url.URL) bool {
	if strings.ToLower(u.Hostname()) != "miro.medium.com" {
		return false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	kept := segs[:0]
	matched := false
	for i := 0; i < len(segs); i++ {
		s := segs[i]
		if strings.HasPrefix(s, "resize:") || strings.HasPrefix(s, "format:") || strings.HasPrefix(s, "fit:") {
			matched = true
			continue
		}
		if s == "max" && i+1 < len(segs) && mediumMaxRe.MatchString(segs[i+1]) {
			matched = true
			i++
			continue
		}
		kept = append(kept, s)
	}
	if matched {
		setPath(u, "/"+strings.Join(kept, "/"))
	}
	return matched
}

// normalizeGoogle rewrites lh3.googleusercontent.com-style size suffixes
// (=w800-h600-no) to the original-size token (=s0).
func normalizeGoogle(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, "googleusercontent.com") && !strings.HasSuffix(host, "ggpht.com") {
		return false
	}
	loc := googleSizeRe.FindStringIndex(u.Path)
	if loc == nil {
		return false
	}
	if u.Path[loc[0]:] == "=s0" {
		return false
	}
	setPath(u, u.Path[:loc[0]]+"=s0")
	return true
}

// normalizeSinaimg replaces the sinaimg.cn size path segment with the
// full-size rendition.
func normalizeSinaimg(u *url.URL) bool {
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), "sinaimg.cn") {
		return false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 || !sinaimgSizeSegs[segs[0]] || segs[0] == "large" {
		return false
	}
	segs[0] = "large"
	setPath(u, "/"+strings.Join(segs, "/"))
	return true
}
