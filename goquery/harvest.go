package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/yult97/webclip"
)

// lazySrcAttrs is the lazy-load attribute set, checked before src because
// it usually carries the highest-quality reference.
var lazySrcAttrs = []string{
	"data-src", "data-original", "data-lazy-src", "data-actualsrc",
	"data-original-src", "data-hi-res-src", "data-image-src",
}

// Harvester gathers every plausible image reference from a subtree,
// classifies it and deduplicates by canonical URL. Harvesting is
// side-effect-free: it only reads the tree.
type Harvester struct {
	canon      *webclip.Canonicalizer
	classifier *Classifier
	captioner  *Captioner
}

// NewHarvester creates a Harvester from its collaborators. Nil
// collaborators select defaults.
func NewHarvester(canon *webclip.Canonicalizer, classifier *Classifier, captioner *Captioner) *Harvester {
	if canon == nil {
		canon = webclip.NewCanonicalizer()
	}
	if classifier == nil {
		classifier = NewClassifier(DefaultClassifierConfig())
	}
	if captioner == nil {
		captioner = NewCaptioner(DefaultCaptionConfig())
	}
	return &Harvester{canon: canon, classifier: classifier, captioner: captioner}
}

// harvestState tracks dedup and ordering across one harvest call.
type harvestState struct {
	pageURL    string
	seen       map[string]int
	candidates []webclip.ImageCandidate
}

// Harvest returns the ordered, deduplicated image candidates of the
// subtree. Per img element exactly one source is taken, in fixed priority
// (lazy attributes, currently-rendered source, declared source, highest
// srcset entry); picture sources, background images and page-level hints
// are additional lower-priority signals. The first candidate seen for a
// canonical URL wins and is never overwritten by a later duplicate.
func (h *Harvester) Harvest(root *goquery.Selection, pageURL string) []webclip.ImageCandidate {
	st := &harvestState{pageURL: pageURL, seen: make(map[string]int)}
	if root == nil || root.Length() == 0 {
		return nil
	}

	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		// A rejected element contributes no candidate at all.
		if h.classifier.Excluded(img) {
			return
		}
		rawURL, kind := h.elementSource(img)
		if rawURL == "" {
			return
		}
		w, hgt, _ := effectiveSize(img)
		caption := img.AttrOr(AttrCaption, "")
		if caption == "" {
			caption = h.captioner.Find(img)
		}
		h.add(st, webclip.ImageCandidate{
			URL:           rawURL,
			Kind:          kind,
			InMainContent: true,
			Width:         w,
			Height:        hgt,
			Alt:           strings.TrimSpace(img.AttrOr("alt", "")),
			Caption:       caption,
		})
	})

	// Picture responsive sources not already covered by their img.
	root.Find("picture source[srcset]").Each(func(_ int, src *goquery.Selection) {
		img := src.Parent().Find("img").First()
		if img.Length() > 0 && h.classifier.Excluded(img) {
			return
		}
		if best := bestSrcsetURL(src.AttrOr("srcset", "")); best != "" {
			h.add(st, webclip.ImageCandidate{
				URL:           best,
				Kind:          webclip.KindResponsive,
				InMainContent: true,
			})
		}
	})

	// Computed background images are extraction signals only.
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		if bg := backgroundImageURL(s); bg != "" {
			h.add(st, webclip.ImageCandidate{
				URL:           bg,
				Kind:          webclip.KindBackground,
				InMainContent: false,
			})
		}
	})

	// Page-level hints live outside the subtree.
	head := documentRoot(root)
	head.Find(`meta[property="og:image"], meta[name="twitter:image"]`).Each(func(_ int, m *goquery.Selection) {
		if content := strings.TrimSpace(m.AttrOr("content", "")); content != "" {
			h.add(st, webclip.ImageCandidate{
				URL:           content,
				Kind:          webclip.KindMetaHint,
				InMainContent: false,
			})
		}
	})
	head.Find(`link[rel="preload"][as="image"], link[rel="image_src"]`).Each(func(_ int, l *goquery.Selection) {
		if href := strings.TrimSpace(l.AttrOr("href", "")); href != "" {
			h.add(st, webclip.ImageCandidate{
				URL:           href,
				Kind:          webclip.KindPreload,
				InMainContent: false,
			})
		}
	})

	return st.candidates
}

// elementSource picks one source reference per img element, first match
// wins, to avoid duplicate signals from a single element.
func (h *Harvester) elementSource(img *goquery.Selection) (string, webclip.ImageKind) {
	for _, attr := range lazySrcAttrs {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" && !strings.HasPrefix(v, "data:") {
			return v, webclip.KindLazy
		}
	}
	if v := strings.TrimSpace(img.AttrOr(AttrCurrentSrc, "")); v != "" && !strings.HasPrefix(v, "data:") {
		return v, webclip.KindDirect
	}
	if v := strings.TrimSpace(img.AttrOr("src", "")); v != "" && !strings.HasPrefix(v, "data:") {
		return v, webclip.KindDirect
	}
	if best := bestSrcsetURL(img.AttrOr("srcset", "")); best != "" {
		return best, webclip.KindResponsive
	}
	return "", ""
}

// add canonicalizes and appends a candidate unless its canonical URL was
// already seen.
func (h *Harvester) add(st *harvestState, cand webclip.ImageCandidate) {
	normalized := h.canon.Normalize(cand.URL, st.pageURL)
	if normalized == "" {
		return
	}
	if _, ok := st.seen[normalized]; ok {
		return
	}
	cand.ID = uuid.NewString()
	cand.NormalizedURL = normalized
	cand.Order = len(st.candidates)
	st.seen[normalized] = len(st.candidates)
	st.candidates = append(st.candidates, cand)
}

// newCandidateID mints an image candidate ID.
func newCandidateID() string {
	return uuid.NewString()
}

// srcsetEntry is one (url, descriptor) pair of a responsive source set.
type srcsetEntry struct {
	URL   string
	Value float64 // numeric part of the width/density descriptor; 0 when absent
}

// srcsetSplitRe finds the descriptor token immediately followed by the
// entry separator. URLs themselves may legally contain commas (provider
// transformation parameters), so entries cannot be split on bare commas.
var srcsetSplitRe = regexp.MustCompile(`(\s+\d+(?:\.\d+)?[wx])\s*,\s*`)

// parseSrcset parses a srcset attribute into entries, preserving commas
// inside URLs.
func parseSrcset(srcset string) []srcsetEntry {
	srcset = strings.TrimSpace(srcset)
	if srcset == "" {
		return nil
	}

	var chunks []string
	last := 0
	for _, loc := range srcsetSplitRe.FindAllStringSubmatchIndex(srcset, -1) {
		// Keep the descriptor (group 1) with the left-hand entry.
		chunks = append(chunks, srcset[last:loc[3]])
		last = loc[1]
	}
	chunks = append(chunks, srcset[last:])

	var entries []srcsetEntry
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		// Descriptor-less entries may still be plain comma-separated.
		parts := []string{chunk}
		if !strings.ContainsAny(chunk, " \t\n") && strings.Contains(chunk, ",") && !strings.Contains(chunk, "/") {
			parts = strings.Split(chunk, ",")
		}
		for _, part := range parts {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}
			e := srcsetEntry{URL: fields[0]}
			if len(fields) > 1 {
				desc := fields[len(fields)-1]
				if n, err := strconv.ParseFloat(strings.TrimRight(desc, "wx"), 64); err == nil {
					e.Value = n
				}
			}
			entries = append(entries, e)
		}
	}
	return entries
}

// bestSrcsetURL returns the URL with the maximum descriptor value; ties
// and absent descriptors favor the first-seen entry.
func bestSrcsetURL(srcset string) string {
	entries := parseSrcset(srcset)
	if len(entries) == 0 {
		return ""
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Value > best.Value {
			best = e
		}
	}
	return best.URL
}
