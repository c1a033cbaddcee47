package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yult97/webclip"
	"github.com/yult97/webclip/goquery"
)

func docOf(t *testing.T, html string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestHarvester_Harvest(t *testing.T) {
	t.Parallel()

	h := goquery.NewHarvester(nil, nil, nil)

	t.Run("collects direct images in document order", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><img src="https://example.com/a.jpg" width="400" height="300"><p>Text.</p><img src="https://example.com/b.jpg" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "https://example.com/post")

		require.Len(t, got, 2)
		assert.Equal(t, "https://example.com/a.jpg", got[0].NormalizedURL)
		assert.Equal(t, "https://example.com/b.jpg", got[1].NormalizedURL)
		assert.Equal(t, 0, got[0].Order)
		assert.Equal(t, 1, got[1].Order)
		assert.Equal(t, webclip.KindDirect, got[0].Kind)
		assert.True(t, got[0].InMainContent)
		assert.NotEmpty(t, got[0].ID)
	})

	t.Run("prefers lazy attributes over src", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><img src="https://example.com/placeholder.gif" data-src="https://example.com/real.jpg" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/real.jpg", got[0].NormalizedURL)
		assert.Equal(t, webclip.KindLazy, got[0].Kind)
	})

	t.Run("prefers annotated current source over declared src", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><img src="https://example.com/small.jpg" data-wc-currentsrc="https://example.com/big.jpg" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/big.jpg", got[0].NormalizedURL)
	})

	t.Run("takes the highest-width srcset entry when src is absent", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><img srcset="https://example.com/s.jpg 480w, https://example.com/l.jpg 1200w" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/l.jpg", got[0].NormalizedURL)
		assert.Equal(t, webclip.KindResponsive, got[0].Kind)
	})

	t.Run("preserves commas inside srcset URLs", func(t *testing.T) {
		t.Parallel()

		srcset := "https://cdn.example.com/c_limit,w_480/a.jpg 480w, https://cdn.example.com/c_limit,w_1200/a.jpg 1200w"
		doc := docOf(t, `<article><img srcset="`+srcset+`" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, "https://cdn.example.com/c_limit,w_1200/a.jpg", got[0].NormalizedURL)
	})

	t.Run("deduplicates by canonical URL keeping the first candidate", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article>
			<img src="https://pbs.twimg.com/media/AbC?format=jpg&name=small" width="400" height="300" alt="first">
			<img src="https://pbs.twimg.com/media/AbC?format=jpg&name=large" width="400" height="300" alt="second">
		</article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, "first", got[0].Alt)
		assert.Equal(t, "https://pbs.twimg.com/media/AbC?format=jpg&name=orig", got[0].NormalizedURL)
	})

	t.Run("skips excluded images entirely", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><img src="https://example.com/icon.png" width="16" height="16"><img src="https://example.com/photo.jpg" width="800" height="500"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/photo.jpg", got[0].NormalizedURL)
	})

	t.Run("skips data URIs", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><img src="data:image/gif;base64,R0lGOD" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		assert.Empty(t, got)
	})

	t.Run("resolves relative URLs against the page URL", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><img src="/img/a.jpg" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "https://example.com/posts/entry")

		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/img/a.jpg", got[0].NormalizedURL)
	})

	t.Run("harvests background images as non-content signals", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><div style="background-image: url('https://example.com/bg.jpg')"><p>Text.</p></div></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, webclip.KindBackground, got[0].Kind)
		assert.False(t, got[0].InMainContent)
		assert.False(t, got[0].Kind.ContentKind())
	})

	t.Run("harvests page-level meta hints outside the subtree", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<html><head><meta property="og:image" content="https://example.com/og.jpg"><link rel="preload" as="image" href="https://example.com/hero.jpg"></head><body><article><p>Text.</p></article></body></html>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 2)
		assert.Equal(t, webclip.KindMetaHint, got[0].Kind)
		assert.Equal(t, "https://example.com/og.jpg", got[0].NormalizedURL)
		assert.Equal(t, webclip.KindPreload, got[1].Kind)
		assert.False(t, got[0].InMainContent)
	})

	t.Run("attaches captions from annotation or heuristic", func(t *testing.T) {
		t.Parallel()

		doc := docOf(t, `<article><figure><img src="https://example.com/a.jpg" width="400" height="300"><figcaption>Figure 1: system diagram</figcaption></figure><img src="https://example.com/b.jpg" data-wc-caption="Stashed caption" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 2)
		assert.Equal(t, "Figure 1: system diagram", got[0].Caption)
		assert.Equal(t, "Stashed caption", got[1].Caption)
	})
}

func TestBestSrcsetURLViaHarvest(t *testing.T) {
	t.Parallel()

	t.Run("ties favor the first entry", func(t *testing.T) {
		t.Parallel()

		h := goquery.NewHarvester(nil, nil, nil)
		doc := docOf(t, `<article><img srcset="https://example.com/first.jpg 2x, https://example.com/second.jpg 2x" width="400" height="300"></article>`)
		got := h.Harvest(doc.Find("article"), "")

		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/first.jpg", got[0].NormalizedURL)
	})
}
