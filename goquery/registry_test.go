package goquery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yult97/webclip"
	"github.com/yult97/webclip/goquery"
	"github.com/yult97/webclip/mock"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	newMockExtractor := func(title string) *mock.Extractor {
		return &mock.Extractor{
			ExtractFn: func(_ context.Context, _ string, _ string) (*webclip.ExtractResult, error) {
				return &webclip.ExtractResult{Title: title}, nil
			},
		}
	}

	t.Run("returns registered extractor by kind", func(t *testing.T) {
		t.Parallel()

		fallback := newMockExtractor("fallback")
		social := newMockExtractor("social")

		r := goquery.NewRegistry(goquery.NewDetector(), fallback)
		r.Register(webclip.SiteSocial, social)

		assert.Equal(t, webclip.Extractor(social), r.Get(webclip.SiteSocial))
		assert.Nil(t, r.Get(webclip.SiteWeixin))
	})

	t.Run("routes pages through the detector", func(t *testing.T) {
		t.Parallel()

		fallback := newMockExtractor("fallback")
		social := newMockExtractor("social")

		r := goquery.NewRegistry(goquery.NewDetector(), fallback)
		r.Register(webclip.SiteSocial, social)

		got := r.GetForPage("<html></html>", "https://x.com/user/status/1")
		assert.Equal(t, webclip.Extractor(social), got)
	})

	t.Run("falls back when the kind has no extractor", func(t *testing.T) {
		t.Parallel()

		fallback := newMockExtractor("fallback")
		r := goquery.NewRegistry(goquery.NewDetector(), fallback)

		got := r.GetForPage("<html></html>", "https://x.com/user/status/1")
		assert.Equal(t, webclip.Extractor(fallback), got)
	})

	t.Run("falls back for unknown pages", func(t *testing.T) {
		t.Parallel()

		fallback := newMockExtractor("fallback")
		r := goquery.NewRegistry(goquery.NewDetector(), fallback)
		r.Register(webclip.SiteSocial, newMockExtractor("social"))

		got := r.GetForPage("<html><body><p>plain</p></body></html>", "https://example.com/post")
		assert.Equal(t, webclip.Extractor(fallback), got)
	})

	t.Run("uses an injected detector", func(t *testing.T) {
		t.Parallel()

		weixin := newMockExtractor("weixin")
		detector := &mock.SiteDetector{
			DetectFn: func(_ string, _ string) webclip.SiteKind { return webclip.SiteWeixin },
		}
		r := goquery.NewRegistry(detector, newMockExtractor("fallback"))
		r.Register(webclip.SiteWeixin, weixin)

		assert.Equal(t, webclip.Extractor(weixin), r.GetForPage("", ""))
	})

	t.Run("lists registered kinds", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRegistry(goquery.NewDetector(), newMockExtractor("fallback"))
		r.Register(webclip.SiteSocial, newMockExtractor("social"))
		r.Register(webclip.SiteWeixin, newMockExtractor("weixin"))

		kinds := r.List()
		assert.Len(t, kinds, 2)
		assert.Contains(t, kinds, webclip.SiteSocial)
		assert.Contains(t, kinds, webclip.SiteWeixin)
	})
}
