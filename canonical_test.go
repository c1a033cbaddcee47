package webclip_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yult97/webclip"
)

func TestCanonicalizer_Normalize(t *testing.T) {
	t.Parallel()

	c := webclip.NewCanonicalizer()

	t.Run("returns non-provider URLs unchanged", func(t *testing.T) {
		t.Parallel()

		raw := "https://example.com/images/photo.jpg?v=3"
		assert.Equal(t, raw, c.Normalize(raw, ""))
	})

	t.Run("returns malformed input as-is", func(t *testing.T) {
		t.Parallel()

		raw := "https://example.com/%zz"
		assert.Equal(t, raw, c.Normalize(raw, ""))
	})

	t.Run("prepends https to protocol-relative URLs", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("//cdn.example.com/a.png", "")
		assert.Equal(t, "https://cdn.example.com/a.png", got)
	})

	t.Run("resolves relative URLs against the page URL", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("../img/a.png", "https://example.com/posts/2024/entry.html")
		assert.Equal(t, "https://example.com/posts/img/a.png", got)
	})

	t.Run("unwraps weserv proxy URLs", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://images.weserv.nl/?url=example.com%2Fpic.jpg&w=300", "")
		assert.Equal(t, "https://example.com/pic.jpg", got)
	})

	t.Run("unwraps fetch proxy wrappers and drops transform segments", func(t *testing.T) {
		t.Parallel()

		raw := "https://substackcdn.com/image/fetch/w_1456,c_limit,f_auto/https%3A%2F%2Fbucket.s3.amazonaws.com%2Fphoto.png"
		got := c.Normalize(raw, "")
		assert.Equal(t, "https://bucket.s3.amazonaws.com/photo.png", got)
	})

	t.Run("rewrites twimg name parameter to orig", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://pbs.twimg.com/media/AbCdEf?format=jpg&name=small", "")
		assert.Equal(t, "https://pbs.twimg.com/media/AbCdEf?format=jpg&name=orig", got)
	})

	t.Run("rewrites legacy twimg size suffix to orig", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://pbs.twimg.com/media/AbCdEf.jpg:large", "")
		assert.Equal(t, "https://pbs.twimg.com/media/AbCdEf.jpg:orig", got)
	})

	t.Run("rewrites zhimg size variants to raw rendition", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://pic1.zhimg.com/v2-abc123_720w.jpg", "")
		assert.Equal(t, "https://pic1.zhimg.com/v2-abc123_r.jpg", got)
	})

	t.Run("rewrites qpic size segment and keeps only the format hint", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://mmbiz.qpic.cn/mmbiz_png/abc123/640?wx_fmt=png&tp=webp&wxfrom=5", "")
		assert.Equal(t, "https://mmbiz.qpic.cn/mmbiz_png/abc123/0?wx_fmt=png", got)
	})

	t.Run("strips wordpress photon resizing parameters", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://i0.wp.com/example.com/photo.jpg?resize=300%2C200&quality=80", "")
		assert.Equal(t, "https://i0.wp.com/example.com/photo.jpg", got)
	})

	t.Run("removes medium transformation path segments", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://miro.medium.com/v2/resize:fit:1400/format:webp/1*abc.png", "")
		assert.Equal(t, "https://miro.medium.com/v2/1*abc.png", got)

		got = c.Normalize("https://miro.medium.com/max/1200/1*abc.png", "")
		assert.Equal(t, "https://miro.medium.com/1*abc.png", got)
	})

	t.Run("keeps literal asterisks unescaped in rewritten paths", func(t *testing.T) {
		t.Parallel()

		// The emitted URL must match the markup form byte for byte, not
		// a re-escaped variant like %2A.
		got := c.Normalize("https://miro.medium.com/v2/resize:fit:1200/1*AbCdEf.jpeg", "")
		assert.Equal(t, "https://miro.medium.com/v2/1*AbCdEf.jpeg", got)
		assert.NotContains(t, got, "%2A")

		got = c.Normalize("https://pbs.twimg.com/media/a*b.jpg:small", "")
		assert.Equal(t, "https://pbs.twimg.com/media/a*b.jpg:orig", got)
	})

	t.Run("rewrites googleusercontent size suffix to s0", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://lh3.googleusercontent.com/abc=w800-h600-no", "")
		assert.Equal(t, "https://lh3.googleusercontent.com/abc=s0", got)
	})

	t.Run("rewrites sinaimg size segment to large", func(t *testing.T) {
		t.Parallel()

		got := c.Normalize("https://wx1.sinaimg.cn/mw690/abc123.jpg", "")
		assert.Equal(t, "https://wx1.sinaimg.cn/large/abc123.jpg", got)
	})

	t.Run("is idempotent for every provider", func(t *testing.T) {
		t.Parallel()

		inputs := []string{
			"https://images.weserv.nl/?url=example.com%2Fpic.jpg",
			"https://substackcdn.com/image/fetch/w_1456/https%3A%2F%2Fexample.com%2Fa.png",
			"https://pbs.twimg.com/media/AbCdEf?format=jpg&name=small",
			"https://pbs.twimg.com/media/AbCdEf.jpg:large",
			"https://pic1.zhimg.com/v2-abc_b.jpg",
			"https://mmbiz.qpic.cn/mmbiz_jpg/xyz/640?wx_fmt=jpeg",
			"https://i0.wp.com/example.com/p.jpg?w=300",
			"https://miro.medium.com/v2/resize:fit:720/1*x.png",
			"https://lh3.googleusercontent.com/abc=w400",
			"https://wx2.sinaimg.cn/thumb150/abc.jpg",
			"https://example.com/plain.jpg",
		}
		for _, raw := range inputs {
			once := c.Normalize(raw, "")
			twice := c.Normalize(once, "")
			assert.Equal(t, once, twice, "normalizing twice must equal normalizing once for %s", raw)
		}
	})

	t.Run("custom rule list replaces the defaults", func(t *testing.T) {
		t.Parallel()

		custom := webclip.NewCanonicalizer(webclip.ProviderRule{
			Name: "upper-host",
			Apply: func(u *url.URL) bool {
				u.Host = strings.ToUpper(u.Host)
				return true
			},
		})
		got := custom.Normalize("https://pbs.twimg.com/media/A.jpg:small", "")
		assert.Equal(t, "https://PBS.TWIMG.COM/media/A.jpg:small", got)
	})
}
