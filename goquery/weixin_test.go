package goquery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yult97/webclip"
	"github.com/yult97/webclip/goquery"
)

func TestWeixinExtractor_Extract(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewWeixinExtractor().Extract(ctx, "", "https://mp.weixin.qq.com/s/abc")
		require.Error(t, err)
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})

	t.Run("extracts title, author, time and body", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>fallback</title></head><body>
<h1 id="activity-name"> 深入理解缓存设计 </h1>
<a id="js_name">技术小报</a>
<em id="publish_time">2025年3月3日</em>
<div id="js_content">
<p>第一段正文内容，讨论缓存的基本概念。</p>
<p>第二段正文内容，讨论淘汰策略。</p>
</div>
</body></html>`

		got, err := goquery.NewWeixinExtractor().Extract(ctx, html, "https://mp.weixin.qq.com/s/abc")
		require.NoError(t, err)

		assert.Equal(t, "深入理解缓存设计", got.Title)
		assert.Equal(t, "技术小报", got.Author)
		assert.Equal(t, "2025年3月3日", got.PublishTime)
		assert.Equal(t, "mp.weixin.qq.com", got.Domain)
		require.Len(t, got.Blocks, 2)
		assert.Equal(t, webclip.BlockParagraph, got.Blocks[0].Type)
		assert.True(t, got.WordCount > 0)
	})

	t.Run("promotes lazy-loaded image sources", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1 id="activity-name">图文</h1>
<div id="js_content">
<p>看图。</p>
<img data-src="https://mmbiz.qpic.cn/mmbiz_jpg/abc/640?wx_fmt=jpeg" width="640" height="480">
</div>
</body></html>`

		got, err := goquery.NewWeixinExtractor().Extract(ctx, html, "https://mp.weixin.qq.com/s/abc")
		require.NoError(t, err)

		require.Len(t, got.Images, 1)
		assert.Equal(t, "https://mmbiz.qpic.cn/mmbiz_jpg/abc/0?wx_fmt=jpeg", got.Images[0].NormalizedURL)
		assert.Contains(t, got.ContentHTML, "mmbiz.qpic.cn")
	})

	t.Run("yields an empty result without a body container", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>无正文</title></head><body><p>stray</p></body></html>`
		got, err := goquery.NewWeixinExtractor().Extract(ctx, html, "https://mp.weixin.qq.com/s/abc")
		require.NoError(t, err)

		assert.True(t, got.Empty())
		assert.Equal(t, "无正文", got.Title)
	})
}
