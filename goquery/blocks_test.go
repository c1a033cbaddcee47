package goquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yult97/webclip"
	"github.com/yult97/webclip/goquery"
)

func TestParseBlocks(t *testing.T) {
	t.Parallel()

	t.Run("maps top-level elements to typed blocks in order", func(t *testing.T) {
		t.Parallel()

		blocks := goquery.ParseBlocks(`<h2>Heading</h2><p>First paragraph.</p><ul><li>One</li><li>Two</li></ul><blockquote>Quoted.</blockquote><pre>code()</pre><figure><img src="a.jpg"></figure><div>Other text.</div>`)

		require.Len(t, blocks, 7)
		assert.Equal(t, webclip.BlockHeading, blocks[0].Type)
		assert.Equal(t, 2, blocks[0].Level)
		assert.Equal(t, webclip.BlockParagraph, blocks[1].Type)
		assert.Equal(t, "First paragraph.", blocks[1].Text)
		assert.Equal(t, webclip.BlockList, blocks[2].Type)
		assert.Equal(t, webclip.BlockQuote, blocks[3].Type)
		assert.Equal(t, webclip.BlockCode, blocks[4].Type)
		assert.Equal(t, webclip.BlockImage, blocks[5].Type)
		assert.Equal(t, webclip.BlockOther, blocks[6].Type)
	})

	t.Run("drops nodes that are empty after cleaning", func(t *testing.T) {
		t.Parallel()

		blocks := goquery.ParseBlocks(`<p>Kept.</p><p></p><div>   </div><p>Also kept.</p>`)

		require.Len(t, blocks, 2)
		assert.Equal(t, "Kept.", blocks[0].Text)
		assert.Equal(t, "Also kept.", blocks[1].Text)
	})

	t.Run("keeps image-only nodes", func(t *testing.T) {
		t.Parallel()

		blocks := goquery.ParseBlocks(`<p><img src="a.jpg"></p><div><img src="b.jpg"></div>`)

		require.Len(t, blocks, 2)
		assert.Equal(t, webclip.BlockImage, blocks[0].Type)
		assert.Equal(t, webclip.BlockImage, blocks[1].Type)
	})

	t.Run("assigns unique ids and carries markup", func(t *testing.T) {
		t.Parallel()

		blocks := goquery.ParseBlocks(`<p>One.</p><p>Two.</p>`)

		require.Len(t, blocks, 2)
		assert.NotEmpty(t, blocks[0].ID)
		assert.NotEqual(t, blocks[0].ID, blocks[1].ID)
		assert.Contains(t, blocks[0].HTML, "<p>")
	})

	t.Run("returns nothing for an empty fragment", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.ParseBlocks(""))
	})
}
