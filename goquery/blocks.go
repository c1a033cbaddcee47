package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/yult97/webclip"
)

// ParseBlocks converts a cleaned HTML fragment's top-level children into
// typed content blocks. A node that is empty after cleaning (no text and
// no image) is dropped, never emitted.
func ParseBlocks(fragmentHTML string) []webclip.ContentBlock {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragmentHTML))
	if err != nil {
		return nil
	}

	var blocks []webclip.ContentBlock
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		if b, ok := blockFromNode(s); ok {
			blocks = append(blocks, b)
		}
	})
	return blocks
}

// blockFromNode builds one ContentBlock from a top-level node.
func blockFromNode(s *goquery.Selection) (webclip.ContentBlock, bool) {
	text := collapseSpace(s.Text())
	hasImage := s.Is("img") || s.Find("img").Length() > 0
	if text == "" && !hasImage {
		return webclip.ContentBlock{}, false
	}

	b := webclip.ContentBlock{
		ID:   uuid.NewString(),
		HTML: outerHTML(s),
		Text: text,
	}

	tag := goquery.NodeName(s)
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.Type = webclip.BlockHeading
		b.Level = int(tag[1] - '0')
	case "p":
		if text == "" && hasImage {
			b.Type = webclip.BlockImage
		} else {
			b.Type = webclip.BlockParagraph
		}
	case "ul", "ol", "dl":
		b.Type = webclip.BlockList
	case "blockquote":
		b.Type = webclip.BlockQuote
	case "pre", "code":
		b.Type = webclip.BlockCode
	case "img", "figure", "picture":
		b.Type = webclip.BlockImage
	default:
		if text == "" && hasImage {
			b.Type = webclip.BlockImage
		} else {
			b.Type = webclip.BlockOther
		}
	}
	return b, true
}
