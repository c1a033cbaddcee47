package webclip

import (
	"context"
	"strings"
	"unicode"
)

// ExtractResult is the pipeline's sole output: one structurally valid
// result per invocation. A page the pipeline cannot make sense of yields
// an empty-but-well-formed result, never an error.
type ExtractResult struct {
	// Title is the article title. Falls back to the document title and is
	// never empty for a non-empty page.
	Title string `json:"title"`

	// SourceURL is the address the document was loaded from.
	SourceURL string `json:"sourceUrl"`

	// Domain is the hostname of SourceURL.
	Domain string `json:"domain"`

	// Author and PublishTime are best-effort and empty when unknown.
	Author      string `json:"author,omitempty"`
	PublishTime string `json:"publishTime,omitempty"`

	// ContentHTML is the cleaned, order-preserving markup of the article
	// body. Blocks is the structured parallel representation of the same
	// content in the same order.
	ContentHTML string         `json:"contentHtml"`
	Blocks      []ContentBlock `json:"blocks"`

	// Images holds ordered, deduplicated content images. Only candidates
	// that resolve to an img-equivalent reference inside ContentHTML
	// (direct, lazy or responsive-source kinds) appear here; background
	// and meta-hint candidates exist only as extraction signals.
	Images []ImageCandidate `json:"images"`

	// WordCount is the length of the plain-text projection of ContentHTML.
	// CJK characters count individually; latin text counts whitespace
	// separated words.
	WordCount int `json:"wordCount"`
}

// Empty reports whether the result carries no extracted content.
func (r *ExtractResult) Empty() bool {
	return len(r.Blocks) == 0 && strings.TrimSpace(r.ContentHTML) == ""
}

// Extractor produces an ExtractResult from a rendered HTML document.
type Extractor interface {
	// Extract processes rendered HTML and returns the extracted article.
	// pageURL is the document's address, used to resolve relative
	// references and for site-specific heuristics. Recoverable input
	// problems yield an empty-but-valid result; an error is returned only
	// when the input cannot be parsed at all.
	Extract(ctx context.Context, html string, pageURL string) (*ExtractResult, error)
}

// Readable is the output of a readability collaborator.
type Readable struct {
	Title       string
	ContentHTML string
	Author      string
}

// Readability is the external boilerplate-removal collaborator. It is
// treated as a black box: a nil result or an error means the caller must
// fall back to its own extraction strategy.
type Readability interface {
	// Parse consumes a full document and returns its best-effort article
	// projection, or nil when no article could be identified.
	Parse(html string, pageURL string) (*Readable, error)
}

// CountWords returns the word count of text using mixed-script counting:
// every CJK rune counts as one word, runs of non-CJK non-space runes count
// as one word each.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r) ||
			unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) ||
			unicode.Is(unicode.Hangul, r):
			count++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}
