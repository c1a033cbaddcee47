package webclip

// BlockType identifies the kind of a content block.
type BlockType string

// Content block types.
const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockQuote     BlockType = "quote"
	BlockCode      BlockType = "code"
	BlockImage     BlockType = "image"
	BlockOther     BlockType = "other"
)

// ContentBlock is one top-level unit of the article body. Blocks are
// created once during block parsing from a cleaned fragment and are
// immutable afterward. A node that is empty after cleaning is dropped,
// never emitted as a block.
type ContentBlock struct {
	ID   string    `json:"id"`
	Type BlockType `json:"type"`

	// Level is the heading level (1..6); zero for non-heading blocks.
	Level int `json:"level,omitempty"`

	// HTML is the block's markup; Text is its plain-text projection.
	HTML string `json:"html"`
	Text string `json:"text"`
}
