package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BlockKind distinguishes the shapes of extracted overview content.
type BlockKind string

// Block kinds.
const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
)

// Block is one unit of overview content, preserved in document order so
// the overview document reads like the page did.
type Block struct {
	// Kind selects which fields are meaningful.
	Kind BlockKind

	// Level is the heading level (1-6) for heading blocks.
	Level int

	// Text is the block text for headings and paragraphs.
	Text string

	// Items holds the entries of a list block.
	Items []string
}

// headingLevels maps heading element names to levels.
var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// blockify converts a selected element into overview blocks. Containers
// are walked child by child; elements with no recognized structure
// contribute their text as a single paragraph.
func blockify(sel *goquery.Selection) []Block {
	name := goquery.NodeName(sel)

	if level, ok := headingLevels[name]; ok {
		if text := collapseSpace(sel.Text()); text != "" {
			return []Block{{Kind: BlockHeading, Level: level, Text: text}}
		}
		return nil
	}

	switch name {
	case "ul", "ol":
		var items []string
		sel.Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := collapseSpace(li.Text()); text != "" {
				items = append(items, text)
			}
		})
		if len(items) == 0 {
			return nil
		}
		return []Block{{Kind: BlockList, Items: items}}

	case "p":
		if text := collapseSpace(sel.Text()); text != "" {
			return []Block{{Kind: BlockParagraph, Text: text}}
		}
		return nil
	}

	// Container element: recurse into children when there is structure
	// to preserve, otherwise flatten to a paragraph.
	children := sel.Children()
	if children.Length() == 0 {
		if text := collapseSpace(sel.Text()); text != "" {
			return []Block{{Kind: BlockParagraph, Text: text}}
		}
		return nil
	}

	var blocks []Block
	children.Each(func(_ int, child *goquery.Selection) {
		blocks = append(blocks, blockify(child)...)
	})

	// Text sitting directly in the container (outside any child element)
	// would be lost by recursion alone; fall back to the flat text when
	// the children produced nothing.
	if len(blocks) == 0 {
		if text := collapseSpace(sel.Text()); text != "" {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: text})
		}
	}
	return blocks
}

// JoinText renders blocks to plain text, used for page snapshots and
// search indexing rather than the formatted overview document.
func JoinText(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case BlockHeading, BlockParagraph:
			b.WriteString(block.Text)
			b.WriteString("\n")
		case BlockList:
			for _, item := range block.Items {
				b.WriteString(item)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
