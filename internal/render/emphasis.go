package render

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type starDelimiterProcessor struct{}

func (starDelimiterProcessor) IsDelimiter(b byte) bool { return b == '*' }

func (starDelimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (starDelimiterProcessor) OnMatch(consumes int) ast.Node {
	return ast.NewEmphasis(consumes)
}

// cjkEmphasisParser parses "*" runs like the CommonMark emphasis parser, but
// a run next to punctuation may still open or close when an East Asian wide
// character touches it. "**理由：**能源股" bolds 理由： this way.
type cjkEmphasisParser struct{}

func (cjkEmphasisParser) Trigger() []byte {
	return []byte{'*'}
}

func (cjkEmphasisParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 1, starDelimiterProcessor{})
	if node == nil {
		return nil
	}

	after := rune(' ')
	if node.OriginalLength < len(line) {
		after = util.ToRune(line, node.OriginalLength)
	}
	wide := util.IsEastAsianWideRune(before) || util.IsEastAsianWideRune(after)
	if wide && !node.CanClose && !util.IsSpaceRune(before) && util.IsPunctRune(before) {
		node.CanClose = true
	}
	if wide && !node.CanOpen && !util.IsSpaceRune(after) && util.IsPunctRune(after) {
		node.CanOpen = true
	}

	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

type cjkEmphasis struct{}

// CJKEmphasis is a goldmark extension that lets "**" bold CJK text that
// ends or starts with punctuation.
var CJKEmphasis goldmark.Extender = cjkEmphasis{}

func (cjkEmphasis) Extend(m goldmark.Markdown) {
	// Runs before the default emphasis parser (500), which then only sees "_".
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(cjkEmphasisParser{}, 450)))
}
