package render

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindBadge is the NodeKind of Badge.
var KindBadge = ast.NewNodeKind("Badge")

// Badge is an inline label such as an action, a strike or an expiry.
type Badge struct {
	ast.BaseInline
	Class string
	Label string
}

func (n *Badge) Kind() ast.NodeKind { return KindBadge }

func (n *Badge) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Class": n.Class, "Label": n.Label}, nil)
}

const datePattern = `[0-9]{4}-[0-9]{2}-[0-9]{2}` +
	`|[A-Za-z]+\s+[0-9]{1,2},?\s+[0-9]{4}` +
	`|[A-Za-z]+-?[A-Za-z]*\s+[0-9]{4}` +
	`|[0-9]{4}/[0-9]{2}/[0-9]{2}` +
	`|[0-9]{1,2}/[0-9]{1,2}/[0-9]{4}`

var (
	badgePattern = regexp.MustCompile(`(?i)` +
		`(\s*[-–]\s*\b(?:BUY|SELL|HOLD)\b)` +
		`|(\b(?:CALL|PUT)\b)` +
		`|((?:\bat\s+)?\$[0-9][0-9,]*)` +
		`|(\bexp\s+(?:` + datePattern + `))`)

	expFollows = regexp.MustCompile(`(?i)^\s+exp\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

const (
	groupAction = 1 + iota
	groupOption
	groupStrike
	groupExpiry
)

// badgeSpan is a byte range of a text segment replaced by a badge.
type badgeSpan struct {
	start, end int
	lead       string // text emitted before the badge
	class      string
	label      string
}

// findBadges locates the badge-worthy ranges in s. A dollar amount is a
// strike only right after CALL/PUT or right before "exp".
func findBadges(s string) []badgeSpan {
	var (
		spans      []badgeSpan
		lastOption = -1 // end of the previous CALL/PUT badge
	)
	for _, m := range badgePattern.FindAllStringSubmatchIndex(s, -1) {
		switch {
		case m[2*groupAction] >= 0:
			word := strings.ToUpper(strings.TrimLeft(s[m[0]:m[1]], " \t-–"))
			spans = append(spans, badgeSpan{
				start: m[0], end: m[1], lead: " ",
				class: "action-badge action-" + strings.ToLower(word),
				label: word,
			})
		case m[2*groupOption] >= 0:
			word := strings.ToUpper(s[m[0]:m[1]])
			spans = append(spans, badgeSpan{
				start: m[0], end: m[1],
				class: "action-badge action-" + strings.ToLower(word),
				label: word,
			})
			lastOption = m[1]
		case m[2*groupStrike] >= 0:
			afterOption := lastOption >= 0 && strings.TrimSpace(s[lastOption:m[0]]) == ""
			if !afterOption && !expFollows.MatchString(s[m[1]:]) {
				continue
			}
			match := s[m[0]:m[1]]
			spans = append(spans, badgeSpan{
				start: m[0], end: m[1],
				class: "strike-badge",
				label: match[strings.IndexByte(match, '$'):],
			})
		case m[2*groupExpiry] >= 0:
			fields := whitespace.Split(s[m[0]:m[1]], 2)
			spans = append(spans, badgeSpan{
				start: m[0], end: m[1],
				class: "expiry-badge",
				label: "exp " + fields[1],
			})
		}
	}
	return spans
}

// badgeTransformer replaces badge-worthy text inside paragraphs, headings
// and list items with Badge nodes. Code and links are left alone.
type badgeTransformer struct{}

func (badgeTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan, ast.KindCodeBlock, ast.KindFencedCodeBlock,
			ast.KindLink, ast.KindAutoLink, ast.KindRawHTML, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		if n.HasChildren() {
			mergeTexts(n)
		}
		if t, ok := n.(*ast.Text); ok {
			texts = append(texts, t)
		}
		return ast.WalkContinue, nil
	})

	for _, t := range texts {
		splitBadges(t, source)
	}
}

// mergeTexts joins adjacent text siblings that cover contiguous source, so
// a badge pattern is never cut in half by an inline parser that declined.
func mergeTexts(parent ast.Node) {
	for c := parent.FirstChild(); c != nil; {
		t, ok := c.(*ast.Text)
		next := c.NextSibling()
		if !ok || next == nil {
			c = next
			continue
		}
		n, ok := next.(*ast.Text)
		if !ok || t.SoftLineBreak() || t.HardLineBreak() || t.IsRaw() || n.IsRaw() ||
			t.Segment.Stop != n.Segment.Start || t.Segment.Padding != 0 || n.Segment.Padding != 0 {
			c = next
			continue
		}
		t.Segment = t.Segment.WithStop(n.Segment.Stop)
		t.SetSoftLineBreak(n.SoftLineBreak())
		t.SetHardLineBreak(n.HardLineBreak())
		parent.RemoveChild(parent, n)
	}
}

func splitBadges(t *ast.Text, source []byte) {
	if t.IsRaw() || t.Segment.Padding != 0 {
		return
	}
	seg := t.Segment
	spans := findBadges(string(seg.Value(source)))
	if len(spans) == 0 {
		return
	}

	parent := t.Parent()
	pos := 0
	for _, sp := range spans {
		if sp.start > pos {
			parent.InsertBefore(parent, t, ast.NewTextSegment(text.NewSegment(seg.Start+pos, seg.Start+sp.start)))
		}
		if sp.lead != "" {
			parent.InsertBefore(parent, t, ast.NewString([]byte(sp.lead)))
		}
		parent.InsertBefore(parent, t, &Badge{Class: sp.class, Label: sp.label})
		pos = sp.end
	}
	// t keeps the remainder and its line break flags.
	t.Segment = text.NewSegment(seg.Start+pos, seg.Stop)
}

type badgeRenderer struct{}

func (badgeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindBadge, renderBadge)
}

func renderBadge(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Badge)
	_, _ = w.WriteString(`<span class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Class)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Label)))
	_, _ = w.WriteString(`</span>`)
	return ast.WalkSkipChildren, nil
}

type badges struct{}

// Badges is a goldmark extension that renders trading vocabulary as badges.
var Badges goldmark.Extender = badges{}

func (badges) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(badgeTransformer{}, 500)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(badgeRenderer{}, 500)))
}
