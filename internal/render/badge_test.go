package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/pickboard/internal/common"
	"github.com/sujalbistaa/pickboard/internal/config"
)

func newTestRenderer(t *testing.T, cfg config.PageConfig) *Renderer {
	t.Helper()
	r, err := New(cfg, common.NewSilentLogger())
	require.NoError(t, err)
	return r
}

func TestFindBadges(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		labels []string
	}{
		{"action after dash", "XOM - BUY", []string{"BUY"}},
		{"action after en dash", "XOM – sell", []string{"SELL"}},
		{"bare action word is text", "we BUY here", nil},
		{"option type", "XOM CALL", []string{"CALL"}},
		{"strike after option", "XOM PUT $95", []string{"PUT", "$95"}},
		{"strike with at", "XOM CALL at $120", []string{"CALL", "$120"}},
		{"strike before exp", "$1,200 exp Jan 2026", []string{"$1,200", "exp Jan 2026"}},
		{"lonely dollar amount", "trading near $95 today", nil},
		{"iso expiry", "exp 2026-01-31", []string{"exp 2026-01-31"}},
		{"full option line", "XOM CALL $120 exp 2026-01-31", []string{"CALL", "$120", "exp 2026-01-31"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var labels []string
			for _, sp := range findBadges(tt.text) {
				labels = append(labels, sp.label)
			}
			assert.Equal(t, tt.labels, labels)
		})
	}
}

func TestMarkdown_Badges(t *testing.T) {
	r := newTestRenderer(t, config.NewDefaultConfig().Page)

	out := string(r.Markdown("**Top 1: XOM - BUY**\n\n**XOM** CALL $120 exp 2026-01-31"))

	assert.Contains(t, out, `<strong>Top 1: XOM <span class="action-badge action-buy">BUY</span></strong>`)
	assert.Contains(t, out, `<span class="action-badge action-call">CALL</span> <span class="strike-badge">$120</span> <span class="expiry-badge">exp 2026-01-31</span>`)
}

func TestMarkdown_CodeIsNotBadged(t *testing.T) {
	r := newTestRenderer(t, config.NewDefaultConfig().Page)

	out := string(r.Markdown("use `XOM CALL` literally"))

	assert.Contains(t, out, "<code>XOM CALL</code>")
	assert.NotContains(t, out, "action-call")
}

func TestMarkdown_Escaping(t *testing.T) {
	r := newTestRenderer(t, config.NewDefaultConfig().Page)

	out := string(r.Markdown("<script>alert(1)</script>\n\na < b & c"))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "a &lt; b &amp; c")
}

func TestMarkdown_Lists(t *testing.T) {
	r := newTestRenderer(t, config.NewDefaultConfig().Page)

	out := string(r.Markdown("- one\n- two"))

	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<li>one</li>")
	assert.Empty(t, r.Markdown(""))
}

func TestMarkdown_CJKBold(t *testing.T) {
	r := newTestRenderer(t, config.NewDefaultConfig().Page)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"fullwidth colon before text", "**風險提示：**油價波動", "<strong>風險提示：</strong>油價波動"},
		{"label then reason", "**理由：**能源股受惠", "<strong>理由：</strong>能源股受惠"},
		{"bracketed ticker inside text", "看好**「XOM」**走勢", "看好<strong>「XOM」</strong>走勢"},
		{"ascii unchanged", "**Top 1: XOM** - BUY", "<strong>Top 1: XOM</strong> <span class=\"action-badge action-buy\">BUY</span>"},
		{"single star", "*注意：*留意風險", "<em>注意：</em>留意風險"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(r.Markdown(tt.src))
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "*")
		})
	}
}
