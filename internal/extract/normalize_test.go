package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const passBoilerplateSentence = "PASS - No strong additional stock or option opportunities identified beyond core energy, " +
	"security, and defense sectors due to limited直接市場影響 from政治醜聞消息。"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "separator lines",
			in:   "Buy XOM.\n---\nHold CVX.\n———",
			want: "Buy XOM.\n\nHold CVX.",
		},
		{
			name: "agent comparison block",
			in:   "**AGENT COMPARISON:** Grok was bullish, DeepSeek cautious.\n**Top 1: XOM** - BUY",
			want: "**Top 1: XOM** - BUY",
		},
		{
			name: "unified recommendations title",
			in:   "**FINAL UNIFIED RECOMMENDATIONS:**\nBuy energy.",
			want: "Buy energy.",
		},
		{
			name: "traditional chinese trailer",
			in:   "看好能源板塊。\n（以上內容以繁體中文撰寫）",
			want: "看好能源板塊。",
		},
		{
			name: "cantonese trailer keeps text before anchor",
			in:   "睇好能源股。以上分析用粵語",
			want: "睇好能源股。",
		},
		{
			name: "compliance line",
			in:   "Buy XOM.\n此回覆符合語言要求。",
			want: "Buy XOM.",
		},
		{
			name: "persona prefix",
			in:   "作為中環人，我建議買入。",
			want: "，我建議買入。",
		},
		{
			name: "english persona",
			in:   "Speaking as a Central Hong Kong banker: buy.",
			want: "banker: buy.",
		},
		{
			name: "hashtags",
			in:   "Energy rally #OilBoom #能源",
			want: "Energy rally",
		},
		{
			name: "heading markers",
			in:   "### Summary\nBuy XOM. C# devs rejoice",
			want: "Summary\nBuy XOM. C devs rejoice",
		},
		{
			name: "pass boilerplate",
			in:   "Top pick XOM.\n" + passBoilerplateSentence + "\nEnd.",
			want: "Top pick XOM.\n\nEnd.",
		},
		{
			name: "ordinary pass rationale kept",
			in:   "PASS - valuations are stretched.",
			want: "PASS - valuations are stretched.",
		},
		{
			name: "clean text unchanged",
			in:   "**Top 1: XOM** - BUY",
			want: "**Top 1: XOM** - BUY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"### Summary\n#tag text",
		"---#tag\nBuy.",
		"##Title",
		"**AGENT COMPARISON:** a **AGENT COMPARISON:** b **c**",
		"（以上內容以粵語撰寫）\n---\n#AI",
		"line one\n\n\n— — —\nline two #",
		passBoilerplateSentence + passBoilerplateSentence,
		"**STOCK PICKS:** **Top 1: XOM - BUY** **OPTIONS PICKS:** **Top 1: XOM CALL at $120 exp 2026-01-31**",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
