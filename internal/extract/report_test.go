package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"english", "Buy XOM on the dip.", English},
		{"chinese", "建議買入埃克森美孚", Chinese},
		{"mostly english with a few han", "Buy XOM 買入 now please and hold", English},
		{"mostly han with tickers", "XOM 買入，看好能源板塊", Chinese},
		{"spaces are ignored", "好    a", Chinese},
		{"empty", "", English},
		{"only spaces", "     ", English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
			assert.Equal(t, tt.want, Report{Text: tt.text}.Language())
		})
	}
}

func TestAnalyze_EnglishReport(t *testing.T) {
	r := Report{
		ID:   42,
		Text: "**STOCK PICKS:** **Top 1: XOM - BUY** **OPTIONS PICKS:** **Top 1: XOM CALL at $120 exp 2026-01-31** **FINAL VERDICT:** Strong buy.",
	}

	a := Analyze(r)

	assert.Equal(t, int64(42), a.ReportID)
	assert.Equal(t, English, a.Language)
	assert.Equal(t, []StockPick{{Ticker: "XOM", Action: Buy, Rank: 1, Confidence: "Medium"}}, a.Stocks)
	assert.Equal(t, []OptionPick{{Ticker: "XOM", Type: Call, Strike: "120", Expiry: "2026-01-31", Rank: 1, Confidence: "Medium"}}, a.Options)
	assert.Equal(t, "Strong buy.", a.Sections.FinalVerdict)
}

func TestAnalyze_ChineseReport(t *testing.T) {
	r := Report{
		ID: 7,
		Text: "**股票建議：**\n**Top 1: XOM** - 買入\n**Top 2: LMT** - 持有\n" +
			"**期權建議：**\n**Top 1: XOM 認購** 行使價 $120，2026年1月底到期\n" +
			"**總結：**\n看好能源及國防板塊。\n（以上內容以繁體中文撰寫）",
	}

	a := Analyze(r)

	assert.Equal(t, Chinese, a.Language)
	assert.Equal(t, []StockPick{
		{Ticker: "XOM", Action: Buy, Rank: 1, Confidence: "Medium"},
		{Ticker: "LMT", Action: Hold, Rank: 2, Confidence: "Medium"},
	}, a.Stocks)
	assert.Equal(t, []OptionPick{
		{Ticker: "XOM", Type: Call, Strike: "120", Expiry: "Jan 31, 2026", Rank: 1, Confidence: "Medium"},
	}, a.Options)
	assert.Equal(t, "看好能源及國防板塊。", a.Sections.FinalVerdict)
}

func TestAnalyze_NoSections(t *testing.T) {
	a := Analyze(Report{ID: 1, Text: "Nothing structured here. **Top 1: XOM** - BUY"})

	assert.Equal(t, Sections{NoStockPicks, NoOptionsPicks, NoFinalVerdict}, a.Sections)
	assert.Empty(t, a.Stocks)
	assert.Empty(t, a.Options)
	assert.NotNil(t, a.Stocks)
	assert.NotNil(t, a.Options)
}

func TestAnalyze_PicksReadFromRawSpans(t *testing.T) {
	// The hashtag is cleaned out of the section text but does not stop
	// the pick from being read.
	a := Analyze(Report{Text: "**STOCK PICKS:** **Top 1: XOM** - BUY #energy"})

	assert.Equal(t, "**Top 1: XOM** - BUY", a.Sections.StockPicks)
	require.Len(t, a.Stocks, 1)
	assert.Equal(t, "XOM", a.Stocks[0].Ticker)
}

func TestAnalysis_JSONShape(t *testing.T) {
	a := Analyze(Report{ID: 3, Text: "**STOCK PICKS:** **Top 1: XOM - BUY**"})

	b, err := json.Marshal(a)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, float64(3), doc["report_id"])
	assert.Equal(t, "en", doc["language"])
	assert.Contains(t, doc, "sections")
	assert.Equal(t, []any{}, doc["options"])
	stocks, ok := doc["stocks"].([]any)
	require.True(t, ok)
	require.Len(t, stocks, 1)
	assert.Equal(t, "BUY", stocks[0].(map[string]any)["action"])
}
