package extract

import (
	"strings"
)

// Sentinels substituted for sections that are missing or empty after cleaning.
const (
	NoStockPicks   = "No stock recommendations available."
	NoOptionsPicks = "No options recommendations available."
	NoFinalVerdict = "No final verdict available."
)

// Sections holds the three cleaned section texts of a report. A field is
// never empty: absent sections carry their sentinel.
type Sections struct {
	StockPicks   string `json:"stock_picks"`
	OptionsPicks string `json:"options_picks"`
	FinalVerdict string `json:"final_verdict"`
}

// headerRule recognizes one section header: "**" keyword, any text up to
// the first colon, the colon, "**". The section body runs from there to the
// earliest stop marker or the end of the text.
type headerRule struct {
	name      string
	keyword   string
	fullwidth bool // accept '：' as the colon
	stops     []string
}

// Header rules per section, English first. The first rule that matches wins.
var (
	stockHeaders = []headerRule{
		{name: "stock-en", keyword: "STOCK PICKS", stops: []string{"**OPTIONS PICKS", "**期權建議"}},
		{name: "stock-zh", keyword: "股票建議", fullwidth: true, stops: []string{"**OPTIONS", "**期權"}},
	}
	optionsHeaders = []headerRule{
		{name: "options-en", keyword: "OPTIONS PICKS", stops: []string{"**FINAL VERDICT", "**總結", "---"}},
		{name: "options-zh", keyword: "期權建議", fullwidth: true, stops: []string{"**FINAL", "**總結", "---"}},
	}
	verdictHeaders = []headerRule{
		{name: "verdict-en", keyword: "FINAL VERDICT"},
		{name: "verdict-zh", keyword: "總結", fullwidth: true},
	}
)

// Spans are the raw, uncleaned section bodies located in a report.
type Spans struct {
	Stock, Options, Verdict          string
	HasStock, HasOptions, HasVerdict bool
}

// Locate finds the raw section bodies without cleaning them.
func Locate(text string) Spans {
	var s Spans
	s.Stock, s.HasStock = findSection(text, stockHeaders)
	s.Options, s.HasOptions = findSection(text, optionsHeaders)
	s.Verdict, s.HasVerdict = findSection(text, verdictHeaders)
	return s
}

// Sections normalizes the spans and fills in sentinels.
func (s Spans) Sections() Sections {
	return Sections{
		StockPicks:   orSentinel(Normalize(s.Stock), NoStockPicks),
		OptionsPicks: orSentinel(Normalize(s.Options), NoOptionsPicks),
		FinalVerdict: orSentinel(Normalize(s.Verdict), NoFinalVerdict),
	}
}

// Split locates the three sections of a report and cleans them. A report
// with none of the headers yields the three sentinels; callers treat that
// as "nothing usable", not as an error.
func Split(text string) Sections {
	return Locate(text).Sections()
}

func orSentinel(s, sentinel string) string {
	if s == "" {
		return sentinel
	}
	return s
}

func findSection(text string, rules []headerRule) (string, bool) {
	for _, r := range rules {
		if body, ok := r.find(text); ok {
			return strings.TrimSpace(body), true
		}
	}
	return "", false
}

func (r headerRule) find(text string) (string, bool) {
	open := "**" + r.keyword
	for from := 0; from < len(text); {
		i := indexFold(text[from:], open)
		if i < 0 {
			return "", false
		}
		start := from + i
		if body, ok := r.bodyAt(text, start+len(open)); ok {
			return body, true
		}
		from = start + len("**")
	}
	return "", false
}

// bodyAt matches the rest of the header starting right after the keyword
// and returns the section body.
func (r headerRule) bodyAt(text string, p int) (string, bool) {
	colon, size := r.colon(text[p:])
	if colon < 0 {
		return "", false
	}
	body := p + colon + size
	if !strings.HasPrefix(text[body:], "**") {
		return "", false
	}
	body += len("**")
	if body >= len(text) {
		return "", false
	}
	// The body holds at least one character before a stop can apply.
	end := len(text)
	for _, stop := range r.stops {
		if i := indexFold(text[body+1:], stop); i >= 0 && body+1+i < end {
			end = body + 1 + i
		}
	}
	return text[body:end], true
}

// colon returns the offset and byte size of the first colon in s.
func (r headerRule) colon(s string) (int, int) {
	for i, c := range s {
		switch {
		case c == ':':
			return i, 1
		case r.fullwidth && c == '：':
			return i, len("：")
		}
	}
	return -1, 0
}

// indexFold is strings.Index with ASCII case folding.
func indexFold(s, sub string) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], sub) {
			return i
		}
	}
	return -1
}
