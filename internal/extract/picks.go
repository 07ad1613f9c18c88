package extract

import (
	"sort"
	"strings"

	"golang.org/x/text/width"
)

const (
	// MaxPicks is how many picks survive per section.
	MaxPicks = 3

	// DefaultConfidence is a placeholder; confidence is not computed.
	DefaultConfidence = "Medium"

	unknownStrike = "?"
)

// StockPick is one ranked stock recommendation.
type StockPick struct {
	Ticker     string `json:"ticker"`
	Action     string `json:"action"`
	Rank       int    `json:"rank"`
	Confidence string `json:"confidence"`
}

// OptionPick is one ranked options recommendation. Strike is digits or "?".
type OptionPick struct {
	Ticker     string `json:"ticker"`
	Type       string `json:"type"`
	Strike     string `json:"strike"`
	Expiry     string `json:"expiry"`
	Rank       int    `json:"rank"`
	Confidence string `json:"confidence"`
}

var topHeader = seq(lit("**"), lit("Top"), spaces(0), rank, separator)

var numberedHeader = seq(lineStart, rank, lit("."), spaces(0), lit("**"))

// stockRules in priority order.
var stockRules = []rule{
	{
		// **Top 1: XOM (Exxon)** - BUY
		name:  "top-bold-dash",
		match: seq(topHeader, ticker, opt(companyName), lit("**"), spaces(0), dash, spaces(0), verb(stockVerbs...)),
	},
	{
		// **Top 1: XOM** BUY
		name:  "top-bold-nodash",
		match: seq(topHeader, ticker, opt(companyName), lit("**"), spaces(0), opt(dash), spaces(0), verb(stockVerbs...)),
	},
	{
		// **Top 1: XOM - BUY**
		name:  "top-inline-bold",
		match: seq(topHeader, ticker, spaces(0), dash, spaces(0), verb(stockVerbs...), lit("**")),
	},
	{
		// 1. **XOM (Exxon)** - BUY
		name:  "numbered-bold",
		match: seq(numberedHeader, ticker, opt(companyName), lit("**"), spaces(0), dash, spaces(0), verb(stockVerbs...)),
	},
}

var (
	// "exp" may run straight into the date, as in "exp2026-01-31".
	expKeyword = either(word("expiry"), word("expires"), lit("exp"))

	strikeAt = seq(word("at"), spaces(0), lit("$"), strike)
	expTail  = seq(spaces(0), expKeyword, spaces(0), expiryToEOL)
)

// optionRules in priority order.
var optionRules = []rule{
	{
		// **Top 1: XOM CALL at $120 exp 2026-01-31**
		name: "top-inline-full",
		match: seq(topHeader, ticker, spaces(1), verb(optionVerbs...), spaces(1),
			word("at"), spaces(0), lit("$"), strike, spaces(0), expKeyword, spaces(0), expiryUntilBold),
	},
	{
		// **Top 1: XOM CALL** at $120 exp 2026-01-31
		name:  "top-bold-strike",
		match: seq(topHeader, ticker, spaces(1), verb(optionVerbs...), lit("**"), spaces(0), strikeAt, opt(expTail)),
	},
	{
		// 1. **XOM CALL** at $120 exp 2026-01-31
		name:  "numbered-bold",
		match: seq(numberedHeader, ticker, spaces(1), verb(optionVerbs...), lit("**"), spaces(0), opt(strikeAt, opt(expTail))),
	},
	{
		// **Top 1: XOM 認購** 行使價 $120，2026年1月底到期
		// **Top 1: XOM 認購** 120 2026年1月底到期
		name: "top-bold-localized",
		match: seq(topHeader, ticker, spaces(1), verb(optionVerbs...), lit("**"), spaces(0),
			opt(lit(","), spaces(0)),
			opt(either(
				seq(opt(word("at"), spaces(0)), either(seq(lit("行使價"), spaces(0), opt(lit("$"))), lit("$")), spaces(0), strike),
				bareStrike)),
			opt(spaces(0), lit(","), spaces(0)),
			opt(spaces(0), expKeyword),
			opt(spaces(0), expiryToEOL)),
	},
}

// StockPicks extracts up to three ranked stock picks from a section.
func StockPicks(section string) []StockPick {
	src := width.Fold.String(section)
	picks := []ranked[StockPick]{}
	seen := map[string]bool{}
	for _, r := range stockRules {
		r.scan(src, func(e entry) {
			action := canonical(e.verb)
			if reservedTickers[e.ticker] || action == Pass || action == "" || seen[e.ticker] {
				return
			}
			seen[e.ticker] = true
			picks = append(picks, rankedPick(e, StockPick{
				Ticker:     e.ticker,
				Action:     action,
				Rank:       rankOf(e),
				Confidence: DefaultConfidence,
			}))
		})
	}
	return byRank(picks)
}

// OptionPicks extracts up to three ranked option picks from a section.
func OptionPicks(section string) []OptionPick {
	src := width.Fold.String(section)
	picks := []ranked[OptionPick]{}
	seen := map[string]bool{}
	for _, r := range optionRules {
		r.scan(src, func(e entry) {
			typ := canonical(e.verb)
			key := e.ticker + "/" + typ
			if reservedTickers[e.ticker] || typ == Pass || typ == "" || seen[key] {
				return
			}
			seen[key] = true
			strike := e.strike
			if strike == "" {
				strike = unknownStrike
			}
			picks = append(picks, rankedPick(e, OptionPick{
				Ticker:     e.ticker,
				Type:       typ,
				Strike:     strike,
				Expiry:     cleanExpiry(e.expiry),
				Rank:       rankOf(e),
				Confidence: DefaultConfidence,
			}))
		})
	}
	return byRank(picks)
}

// ranked carries whether the pick's "Top N" parsed, since Rank 0 is also
// a literal "Top 0".
type ranked[T any] struct {
	pick T
	rank int
	ok   bool
}

func rankedPick[T any](e entry, pick T) ranked[T] {
	return ranked[T]{pick: pick, rank: e.rank, ok: e.ranked}
}

// byRank orders picks by ascending rank, unranked last, and keeps the
// first MaxPicks.
func byRank[T any](rs []ranked[T]) []T {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].ok != rs[j].ok {
			return rs[i].ok
		}
		return rs[i].rank < rs[j].rank
	})
	if len(rs) > MaxPicks {
		rs = rs[:MaxPicks]
	}
	picks := make([]T, len(rs))
	for i, r := range rs {
		picks[i] = r.pick
	}
	return picks
}

// rankOf returns 0 for entries whose rank did not parse.
func rankOf(e entry) int {
	if !e.ranked {
		return 0
	}
	return e.rank
}

// expiryFiller are the runes of the words around an expiry phrase
// (期權, 行使價, 到期) that carry no date information.
const expiryFiller = "期權行使價到"

// cleanExpiry drops filler words, converts a localized date phrase and
// strips whatever Han runes are left. Other text is kept as written, and so
// is a localized phrase that names no valid date.
func cleanExpiry(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimRight(s, "* \t"))
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(expiryFiller, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if containsHan(s) {
		localized := LocalizeDate(s)
		if localized == s && strings.ContainsAny(s, "0123456789") {
			// Not a valid date, e.g. 2026年2月30日. Keep it readable.
			return s
		}
		s = strings.Map(func(r rune) rune {
			if isHan(r) {
				return -1
			}
			return r
		}, localized)
	}
	return strings.TrimSpace(s)
}
