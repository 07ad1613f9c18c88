// Package extract pulls ranked stock and options picks out of advisory
// reports. Everything here is a pure function of its input text: no I/O,
// no shared mutable state, safe for concurrent use.
package extract

import (
	"unicode"
)

// Language is the detected language of a report body.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// hanThreshold is the share of Han runes above which a report counts as Chinese.
const hanThreshold = 0.3

// Report is one advisory text blob tied to a source post.
type Report struct {
	ID   int64
	Text string
}

// Language is derived from the text on every call; it is never stored.
func (r Report) Language() Language {
	return DetectLanguage(r.Text)
}

// DetectLanguage reports Chinese when more than 30% of the non-space runes
// are Han characters.
func DetectLanguage(text string) Language {
	var han, total int
	for _, r := range text {
		if r == ' ' {
			continue
		}
		total++
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	if total > 0 && float64(han)/float64(total) > hanThreshold {
		return Chinese
	}
	return English
}

// Analysis is the bundle handed to the renderer for one report.
type Analysis struct {
	ReportID int64        `json:"report_id"`
	Language Language     `json:"language"`
	Sections Sections     `json:"sections"`
	Stocks   []StockPick  `json:"stocks"`
	Options  []OptionPick `json:"options"`
}

// Analyze runs the whole pipeline over a report. Picks are read from the raw
// section spans; the section texts in the result are normalized.
func Analyze(r Report) Analysis {
	spans := Locate(r.Text)

	a := Analysis{
		ReportID: r.ID,
		Language: r.Language(),
		Sections: spans.Sections(),
		Stocks:   []StockPick{},
		Options:  []OptionPick{},
	}
	if spans.HasStock {
		a.Stocks = StockPicks(spans.Stock)
	}
	if spans.HasOptions {
		a.Options = OptionPicks(spans.Options)
	}
	return a
}

func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func containsHan(s string) bool {
	for _, r := range s {
		if isHan(r) {
			return true
		}
	}
	return false
}
