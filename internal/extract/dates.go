package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Markers of the localized date phrase "YYYY年M月[底|D日]".
const (
	yearMark     = "年"
	monthMark    = "月"
	dayMark      = "日"
	monthEndMark = "底"
	expiresMark  = "到期"
)

// localDate is a parsed localized date phrase. Day 0 means month only.
type localDate struct {
	year  int
	month time.Month
	day   int
}

func (d localDate) String() string {
	mon := d.month.String()[:3]
	if d.day == 0 {
		return fmt.Sprintf("%s %d", mon, d.year)
	}
	return fmt.Sprintf("%s %d, %d", mon, d.day, d.year)
}

// LocalizeDate converts the first localized date phrase in text into
// month-name notation:
//
//	2026年1月底   -> Jan 31, 2026
//	2026年2月     -> Feb 2026
//	2026年1月5日  -> Jan 5, 2026
//
// Text without a recognizable phrase is returned unchanged. The result is
// not meant to be fed back in.
func LocalizeDate(text string) string {
	s := strings.ReplaceAll(text, expiresMark, "")
	for i := 0; i < len(s); {
		if d, ok := parseLocalDate(s[i:]); ok {
			return d.String()
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return text
}

func parseLocalDate(s string) (localDate, bool) {
	var d localDate

	year, s, ok := number(s, 4, 4)
	if !ok || !strings.HasPrefix(s, yearMark) {
		return d, false
	}
	s = strings.TrimPrefix(s, yearMark)

	month, s, ok := number(s, 1, 2)
	if !ok || month < 1 || month > 12 || !strings.HasPrefix(s, monthMark) {
		return d, false
	}
	s = strings.TrimPrefix(s, monthMark)
	d.year, d.month = year, time.Month(month)

	last := daysIn(d.year, d.month)
	if strings.HasPrefix(s, monthEndMark) {
		d.day = last
		return d, true
	}
	if day, rest, ok := number(s, 1, 2); ok && strings.HasPrefix(rest, dayMark) {
		if day < 1 || day > last {
			return d, false
		}
		d.day = day
	}
	return d, true
}

// number reads a run of min to max ASCII digits. A longer run fails
// rather than being split.
func number(s string, min, max int) (int, string, bool) {
	n := digitsAt(s)
	if n < min || n > max {
		return 0, s, false
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0, s, false
	}
	return v, s[n:], true
}

// daysIn returns the day count of month, leap years included.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
