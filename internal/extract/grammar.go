package extract

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// entry is what a rule captured from one ranked line, before vocabulary
// canonicalization and rejection.
type entry struct {
	rank   int
	ranked bool
	ticker string
	verb   string
	strike string
	expiry string
}

// cursor is the matching state of one rule attempt. It is copied by value
// to backtrack, captures included.
type cursor struct {
	src string
	pos int
	e   entry
}

// matcher advances the cursor on success. On failure it leaves the cursor
// where it found it.
type matcher func(c *cursor) bool

// rule is one named surface form of a ranked entry.
type rule struct {
	name  string
	match matcher
}

// scan applies r to src left to right, reporting non-overlapping matches.
func (r rule) scan(src string, emit func(entry)) {
	for pos := 0; pos < len(src); {
		c := cursor{src: src, pos: pos}
		if r.match(&c) && c.pos > pos {
			emit(c.e)
			pos = c.pos
			continue
		}
		_, size := utf8.DecodeRuneInString(src[pos:])
		pos += size
	}
}

func (c *cursor) rest() string { return c.src[c.pos:] }

func (c *cursor) peek() (rune, int) {
	if c.pos >= len(c.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.rest())
}

// --- combinators ---

func seq(ms ...matcher) matcher {
	return func(c *cursor) bool {
		saved := *c
		for _, m := range ms {
			if !m(c) {
				*c = saved
				return false
			}
		}
		return true
	}
}

func opt(ms ...matcher) matcher {
	inner := seq(ms...)
	return func(c *cursor) bool {
		inner(c)
		return true
	}
}

func either(ms ...matcher) matcher {
	return func(c *cursor) bool {
		for _, m := range ms {
			if m(c) {
				return true
			}
		}
		return false
	}
}

// --- terminals ---

// lit matches s with ASCII case folding.
func lit(s string) matcher {
	return func(c *cursor) bool {
		end := c.pos + len(s)
		if end > len(c.src) || !strings.EqualFold(c.src[c.pos:end], s) {
			return false
		}
		c.pos = end
		return true
	}
}

// word is lit followed by a word boundary.
func word(s string) matcher {
	l := lit(s)
	return func(c *cursor) bool {
		saved := c.pos
		if !l(c) || !boundary(c) {
			c.pos = saved
			return false
		}
		return true
	}
}

func boundary(c *cursor) bool {
	r, size := c.peek()
	return size == 0 || !isASCIIAlnum(r)
}

func isASCIIAlnum(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// spaces matches at least min whitespace runes.
func spaces(min int) matcher {
	return runs(min, unicode.IsSpace)
}

// separator matches one or more colons or whitespace runes.
var separator = runs(1, func(r rune) bool { return r == ':' || unicode.IsSpace(r) })

func runs(min int, ok func(rune) bool) matcher {
	return func(c *cursor) bool {
		p, n := c.pos, 0
		for p < len(c.src) {
			r, size := utf8.DecodeRuneInString(c.src[p:])
			if !ok(r) {
				break
			}
			p += size
			n++
		}
		if n < min {
			return false
		}
		c.pos = p
		return true
	}
}

var dash = oneOf("-–—")

func oneOf(set string) matcher {
	return func(c *cursor) bool {
		r, size := c.peek()
		if size == 0 || !strings.ContainsRune(set, r) {
			return false
		}
		c.pos += size
		return true
	}
}

func lineStart(c *cursor) bool {
	return c.pos == 0 || c.src[c.pos-1] == '\n'
}

func digitsAt(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// rank captures the "Top N" ordinal. Digits that do not fit an int still
// match and leave the entry unranked.
func rank(c *cursor) bool {
	n := digitsAt(c.rest())
	if n == 0 {
		return false
	}
	v, err := strconv.Atoi(c.src[c.pos : c.pos+n])
	c.e.rank, c.e.ranked = v, err == nil
	c.pos += n
	return true
}

// ticker captures 2 to 5 uppercase ASCII letters standing as a whole word.
func ticker(c *cursor) bool {
	s := c.rest()
	n := 0
	for n < len(s) && s[n] >= 'A' && s[n] <= 'Z' {
		n++
	}
	if n < 2 || n > 5 {
		return false
	}
	if n < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[n:]); isASCIIAlnum(r) {
			return false
		}
	}
	c.e.ticker = s[:n]
	c.pos += n
	return true
}

// companyName matches an optional parenthesized name after a ticker.
var companyName = seq(spaces(0), lit("("), runs(1, func(r rune) bool { return r != ')' }), lit(")"))

// verb captures the first vocabulary surface token from words. ASCII
// tokens need a word boundary after them.
func verb(words ...string) matcher {
	ms := make([]matcher, len(words))
	for i, w := range words {
		if isASCII(w) {
			ms[i] = word(w)
		} else {
			ms[i] = lit(w)
		}
	}
	return func(c *cursor) bool {
		for _, m := range ms {
			start := c.pos
			if m(c) {
				c.e.verb = c.src[start:c.pos]
				return true
			}
		}
		return false
	}
}

// strike captures a dollar amount without its currency sign. Thousands
// separators are dropped; a non-zero fractional part leaves the strike
// unknown. A comma only groups when exactly three digits follow it, so
// "$120,2026年" stops at 120.
func strike(c *cursor) bool {
	s := c.rest()
	n := digitsAt(s)
	if n == 0 {
		return false
	}
	for n < len(s) && s[n] == ',' && digitsAt(s[n+1:]) == 3 {
		n += 4
	}
	whole := s[:n]
	fraction := ""
	if n+1 < len(s) && s[n] == '.' && s[n+1] >= '0' && s[n+1] <= '9' {
		f := digitsAt(s[n+1:])
		fraction = s[n+1 : n+1+f]
		n += 1 + f
	}
	c.e.strike = unknownStrike
	if v, err := strconv.Atoi(strings.ReplaceAll(whole, ",", "")); err == nil && v > 0 && strings.Trim(fraction, "0") == "" {
		c.e.strike = strconv.Itoa(v)
	}
	c.pos += n
	return true
}

// bareStrike is a strike written without "$". Digits running into a Han
// rune, "-" or "/" are a date, as in "2026年1月", and do not match.
func bareStrike(c *cursor) bool {
	saved := *c
	if !strike(c) {
		return false
	}
	if r, size := c.peek(); size > 0 && (isHan(r) || r == '-' || r == '/') {
		*c = saved
		return false
	}
	return true
}

// expiryUntilBold captures text up to a closing "**" on the same line.
func expiryUntilBold(c *cursor) bool {
	s := c.rest()
	n := strings.IndexAny(s, "<\n*")
	if n <= 0 || !strings.HasPrefix(s[n:], "**") {
		return false
	}
	c.e.expiry = s[:n]
	c.pos += n + len("**")
	return true
}

// expiryToEOL captures the rest of the line.
func expiryToEOL(c *cursor) bool {
	s := c.rest()
	n := strings.IndexAny(s, "<\n")
	if n < 0 {
		n = len(s)
	}
	if n == 0 {
		return false
	}
	c.e.expiry = s[:n]
	c.pos += n
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
