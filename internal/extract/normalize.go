package extract

import (
	"regexp"
	"strings"
)

// signature is one known piece of report noise and what replaces it.
// The phrasings are tied to the upstream generator, so new artifacts are
// added here as new entries.
type signature struct {
	name string
	re   *regexp.Regexp
	repl string
}

func sig(name, pattern, repl string) signature {
	return signature{name: name, re: regexp.MustCompile(pattern), repl: repl}
}

var separatorLine = regexp.MustCompile(`(?m)^[-–—]{3,}$`)

// Layout noise left by the evaluator template.
var templateNoise = []signature{
	sig("agent-comparison", `(?is)\*\*AGENT COMPARISON:\*\*.+?(\*\*|\z)`, "${1}"),
	sig("unified-title", `(?i)\*\*FINAL UNIFIED RECOMMENDATIONS:\*\*`, ""),
}

// Meta sentences the generator appends about its own output. The language
// trailers cut from the anchor to the end of the line; the "written in"
// and compliance forms take the whole line; persona references are cut
// from the line start through the persona name.
var metaTrailers = []signature{
	sig("cantonese-above", `(?m)[（(]?以上.*?粵語.*?[）)]?\.?$`, ""),
	sig("cantonese-fulltext", `(?m)[（(]?全文.*?粵語.*?[）)]?\.?$`, ""),
	sig("cantonese-written", `(?m)[（(]?.*?以.*?粵語.*?撰寫.*?[）)]?\.?$`, ""),
	sig("traditional-above", `(?m)[（(]?以上.*?繁體中文.*?[）)]?\.?$`, ""),
	sig("traditional-fulltext", `(?m)[（(]?全文.*?繁體中文.*?[）)]?\.?$`, ""),
	sig("traditional-written", `(?m)[（(]?.*?以.*?繁體中文.*?撰寫.*?[）)]?\.?$`, ""),
	sig("meets-requirements", `(?m)[（(]?.*?符合要求.*?[）)]?\.?$`, ""),
	sig("meets-language-requirements", `(?m)[（(]?.*?符合語言要求.*?[）)]?\.?$`, ""),
	sig("persona-zh", `[（(]?.*?中環人[）)]?\.?`, ""),
	sig("persona-en", `(?i)[（(]?.*?Central Hong Kong[）)]?\.?`, ""),
}

var markers = []signature{
	sig("heading-marker", `(?m)^[ \t]*#{1,6}[ \t]+`, ""),
	sig("hashtag", `#[\p{L}\p{N}_]+`, ""),
	sig("stray-hash", `#`, ""),
}

// The "PASS, nothing beyond the core sectors" sentence from one recurring
// report artifact. Other PASS rationale is kept.
var passBoilerplate = []signature{
	sig("pass-core-sectors-en",
		`(?is)PASS\s*[-–—]?\s*No\s+strong\s+additional\s+stock\s+or\s+option\s+opportunities\s+identified\s+beyond\s+core\s+energy[^。]*直接市場影響[^。]*政治醜聞消息[^。]*。?`, ""),
	sig("pass-core-sectors-zh",
		`(?is)PASS\s*[-–—]?\s*無其他強烈.*?直接市場影響.*?政治醜聞消息[^。]*。?`, ""),
	sig("pass-core-sectors-mixed",
		`(?is)PASS\s*[-–—]?\s*No\s+strong\s+additional.*?直接市場影響.*?政治醜聞消息[^。]*。?`, ""),
}

// Normalize strips separators, template noise, meta trailers, hashtags and
// the PASS boilerplate from a section. Cleaning repeats until nothing
// changes, so Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	for {
		next := normalizeOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func normalizeOnce(text string) string {
	text = separatorLine.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	for _, group := range [][]signature{templateNoise, metaTrailers, markers, passBoilerplate} {
		for _, s := range group {
			text = s.re.ReplaceAllString(text, s.repl)
		}
	}
	return strings.TrimSpace(text)
}
