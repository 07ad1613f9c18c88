package extract

import "strings"

// Canonical tokens. Both source languages map onto these.
const (
	Buy  = "BUY"
	Sell = "SELL"
	Hold = "HOLD"
	Call = "CALL"
	Put  = "PUT"
	Pass = "PASS"
)

// vocabulary maps every recognized surface token to its canonical token.
// English keys are matched case-insensitively.
var vocabulary = map[string]string{
	"BUY":  Buy,
	"SELL": Sell,
	"HOLD": Hold,
	"CALL": Call,
	"PUT":  Put,
	"PASS": Pass,
	"買入":   Buy,
	"賣出":   Sell,
	"持有":   Hold,
	"認購":   Call,
	"認沽":   Put,
}

// Surface tokens accepted in the action slot of stock rules and the type
// slot of option rules.
var (
	stockVerbs  = []string{"BUY", "SELL", "HOLD", "PASS", "買入", "賣出", "持有"}
	optionVerbs = []string{"CALL", "PUT", "PASS", "認購", "認沽"}
)

// reservedTickers are ticker-shaped words that are never picks.
var reservedTickers = map[string]bool{
	"BUY":  true,
	"SELL": true,
	"CALL": true,
	"PUT":  true,
	"ETF":  true,
	"PASS": true,
	"TOP":  true,
}

// canonical returns the canonical token for a surface token, or "" when the
// token is not in the vocabulary.
func canonical(surface string) string {
	return vocabulary[strings.ToUpper(strings.TrimSpace(surface))]
}
