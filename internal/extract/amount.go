package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Monetary patterns, most specific first: labeled totals (invoices), generic
// amount labels, a dollar amount at end of line, then a number with a
// currency code. Candidates from every pattern compete; the largest
// plausible one is taken as the grand total.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:totals?|grand\s*total|final\s*total)\s*:?\s*\$?(\d{1,4}[,.]?\d{2})`),
	regexp.MustCompile(`(?i)(?:total|amount|subtotal|sum)\s*:?\s*\$?(\d{1,4}[,.]?\d{2})`),
	regexp.MustCompile(`(?m)\$(\d{1,4}[,.]?\d{2})\s*$`),
	regexp.MustCompile(`(?i)(\d{1,4}[,.]?\d{2})\s*(?:USD)`),
}

var (
	accountNumberRe = regexp.MustCompile(`\d{4}\s+\d{4}\s+\d{4}`)
	phoneNumberRe   = regexp.MustCompile(`\d{3}-\d{3}-\d{4}`)
)

// Bounds on what counts as a believable receipt total.
const (
	maxSaneAmount      = 50000 // beyond this it is an ID, not a price
	plausibleAmountMin = 0.01
	plausibleAmountMax = 10000
)

func extractAmount(doc document) *float64 {
	var candidates []float64

	for _, pattern := range amountPatterns {
		for _, match := range pattern.FindAllStringSubmatch(doc.text, -1) {
			candidate := match[1]
			if accountNumberRe.MatchString(candidate) || phoneNumberRe.MatchString(candidate) {
				continue
			}
			amount, ok := parseAmount(candidate)
			if !ok || amount <= 0 || amount > maxSaneAmount {
				continue
			}
			candidates = append(candidates, amount)
		}
	}

	var best *float64
	for _, a := range candidates {
		if a <= plausibleAmountMin || a >= plausibleAmountMax {
			continue
		}
		if best == nil || a > *best {
			v := a
			best = &v
		}
	}
	return best
}

// parseAmount normalizes a raw monetary string. The dollar sign is dropped,
// then commas are resolved: a single trailing ",dd" comma is a decimal
// separator (European style), commas without a dot are thousands separators,
// and commas alongside a dot are thousands separators with the dot kept as
// the decimal point.
func parseAmount(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(s, "$", "")

	commas := strings.Count(cleaned, ",")
	dots := strings.Count(cleaned, ".")
	switch {
	case commas == 1 && dots == 0 && decimalCommaRe.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case commas > 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var decimalCommaRe = regexp.MustCompile(`,\d{2}$`)
