package extract

import "regexp"

// defaultCurrency is the only non-optional fallback in the whole extractor.
const defaultCurrency = "USD"

// Currency evidence patterns in trial order: symbols adjacent to a number,
// codes adjacent to a number, then an explicit label.
var currencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,.]+`),
	regexp.MustCompile(`€[\d,.]+`),
	regexp.MustCompile(`£[\d,.]+`),
	regexp.MustCompile(`¥[\d,.]+`),
	regexp.MustCompile(`₹[\d,.]+`),
	regexp.MustCompile(`(?i)[\d,.]+\s*(?:USD|US\$)`),
	regexp.MustCompile(`(?i)[\d,.]+\s*(?:EUR|€)`),
	regexp.MustCompile(`(?i)[\d,.]+\s*(?:GBP|£)`),
	regexp.MustCompile(`(?i)[\d,.]+\s*(?:JPY|¥)`),
	regexp.MustCompile(`(?i)[\d,.]+\s*(?:CAD|C\$)`),
	regexp.MustCompile(`(?i)[\d,.]+\s*(?:AUD|A\$)`),
	regexp.MustCompile(`(?i)[\d,.]+\s*(?:INR|₹)`),
	regexp.MustCompile(`(?i)(?:currency|paid\s+in|total\s+in):\s*([A-Z]{3})`),
}

// currencyCodes maps a detected symbol or code to its ISO code.
var currencyCodes = map[string]string{
	"$":   "USD",
	"US$": "USD",
	"USD": "USD",
	"€":   "EUR",
	"EUR": "EUR",
	"£":   "GBP",
	"GBP": "GBP",
	"¥":   "JPY",
	"JPY": "JPY",
	"C$":  "CAD",
	"CAD": "CAD",
	"A$":  "AUD",
	"AUD": "AUD",
	"₹":   "INR",
	"INR": "INR",
}

var currencyTokenRe = regexp.MustCompile(`(?i)[$€£¥₹]|[A-Z]{3}`)

// extractCurrency returns the ISO code of the first pattern match whose
// symbol or code resolves through the mapping table, defaulting to USD.
func extractCurrency(doc document) string {
	for _, pattern := range currencyPatterns {
		for _, match := range pattern.FindAllStringSubmatch(doc.text, -1) {
			// The labeled pattern captures the code directly; the rest
			// carry the symbol/code inside the whole match.
			candidate := match[0]
			if len(match) > 1 && match[1] != "" {
				candidate = match[1]
			}
			token := currencyTokenRe.FindString(candidate)
			if token == "" {
				continue
			}
			if code, ok := currencyCodes[upperASCII(token)]; ok {
				return code
			}
		}
	}
	return defaultCurrency
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
