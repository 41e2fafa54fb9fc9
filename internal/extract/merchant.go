package extract

import (
	"regexp"
	"strings"
)

// Merchant candidate constraints for the first-lines heuristic.
const (
	merchantScanLines  = 6
	merchantMinNameLen = 4
	merchantMaxNameLen = 49
)

var (
	dateLineRe    = regexp.MustCompile(`\d+[/\-.]\d+[/\-.]\d+`)
	priceLineRe   = regexp.MustCompile(`\d+[.,]\d{2}`)
	headerWordRe  = regexp.MustCompile(`(?i)^(?:invoice|bill|receipt)`)
	pureNumberRe  = regexp.MustCompile(`^\d+$`)
	hasLetterRe   = regexp.MustCompile(`[a-zA-Z]`)
	billToLineRe  = regexp.MustCompile(`(?i)bill\s+to\s*:?`)
	alphaSpacesRe = regexp.MustCompile(`^[A-Za-z\s]+$`)
	artifactRunRe = regexp.MustCompile(`[#*]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// extractMerchant finds the business name. A name following a "bill to:"
// marker wins outright (invoices list the payer there, a stronger signal
// than line position); otherwise the first few lines are screened for
// business-looking candidates, preferring ones containing a known merchant
// keyword.
func extractMerchant(doc document) string {
	var candidates []string
	limit := min(merchantScanLines, len(doc.lines))
	for _, line := range doc.lines[:limit] {
		if len(line) >= merchantMinNameLen && len(line) <= merchantMaxNameLen &&
			hasLetterRe.MatchString(line) &&
			!dateLineRe.MatchString(line) &&
			!priceLineRe.MatchString(line) &&
			!headerWordRe.MatchString(line) &&
			!pureNumberRe.MatchString(line) {
			candidates = append(candidates, line)
		}
	}

	if name := billToName(doc.lines); name != "" {
		return cleanMerchantName(name)
	}

	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		for _, keyword := range tables.MerchantKeywords {
			if strings.Contains(lower, keyword) {
				return cleanMerchantName(candidate)
			}
		}
	}

	if len(candidates) > 0 {
		return cleanMerchantName(candidates[0])
	}
	return ""
}

// billToName returns the payer name listed after a "bill to:" line: up to
// three following lines of plausible-length alphabetic text.
func billToName(lines []string) string {
	idx := -1
	for i, line := range lines {
		if billToLineRe.MatchString(line) {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(lines)-1 {
		return ""
	}

	var names []string
	for _, line := range lines[idx+1 : min(idx+4, len(lines))] {
		if alphaSpacesRe.MatchString(line) && len(line) > 2 && len(line) < 50 {
			names = append(names, line)
		}
	}
	return strings.Join(names, " ")
}

// cleanMerchantName strips receipt artifacts (#/* runs), collapses
// whitespace, and title-cases each word.
func cleanMerchantName(name string) string {
	cleaned := artifactRunRe.ReplaceAllString(name, "")
	cleaned = whitespaceRe.ReplaceAllString(strings.TrimSpace(cleaned), " ")

	words := strings.Split(cleaned, " ")
	for i, w := range words {
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " ")
}

func capitalizeWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
