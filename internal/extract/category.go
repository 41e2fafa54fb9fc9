package extract

import "strings"

// extractCategory scores every category by summing substring occurrence
// counts of its keywords over the lowercased text, and returns the strictly
// highest scorer. Ties resolve to the category listed first in the table.
// Substring counting is deliberate: it over-counts keywords embedded in
// longer words ("bar" inside "barber"), and changing that would reshuffle
// winners on real receipts.
func extractCategory(doc document) string {
	lower := strings.ToLower(doc.text)

	best := ""
	bestScore := 0
	for _, category := range tables.Categories {
		score := 0
		for _, keyword := range category.Keywords {
			score += strings.Count(lower, keyword)
		}
		if score > bestScore {
			best = category.Name
			bestScore = score
		}
	}
	return best
}

// extractDescription mirrors the merchant when one was found, falling back
// to the first line of meaningful length.
func extractDescription(doc document, merchant string) string {
	if merchant != "" {
		return merchant
	}
	for _, line := range doc.lines {
		if len(line) > 5 && hasLetterRe.MatchString(line) {
			return line
		}
	}
	return ""
}
