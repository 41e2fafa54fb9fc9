package extract

import (
	"regexp"
	"time"
)

// Date-shaped patterns in trial order: numeric day/month/year families,
// ISO-ish year-first, then month-name forms in either order.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2})`),
	regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{1,2},?\s+\d{2,4})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{2,4})`),
}

// Calendar layouts tried per match. US month-first forms come before
// day-first forms, matching how ambiguous receipts are resolved.
// The unpadded layouts accept both "1/2/2024" and "01/02/2024".
var dateLayouts = []string{
	"1/2/2006", "1-2-2006", "1.2.2006",
	"2/1/2006", "2-1-2006", "2.1.2006",
	"2006/1/2", "2006-1-2", "2006.1.2",
	"January 2, 2006", "Jan 2, 2006",
	"2 January 2006", "2 Jan 2006",
}

// maxDateAge bounds how far back a parsed date may lie.
const maxDateAgeYears = 5

// extractDate returns the first pattern match that parses to a date not in
// the future and at most five years old, formatted as ISO 8601. Remaining
// patterns are not consulted once one candidate is accepted.
func extractDate(doc document, now time.Time) string {
	oldest := now.AddDate(-maxDateAgeYears, 0, 0)
	for _, pattern := range datePatterns {
		for _, match := range pattern.FindAllStringSubmatch(doc.text, -1) {
			if d, ok := parseDate(match[1], now, oldest); ok {
				return d.Format("2006-01-02")
			}
		}
	}
	return ""
}

func parseDate(s string, now, oldest time.Time) (time.Time, bool) {
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if parsed.After(now) || parsed.Before(oldest) {
			continue
		}
		return parsed, true
	}
	return time.Time{}, false
}
