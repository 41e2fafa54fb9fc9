package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Structured notes: six independently optional substructures serialized
// into one text block under fixed bold headers. Empty substructures
// contribute no section.

// field is an ordered label/value pair; map iteration order would scramble
// the rendered notes between runs.
type field struct {
	Label string
	Value string
}

// LineItem is one parsed item row. Quantity is optional.
type LineItem struct {
	Description string
	Quantity    string
	Price       string
}

func extractNotes(doc document) string {
	var sections []string

	if s := renderFields("**VENDOR INFORMATION**", extractVendorInfo(doc)); s != "" {
		sections = append(sections, s)
	}
	if s := renderFields("**CUSTOMER INFORMATION**", extractCustomerInfo(doc)); s != "" {
		sections = append(sections, s)
	}
	if s := renderLineItems(extractLineItems(doc)); s != "" {
		sections = append(sections, s)
	}
	if s := renderFields("**TOTALS BREAKDOWN**", extractTotalsBreakdown(doc)); s != "" {
		sections = append(sections, s)
	}
	if s := renderFields("**PAYMENT INFORMATION**", extractPaymentInfo(doc)); s != "" {
		sections = append(sections, s)
	}
	if s := renderFields("**RECEIPT DETAILS**", extractReceiptDetails(doc)); s != "" {
		sections = append(sections, s)
	}

	return strings.Join(sections, "\n\n")
}

func renderFields(header string, fields []field) string {
	if len(fields) == 0 {
		return ""
	}
	lines := []string{header}
	for _, f := range fields {
		lines = append(lines, f.Label+": "+f.Value)
	}
	return strings.Join(lines, "\n")
}

func renderLineItems(items []LineItem) string {
	if len(items) == 0 {
		return ""
	}
	lines := []string{"**ITEMS/SERVICES**"}
	for i, item := range items {
		line := fmt.Sprintf("%d. %s", i+1, item.Description)
		if item.Quantity != "" {
			line += fmt.Sprintf(" (Qty: %s)", item.Quantity)
		}
		line += " - " + item.Price
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Vendor info

const maxBusinessNameLen = 100

var (
	businessNameRe = regexp.MustCompile(`(?i)(?:company|business|corp|inc|llc)[^\n]*`)
	addressRes     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+\s+[A-Za-z\s]+(?:street|st|avenue|ave|road|rd|lane|ln|blvd|boulevard)\s*,?\s*[A-Za-z\s]*\d{5}`),
		regexp.MustCompile(`(?i)[A-Za-z\s]+,\s*[A-Z]{2}\s+\d{5}`),
	}
	vendorPhoneRe = regexp.MustCompile(`(?i)(?:phone|tel|call)[:\s]*(\(?[\d\s\-().]{10,})`)
	emailRe       = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	websiteRe     = regexp.MustCompile(`(?i)(www\.[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}|[a-zA-Z0-9.\-]+\.com)`)
)

func extractVendorInfo(doc document) []field {
	var fields []field

	businessName := ""
	for _, match := range businessNameRe.FindAllString(doc.text, -1) {
		if m := strings.TrimSpace(match); len(m) < maxBusinessNameLen {
			businessName = m
		}
	}
	if businessName != "" {
		fields = append(fields, field{"Business Name", businessName})
	}

	for _, re := range addressRes {
		if m := re.FindString(doc.text); m != "" {
			fields = append(fields, field{"Address", strings.TrimSpace(m)})
			break
		}
	}

	if m := vendorPhoneRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Phone", strings.TrimSpace(m[1])})
	}
	if m := emailRe.FindString(doc.text); m != "" {
		fields = append(fields, field{"Email", m})
	}
	if m := websiteRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Website", m[1]})
	}

	return fields
}

// Customer info

var customerLabelRe = regexp.MustCompile(`(?i)(?:bill\s+to|customer|client):*[ \t]*\n?`)

// extractCustomerInfo captures the text following a bill-to/customer/client
// label, up to the next blank line or capitalized line, and joins the
// captured lines with commas. The line immediately after the label is
// always taken; the terminators apply from the second line on.
func extractCustomerInfo(doc document) []field {
	loc := customerLabelRe.FindStringIndex(doc.text)
	if loc == nil {
		return nil
	}

	rest := doc.text[loc[1]:]
	end := len(rest)
	for i := strings.IndexByte(rest, '\n'); i >= 0 && i < len(rest)-1; {
		next := rest[i+1]
		if next == '\n' || (next >= 'A' && next <= 'Z') {
			end = i
			break
		}
		j := strings.IndexByte(rest[i+1:], '\n')
		if j < 0 {
			break
		}
		i += 1 + j
	}

	var lines []string
	for _, line := range strings.Split(rest[:end], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return []field{{"Bill To", strings.Join(lines, ", ")}}
}

// Line items

// The in-section pass keeps descriptions longer than minInlineItemDesc; the
// whole-text fallback requires longer than minFallbackItemDesc. The two
// thresholds differ on purpose and must not be unified: doing so changes
// which items survive.
const (
	minInlineItemDesc   = 2
	minFallbackItemDesc = 3
	minFallbackLineLen  = 10
)

var (
	itemsSectionRe = regexp.MustCompile(`(?is)(?:item|description|qty|quantity).*?(?:total|subtotal|tax)`)
	itemHeaderRe   = regexp.MustCompile(`(?i)^(?:item|description|qty|quantity|price|amount)`)
	separatorRe    = regexp.MustCompile(`^[-=\s]+$`)

	itemQtyFirstRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*x?\s*(.+?)\s+(\$?[\d,]+\.?\d*)$`)
	itemDescFirstRe = regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)\s*x?\s*(\$?[\d,]+\.?\d*)$`)
	itemQtyDashRe   = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+(.+?)\s+-\s+(\$?[\d,]+\.?\d*)$`)

	anyPriceRe    = regexp.MustCompile(`\$?[\d,]+\.?\d*`)
	dollarPriceRe = regexp.MustCompile(`\$[\d,]+\.?\d*`)
	totalWordRe   = regexp.MustCompile(`(?i)total|tax|subtotal`)
	excludeLineRe = regexp.MustCompile(`(?i)total|subtotal|tax|amount\s+due|balance`)
)

// extractLineItems parses itemized rows. The first pass is restricted to
// the span between an items/qty header and a total/subtotal/tax boundary;
// when that finds nothing, a stricter fallback scans every line carrying a
// dollar amount.
func extractLineItems(doc document) []LineItem {
	var items []LineItem

	if section := itemsSectionRe.FindString(doc.text); section != "" {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || itemHeaderRe.MatchString(line) || separatorRe.MatchString(line) {
				continue
			}
			if item, ok := parseItemLine(line); ok {
				items = append(items, item)
				continue
			}
			if anyPriceRe.MatchString(line) && !totalWordRe.MatchString(line) {
				price := anyPriceRe.FindString(line)
				desc := strings.TrimSpace(strings.Replace(line, price, "", 1))
				if len(desc) > minInlineItemDesc {
					items = append(items, LineItem{Description: desc, Price: price})
				}
			}
		}
	}

	if len(items) == 0 {
		for _, line := range doc.lines {
			if len(line) <= minFallbackLineLen ||
				!dollarPriceRe.MatchString(line) ||
				excludeLineRe.MatchString(line) {
				continue
			}
			price := dollarPriceRe.FindString(line)
			desc := strings.TrimSpace(strings.Replace(line, price, "", 1))
			if len(desc) > minFallbackItemDesc {
				items = append(items, LineItem{Description: desc, Price: price})
			}
		}
	}

	return items
}

// parseItemLine tries the three item shapes in order:
// `qty desc price`, `desc qty price`, `qty desc - price`.
func parseItemLine(line string) (LineItem, bool) {
	if m := itemQtyFirstRe.FindStringSubmatch(line); m != nil {
		return LineItem{Quantity: m[1], Description: strings.TrimSpace(m[2]), Price: m[3]}, true
	}
	if m := itemDescFirstRe.FindStringSubmatch(line); m != nil {
		return LineItem{Description: strings.TrimSpace(m[1]), Quantity: m[2], Price: m[3]}, true
	}
	if m := itemQtyDashRe.FindStringSubmatch(line); m != nil {
		return LineItem{Quantity: m[1], Description: strings.TrimSpace(m[2]), Price: m[3]}, true
	}
	return LineItem{}, false
}

// Totals breakdown

var totalsLookups = []struct {
	label string
	re    *regexp.Regexp
}{
	{"Subtotal", regexp.MustCompile(`(?i)(?:sub\s*total|subtotal)[\s:]*(\$?[\d,]+\.?\d*)`)},
	{"Tax", regexp.MustCompile(`(?i)(?:tax|vat|gst)[\s:]*(\$?[\d,]+\.?\d*)`)},
	{"Tip", regexp.MustCompile(`(?i)(?:tip|gratuity)[\s:]*(\$?[\d,]+\.?\d*)`)},
	{"Discount", regexp.MustCompile(`(?i)(?:discount|coupon|savings)[\s:]*(\$?[\d,]+\.?\d*)`)},
	{"Total", regexp.MustCompile(`(?i)(?:total|grand\s*total|amount\s*due)[\s:]*(\$?[\d,]+\.?\d*)`)},
}

// extractTotalsBreakdown runs isolated labeled lookups. Each is a single
// independent match; none of them feed the top-level amount rule.
func extractTotalsBreakdown(doc document) []field {
	var fields []field
	for _, lookup := range totalsLookups {
		if m := lookup.re.FindStringSubmatch(doc.text); m != nil {
			fields = append(fields, field{lookup.label, m[1]})
		}
	}
	return fields
}

// Payment info

var paymentMethods = []string{
	"cash", "credit", "debit", "visa", "mastercard", "amex", "discover", "check", "paypal",
}

var paymentMethodRes = compileMethodRes(paymentMethods)

func compileMethodRes(methods []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(methods))
	for i, m := range methods {
		res[i] = regexp.MustCompile(`(?i)\b` + m + `\b`)
	}
	return res
}

var (
	cardDigitsRe    = regexp.MustCompile(`(?i)(?:card|account).*?(\d{4})`)
	transactionIDRe = regexp.MustCompile(`(?i)(?:transaction|trans|ref|reference)[\s#:]*([a-zA-Z0-9]+)`)
)

func extractPaymentInfo(doc document) []field {
	var fields []field

	for i, re := range paymentMethodRes {
		if re.MatchString(doc.text) {
			fields = append(fields, field{"Method", capitalizeWord(paymentMethods[i])})
			break
		}
	}

	if m := cardDigitsRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Card Last Four", m[1]})
	}
	if m := transactionIDRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Transaction Id", m[1]})
	}

	return fields
}

// Receipt details

var (
	receiptNumberRe = regexp.MustCompile(`(?i)(?:receipt|invoice|order)[\s#:]*([a-zA-Z0-9\-]+)`)
	cashierRe       = regexp.MustCompile(`(?i)(?:cashier|server|clerk)[\s:]*([a-zA-Z\s]+)`)
	storeNumberRe   = regexp.MustCompile(`(?i)(?:store|location)[\s#:]*(\d+)`)
	clockTimeRe     = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM)?)`)
)

func extractReceiptDetails(doc document) []field {
	var fields []field

	if m := receiptNumberRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Receipt Number", m[1]})
	}
	if m := cashierRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Cashier", strings.TrimSpace(m[1])})
	}
	if m := storeNumberRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Store Number", m[1]})
	}
	if m := clockTimeRe.FindStringSubmatch(doc.text); m != nil {
		fields = append(fields, field{"Time", m[1]})
	}

	return fields
}
