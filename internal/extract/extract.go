// Package extract converts raw recognized receipt text into typed,
// best-effort transaction fields. Every rule fails closed: malformed input
// yields absent fields, never an error. The output is meant to pre-fill a
// form a human reviews.
package extract

import (
	"regexp"
	"strings"
	"time"
)

// Fields is the extraction output. Every field except Currency is optional;
// a zero value (nil pointer, empty string) means "not confidently found".
// Currency always carries a 3-letter code, defaulting to USD.
type Fields struct {
	Amount      *float64 `json:"amount,omitempty"`
	Merchant    string   `json:"merchant,omitempty"`
	Date        string   `json:"date,omitempty"` // ISO 8601 (YYYY-MM-DD)
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Currency    string   `json:"currency"`
	Notes       string   `json:"notes,omitempty"`
}

// TimeSource provides the current time. The date rule bounds candidates
// against "now", so tests inject a fixed clock.
type TimeSource interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// Extractor turns raw text into Fields. It holds no per-request state;
// extraction is a pure function of the input text and the clock.
type Extractor struct {
	clock TimeSource
}

// NewExtractor creates an Extractor using the system clock.
func NewExtractor() *Extractor {
	return &Extractor{clock: systemTime{}}
}

// NewExtractorWithClock creates an Extractor with an injected clock.
func NewExtractorWithClock(clock TimeSource) *Extractor {
	return &Extractor{clock: clock}
}

// document is the normalized view of the input both rule families work on:
// the trimmed full text and its non-empty trimmed lines.
type document struct {
	text  string
	lines []string
}

var lineSplitRe = regexp.MustCompile(`\n+`)

func newDocument(text string) document {
	text = strings.TrimSpace(text)
	raw := lineSplitRe.Split(text, -1)
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return document{text: text, lines: lines}
}

// Extract runs every field rule over the text. It never fails; empty input
// yields all-absent fields with the default currency.
func (e *Extractor) Extract(text string) Fields {
	doc := newDocument(text)

	merchant := extractMerchant(doc)

	return Fields{
		Amount:      extractAmount(doc),
		Merchant:    merchant,
		Date:        extractDate(doc, e.clock.Now()),
		Category:    extractCategory(doc),
		Description: extractDescription(doc, merchant),
		Currency:    extractCurrency(doc),
		Notes:       extractNotes(doc),
	}
}
