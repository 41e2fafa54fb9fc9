package receipt

import (
	"time"

	"github.com/expensewell/receipt-scan/internal/extract"
)

// Receipt is a processed upload: the stored source image plus the fields
// extracted from its recognized text and the engine that produced the text.
type Receipt struct {
	ID          string         `json:"id"`
	Fields      extract.Fields `json:"fields"`
	Engine      string         `json:"engine"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
