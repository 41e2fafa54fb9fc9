package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expensewell/receipt-scan/internal/extract"
	"github.com/expensewell/receipt-scan/internal/recognition"
)

// ErrNothingExtracted is returned when no backend produced any text for an
// upload. It is the only user-visible processing failure; backend
// diagnostics stay in the logs.
var ErrNothingExtracted = errors.New("no data could be extracted from the receipt")

// Recognizer turns an image into raw text.
type Recognizer interface {
	Recognize(ctx context.Context, req recognition.Request, cfg recognition.Config) recognition.Result
}

// Extractor turns raw text into structured fields.
type Extractor interface {
	Extract(text string) extract.Fields
}

// IDGenerator generates unique IDs for receipts.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string { return uuid.NewString() }

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// Service runs the extraction pipeline: store the upload, recognize text,
// extract fields, persist the record.
type Service struct {
	db          DB
	recognizer  Recognizer
	extractor   Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with the default ID generator and clock.
func NewService(db DB, recognizer Recognizer, extractor Extractor, storage Storage) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		extractor:   extractor,
		storage:     storage,
		idGenerator: uuidGenerator{},
		timeSource:  systemTime{},
	}
}

// NewServiceWithDeps creates a Service with injected dependencies for tests.
func NewServiceWithDeps(db DB, recognizer Recognizer, extractor Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	multiSpaceRe     = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated filenames before they hit the
// filesystem.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = unsafeFilenameRe.ReplaceAllString(base, "")
	base = multiSpaceRe.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	const maxLen = 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ProcessReceipt stores the uploaded image, recognizes its text with the
// configured backend policy, extracts structured fields, and persists the
// record. When no text can be recognized the stored image is removed and
// ErrNothingExtracted is returned.
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string, cfg recognition.Config) (*Receipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	result := s.recognizer.Recognize(ctx, recognition.Request{Data: data, ContentType: contentType}, cfg)
	if result.Text == "" {
		slog.Warn("no text recognized from upload",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
		)
		s.storage.Delete(savedPath)
		return nil, ErrNothingExtracted
	}

	fields := s.extractor.Extract(result.Text)

	receipt := &Receipt{
		ID:          id,
		Fields:      fields,
		Engine:      string(result.Engine),
		Filename:    savedPath,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	return receipt, nil
}

// GetReceipt retrieves a receipt by ID.
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts.
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its stored image.
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if err := s.storage.Delete(receipt.Filename); err != nil {
		slog.Warn("Failed to delete file", "filename", receipt.Filename, "error", err)
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the stored image for a receipt.
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}
	return data, receipt.ContentType, nil
}
