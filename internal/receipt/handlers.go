package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/expensewell/receipt-scan/internal/extract"
	"github.com/expensewell/receipt-scan/internal/recognition"
)

// setCORSHeaders sets CORS headers on a response.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// corsError writes an error response with CORS headers set.
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// extractedData is the upload response payload: the seven fields plus the
// engine that produced the underlying text, so the end user can see which
// backend did the work.
type extractedData struct {
	extract.Fields
	OCREngine string `json:"ocr_engine"`
}

type uploadResponse struct {
	Success       bool           `json:"success"`
	ExtractedData *extractedData `json:"extracted_data,omitempty"`
	Receipt       *Receipt       `json:"receipt,omitempty"`
	Error         string         `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleUploadReceipt accepts a multipart upload ("receipt" file field,
// optional "engine" field overriding the server's configured preference)
// and responds with the extracted fields.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	// 50MB ceiling to accommodate high-resolution phone photos.
	const maxFormSize = 50 << 20
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "No receipt file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Error reading uploaded file", "error", err)
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Error: "Failed to read uploaded file"})
		return
	}

	cfg := s.defaultCfg
	if name := r.FormValue("engine"); name != "" {
		if engine, ok := recognition.ParseEngine(name); ok {
			cfg.Preferred = engine
		} else {
			writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "Unknown engine: " + name})
			return
		}
	}

	contentType := header.Header.Get("Content-Type")
	receipt, err := s.service.ProcessReceipt(r.Context(), header.Filename, data, contentType, cfg)
	if err != nil {
		if errors.Is(err, ErrNothingExtracted) {
			writeJSON(w, http.StatusUnprocessableEntity, uploadResponse{Error: "Failed to process receipt: no data could be extracted"})
			return
		}
		slog.Error("Receipt processing error", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, uploadResponse{Error: "Failed to process receipt"})
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		ExtractedData: &extractedData{
			Fields:    receipt.Fields,
			OCREngine: receipt.Engine,
		},
		Receipt: receipt,
	})
}

// handleListReceipts returns all receipts.
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// handleGetReceipt returns one receipt by ID.
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.service.GetReceipt(r.PathValue("id"))
	if err != nil {
		corsError(w, "Receipt not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// handleGetReceiptFile streams the stored source image.
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		corsError(w, "Receipt file not found", http.StatusNotFound)
		return
	}

	setCORSHeaders(w)
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Write(data)
}

// handleDeleteReceipt removes a receipt and its stored image.
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReceipt(r.PathValue("id")); err != nil {
		slog.Error("Error deleting receipt", "error", err)
		corsError(w, "Receipt not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
