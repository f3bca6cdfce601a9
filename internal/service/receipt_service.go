// Package service exposes the receipt pipeline over HTTP: upload a raw
// extraction, read the normalized receipt, split it among participants,
// and download the result.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/smartsplit/smartsplit/internal/auth"
	"github.com/smartsplit/smartsplit/internal/calculator"
	"github.com/smartsplit/smartsplit/internal/export"
	"github.com/smartsplit/smartsplit/internal/metrics"
	"github.com/smartsplit/smartsplit/internal/middleware"
	"github.com/smartsplit/smartsplit/internal/models"
	"github.com/smartsplit/smartsplit/internal/parser"
	"github.com/smartsplit/smartsplit/internal/storage"
)

// maxBodyBytes caps request bodies; extractions are small documents.
const maxBodyBytes = 1 << 20

// ReceiptService handles the receipt upload, split, and export routes.
type ReceiptService struct {
	store  storage.Store
	tokens *auth.TokenManager
	parser *parser.Parser
}

// NewReceiptService creates a ReceiptService with the given storage
// backend and token manager.
func NewReceiptService(store storage.Store, tokens *auth.TokenManager) *ReceiptService {
	return &ReceiptService{
		store:  store,
		tokens: tokens,
		parser: parser.New(),
	}
}

// Register attaches all routes to the mux.
func (s *ReceiptService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/receipts", s.handleCreateReceipt)
	mux.HandleFunc("GET /v1/receipts/{id}", s.handleGetReceipt)
	mux.HandleFunc("POST /v1/receipts/{id}/split", middleware.RequireSession(s.tokens, s.handleSplit))
	mux.HandleFunc("GET /v1/receipts/{id}/export", middleware.RequireSession(s.tokens, s.handleExportJSON))
	mux.HandleFunc("GET /v1/receipts/{id}/export.xlsx", middleware.RequireSession(s.tokens, s.handleExportXLSX))
}

type createReceiptResponse struct {
	Receipt *models.Receipt `json:"receipt"`
	Token   string          `json:"token"`
}

type splitRequest struct {
	Participants []string          `json:"participants"`
	Strategy     models.Strategy   `json:"strategy"`
	Assignments  map[string]string `json:"assignments"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleCreateReceipt accepts the upstream model's raw extraction as
// the request body, normalizes it, persists the result, and returns the
// receipt together with a session token for the split endpoints.
func (s *ReceiptService) handleCreateReceipt(w http.ResponseWriter, r *http.Request) {
	var raw models.RawExtraction
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	receipt, err := s.parser.Parse(raw)
	if err != nil {
		if errors.Is(err, parser.ErrExtractionAbsent) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("Parse failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to parse receipt")
		return
	}

	if err := s.store.CreateReceipt(r.Context(), receipt); err != nil {
		slog.Error("CreateReceipt failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store receipt")
		return
	}

	token, err := s.tokens.Generate(receipt.ID)
	if err != nil {
		slog.Error("Token generation failed", "receipt_id", receipt.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	slog.Info("Receipt normalized",
		"receipt_id", receipt.ID,
		"items", len(receipt.Items),
		"subtotal", receipt.Subtotal,
		"total", receipt.Total,
		"additional_fees", receipt.AdditionalFees,
	)
	writeJSON(w, http.StatusCreated, createReceiptResponse{Receipt: receipt, Token: token})
}

// handleGetReceipt returns the stored normalized receipt.
func (s *ReceiptService) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.store.GetReceipt(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "receipt not found")
			return
		}
		slog.Error("GetReceipt failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load receipt")
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// authorizeReceipt checks that the session token in the context is
// scoped to the receipt addressed by the path.
func authorizeReceipt(w http.ResponseWriter, r *http.Request) (string, bool) {
	receiptID := r.PathValue("id")
	if middleware.GetReceiptID(r.Context()) != receiptID {
		writeError(w, http.StatusForbidden, "token is not valid for this receipt")
		return "", false
	}
	return receiptID, true
}

// handleSplit computes and persists a split for the receipt. A failed
// verification is reported in the response, not treated as an error:
// the shares stand as computed.
func (s *ReceiptService) handleSplit(w http.ResponseWriter, r *http.Request) {
	receiptID, ok := authorizeReceipt(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if err := validateSplitRequest(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req splitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Strategy.Valid() {
		writeError(w, http.StatusBadRequest, "unknown split strategy: "+string(req.Strategy))
		return
	}

	// Participant names arrive comma-separated upstream; by the time
	// they reach the core they must be trimmed and non-empty.
	// Duplicates are tolerated (they collapse into one share).
	participants := make([]string, 0, len(req.Participants))
	for _, name := range req.Participants {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			participants = append(participants, trimmed)
		}
	}
	if len(participants) == 0 {
		writeError(w, http.StatusBadRequest, calculator.ErrNoParticipants.Error())
		return
	}

	receipt, err := s.store.GetReceipt(r.Context(), receiptID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "receipt not found")
			return
		}
		slog.Error("GetReceipt failed", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load receipt")
		return
	}

	if req.Strategy == models.StrategyProportional {
		if err := checkAssignments(receipt.Items, req.Assignments, participants); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	shares, verification, err := calculator.Split(receipt, req.Strategy, req.Assignments, participants)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.SplitsComputed.WithLabelValues(string(req.Strategy)).Inc()
	if !verification.Match {
		metrics.SplitMismatches.Inc()
		slog.Warn("Split does not match receipt total",
			"receipt_id", receiptID,
			"calculated_total", verification.CalculatedTotal,
			"original_total", verification.OriginalTotal,
		)
	}

	split := &models.Split{
		ReceiptID:    receiptID,
		Strategy:     req.Strategy,
		Participants: participants,
		Assignments:  calculator.Assign(receipt.Items, req.Assignments),
		Shares:       shares,
		Verification: verification,
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.store.SaveSplit(r.Context(), split); err != nil {
		slog.Error("SaveSplit failed", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store split")
		return
	}

	writeJSON(w, http.StatusOK, split)
}

// checkAssignments enforces the proportional strategy's precondition:
// every distinct item name is assigned, each to a known participant.
func checkAssignments(items []models.Item, assignments map[string]string, participants []string) error {
	known := make(map[string]bool, len(participants))
	for _, name := range participants {
		known[name] = true
	}
	for _, item := range items {
		person, assigned := assignments[item.Name]
		if !assigned {
			return fmt.Errorf("item %q is not assigned to anyone", item.Name)
		}
		if !known[person] {
			return fmt.Errorf("item %q is assigned to %q, who is not a participant", item.Name, person)
		}
	}
	return nil
}

// handleExportJSON returns the latest split as the downloadable JSON
// payload, amounts rounded to 2 decimals.
func (s *ReceiptService) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	receiptID, ok := authorizeReceipt(w, r)
	if !ok {
		return
	}

	split, err := s.store.GetSplit(r.Context(), receiptID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no split computed for this receipt")
			return
		}
		slog.Error("GetSplit failed", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load split")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="bill_split.json"`)
	writeJSON(w, http.StatusOK, export.BuildPayload(split))
}

// handleExportXLSX returns the latest split as an XLSX workbook.
func (s *ReceiptService) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	receiptID, ok := authorizeReceipt(w, r)
	if !ok {
		return
	}

	receipt, err := s.store.GetReceipt(r.Context(), receiptID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "receipt not found")
			return
		}
		slog.Error("GetReceipt failed", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load receipt")
		return
	}

	split, err := s.store.GetSplit(r.Context(), receiptID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no split computed for this receipt")
			return
		}
		slog.Error("GetSplit failed", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load split")
		return
	}

	workbook, err := export.BuildWorkbook(receipt, split)
	if err != nil {
		slog.Error("Workbook export failed", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bill_split.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(workbook); err != nil {
		slog.Error("Failed to write workbook", "error", err)
	}
}
