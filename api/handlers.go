/*
handlers.go - HTTP API handlers for the ledger engine

PURPOSE:
  Exposes the party registry and report projections via REST. Handles
  HTTP request/response and JSON serialization, and delegates every
  decision to the domain layer.

ENDPOINTS:
  Auth:
    POST   /api/auth/login                       Issue bearer token

  Clients/Suppliers:
    GET    /api/clients-suppliers                List (optional ?kind=)
    POST   /api/clients-suppliers                Register party
    GET    /api/clients-suppliers/{id}           Get party
    PUT    /api/clients-suppliers/{id}           Update party
    DELETE /api/clients-suppliers/{id}           Delete party
    POST   /api/clients-suppliers/{id}/pay       Record payment
    POST   /api/clients-suppliers/{id}/transactions  Record transaction
    POST   /api/clients-suppliers/{id}/notes     Add note
    PUT    /api/clients-suppliers/{id}/notes/{noteId}    Edit note
    DELETE /api/clients-suppliers/{id}/notes/{noteId}    Delete note

  Reports:
    GET    /api/reports/summary                  Balance totals per side
    GET    /api/reports/monthlySales/{year}      Monthly sales/purchases
    GET    /api/reports/topProducts              Top products (?limit=)
    GET    /api/reports/revenueShare             Revenue share per product

ERROR HANDLING:
  Errors are returned as JSON with the status implied by the taxonomy:
  - 400: validation failures (bad input, rejected before any write)
  - 401: missing/invalid bearer token (auth.go)
  - 404: unknown party or note
  - 500: everything else

RESPONSE CONTRACT:
  Every successful mutation returns the authoritative post-mutation
  party. Clients replace their copy with it; there is no optimistic
  merge protocol.
*/
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smartstock/ledger-engine/ledger"
	"github.com/smartstock/ledger-engine/reports"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *ledger.Registry
	Reports  *reports.Service
	Auth     *Authenticator
	Log      *slog.Logger
}

func NewHandler(registry *ledger.Registry, reportsSvc *reports.Service, auth *Authenticator, log *slog.Logger) *Handler {
	return &Handler{
		Registry: registry,
		Reports:  reportsSvc,
		Auth:     auth,
		Log:      log,
	}
}

// =============================================================================
// AUTH
// =============================================================================

// Login issues a bearer token for the operator account.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, expiresAt, ok := h.Auth.Login(req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// =============================================================================
// PARTY HANDLERS
// =============================================================================

// ListParties returns all clients/suppliers, optionally filtered by kind.
// GET /api/clients-suppliers?kind=client
func (h *Handler) ListParties(w http.ResponseWriter, r *http.Request) {
	var kind *ledger.PartyKind
	if q := r.URL.Query().Get("kind"); q != "" {
		k := ledger.PartyKind(q)
		kind = &k
	}

	parties, err := h.Registry.ListParties(r.Context(), kind)
	if err != nil {
		h.writeDomainError(w, "Failed to list parties", err)
		return
	}

	dtos := make([]PartyDTO, len(parties))
	for i, p := range parties {
		dtos[i] = toPartyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RegisterParty creates a new client or supplier.
// POST /api/clients-suppliers
func (h *Handler) RegisterParty(w http.ResponseWriter, r *http.Request) {
	var req RegisterPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := ledger.RegisterInput{
		Name:    req.Name,
		Kind:    ledger.PartyKind(req.Kind),
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.InitialTransaction != nil {
		txIn, err := toTransactionInput(*req.InitialTransaction)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid initial transaction", err)
			return
		}
		in.InitialTransaction = &txIn
	}

	p, err := h.Registry.Register(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, "Failed to register party", err)
		return
	}

	h.Log.Info("party registered", "party_id", p.ID, "kind", p.Kind)
	writeJSON(w, http.StatusCreated, toPartyDTO(p))
}

// GetParty returns a single party with logs and balance.
// GET /api/clients-suppliers/{id}
func (h *Handler) GetParty(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	p, err := h.Registry.GetParty(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get party", err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// UpdateParty applies a partial update.
// PUT /api/clients-suppliers/{id}
func (h *Handler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	var req UpdatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch := ledger.PartyPatch{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.Kind != nil {
		k := ledger.PartyKind(*req.Kind)
		patch.Kind = &k
	}

	p, err := h.Registry.Update(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, "Failed to update party", err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// DeleteParty removes a party and its logs.
// DELETE /api/clients-suppliers/{id}
func (h *Handler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	if err := h.Registry.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete party", err)
		return
	}

	h.Log.Info("party deleted", "party_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION AND PAYMENT HANDLERS
// =============================================================================

// RecordTransaction appends a sale/purchase to the party's log.
// POST /api/clients-suppliers/{id}/transactions
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, err := toTransactionInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction", err)
		return
	}

	p, err := h.Registry.RecordTransaction(r.Context(), id, in)
	if err != nil {
		h.writeDomainError(w, "Failed to record transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPartyDTO(p))
}

// RecordPayment appends a payment to the party's log.
// POST /api/clients-suppliers/{id}/pay
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Registry.RecordPayment(r.Context(), id, ledger.NewMoney(req.Amount))
	if err != nil {
		h.writeDomainError(w, "Failed to record payment", err)
		return
	}

	h.Log.Info("payment recorded", "party_id", id, "amount", req.Amount)
	writeJSON(w, http.StatusCreated, toPartyDTO(p))
}

// =============================================================================
// NOTE HANDLERS
// =============================================================================

// AddNote appends a note.
// POST /api/clients-suppliers/{id}/notes
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Registry.AddNote(r.Context(), id, req.Text)
	if err != nil {
		h.writeDomainError(w, "Failed to add note", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPartyDTO(p))
}

// EditNote replaces one note's text.
// PUT /api/clients-suppliers/{id}/notes/{noteId}
func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))
	noteID := ledger.NoteID(chi.URLParam(r, "noteId"))

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Registry.EditNote(r.Context(), id, noteID, req.Text)
	if err != nil {
		h.writeDomainError(w, "Failed to edit note", err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// DeleteNote removes one note.
// DELETE /api/clients-suppliers/{id}/notes/{noteId}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))
	noteID := ledger.NoteID(chi.URLParam(r, "noteId"))

	p, err := h.Registry.DeleteNote(r.Context(), id, noteID)
	if err != nil {
		h.writeDomainError(w, "Failed to delete note", err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// ReportSummary returns the outstanding totals per side of the book.
// GET /api/reports/summary
func (h *Handler) ReportSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Reports.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(sum))
}

// MonthlyTotals returns per-month sales/purchases for a year.
// GET /api/reports/monthlySales/{year}
func (h *Handler) MonthlyTotals(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	totals, err := h.Reports.MonthlyTotals(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute monthly totals", err)
		return
	}

	dtos := make([]MonthlyTotalDTO, len(totals))
	for i, t := range totals {
		dtos[i] = MonthlyTotalDTO{
			Month:     int(t.Month),
			Sales:     t.Sales.Float64(),
			Purchases: t.Purchases.Float64(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TopProducts returns products ranked by sale revenue.
// GET /api/reports/topProducts?limit=5
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	products, err := h.Reports.TopProducts(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute top products", err)
		return
	}

	dtos := make([]ProductTotalDTO, len(products))
	for i, p := range products {
		share, _ := p.RevenueShare.Float64()
		dtos[i] = ProductTotalDTO{
			ProductName:  p.ProductName,
			Quantity:     p.Quantity,
			Revenue:      p.Revenue.Float64(),
			RevenueShare: share,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RevenueShare returns every product's percentage of total sale revenue.
// GET /api/reports/revenueShare
func (h *Handler) RevenueShare(w http.ResponseWriter, r *http.Request) {
	products, err := h.Reports.TopProducts(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute revenue share", err)
		return
	}

	dtos := make([]RevenueShareDTO, len(products))
	for i, p := range products {
		share, _ := p.RevenueShare.Float64()
		dtos[i] = RevenueShareDTO{ProductName: p.ProductName, RevenueShare: share}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func toTransactionInput(req TransactionRequest) (ledger.TransactionInput, error) {
	in := ledger.TransactionInput{
		Kind:   ledger.TransactionKind(req.Kind),
		Amount: ledger.NewMoney(req.Amount),
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return ledger.TransactionInput{}, err
		}
		in.Date = date
	}
	for _, li := range req.Details {
		in.Details = append(in.Details, ledger.LineItemInput{
			ProductName: li.ProductName,
			Quantity:    li.Quantity,
			Price:       ledger.NewMoney(li.Price),
		})
	}
	return in, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// writeDomainError maps the ledger error taxonomy onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsValidation(err):
		writeError(w, http.StatusBadRequest, message, err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Log.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
