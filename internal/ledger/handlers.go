package ledger

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/FestivalLedger/FL-Backend/internal/auth"
	"github.com/FestivalLedger/FL-Backend/internal/session"
	"github.com/FestivalLedger/FL-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Agg    *Aggregator
	Policy *auth.Policy
}

func NewHandler(db *gorm.DB, policy *auth.Policy) *Handler {
	return &Handler{DB: db, Agg: &Aggregator{DB: db}, Policy: policy}
}

// ListEvents returns all events, newest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	var events []Event
	if err := h.DB.Order("created_at DESC").Find(&events).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch events. Please try again.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, events)
}

// GetEvent returns a single event by ID.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "event_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var event Event
	if err := h.DB.First(&event, "id = ?", id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Event not found.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, event)
}

// CreateEvent creates an event. Any authenticated user may create one.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireAuthenticated(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusUnauthorized, denied.Message)
		return
	}

	var in EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := ValidateEvent(&in); len(errs) > 0 {
		utils.RespondValidation(w, errs)
		return
	}

	event := Event{Name: in.Name, Description: in.Description, IsActive: true}
	if err := h.DB.Create(&event).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create event. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.ActionResponse{
		Status:  "success",
		Message: fmt.Sprintf("Event created: %s", event.Name),
	})
}

// UpdateEvent updates an event's name and description. Superadmin only.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireSuperadmin(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusForbidden, denied.Message)
		return
	}

	id, ok := uintParam(r, "event_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var in EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := ValidateEvent(&in); len(errs) > 0 {
		utils.RespondValidation(w, errs)
		return
	}

	var event Event
	if err := h.DB.First(&event, "id = ?", id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Event not found.")
		return
	}

	updates := map[string]interface{}{"name": in.Name, "description": in.Description}
	if err := h.DB.Model(&event).Updates(updates).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update event. Please try again.")
		return
	}

	utils.RespondSuccess(w, fmt.Sprintf("Event updated: %s", in.Name))
}

// DeleteEvent deletes an event and all its transactions. The two deletes
// run inside one database transaction so a crash cannot orphan rows.
// Superadmin only.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireSuperadmin(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusForbidden, denied.Message)
		return
	}

	id, ok := uintParam(r, "event_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Transaction{}, "event_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Event{}, "id = ?", id).Error
	})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete event. Please try again.")
		return
	}

	utils.RespondSuccess(w, "Event and its transactions deleted.")
}

// AddTransaction records a new income or expenditure entry.
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireAuthenticated(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusUnauthorized, denied.Message)
		return
	}

	var in TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := ValidateTransaction(&in); len(errs) > 0 {
		utils.RespondValidation(w, errs)
		return
	}

	txn := Transaction{
		Date:        in.Date,
		Name:        in.Name,
		Amount:      in.Amount,
		Type:        TransactionType(in.Type),
		PaymentMode: PaymentMode(in.PaymentMode),
		Description: in.Description,
		EventID:     in.EventID,
	}
	if err := h.DB.Create(&txn).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save transaction. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.ActionResponse{
		Status:  "success",
		Message: fmt.Sprintf("Transaction added: %s - %s", txn.Name, FormatINR(txn.Amount)),
	})
}

// UpdateTransaction replaces an entry's fields.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireAuthenticated(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusUnauthorized, denied.Message)
		return
	}

	id, ok := uintParam(r, "transaction_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid transaction ID.")
		return
	}

	var in TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := ValidateTransaction(&in); len(errs) > 0 {
		utils.RespondValidation(w, errs)
		return
	}

	var txn Transaction
	if err := h.DB.First(&txn, "id = ?", id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Transaction not found.")
		return
	}

	updates := map[string]interface{}{
		"date":         in.Date,
		"name":         in.Name,
		"amount":       in.Amount,
		"type":         in.Type,
		"payment_mode": in.PaymentMode,
		"description":  in.Description,
		"event_id":     in.EventID,
	}
	if err := h.DB.Model(&txn).Updates(updates).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update transaction. Please try again.")
		return
	}

	utils.RespondSuccess(w, fmt.Sprintf("Transaction updated: %s - %s", in.Name, FormatINR(in.Amount)))
}

// DeleteTransaction removes one entry.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireAuthenticated(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusUnauthorized, denied.Message)
		return
	}

	id, ok := uintParam(r, "transaction_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid transaction ID.")
		return
	}

	if err := h.DB.Delete(&Transaction{}, "id = ?", id).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete transaction. Please try again.")
		return
	}

	utils.RespondSuccess(w, "Transaction deleted successfully.")
}

// DeleteAllTransactions bulk-deletes every entry for an event. Superadmin
// only.
func (h *Handler) DeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireSuperadmin(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusForbidden, denied.Message)
		return
	}

	eventID, ok := uintQuery(r, "event_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	if err := h.DB.Delete(&Transaction{}, "event_id = ?", eventID).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete transactions. Please try again.")
		return
	}

	utils.RespondSuccess(w, "All transactions for this event deleted.")
}

// RecentEntries returns the latest entries for an event, for the data-entry
// page's sidebar.
func (h *Handler) RecentEntries(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uintQuery(r, "event_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "Invalid limit.")
			return
		}
		limit = n
	}

	rows, err := h.Agg.RecentEntries(eventID, limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch entries. Please try again.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, rows)
}

// Report returns the grouped or sorted transaction view for an event,
// driven by type, payment_mode, sort_by and sort_order query params.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uintParam(r, "event_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	opts := QueryOptions{
		Type:        TransactionType(r.URL.Query().Get("type")),
		PaymentMode: PaymentMode(r.URL.Query().Get("payment_mode")),
		SortBy:      SortField(r.URL.Query().Get("sort_by")),
		SortOrder:   SortOrder(r.URL.Query().Get("sort_order")),
	}

	report, err := h.Agg.Query(eventID, opts)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch report. Please try again.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, report)
}

type summaryResponse struct {
	Summary
	Formatted struct {
		TotalIncome      string `json:"total_income"`
		TotalExpenditure string `json:"total_expenditure"`
		NetTotal         string `json:"net_total"`
	} `json:"formatted"`
}

// SummaryReport returns event-wide totals, raw and INR-formatted.
func (h *Handler) SummaryReport(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uintParam(r, "event_id")
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	summary, err := h.Agg.Summary(eventID, PaymentMode(r.URL.Query().Get("payment_mode")))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch summary. Please try again.")
		return
	}

	resp := summaryResponse{Summary: summary}
	resp.Formatted.TotalIncome = FormatINR(summary.TotalIncome)
	resp.Formatted.TotalExpenditure = FormatINR(summary.TotalExpenditure)
	resp.Formatted.NetTotal = FormatINR(summary.NetTotal)
	utils.RespondJSON(w, http.StatusOK, resp)
}

func uintParam(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func uintQuery(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
