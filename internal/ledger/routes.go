package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// EventRoutes serves the event catalog, mounted at /ledger. Mutations run
// their own in-handler guards.
func (h *Handler) EventRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/events", h.ListEvents)
	r.Get("/events/{event_id}", h.GetEvent)
	r.Post("/events", h.CreateEvent)
	r.Put("/events/{event_id}", h.UpdateEvent)
	r.Delete("/events/{event_id}", h.DeleteEvent)

	return r
}

// EntryRoutes serves the data-entry area, mounted at /entry behind the
// edge guard. Handlers still run their own guards; the edge guard is the
// outer fence, not the only one.
func (h *Handler) EntryRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/recent", h.RecentEntries)
	r.Post("/transactions", h.AddTransaction)
	r.Put("/transactions/{transaction_id}", h.UpdateTransaction)
	r.Delete("/transactions/{transaction_id}", h.DeleteTransaction)
	r.Delete("/transactions", h.DeleteAllTransactions)

	return r
}

// ReportRoutes serves the read-only report views, mounted at /reports.
func (h *Handler) ReportRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/{event_id}", h.Report)
	r.Get("/{event_id}/summary", h.SummaryReport)

	return r
}
