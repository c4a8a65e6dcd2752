package handler

import (
	"net/http"

	"github.com/Dan9191/finance-service/internal/service"
)

// BudgetStatus lists budgets with spending derived from transactions.
// Optional query month=YYYY-MM narrows to one month.
func (h *Handler) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	statuses, err := h.svc.BudgetStatus(r.Context(), ownerID, r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var req service.BudgetInput
	if !decodeJSON(w, r, &req) {
		return
	}
	budget, err := h.svc.CreateBudget(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, budget)
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.BudgetInput
	if !decodeJSON(w, r, &req) {
		return
	}
	budget, err := h.svc.UpdateBudget(r.Context(), ownerID, id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBudget(r.Context(), ownerID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BudgetingSummary reports income, expense and the biggest expense category of a month
func (h *Handler) BudgetingSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.BudgetingSummary(r.Context(), ownerID, r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
