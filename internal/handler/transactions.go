package handler

import (
	"net/http"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
)

// ListTransactions returns one page of the caller's transactions.
// Query: page, limit, month and year (month and year go together).
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var filter models.TransactionFilter
	for name, dst := range map[string]*int{
		"page":  &filter.Page,
		"limit": &filter.Limit,
		"month": &filter.Month,
		"year":  &filter.Year,
	} {
		if *dst, ok = queryInt(w, r, name); !ok {
			return
		}
	}

	page, err := h.svc.ListTransactions(r.Context(), ownerID, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PostTransaction records income or expense and moves the account balance
func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var req service.TransactionInput
	if !decodeJSON(w, r, &req) {
		return
	}
	txn, err := h.svc.PostTransaction(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *Handler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.TransactionInput
	if !decodeJSON(w, r, &req) {
		return
	}
	txn, err := h.svc.EditTransaction(r.Context(), ownerID, id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), ownerID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
