package handler

import (
	"net/http"

	"github.com/Dan9191/finance-service/internal/service"
)

func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	bills, err := h.svc.ListBills(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var req service.BillInput
	if !decodeJSON(w, r, &req) {
		return
	}
	bill, err := h.svc.CreateBill(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

// UpdateBill edits a bill or marks it paid with {"status":"PAID"}.
// Marking paid does not post a transaction.
func (h *Handler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.BillInput
	if !decodeJSON(w, r, &req) {
		return
	}
	bill, err := h.svc.UpdateBill(r.Context(), ownerID, id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBill(r.Context(), ownerID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
