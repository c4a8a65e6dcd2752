package handler

import (
	"net/http"

	"github.com/Dan9191/finance-service/internal/service"
	"github.com/shopspring/decimal"
)

type payRequest struct {
	PayAmount decimal.Decimal `json:"pay_amount"`
}

func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	debts, err := h.svc.ListDebts(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var req service.DebtInput
	if !decodeJSON(w, r, &req) {
		return
	}
	debt, err := h.svc.CreateDebt(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, debt)
}

// PayDebt applies a payment. Overpayment is clamped to the remaining amount.
func (h *Handler) PayDebt(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req payRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.PayDebt(r.Context(), ownerID, id, req.PayAmount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DebtPayments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	payments, err := h.svc.DebtPayments(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDebt(r.Context(), ownerID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
