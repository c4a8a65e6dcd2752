package handler

import (
	"net/http"
)

// Dashboard returns the overview. Query: month and year select the recent transactions.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}

	summary, err := h.svc.Dashboard(r.Context(), ownerID, month, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ChartData returns daily expenses. Query: range=7D|30D.
func (h *Handler) ChartData(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	points, err := h.svc.ExpenseChart(r.Context(), ownerID, r.URL.Query().Get("range"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) PieData(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	points, err := h.svc.ExpensePie(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
