package handler

import (
	"net/http"
)

// Forecast proxies the caller's last year of transactions to the prediction engine.
// Query: mode=weekly|monthly.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Forecast(r.Context(), ownerID, r.URL.Query().Get("mode"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ForecastStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.ForecastStats(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ForecastHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.ForecastHealth(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
