package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Dan9191/finance-service/internal/middleware"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/utils"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxJSONBody = 1 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps service error kinds to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		h.log.WithError(err).WithField("request_id", utils.RequestID(r.Context())).Error("Unhandled error")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrReferenced):
		status = http.StatusConflict
	case errors.Is(err, service.ErrConcurrentUpdate):
		w.Header().Set("Retry-After", "1")
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		w.Header().Set("Retry-After", "1")
		status = http.StatusServiceUnavailable
	}
	writeMessage(w, status, svcErr.Message)
}

// decodeJSON reads exactly one JSON object with no unknown fields into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxErr):
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON at byte %d", syntaxErr.Offset))
		case errors.Is(err, io.EOF):
			writeMessage(w, http.StatusBadRequest, "request body must not be empty")
		case errors.As(err, &maxErr):
			writeMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
		default:
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		}
		return false
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		writeMessage(w, http.StatusBadRequest, "request body must only contain a single JSON object")
		return false
	}
	return true
}

// pathID parses a positive numeric path variable
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// owner returns the authenticated user id. On owner-scoped paths the path owner
// must be the caller, other owners are reported as missing.
func owner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	if raw, scoped := mux.Vars(r)["owner"]; scoped {
		pathOwner, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || pathOwner != ownerID {
			writeMessage(w, http.StatusNotFound, "not found")
			return 0, false
		}
	}
	return ownerID, true
}

// queryInt parses an optional integer query parameter
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeMessage(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return n, true
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
