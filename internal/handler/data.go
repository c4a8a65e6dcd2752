package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/Dan9191/finance-service/internal/utils"
)

const maxImportSize = 10 << 20

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "text/csv; charset=utf-8", "csv", h.svc.ExportCSV)
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", h.svc.ExportXLSX)
}

func (h *Handler) ExportOFX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/x-ofx", "ofx", h.svc.ExportOFX)
}

// export renders the whole file before sending so a failure still yields a JSON error
func (h *Handler) export(w http.ResponseWriter, r *http.Request, contentType, ext string,
	render func(ctx context.Context, ownerID int64, w io.Writer) error) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render(r.Context(), ownerID, &buf); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions.%s"`, ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.WithError(err).WithField("request_id", utils.RequestID(r.Context())).Warn("Failed to write export")
	}
}

// ImportCSV accepts a multipart upload in field "file" or a raw text/csv body
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeMessage(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			writeMessage(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()
		body = file
	case "text/csv", "text/plain", "application/csv":
	default:
		writeMessage(w, http.StatusUnsupportedMediaType, "expected multipart/form-data or text/csv")
		return
	}

	result, err := h.svc.ImportCSV(r.Context(), ownerID, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
