package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/procurement/internal/export"
	"github.com/MrJamesThe3rd/procurement/internal/http/filter"
	"github.com/MrJamesThe3rd/procurement/internal/http/respond"
)

// maxUploadSize caps multipart imports.
const maxUploadSize = 10 << 20

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// Routes mounts beside the purchase routes, so the static paths take
// precedence over /{id}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.download)
	r.Post("/import", h.upload)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	f, err := filter.Parse(q)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// Buffer so a failure midway can still produce a proper error response.
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), format, f, &buf); err != nil {
		respond.Error(w, r, http.StatusInternalServerError, fmt.Sprintf("Error exporting purchases: %v", err))
		return
	}

	filename := format.FileName(h.now())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), file)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("Error importing purchases: %v", err))
		return
	}

	respond.JSON(w, http.StatusOK, result)
}
