package document

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/procurement/internal/document"
	"github.com/MrJamesThe3rd/procurement/internal/http/respond"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

type Handler struct {
	svc      *purchase.Service
	renderer *document.Renderer
}

func NewHandler(svc *purchase.Service, renderer *document.Renderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/documents/{kind}", h.render)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	kind, err := document.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respond.Error(w, r, http.StatusNotFound, err.Error())
		return
	}

	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, purchase.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Purchase not found")
			return
		}

		respond.Error(w, r, http.StatusInternalServerError, fmt.Sprintf("Error fetching purchase: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, kind, p); err != nil {
		respond.Error(w, r, http.StatusInternalServerError, fmt.Sprintf("Error rendering document: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
