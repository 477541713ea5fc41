package purchase

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/procurement/internal/http/filter"
	"github.com/MrJamesThe3rd/procurement/internal/http/respond"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

// Limits bounds list page sizes.
type Limits struct {
	Default int
	Max     int
}

type Handler struct {
	svc      *purchase.Service
	validate *validator.Validate
	limits   Limits
}

func NewHandler(svc *purchase.Service, validate *validator.Validate, limits Limits) *Handler {
	return &Handler{svc: svc, validate: validate, limits: limits}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/stats/dashboard", h.stats)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Post("/{id}/attachments", h.addAttachment)
	r.Delete("/{id}/attachments/{attachmentID}", h.removeAttachment)
}

// fail maps service errors to status codes. Not-found and validation errors
// are matched before falling through to 500.
func fail(w http.ResponseWriter, r *http.Request, doing string, err error) {
	var ve *purchase.ValidationError

	switch {
	case errors.Is(err, purchase.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "Purchase not found")
	case errors.Is(err, purchase.ErrAttachmentNotFound):
		respond.Error(w, r, http.StatusNotFound, "Attachment not found")
	case errors.As(err, &ve):
		respond.Error(w, r, http.StatusBadRequest, ve.Error())
	default:
		respond.Error(w, r, http.StatusInternalServerError, fmt.Sprintf("Error %s: %v", doing, err))
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := respond.Decode(r, h.validate, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), req.toCreateParams())
	if err != nil {
		fail(w, r, "creating purchase", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r.URL.Query())
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	purchases, err := h.svc.List(r.Context(), f)
	if err != nil {
		fail(w, r, "fetching purchases", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(purchases))
}

func (h *Handler) parseFilter(q url.Values) (purchase.ListFilter, error) {
	f, err := filter.Parse(q)
	if err != nil {
		return f, err
	}

	if err := filter.Page(q, &f, h.limits.Default, h.limits.Max); err != nil {
		return f, err
	}

	return f, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, "fetching purchase", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := respond.Decode(r, h.validate, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.toUpdateParams())
	if err != nil {
		fail(w, r, "updating purchase", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := respond.Decode(r, h.validate, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), purchase.StatusParams{
		Status:     purchase.Status(req.Status),
		Comments:   req.Comments,
		ApprovedBy: req.ApprovedBy,
		Signature:  req.Signature,
	})
	if err != nil {
		fail(w, r, "updating status", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		fail(w, r, "deleting purchase", err)
		return
	}

	respond.JSON(w, http.StatusOK, deleteResponse{Message: "Purchase deleted successfully", ID: id})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		fail(w, r, "fetching stats", err)
		return
	}

	respond.JSON(w, http.StatusOK, toStatsResponse(stats))
}

func (h *Handler) addAttachment(w http.ResponseWriter, r *http.Request) {
	var req attachmentRequest
	if err := respond.Decode(r, h.validate, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.AddAttachment(r.Context(), chi.URLParam(r, "id"), purchase.AttachmentParams(req))
	if err != nil {
		fail(w, r, "adding attachment", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) removeAttachment(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.RemoveAttachment(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "attachmentID"),
		r.URL.Query().Get("user"),
	)
	if err != nil {
		fail(w, r, "removing attachment", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}
