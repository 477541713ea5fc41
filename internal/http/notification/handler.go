package notification

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/procurement/internal/http/respond"
	"github.com/MrJamesThe3rd/procurement/internal/notification"
)

// defaultLimit matches what the notification bell shows.
const defaultLimit = 50

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/read-all", h.markAllRead)
	r.Patch("/{id}/read", h.markRead)
	r.Delete("/{id}", h.delete)
}

type notificationResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	PurchaseID string    `json:"purchaseId,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type countResponse struct {
	Count int `json:"count"`
}

func toResponse(n *notification.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		PurchaseID: n.PurchaseID,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}

func fail(w http.ResponseWriter, r *http.Request, doing string, err error) {
	if errors.Is(err, notification.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Notification not found")
		return
	}

	respond.Error(w, r, http.StatusInternalServerError, fmt.Sprintf("Error %s: %v", doing, err))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", s))
			return
		}

		limit = n
	}

	list, err := h.svc.List(r.Context(), limit)
	if err != nil {
		fail(w, r, "fetching notifications", err)
		return
	}

	resp := make([]notificationResponse, len(list))
	for i, n := range list {
		resp[i] = toResponse(n)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.UnreadCount(r.Context())
	if err != nil {
		fail(w, r, "counting notifications", err)
		return
	}

	respond.JSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, "marking notification read", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkAllRead(r.Context()); err != nil {
		fail(w, r, "marking notifications read", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, "deleting notification", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
