package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
	"github.com/SARVESHVARADKAR123/postbox/internal/middleware"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
	"github.com/SARVESHVARADKAR123/postbox/internal/transport"
)

// maxBodyBytes bounds a creation body; fields inside it are truncated, not rejected.
const maxBodyBytes = 10 << 20

const (
	msgSent            = "Message sent"
	msgDeleteQueued    = "Message queued for deletion"
	msgInvalidID       = "Invalid message ID"
	msgInvalidBodyType = "Invalid request body type"
	msgInvalidBody     = "Invalid request body"
	msgUnsupported     = "Unsupported method"
)

// MessageService is the gateway-side message API.
type MessageService interface {
	ListMessages(ctx context.Context) ([]domain.MessageHead, error)
	GetMessages(ctx context.Context, messageID string) ([]domain.Message, error)
	CreateMessage(ctx context.Context, body []byte) (string, error)
	DeleteMessage(ctx context.Context, messageID string) error
}

type MessageHandler struct {
	svc MessageService
}

func NewMessageHandler(svc MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type listResponse struct {
	Messages []domain.MessageHead `json:"messages"`
}

type getResponse struct {
	Messages []domain.Message `json:"messages"`
}

// ListMessages GET /
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	heads, err := h.svc.ListMessages(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if heads == nil {
		heads = []domain.MessageHead{}
	}
	transport.WriteJSON(w, http.StatusOK, listResponse{Messages: heads})
}

// GetMessage GET /{id...}
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id := messageID(r)
	if id == "" {
		transport.WriteMessage(w, msgInvalidID)
		return
	}

	msgs, err := h.svc.GetMessages(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	transport.WriteJSON(w, http.StatusOK, getResponse{Messages: msgs})
}

// CreateMessage POST /
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		transport.WriteMessage(w, msgInvalidBody)
		return
	}

	if _, err := h.svc.CreateMessage(r.Context(), body); err != nil {
		h.fail(w, r, err)
		return
	}
	transport.WriteMessage(w, msgSent)
}

// DeleteMessage DELETE /{id...}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMessage(r.Context(), messageID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	transport.WriteMessage(w, msgDeleteQueued)
}

func (h *MessageHandler) Unsupported(w http.ResponseWriter, r *http.Request) {
	transport.WriteMessage(w, msgUnsupported)
}

func (h *MessageHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidBodyType):
		transport.WriteMessage(w, msgInvalidBodyType)
	case errors.Is(err, domain.ErrInvalidRequest):
		transport.WriteMessage(w, msgInvalidBody)
	case errors.Is(err, domain.ErrInvalidMessageID):
		transport.WriteMessage(w, msgInvalidID)
	default:
		observability.GetLogger(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		transport.WriteError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}

// messageID is everything after the leading slash, slashes included, decoded
// exactly once. chi matches on RawPath when the URL has one, which leaves the
// wildcard still escaped; otherwise it matches the already decoded Path.
func messageID(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return raw
	}
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
