package contacthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/contact"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *contact.Service
}

func NewHandler(service *contact.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact/send", h.handleSend)
}

// handleSend answers with the fixed contact-form messages rather than the
// generic error envelope text, including for transport failures.
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	requestID := shared.RequestID(r)
	var payload contact.Request
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", contact.MessageRequired, requestID)
		return
	}
	err := h.Service.Send(r.Context(), payload)
	switch {
	case err == nil:
		api.Message(w, contact.MessageSent, requestID)
	case apperr.Is(err, apperr.KindValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", contact.MessageRequired, requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "mail_failed", contact.MessageFailed, requestID)
	}
}
