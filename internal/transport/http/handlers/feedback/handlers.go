package feedbackhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/feedback"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *feedback.Service
}

func NewHandler(service *feedback.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/feedback", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/respond", h.handleRespond)
	})
}

func filterFrom(r *http.Request) feedback.Filter {
	page := shared.Page(r)
	return feedback.Filter{
		Status:   shared.Query(r, "status"),
		Category: shared.Query(r, "category"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	items, err := h.Service.List(r.Context(), actor, filterFrom(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	item, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload feedback.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Create(r.Context(), actor, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, item, shared.RequestID(r))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload feedback.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Message(w, "feedback deleted", shared.RequestID(r))
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload feedback.RespondInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Respond(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}
