package devicehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/device"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *device.Service
}

func NewHandler(service *device.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/devices", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)

		manage := r.With(middleware.RequirePermission(auth.PermDevicesManage))
		manage.Post("/", h.handleCreate)
		manage.Put("/{id}", h.handleUpdate)
		manage.Patch("/{id}", h.handleUpdate)
		manage.Delete("/{id}", h.handleDelete)
		manage.Post("/{id}/assign", h.handleAssign)
		manage.Post("/{id}/return", h.handleReturn)
	})
}

func filterFrom(r *http.Request) device.Filter {
	page := shared.Page(r)
	return device.Filter{
		Status:     shared.Query(r, "status"),
		Type:       shared.Query(r, "type"),
		AssignedTo: shared.Query(r, "assignedTo"),
		Limit:      page.Limit,
		Offset:     page.Offset,
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
	var payload device.Input
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
	var payload device.Input
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
	api.Message(w, "device deleted", shared.RequestID(r))
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload device.AssignInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Assign(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

// handleReturn accepts an empty body; notes and condition are optional.
func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload device.ReturnInput
	if r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &payload); err != nil {
			shared.WriteError(w, r, err)
			return
		}
	}
	item, err := h.Service.Return(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}
