package departmenthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/department"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *department.Service
}

func NewHandler(service *department.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/public-list", h.handlePublicList)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)

		manage := r.With(middleware.RequirePermission(auth.PermOrgManage))
		manage.Post("/", h.handleCreate)
		manage.Put("/{id}", h.handleUpdate)
		manage.Patch("/{id}", h.handleUpdate)
		manage.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handlePublicList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.PublicList(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	page := shared.Page(r)
	items, err := h.Service.List(r.Context(), actor, department.Filter{
		Query:  shared.Query(r, "q"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
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
	var payload department.Input
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
	var payload department.Input
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
	api.Message(w, "department deleted", shared.RequestID(r))
}
