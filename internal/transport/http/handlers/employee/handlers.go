package employeehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/employee"
	"hrms/internal/platform/export"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/export", h.handleExport)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func filterFrom(r *http.Request) employee.Filter {
	page := shared.Page(r)
	return employee.Filter{
		DepartmentID: shared.Query(r, "department"),
		Status:       shared.Query(r, "status"),
		Query:        shared.Query(r, "q"),
		Limit:        page.Limit,
		Offset:       page.Offset,
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
	var payload employee.Input
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
	var payload employee.Input
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
	api.Message(w, "employee deleted", shared.RequestID(r))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	filter := filterFrom(r)
	filter.Limit, filter.Offset = shared.ExportLimit, 0
	buf, err := h.Service.Export(r.Context(), actor, filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.File(w, export.ContentTypeXLSX, "employees.xlsx", buf.Bytes())
}
