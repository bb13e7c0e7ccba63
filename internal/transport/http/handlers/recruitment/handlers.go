package recruitmenthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/recruitment"
	"hrms/internal/platform/export"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *recruitment.Service
}

func NewHandler(service *recruitment.Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts job postings and applicants. Job reads are public;
// anonymous callers only ever see active postings.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.handleListJobs)
		r.Post("/", h.handleCreateJob)
		r.Get("/{id}", h.handleGetJob)
		r.Put("/{id}", h.handleUpdateJob)
		r.Patch("/{id}", h.handleUpdateJob)
		r.Delete("/{id}", h.handleDeleteJob)
	})
	r.Route("/applicants", func(r chi.Router) {
		r.Get("/", h.handleListApplicants)
		r.Post("/", h.handleCreateApplicant)
		r.Get("/export", h.handleExportApplicants)
		r.Get("/{id}", h.handleGetApplicant)
		r.Put("/{id}", h.handleUpdateApplicant)
		r.Patch("/{id}", h.handleUpdateApplicant)
		r.Delete("/{id}", h.handleDeleteApplicant)
		r.Patch("/{id}/status", h.handleApplicantStatus)
		r.Post("/{id}/status", h.handleApplicantStatus)
	})
}

func jobFilterFrom(r *http.Request) recruitment.JobFilter {
	page := shared.Page(r)
	return recruitment.JobFilter{
		Status:       shared.Query(r, "status"),
		DepartmentID: shared.Query(r, "department"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
}

func applicantFilterFrom(r *http.Request) recruitment.ApplicantFilter {
	page := shared.Page(r)
	return recruitment.ApplicantFilter{
		Status: shared.Query(r, "status"),
		JobID:  shared.Query(r, "jobId"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListJobs(r.Context(), shared.OptionalActor(r), jobFilterFrom(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GetJob(r.Context(), shared.OptionalActor(r), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

func (h *Handler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload recruitment.JobInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.CreateJob(r.Context(), actor, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, item, shared.RequestID(r))
}

func (h *Handler) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload recruitment.JobInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.UpdateJob(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

func (h *Handler) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteJob(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Message(w, "job deleted", shared.RequestID(r))
}

func (h *Handler) handleListApplicants(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListApplicants(r.Context(), actor, applicantFilterFrom(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleGetApplicant(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	item, err := h.Service.GetApplicant(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

func (h *Handler) handleCreateApplicant(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload recruitment.ApplicantInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.CreateApplicant(r.Context(), actor, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, item, shared.RequestID(r))
}

func (h *Handler) handleUpdateApplicant(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload recruitment.ApplicantInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.UpdateApplicant(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

func (h *Handler) handleDeleteApplicant(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteApplicant(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Message(w, "applicant deleted", shared.RequestID(r))
}

func (h *Handler) handleApplicantStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload recruitment.StatusInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.TransitionApplicant(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, shared.RequestID(r))
}

func (h *Handler) handleExportApplicants(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	filter := applicantFilterFrom(r)
	filter.Limit, filter.Offset = shared.ExportLimit, 0
	buf, err := h.Service.ExportApplicants(r.Context(), actor, filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.File(w, export.ContentTypeXLSX, "applicants.xlsx", buf.Bytes())
}
