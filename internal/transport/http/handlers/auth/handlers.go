package authhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service   *auth.Service
	Employees *employee.Service
}

func NewHandler(service *auth.Service, employees *employee.Service) *Handler {
	return &Handler{Service: service, Employees: employees}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Get("/me", h.handleMe)
		r.Post("/change-password", h.handleChangePassword)
	})
}

type meResponse struct {
	User     auth.User          `json:"user"`
	Employee *employee.Employee `json:"employee,omitempty"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload auth.RegisterInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	session, err := h.Service.Register(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	log.WithField("userId", session.User.ID).WithField("role", session.User.Role).Info("user registered")
	api.Created(w, session, shared.RequestID(r))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload auth.LoginInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	session, err := h.Service.Login(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, session, shared.RequestID(r))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	user, err := h.Service.Me(r.Context(), actor)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	resp := meResponse{User: user}
	if actor.EmployeeID != "" && h.Employees != nil {
		emp, err := h.Employees.Get(r.Context(), actor, actor.EmployeeID)
		switch {
		case err == nil:
			resp.Employee = &emp
		case apperr.KindOf(err) != apperr.KindNotFound:
			shared.WriteError(w, r, err)
			return
		}
	}
	api.Success(w, resp, shared.RequestID(r))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload auth.ChangePasswordInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.ChangePassword(r.Context(), actor, payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Message(w, "password updated", shared.RequestID(r))
}
