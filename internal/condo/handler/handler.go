package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"condogate/internal/condo/service"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/httputil"
	"condogate/pkg/platform/pagination"
)

const defaultPageSize = 10

// Handler exposes the condominium directory endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type CreateCondoRequest struct {
	Name string `json:"name"`
	CNPJ string `json:"cnpj"`
}

func (r *CreateCondoRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.CNPJ = strings.TrimSpace(r.CNPJ)
}

func (r *CreateCondoRequest) Validate() error {
	if r.Name == "" || r.CNPJ == "" {
		return dErrors.New(dErrors.CodeValidation, "name and cnpj are required")
	}
	return nil
}

type UpdateCondoRequest struct {
	Name *string `json:"name"`
	CNPJ *string `json:"cnpj"`
}

func (r *UpdateCondoRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.CNPJ != nil {
		trimmed := strings.TrimSpace(*r.CNPJ)
		r.CNPJ = &trimmed
	}
}

func (r *UpdateCondoRequest) Validate() error {
	if r.Name == nil && r.CNPJ == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[*CreateCondoRequest](w, r, h.logger)
	if !ok {
		return
	}

	condo, err := h.service.Create(r.Context(), req.Name, req.CNPJ)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, condo)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.FromQuery(q, defaultPageSize)

	condos, total, err := h.service.List(r.Context(), strings.TrimSpace(q.Get("q")), page)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewEnvelope(condos, total, page))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.condoID(w, r)
	if !ok {
		return
	}

	condo, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, condo)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.condoID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[*UpdateCondoRequest](w, r, h.logger)
	if !ok {
		return
	}

	condo, err := h.service.Update(r.Context(), id, service.UpdatePatch{Name: req.Name, CNPJ: req.CNPJ})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, condo)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.condoID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Counters(w http.ResponseWriter, r *http.Request) {
	id, ok := h.condoID(w, r)
	if !ok {
		return
	}

	counters, err := h.service.CountChildren(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counters)
}

func (h *Handler) condoID(w http.ResponseWriter, r *http.Request) (domain.CondoID, bool) {
	id, err := domain.ParseCondoID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.CondoID{}, false
	}
	return id, true
}
