package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"condogate/internal/unit/service"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/httputil"
	"condogate/pkg/platform/pagination"
)

const defaultPageSize = 10

// Handler exposes the unit registry endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type CreateUnitRequest struct {
	Number  string `json:"number"`
	Block   string `json:"block"`
	CondoID string `json:"condoId"`
}

func (r *CreateUnitRequest) Normalize() {
	r.Number = strings.TrimSpace(r.Number)
	r.Block = strings.TrimSpace(r.Block)
	r.CondoID = strings.TrimSpace(r.CondoID)
}

func (r *CreateUnitRequest) Validate() error {
	if r.Number == "" || r.CondoID == "" {
		return dErrors.New(dErrors.CodeValidation, "number and condoId are required")
	}
	return nil
}

// UpdateUnitRequest patches number and block. A condoId in the body is
// ignored; units never change condominium.
type UpdateUnitRequest struct {
	Number *string `json:"number"`
	Block  *string `json:"block"`
}

func (r *UpdateUnitRequest) Normalize() {
	if r.Number != nil {
		trimmed := strings.TrimSpace(*r.Number)
		r.Number = &trimmed
	}
	if r.Block != nil {
		trimmed := strings.TrimSpace(*r.Block)
		r.Block = &trimmed
	}
}

func (r *UpdateUnitRequest) Validate() error {
	if r.Number == nil && r.Block == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[*CreateUnitRequest](w, r, h.logger)
	if !ok {
		return
	}
	condoID, err := domain.ParseCondoID(req.CondoID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	unit, err := h.service.Create(r.Context(), condoID, req.Number, req.Block)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, unit)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.FromQuery(q, defaultPageSize)

	var condoID *domain.CondoID
	if raw := strings.TrimSpace(q.Get("condoId")); raw != "" {
		parsed, err := domain.ParseCondoID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		condoID = &parsed
	}

	units, total, err := h.service.List(r.Context(), condoID, strings.TrimSpace(q.Get("q")), page)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewEnvelope(units, total, page))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.unitID(w, r)
	if !ok {
		return
	}

	unit, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, unit)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.unitID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[*UpdateUnitRequest](w, r, h.logger)
	if !ok {
		return
	}

	unit, err := h.service.Update(r.Context(), id, service.UpdatePatch{Number: req.Number, Block: req.Block})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, unit)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.unitID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unitID(w http.ResponseWriter, r *http.Request) (domain.UnitID, bool) {
	id, err := domain.ParseUnitID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.UnitID{}, false
	}
	return id, true
}
