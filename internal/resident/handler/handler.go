package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"condogate/internal/resident/service"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/httputil"
	"condogate/pkg/platform/pagination"
)

const defaultPageSize = 10

// Handler exposes the resident endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type CreateResidentRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	CondoID string  `json:"condoId"`
	UnitID  *string `json:"unitId"`
}

func (r *CreateResidentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.CondoID = strings.TrimSpace(r.CondoID)
}

func (r *CreateResidentRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.CondoID == "" {
		return dErrors.New(dErrors.CodeValidation, "name, email and condoId are required")
	}
	return nil
}

// UpdateResidentRequest patches identification fields and the unit link.
// unitId distinguishes absent (keep) from null (unlink) from a value
// (relink, subject to the occupancy checks).
type UpdateResidentRequest struct {
	Name   *string                   `json:"name"`
	Email  *string                   `json:"email"`
	Phone  *string                   `json:"phone"`
	UnitID httputil.Optional[string] `json:"unitId"`
}

func (r *UpdateResidentRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.Email != nil {
		trimmed := strings.TrimSpace(*r.Email)
		r.Email = &trimmed
	}
	if r.Phone != nil {
		trimmed := strings.TrimSpace(*r.Phone)
		r.Phone = &trimmed
	}
}

func (r *UpdateResidentRequest) Validate() error {
	if r.Name == nil && r.Email == nil && r.Phone == nil && !r.UnitID.Set {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[*CreateResidentRequest](w, r, h.logger)
	if !ok {
		return
	}
	condoID, err := domain.ParseCondoID(req.CondoID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	params := service.CreateParams{
		CondoID: condoID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
	}
	if req.UnitID != nil && strings.TrimSpace(*req.UnitID) != "" {
		unitID, err := domain.ParseUnitID(*req.UnitID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		params.UnitID = &unitID
	}

	resident, err := h.service.Create(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resident)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.FromQuery(q, defaultPageSize)

	condoID, err := domain.ParseCondoID(strings.TrimSpace(q.Get("condoId")))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "condoId query parameter is required"))
		return
	}

	residents, total, err := h.service.List(r.Context(), condoID, strings.TrimSpace(q.Get("q")), page)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewEnvelope(residents, total, page))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.residentID(w, r)
	if !ok {
		return
	}

	resident, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resident)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.residentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[*UpdateResidentRequest](w, r, h.logger)
	if !ok {
		return
	}

	patch := service.UpdatePatch{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		UnitSet: req.UnitID.Set,
	}
	if req.UnitID.Set && req.UnitID.Value != nil {
		unitID, err := domain.ParseUnitID(*req.UnitID.Value)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		patch.UnitID = &unitID
	}

	resident, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resident)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.residentID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) residentID(w http.ResponseWriter, r *http.Request) (domain.ResidentID, bool) {
	id, err := domain.ParseResidentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.ResidentID{}, false
	}
	return id, true
}
