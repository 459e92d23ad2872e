package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"condogate/internal/visitor/models"
	"condogate/internal/visitor/service"
	"condogate/internal/visitor/store"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/httputil"
	"condogate/pkg/platform/pagination"
)

// The gate board shows eight entries per screen.
const defaultPageSize = 8

// all is the status/kind filter sentinel meaning "no filter".
const all = "ALL"

// Handler exposes the visitor entry endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type CreateEntryRequest struct {
	CondoID       string     `json:"condoId"`
	UnitID        *string    `json:"unitId"`
	Kind          string     `json:"kind"`
	Name          string     `json:"name"`
	Document      string     `json:"document"`
	Plate         string     `json:"plate"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Note          string     `json:"note"`
	Carrier       string     `json:"carrier"`
	Packages      int        `json:"packages"`
	CheckInAt     *time.Time `json:"checkInAt"`
	ExpectedInAt  *time.Time `json:"expectedInAt"`
	ExpectedOutAt *time.Time `json:"expectedOutAt"`
}

func (r *CreateEntryRequest) Normalize() {
	r.CondoID = strings.TrimSpace(r.CondoID)
	r.Kind = strings.ToUpper(strings.TrimSpace(r.Kind))
	r.Name = strings.TrimSpace(r.Name)
	r.Document = strings.TrimSpace(r.Document)
	r.Plate = strings.ToUpper(strings.TrimSpace(r.Plate))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	if r.Kind == "" {
		r.Kind = string(models.KindVisitor)
	}
}

func (r *CreateEntryRequest) Validate() error {
	if r.Name == "" || r.CondoID == "" {
		return dErrors.New(dErrors.CodeValidation, "name and condoId are required")
	}
	if _, err := models.ParseKind(r.Kind); err != nil {
		return err
	}
	return nil
}

type UpdateEntryRequest struct {
	Name          *string                   `json:"name"`
	Document      *string                   `json:"document"`
	Plate         *string                   `json:"plate"`
	Phone         *string                   `json:"phone"`
	Email         *string                   `json:"email"`
	Note          *string                   `json:"note"`
	Carrier       *string                   `json:"carrier"`
	Packages      *int                      `json:"packages"`
	ExpectedInAt  *time.Time                `json:"expectedInAt"`
	ExpectedOutAt *time.Time                `json:"expectedOutAt"`
	UnitID        httputil.Optional[string] `json:"unitId"`
}

func (r *UpdateEntryRequest) Normalize() {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*s)
		return &trimmed
	}
	r.Name = trim(r.Name)
	r.Document = trim(r.Document)
	r.Phone = trim(r.Phone)
	r.Email = trim(r.Email)
	if r.Plate != nil {
		upper := strings.ToUpper(strings.TrimSpace(*r.Plate))
		r.Plate = &upper
	}
}

func (r *UpdateEntryRequest) Validate() error {
	if r.Name == nil && r.Document == nil && r.Plate == nil && r.Phone == nil &&
		r.Email == nil && r.Note == nil && r.Carrier == nil && r.Packages == nil &&
		r.ExpectedInAt == nil && r.ExpectedOutAt == nil && !r.UnitID.Set {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

type RejectEntryRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectEntryRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *RejectEntryRequest) Validate() error { return nil }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[*CreateEntryRequest](w, r, h.logger)
	if !ok {
		return
	}
	condoID, err := domain.ParseCondoID(req.CondoID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	params := service.CreateParams{
		CondoID:       condoID,
		Kind:          models.Kind(req.Kind),
		Name:          req.Name,
		Document:      req.Document,
		Plate:         req.Plate,
		Phone:         req.Phone,
		Email:         req.Email,
		Note:          req.Note,
		Carrier:       req.Carrier,
		Packages:      req.Packages,
		CheckInAt:     req.CheckInAt,
		ExpectedInAt:  req.ExpectedInAt,
		ExpectedOutAt: req.ExpectedOutAt,
	}
	if req.UnitID != nil && strings.TrimSpace(*req.UnitID) != "" {
		unitID, err := domain.ParseUnitID(*req.UnitID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		params.UnitID = &unitID
	}

	entry, err := h.service.Create(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, total, err := h.service.List(r.Context(), *filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewEnvelope(entries, total, filter.Page))
}

func listFilterFromQuery(r *http.Request) (*store.ListFilter, error) {
	q := r.URL.Query()

	condoID, err := domain.ParseCondoID(strings.TrimSpace(q.Get("condoId")))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "condoId query parameter is required")
	}

	filter := &store.ListFilter{
		CondoID: condoID,
		Query:   strings.TrimSpace(q.Get("q")),
		Page:    pagination.FromQuery(q, defaultPageSize),
	}

	if raw := strings.TrimSpace(q.Get("unitId")); raw != "" {
		unitID, err := domain.ParseUnitID(raw)
		if err != nil {
			return nil, err
		}
		filter.UnitID = &unitID
	}
	if raw := strings.ToUpper(strings.TrimSpace(q.Get("status"))); raw != "" && raw != all {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if raw := strings.ToUpper(strings.TrimSpace(q.Get("kind"))); raw != "" && raw != all {
		kind, err := models.ParseKind(raw)
		if err != nil {
			return nil, err
		}
		filter.Kind = &kind
	}
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "from must be an RFC 3339 timestamp")
		}
		filter.From = &from
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "to must be an RFC 3339 timestamp")
		}
		filter.To = &to
	}

	switch sortBy := strings.TrimSpace(q.Get("sortBy")); sortBy {
	case "", string(store.SortByCheckIn):
		filter.SortBy = store.SortByCheckIn
	case string(store.SortByCheckOut):
		filter.SortBy = store.SortByCheckOut
	case string(store.SortByName):
		filter.SortBy = store.SortByName
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "sortBy must be checkInAt, checkOutAt, or name")
	}
	switch sortDir := strings.ToLower(strings.TrimSpace(q.Get("sortDir"))); sortDir {
	case "", "desc":
	case "asc":
		filter.Ascending = true
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "sortDir must be asc or desc")
	}
	return filter, nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[*UpdateEntryRequest](w, r, h.logger)
	if !ok {
		return
	}

	patch := service.UpdatePatch{
		Name:          req.Name,
		Document:      req.Document,
		Plate:         req.Plate,
		Phone:         req.Phone,
		Email:         req.Email,
		Note:          req.Note,
		Carrier:       req.Carrier,
		Packages:      req.Packages,
		ExpectedInAt:  req.ExpectedInAt,
		ExpectedOutAt: req.ExpectedOutAt,
		UnitSet:       req.UnitID.Set,
	}
	if req.UnitID.Set && req.UnitID.Value != nil {
		unitID, err := domain.ParseUnitID(*req.UnitID.Value)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		patch.UnitID = &unitID
	}

	entry, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	// The reject body is optional; an empty body means no reason.
	var reason string
	if r.Body != nil && r.ContentLength != 0 {
		req, ok := httputil.Decode[*RejectEntryRequest](w, r, h.logger)
		if !ok {
			return
		}
		reason = req.Reason
	}

	entry, err := h.service.Reject(r.Context(), id, reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.service.Checkout)
}

func (h *Handler) Handoff(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.service.Handoff)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request, do func(context.Context, domain.EntryID) (*models.Entry, error)) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	entry, err := do(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (domain.EntryID, bool) {
	id, err := domain.ParseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.EntryID{}, false
	}
	return id, true
}
