package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	condoservice "condogate/internal/condo/service"
	condostore "condogate/internal/condo/store"
	"condogate/internal/resident/models"
	"condogate/internal/resident/service"
	"condogate/internal/resident/store"
	unitservice "condogate/internal/unit/service"
	unitstore "condogate/internal/unit/store"
	"condogate/pkg/domain"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/testutil"
)

type fixture struct {
	router  chi.Router
	condoID domain.CondoID
	unitID  domain.UnitID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	condos := condoservice.New(condostore.NewMemory(), logger)
	condo, err := condos.Create(ctx, "Residencial Aurora", "11222333000181")
	require.NoError(t, err)

	units := unitservice.New(unitstore.NewMemory(), condos, logger)
	unit, err := units.Create(ctx, condo.ID, "101", "A")
	require.NoError(t, err)

	h := New(service.New(store.NewMemory(), condos, units, logger), logger)
	r := chi.NewRouter()
	r.Route("/residents", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return &fixture{router: r, condoID: condo.ID, unitID: unit.ID}
}

func TestCreateResidentEndpoint(t *testing.T) {
	f := newFixture(t)

	t.Run("created with unit", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/residents",
			map[string]any{
				"name": "Ana", "email": "ana@condo.test",
				"condoId": f.condoID.String(), "unitId": f.unitID.String(),
			}))
		testutil.AssertStatus(t, rec, http.StatusCreated)
		body := testutil.UnmarshalResponse[models.Resident](t, rec)
		require.NotNil(t, body.UnitID)
		assert.Equal(t, f.unitID, *body.UnitID)
	})

	t.Run("occupied unit conflicts", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/residents",
			map[string]any{
				"name": "Bruno", "email": "bruno@condo.test",
				"condoId": f.condoID.String(), "unitId": f.unitID.String(),
			}))
		testutil.AssertStatus(t, rec, http.StatusConflict)
		testutil.AssertErrorCode(t, rec, "conflict")
	})

	t.Run("unknown unit", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/residents",
			map[string]any{
				"name": "Clara", "email": "clara@condo.test",
				"condoId": f.condoID.String(), "unitId": domain.NewUnitID().String(),
			}))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rec, "validation_error")
	})

	t.Run("literal null body", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/residents",
			json.RawMessage("null")))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rec, "bad_request")
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/residents",
			map[string]any{"name": "Dora", "email": "not-an-email", "condoId": f.condoID.String()}))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestUpdateResidentUnlinksOnExplicitNull(t *testing.T) {
	f := newFixture(t)

	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/residents",
		map[string]any{
			"name": "Ana", "email": "ana@condo.test",
			"condoId": f.condoID.String(), "unitId": f.unitID.String(),
		}))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	created := testutil.UnmarshalResponse[models.Resident](t, rec)

	// Explicit null clears the link.
	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPut, "/residents/"+created.ID.String(),
		map[string]any{"unitId": nil}))
	testutil.AssertStatus(t, rec, http.StatusOK)
	body := testutil.UnmarshalResponse[models.Resident](t, rec)
	assert.Nil(t, body.UnitID)

	// An absent unitId leaves the link alone.
	name := map[string]any{"name": "Ana Maria"}
	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPut, "/residents/"+created.ID.String(),
		map[string]any{"unitId": f.unitID.String()}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPut, "/residents/"+created.ID.String(), name))
	testutil.AssertStatus(t, rec, http.StatusOK)
	body = testutil.UnmarshalResponse[models.Resident](t, rec)
	assert.Equal(t, "Ana Maria", body.Name)
	require.NotNil(t, body.UnitID)
	assert.Equal(t, f.unitID, *body.UnitID)
}

func TestListResidentsRequiresCondoID(t *testing.T) {
	f := newFixture(t)

	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/residents", nil))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet,
		"/residents?condoId="+f.condoID.String(), nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	body := testutil.UnmarshalResponse[pagination.Envelope[models.Resident]](t, rec)
	assert.Zero(t, body.Total)
}

func TestDeleteResidentEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/residents",
		map[string]any{"name": "Ana", "email": "ana@condo.test", "condoId": f.condoID.String()}))
	created := testutil.UnmarshalResponse[models.Resident](t, rec)

	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodDelete, "/residents/"+created.ID.String(), nil))
	testutil.AssertStatus(t, rec, http.StatusNoContent)

	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodDelete, "/residents/"+created.ID.String(), nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}
