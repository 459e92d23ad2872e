package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	condoservice "condogate/internal/condo/service"
	condostore "condogate/internal/condo/store"
	unitservice "condogate/internal/unit/service"
	unitstore "condogate/internal/unit/store"
	"condogate/internal/visitor/models"
	"condogate/internal/visitor/service"
	"condogate/internal/visitor/store"
	"condogate/pkg/domain"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/testutil"
)

type fixture struct {
	router  chi.Router
	condoID domain.CondoID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	condos := condoservice.New(condostore.NewMemory(), logger)
	condo, err := condos.Create(ctx, "Residencial Aurora", "11222333000181")
	require.NoError(t, err)

	units := unitservice.New(unitstore.NewMemory(), condos, logger)

	h := New(service.New(store.NewMemory(), condos, units, logger), logger)
	r := chi.NewRouter()
	r.Route("/visitors", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/reject", h.Reject)
		r.Post("/{id}/checkout", h.Checkout)
		r.Post("/{id}/handoff", h.Handoff)
	})
	return &fixture{router: r, condoID: condo.ID}
}

func (f *fixture) create(t *testing.T, body map[string]any) *models.Entry {
	t.Helper()
	if _, ok := body["condoId"]; !ok {
		body["condoId"] = f.condoID.String()
	}
	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/visitors", body))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Entry](t, rec)
}

func TestCreateEntryEndpoint(t *testing.T) {
	f := newFixture(t)

	t.Run("status forced to pending", func(t *testing.T) {
		entry := f.create(t, map[string]any{
			"name": "Carlos", "kind": "VISITOR", "status": "APPROVED",
		})
		assert.Equal(t, models.StatusPending, entry.Status, "client-sent status is ignored")
	})

	t.Run("kind defaults to visitor", func(t *testing.T) {
		entry := f.create(t, map[string]any{"name": "Dora"})
		assert.Equal(t, models.KindVisitor, entry.Kind)
	})

	t.Run("explicit check-in honored", func(t *testing.T) {
		entry := f.create(t, map[string]any{
			"name":          "Frota",
			"checkInAt":     "2026-08-28T08:30:00Z",
			"expectedOutAt": "2026-08-28T11:00:00Z",
		})
		assert.Equal(t, "2026-08-28T08:30:00Z", entry.CheckInAt.UTC().Format(time.RFC3339))
		require.NotNil(t, entry.ExpectedOutAt)
		assert.Equal(t, "2026-08-28T11:00:00Z", entry.ExpectedOutAt.UTC().Format(time.RFC3339))
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/visitors",
			map[string]any{"name": "Eva", "kind": "DRONE", "condoId": f.condoID.String()}))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown condo", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/visitors",
			map[string]any{"name": "Eva", "condoId": domain.NewCondoID().String()}))
		testutil.AssertStatus(t, rec, http.StatusNotFound)
	})
}

func TestActionEndpoints(t *testing.T) {
	f := newFixture(t)
	entry := f.create(t, map[string]any{"name": "Courier", "kind": "DELIVERY", "carrier": "Sedex", "packages": 1})

	post := func(action string, body any) *bytes.Buffer {
		t.Helper()
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
			"/visitors/"+entry.ID.String()+"/"+action, body))
		testutil.AssertStatus(t, rec, http.StatusOK)
		return rec.Body
	}

	post("approve", nil)
	post("handoff", nil)
	post("checkout", nil)

	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/visitors/"+entry.ID.String()+"/checkout", nil))
	testutil.AssertStatus(t, rec, http.StatusConflict)
}

func TestRejectEndpointWithOptionalBody(t *testing.T) {
	f := newFixture(t)

	withReason := f.create(t, map[string]any{"name": "Carlos"})
	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/visitors/"+withReason.ID.String()+"/reject", map[string]string{"reason": "unexpected"}))
	testutil.AssertStatus(t, rec, http.StatusOK)
	body := testutil.UnmarshalResponse[models.Entry](t, rec)
	assert.Equal(t, "unexpected", body.RejectionReason)

	withoutBody := f.create(t, map[string]any{"name": "Dora"})
	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/visitors/"+withoutBody.ID.String()+"/reject", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	body = testutil.UnmarshalResponse[models.Entry](t, rec)
	assert.Equal(t, models.StatusRejected, body.Status)
	assert.Empty(t, body.RejectionReason)
}

func TestRejectApprovedEntryConflicts(t *testing.T) {
	f := newFixture(t)
	entry := f.create(t, map[string]any{"name": "Carlos"})

	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/visitors/"+entry.ID.String()+"/approve", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/visitors/"+entry.ID.String()+"/reject", nil))
	testutil.AssertStatus(t, rec, http.StatusConflict)
	testutil.AssertErrorCode(t, rec, "conflict")
}

func TestListEntriesEndpoint(t *testing.T) {
	f := newFixture(t)
	f.create(t, map[string]any{"name": "Carlos", "kind": "VISITOR"})
	f.create(t, map[string]any{"name": "Courier", "kind": "DELIVERY"})

	t.Run("condoId required", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/visitors", nil))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("default page size", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet,
			"/visitors?condoId="+f.condoID.String(), nil))
		testutil.AssertStatus(t, rec, http.StatusOK)
		body := testutil.UnmarshalResponse[pagination.Envelope[models.Entry]](t, rec)
		assert.Equal(t, 8, body.PageSize)
		assert.Equal(t, 2, body.Total)
	})

	t.Run("kind filter with ALL sentinel", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet,
			"/visitors?condoId="+f.condoID.String()+"&kind=DELIVERY", nil))
		body := testutil.UnmarshalResponse[pagination.Envelope[models.Entry]](t, rec)
		assert.Equal(t, 1, body.Total)

		rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet,
			"/visitors?condoId="+f.condoID.String()+"&kind=ALL&status=ALL", nil))
		body = testutil.UnmarshalResponse[pagination.Envelope[models.Entry]](t, rec)
		assert.Equal(t, 2, body.Total)
	})

	t.Run("bad sort field", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet,
			"/visitors?condoId="+f.condoID.String()+"&sortBy=plate", nil))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("bad time bound", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet,
			"/visitors?condoId="+f.condoID.String()+"&from=yesterday", nil))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestUpdateEntryEndpointIgnoresStatus(t *testing.T) {
	f := newFixture(t)
	entry := f.create(t, map[string]any{"name": "Carlos"})

	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPut,
		"/visitors/"+entry.ID.String(),
		map[string]any{"name": "Carlos Silva", "status": "APPROVED"}))
	testutil.AssertStatus(t, rec, http.StatusOK)
	body := testutil.UnmarshalResponse[models.Entry](t, rec)
	assert.Equal(t, "Carlos Silva", body.Name)
	assert.Equal(t, models.StatusPending, body.Status, "status is not patchable")
}

func TestDeleteEntryEndpoint(t *testing.T) {
	f := newFixture(t)
	entry := f.create(t, map[string]any{"name": "Carlos"})

	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodDelete,
		"/visitors/"+entry.ID.String(), nil))
	testutil.AssertStatus(t, rec, http.StatusNoContent)

	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodDelete,
		"/visitors/"+entry.ID.String(), nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}
