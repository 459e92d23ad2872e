package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condogate/internal/condo/store"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/pagination"
)

type fixedCounter int

func (c fixedCounter) CountByCondo(context.Context, domain.CondoID) (int, error) {
	return int(c), nil
}

func newTestService(opts ...Option) *Service {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(store.NewMemory(), logger, opts...)
}

func TestCreateValidCondo(t *testing.T) {
	svc := newTestService()

	condo, err := svc.Create(context.Background(), "  Residencial Aurora  ", "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "Residencial Aurora", condo.Name)
	assert.Equal(t, "11222333000181", condo.CNPJ, "cnpj stored as bare digits")
	assert.False(t, condo.ID.IsNil())
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "A", "11222333000181")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "single-character name")

	_, err = svc.Create(ctx, "Aurora", "11222333000182")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "wrong check digit")

	_, err = svc.Create(ctx, "Aurora", "11111111111111")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "repeated digits")
}

func TestCreateDuplicateCNPJConflicts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "Aurora", "11222333000181")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Bela Vista", "11222333000181")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	condo, err := svc.Create(ctx, "Aurora", "11222333000181")
	require.NoError(t, err)

	name := "Aurora Renovado"
	updated, err := svc.Update(ctx, condo.ID, UpdatePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Aurora Renovado", updated.Name)
	assert.Equal(t, condo.CNPJ, updated.CNPJ, "untouched field keeps its value")

	_, err = svc.Update(ctx, domain.NewCondoID(), UpdatePatch{Name: &name})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDeleteBlockedByDependents(t *testing.T) {
	svc := newTestService(WithChildCounters(fixedCounter(2), fixedCounter(0), fixedCounter(0)))
	ctx := context.Background()

	condo, err := svc.Create(ctx, "Aurora", "11222333000181")
	require.NoError(t, err)

	err = svc.Delete(ctx, condo.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	// Still present after the refused delete.
	_, err = svc.Get(ctx, condo.ID)
	assert.NoError(t, err)
}

func TestDeleteWithoutDependents(t *testing.T) {
	svc := newTestService(WithChildCounters(fixedCounter(0), fixedCounter(0), fixedCounter(0)))
	ctx := context.Background()

	condo, err := svc.Create(ctx, "Aurora", "11222333000181")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, condo.ID))

	_, err = svc.Get(ctx, condo.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCountChildren(t *testing.T) {
	svc := newTestService(WithChildCounters(fixedCounter(4), fixedCounter(3), fixedCounter(9)))
	ctx := context.Background()

	condo, err := svc.Create(ctx, "Aurora", "11222333000181")
	require.NoError(t, err)

	counters, err := svc.CountChildren(ctx, condo.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, counters.Units)
	assert.Equal(t, 3, counters.Residents)

	_, err = svc.CountChildren(ctx, domain.NewCondoID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListPagesResults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, c := range []struct{ name, cnpj string }{
		{"Residencial Aurora", "11222333000181"},
		{"Bela Vista", "00000000000191"},
		{"Parque Aurora", "12345678000195"},
	} {
		_, err := svc.Create(ctx, c.name, c.cnpj)
		require.NoError(t, err)
	}

	condos, total, err := svc.List(ctx, "aurora", pagination.Params{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, condos, 1)
}
