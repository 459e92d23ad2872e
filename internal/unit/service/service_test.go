package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	condoservice "condogate/internal/condo/service"
	condostore "condogate/internal/condo/store"
	"condogate/internal/unit/store"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/pagination"
)

type staticOccupancy bool

func (o staticOccupancy) UnitOccupied(context.Context, domain.UnitID) (bool, error) {
	return bool(o), nil
}

type fixture struct {
	svc     *Service
	condoID domain.CondoID
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	condos := condoservice.New(condostore.NewMemory(), logger)

	condo, err := condos.Create(context.Background(), "Residencial Aurora", "11222333000181")
	require.NoError(t, err)

	return &fixture{
		svc:     New(store.NewMemory(), condos, logger, opts...),
		condoID: condo.ID,
	}
}

func TestCreateUnit(t *testing.T) {
	f := newFixture(t)

	unit, err := f.svc.Create(context.Background(), f.condoID, " 101 ", " A ")
	require.NoError(t, err)
	assert.Equal(t, "101", unit.Number)
	assert.Equal(t, "A", unit.Block)
	assert.Equal(t, f.condoID, unit.CondoID)
}

func TestCreateUnitUnknownCondo(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.NewCondoID(), "101", "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCreateUnitToleratesDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.condoID, "101", "A")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.condoID, "101", "A")
	assert.NoError(t, err, "number+block duplicates are allowed")
}

func TestUpdateUnitKeepsCondo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unit, err := f.svc.Create(ctx, f.condoID, "101", "A")
	require.NoError(t, err)

	number := "102"
	updated, err := f.svc.Update(ctx, unit.ID, UpdatePatch{Number: &number})
	require.NoError(t, err)
	assert.Equal(t, "102", updated.Number)
	assert.Equal(t, "A", updated.Block)
	assert.Equal(t, f.condoID, updated.CondoID)
}

func TestUpdateUnitRejectsBlankNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unit, err := f.svc.Create(ctx, f.condoID, "101", "")
	require.NoError(t, err)

	blank := "   "
	_, err = f.svc.Update(ctx, unit.ID, UpdatePatch{Number: &blank})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestDeleteOccupiedUnitConflicts(t *testing.T) {
	f := newFixture(t, WithOccupancyChecker(staticOccupancy(true)))
	ctx := context.Background()

	unit, err := f.svc.Create(ctx, f.condoID, "101", "")
	require.NoError(t, err)

	err = f.svc.Delete(ctx, unit.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = f.svc.Get(ctx, unit.ID)
	assert.NoError(t, err, "refused delete leaves the unit in place")
}

func TestDeleteVacantUnit(t *testing.T) {
	f := newFixture(t, WithOccupancyChecker(staticOccupancy(false)))
	ctx := context.Background()

	unit, err := f.svc.Create(ctx, f.condoID, "101", "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, unit.ID))

	_, err = f.svc.Get(ctx, unit.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListUnitsScopedToCondo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.condoID, "101", "A")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.condoID, "202", "B")
	require.NoError(t, err)

	units, total, err := f.svc.List(ctx, &f.condoID, "", pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, units, 2)

	other := domain.NewCondoID()
	_, total, err = f.svc.List(ctx, &other, "", pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	units, total, err = f.svc.List(ctx, &f.condoID, "b", pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, units, 1)
	assert.Equal(t, "202", units[0].Number)
}
