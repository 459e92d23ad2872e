package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"condogate/internal/condo/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/platform/sentinel"
)

type MemorySuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func (s *MemorySuite) newCondo(tenant, name, cnpj string) *models.Condo {
	condo, err := models.NewCondo(domain.NewCondoID(), tenant, name, cnpj, time.Now())
	s.Require().NoError(err)
	return condo
}

func (s *MemorySuite) TestCreateAndFind() {
	condo := s.newCondo("default", "Residencial Aurora", "11222333000181")
	s.Require().NoError(s.store.Create(s.ctx, condo))

	found, err := s.store.FindByID(s.ctx, "default", condo.ID)
	s.Require().NoError(err)
	s.Equal(condo.Name, found.Name)
	s.Equal("11222333000181", found.CNPJ)
}

func (s *MemorySuite) TestCreateDuplicateCNPJ() {
	s.Require().NoError(s.store.Create(s.ctx, s.newCondo("default", "Aurora", "11222333000181")))

	err := s.store.Create(s.ctx, s.newCondo("default", "Bela Vista", "11222333000181"))
	s.ErrorIs(err, ErrCNPJTaken)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *MemorySuite) TestTenantScoping() {
	condo := s.newCondo("tenant-a", "Aurora", "11222333000181")
	s.Require().NoError(s.store.Create(s.ctx, condo))

	_, err := s.store.FindByID(s.ctx, "tenant-b", condo.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// A different tenant may reuse the same registry number.
	s.NoError(s.store.Create(s.ctx, s.newCondo("tenant-b", "Aurora Sul", "11222333000181")))
}

func (s *MemorySuite) TestListFiltersAndPages() {
	s.Require().NoError(s.store.Create(s.ctx, s.newCondo("default", "Residencial Aurora", "11222333000181")))
	s.Require().NoError(s.store.Create(s.ctx, s.newCondo("default", "Bela Vista", "00000000000191")))
	s.Require().NoError(s.store.Create(s.ctx, s.newCondo("default", "Parque Aurora", "12345678000195")))

	condos, total, err := s.store.List(s.ctx, "default", ListFilter{
		Query: "aurora",
		Page:  pagination.Params{Page: 1, PageSize: 10},
	})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(condos, 2)

	condos, total, err = s.store.List(s.ctx, "default", ListFilter{
		Page: pagination.Params{Page: 2, PageSize: 2},
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(condos, 1)
}

func (s *MemorySuite) TestListMatchesCNPJSubstring() {
	s.Require().NoError(s.store.Create(s.ctx, s.newCondo("default", "Aurora", "11222333000181")))

	condos, total, err := s.store.List(s.ctx, "default", ListFilter{
		Query: "11222333",
		Page:  pagination.Params{Page: 1, PageSize: 10},
	})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Len(condos, 1)
}

func (s *MemorySuite) TestUpdate() {
	condo := s.newCondo("default", "Aurora", "11222333000181")
	s.Require().NoError(s.store.Create(s.ctx, condo))

	s.Require().NoError(condo.SetName("Aurora Renovado"))
	s.Require().NoError(s.store.Update(s.ctx, condo))

	found, err := s.store.FindByID(s.ctx, "default", condo.ID)
	s.Require().NoError(err)
	s.Equal("Aurora Renovado", found.Name)
}

func (s *MemorySuite) TestUpdateCNPJCollision() {
	first := s.newCondo("default", "Aurora", "11222333000181")
	second := s.newCondo("default", "Bela Vista", "00000000000191")
	s.Require().NoError(s.store.Create(s.ctx, first))
	s.Require().NoError(s.store.Create(s.ctx, second))

	s.Require().NoError(second.SetCNPJ("11222333000181"))
	s.ErrorIs(s.store.Update(s.ctx, second), ErrCNPJTaken)
}

func (s *MemorySuite) TestDelete() {
	condo := s.newCondo("default", "Aurora", "11222333000181")
	s.Require().NoError(s.store.Create(s.ctx, condo))

	s.Require().NoError(s.store.Delete(s.ctx, "default", condo.ID))
	s.ErrorIs(s.store.Delete(s.ctx, "default", condo.ID), sentinel.ErrNotFound)
}
