package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"condogate/internal/resident/models"
	"condogate/pkg/domain"
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

func (s *MemorySuite) newResident(condoID domain.CondoID, email string, unitID *domain.UnitID) *models.Resident {
	resident, err := models.NewResident(domain.NewResidentID(), condoID, "Resident", email, "", time.Now())
	s.Require().NoError(err)
	resident.UnitID = unitID
	return resident
}

func (s *MemorySuite) TestEmailConstraint() {
	condoID := domain.NewCondoID()
	s.Require().NoError(s.store.Create(s.ctx, s.newResident(condoID, "ana@condo.test", nil)))

	err := s.store.Create(s.ctx, s.newResident(condoID, "ana@condo.test", nil))
	s.ErrorIs(err, ErrEmailTaken)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *MemorySuite) TestUnitConstraint() {
	condoID := domain.NewCondoID()
	unitID := domain.NewUnitID()
	s.Require().NoError(s.store.Create(s.ctx, s.newResident(condoID, "ana@condo.test", &unitID)))

	err := s.store.Create(s.ctx, s.newResident(condoID, "bruno@condo.test", &unitID))
	s.ErrorIs(err, ErrUnitOccupied)
}

func (s *MemorySuite) TestUpdateDoesNotSelfConflict() {
	condoID := domain.NewCondoID()
	unitID := domain.NewUnitID()
	resident := s.newResident(condoID, "ana@condo.test", &unitID)
	s.Require().NoError(s.store.Create(s.ctx, resident))

	resident.SetPhone("+55 11 98888-7777")
	s.NoError(s.store.Update(s.ctx, resident), "a row must not collide with itself")
}

func (s *MemorySuite) TestOccupantOf() {
	condoID := domain.NewCondoID()
	unitID := domain.NewUnitID()
	resident := s.newResident(condoID, "ana@condo.test", &unitID)
	s.Require().NoError(s.store.Create(s.ctx, resident))

	occupant, occupied, err := s.store.OccupantOf(s.ctx, unitID)
	s.Require().NoError(err)
	s.True(occupied)
	s.Equal(resident.ID, occupant)

	_, occupied, err = s.store.OccupantOf(s.ctx, domain.NewUnitID())
	s.Require().NoError(err)
	s.False(occupied)

	occupiedFlag, err := s.store.UnitOccupied(s.ctx, unitID)
	s.Require().NoError(err)
	s.True(occupiedFlag)
}
