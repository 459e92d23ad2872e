package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"condogate/internal/resident/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Memory is an in-memory resident store. It enforces the same email and
// unit uniqueness the database constraints do.
type Memory struct {
	mu        sync.Mutex
	residents map[domain.ResidentID]models.Resident
}

func NewMemory() *Memory {
	return &Memory{residents: make(map[domain.ResidentID]models.Resident)}
}

func (s *Memory) Create(_ context.Context, resident *models.Resident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(resident); err != nil {
		return err
	}
	s.residents[resident.ID] = *resident
	return nil
}

func (s *Memory) FindByID(_ context.Context, id domain.ResidentID) (*models.Resident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resident, ok := s.residents[id]; ok {
		r := resident
		return &r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Memory) List(_ context.Context, filter ListFilter) ([]models.Resident, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(filter.Query)
	var matched []models.Resident
	for _, resident := range s.residents {
		if resident.CondoID != filter.CondoID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(resident.Name), query) &&
			!strings.Contains(strings.ToLower(resident.Email), query) &&
			!strings.Contains(resident.Phone, query) {
			continue
		}
		matched = append(matched, resident)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	total := len(matched)
	start := filter.Page.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Page.Limit()
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Memory) Update(_ context.Context, resident *models.Resident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.residents[resident.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkUnique(resident); err != nil {
		return err
	}
	s.residents[resident.ID] = *resident
	return nil
}

func (s *Memory) Delete(_ context.Context, id domain.ResidentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.residents[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.residents, id)
	return nil
}

func (s *Memory) CountByCondo(_ context.Context, condoID domain.CondoID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, resident := range s.residents {
		if resident.CondoID == condoID {
			count++
		}
	}
	return count, nil
}

// OccupantOf reports which resident, if any, currently holds the unit.
func (s *Memory) OccupantOf(_ context.Context, unitID domain.UnitID) (domain.ResidentID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occupantLocked(unitID)
}

// UnitOccupied reports whether any resident holds the unit.
func (s *Memory) UnitOccupied(ctx context.Context, unitID domain.UnitID) (bool, error) {
	_, occupied, err := s.OccupantOf(ctx, unitID)
	return occupied, err
}

func (s *Memory) occupantLocked(unitID domain.UnitID) (domain.ResidentID, bool, error) {
	for _, resident := range s.residents {
		if resident.UnitID != nil && *resident.UnitID == unitID {
			return resident.ID, true, nil
		}
	}
	return domain.ResidentID{}, false, nil
}

func (s *Memory) checkUnique(resident *models.Resident) error {
	for id, other := range s.residents {
		if id == resident.ID {
			continue
		}
		if other.Email == resident.Email {
			return ErrEmailTaken
		}
		if resident.UnitID != nil && other.UnitID != nil && *other.UnitID == *resident.UnitID {
			return ErrUnitOccupied
		}
	}
	return nil
}
