package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"condogate/internal/unit/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Memory is an in-memory unit store backing the unit test suites.
type Memory struct {
	mu    sync.RWMutex
	units map[domain.UnitID]models.Unit
}

func NewMemory() *Memory {
	return &Memory{units: make(map[domain.UnitID]models.Unit)}
}

func (s *Memory) Create(_ context.Context, unit *models.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[unit.ID] = *unit
	return nil
}

func (s *Memory) FindByID(_ context.Context, id domain.UnitID) (*models.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if unit, ok := s.units[id]; ok {
		u := unit
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Memory) List(_ context.Context, filter ListFilter) ([]models.Unit, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	var matched []models.Unit
	for _, unit := range s.units {
		if filter.CondoID != nil && unit.CondoID != *filter.CondoID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(unit.Number), query) &&
			!strings.Contains(strings.ToLower(unit.Block), query) {
			continue
		}
		matched = append(matched, unit)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Block != matched[j].Block {
			return matched[i].Block < matched[j].Block
		}
		return matched[i].Number < matched[j].Number
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

func (s *Memory) Update(_ context.Context, unit *models.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[unit.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.units[unit.ID] = *unit
	return nil
}

func (s *Memory) Delete(_ context.Context, id domain.UnitID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.units, id)
	return nil
}

func (s *Memory) CountByCondo(_ context.Context, condoID domain.CondoID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, unit := range s.units {
		if unit.CondoID == condoID {
			count++
		}
	}
	return count, nil
}
