package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"condogate/internal/condo/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Memory is an in-memory condominium store backing the unit test suites.
type Memory struct {
	mu     sync.RWMutex
	condos map[domain.CondoID]models.Condo
}

func NewMemory() *Memory {
	return &Memory{condos: make(map[domain.CondoID]models.Condo)}
}

func (s *Memory) Create(_ context.Context, condo *models.Condo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.condos {
		if existing.TenantID == condo.TenantID && existing.CNPJ == condo.CNPJ {
			return ErrCNPJTaken
		}
	}
	s.condos[condo.ID] = *condo
	return nil
}

func (s *Memory) FindByID(_ context.Context, tenantID string, id domain.CondoID) (*models.Condo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if condo, ok := s.condos[id]; ok && condo.TenantID == tenantID {
		c := condo
		return &c, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Memory) List(_ context.Context, tenantID string, filter ListFilter) ([]models.Condo, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	var matched []models.Condo
	for _, condo := range s.condos {
		if condo.TenantID != tenantID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(condo.Name), query) &&
			!strings.Contains(condo.CNPJ, query) {
			continue
		}
		matched = append(matched, condo)
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

func (s *Memory) Update(_ context.Context, condo *models.Condo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.condos[condo.ID]
	if !ok || existing.TenantID != condo.TenantID {
		return sentinel.ErrNotFound
	}
	for id, other := range s.condos {
		if id != condo.ID && other.TenantID == condo.TenantID && other.CNPJ == condo.CNPJ {
			return ErrCNPJTaken
		}
	}
	s.condos[condo.ID] = *condo
	return nil
}

func (s *Memory) Delete(_ context.Context, tenantID string, id domain.CondoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	condo, ok := s.condos[id]
	if !ok || condo.TenantID != tenantID {
		return sentinel.ErrNotFound
	}
	delete(s.condos, id)
	return nil
}
