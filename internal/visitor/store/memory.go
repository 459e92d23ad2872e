package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"condogate/internal/visitor/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Memory is an in-memory entry store backing the unit test suites.
type Memory struct {
	mu      sync.RWMutex
	entries map[domain.EntryID]models.Entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[domain.EntryID]models.Entry)}
}

func (s *Memory) Create(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = *entry
	return nil
}

func (s *Memory) FindByID(_ context.Context, id domain.EntryID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.entries[id]; ok {
		e := entry
		return &e, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Memory) List(_ context.Context, filter ListFilter) ([]models.Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Entry
	for _, entry := range s.entries {
		if matches(entry, filter) {
			matched = append(matched, entry)
		}
	}
	sortEntries(matched, filter.SortBy, filter.Ascending)

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

func (s *Memory) Update(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.entries[entry.ID] = *entry
	return nil
}

func (s *Memory) Delete(_ context.Context, id domain.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Memory) CountByCondo(_ context.Context, condoID domain.CondoID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, entry := range s.entries {
		if entry.CondoID == condoID {
			count++
		}
	}
	return count, nil
}

func matches(entry models.Entry, filter ListFilter) bool {
	if entry.CondoID != filter.CondoID {
		return false
	}
	if filter.UnitID != nil && (entry.UnitID == nil || *entry.UnitID != *filter.UnitID) {
		return false
	}
	if filter.Status != nil && entry.Status != *filter.Status {
		return false
	}
	if filter.Kind != nil && entry.Kind != *filter.Kind {
		return false
	}
	if filter.From != nil && entry.CheckInAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && entry.CheckInAt.After(*filter.To) {
		return false
	}
	if query := strings.ToLower(filter.Query); query != "" {
		if !strings.Contains(strings.ToLower(entry.Name), query) &&
			!strings.Contains(strings.ToLower(entry.Document), query) &&
			!strings.Contains(strings.ToLower(entry.Plate), query) {
			return false
		}
	}
	return true
}

func sortEntries(entries []models.Entry, by SortField, ascending bool) {
	less := func(i, j int) bool {
		switch by {
		case SortByName:
			return entries[i].Name < entries[j].Name
		case SortByCheckOut:
			return timePtrBefore(entries[i].CheckOutAt, entries[j].CheckOutAt)
		default:
			return entries[i].CheckInAt.Before(entries[j].CheckInAt)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return less(i, j)
		}
		return less(j, i)
	})
}

// timePtrBefore orders nil checkout timestamps after set ones.
func timePtrBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
