package store

import (
	"context"
	"sync"

	"condogate/internal/auth/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Memory is an in-memory user store. It favors clarity over performance
// and backs the unit test suites.
type Memory struct {
	mu    sync.RWMutex
	users map[domain.UserID]models.User
}

func NewMemory() *Memory {
	return &Memory{users: make(map[domain.UserID]models.User)}
}

func (s *Memory) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Memory) FindByID(_ context.Context, id domain.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		u := user
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByEmail is a case-sensitive exact match, mirroring the lookup the
// login path performs against the unique email column.
func (s *Memory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
