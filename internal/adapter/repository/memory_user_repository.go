package repository

import (
	"context"
	"sync"
	"time"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
)

type memoryUserRepository struct {
	mu       sync.RWMutex
	profiles map[string]entity.UserProfile
}

func NewMemoryUserRepository() repository.UserRepository {
	return &memoryUserRepository{
		profiles: make(map[string]entity.UserProfile),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, profile *entity.UserProfile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.ID]; exists {
		return false, nil
	}

	profile.Timestamp = time.Now().UTC()
	r.profiles[profile.ID] = *profile
	return true, nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return &profile, nil
}

func (r *memoryUserRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.update(id, func(p *entity.UserProfile) { p.Name = name })
}

func (r *memoryUserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.update(id, func(p *entity.UserProfile) { p.Email = email })
}

func (r *memoryUserRepository) update(id string, apply func(*entity.UserProfile)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	apply(&profile)
	r.profiles[id] = profile
	return nil
}
