package repository

import (
	"context"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
)

type UserRepository interface {
	// Create stores the profile only when none exists yet. It reports whether it wrote.
	Create(ctx context.Context, profile *entity.UserProfile) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateEmail(ctx context.Context, id, email string) error
}
