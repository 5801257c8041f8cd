package repository

import (
	"context"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/identity/domain"
)

// UserRepository persists staff user records.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	// Upsert creates or refreshes a user keyed by external ID, as happens
	// on each identity-provider login.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
}
