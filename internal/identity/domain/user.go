package domain

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// User is a staff member allowed to use the gateway. Accounts are
// provisioned by the identity-provider login flow; the messaging core
// only reads them by ID to find an email address for reply routing.
type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"` // identity-provider subject
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
