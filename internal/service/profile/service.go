// Package profile implements the transactional profile store. Exactly zero
// or one profile exists per principal; the principal's UID doubles as the
// document key, which is the entirety of the authorization model.
package profile

import (
	"context"
	"errors"
	"time"
)

// Business rule violations. These propagate untouched to the handler layer,
// which owns the translation to HTTP.
var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

// Profile is the stored entity.
type Profile struct {
	ID          string
	Firstname   string
	Lastname    string
	Email       string
	PhoneNumber string
	Marketing   bool
	Terms       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams holds the fields for a new profile.
type CreateParams struct {
	Firstname   string
	Lastname    string
	Email       string
	PhoneNumber string
	Marketing   bool
	Terms       bool
}

// UpdateParams holds a partial update. Nil fields are left untouched; this
// is a merge, never a replace.
type UpdateParams struct {
	Firstname   *string
	Lastname    *string
	Email       *string
	PhoneNumber *string
	Marketing   *bool
}

// Service defines profile operations, all scoped to the single document at
// the caller's UID.
//
// Implementations must normalize input data:
//   - Email: lowercase and trim whitespace
//   - PhoneNumber: trim whitespace
//
// Create fails with ErrAlreadyExists when a profile exists; the existence
// check and write are atomic. Update and Delete fail with ErrNotFound when
// absent. Delete returns the removed profile's last state.
type Service interface {
	Create(ctx context.Context, userID string, params CreateParams) (*Profile, error)
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, params UpdateParams) (*Profile, error)
	Delete(ctx context.Context, userID string) (*Profile, error)
}
