// Package repositories provides data access for portal-owned tables.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	"github.com/facultyportal/research-engine/pkg/database"
	"github.com/facultyportal/research-engine/pkg/models"
)

// ProfileRepository loads verified caller identities from profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type profileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a profile repository backed by the pool.
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByID returns the access-control fields for one profile. The role and
// department returned here are the trusted values; they are never taken
// from request bodies.
func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	const query = `
		SELECT id, full_name, role, department
		FROM profiles
		WHERE id = $1`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Role,
		&profile.Department,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", id, err)
	}

	return &profile, nil
}
