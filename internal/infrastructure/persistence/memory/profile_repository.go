package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/domain/shared"
	"github.com/verdantmarket/backend/internal/domain/vendor"
)

// ProfileRepository is an in-memory vendor.ProfileRepository
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*vendor.VendorProfile
}

// NewProfileRepository creates an empty in-memory profile repository
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[uuid.UUID]*vendor.VendorProfile)}
}

// FindByID finds a vendor profile by its ID
func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.VendorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *profile
	return &c, nil
}

// FindByEmail finds a vendor profile by email, case-insensitively
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*vendor.VendorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, profile := range r.profiles {
		if profile.Email == normalized {
			c := *profile
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

// Save creates or updates a vendor profile
func (r *ProfileRepository) Save(ctx context.Context, profile *vendor.VendorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *profile
	r.profiles[profile.ID] = &c
	return nil
}

// Ensure ProfileRepository implements vendor.ProfileRepository
var _ vendor.ProfileRepository = (*ProfileRepository)(nil)
