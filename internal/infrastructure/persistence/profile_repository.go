package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarket/backend/internal/domain/shared"
	"github.com/verdantmarket/backend/internal/domain/vendor"
)

// GormProfileRepository implements vendor.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a vendor profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.VendorProfile, error) {
	var profile vendor.VendorProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a vendor profile by email. Emails are stored lowercased,
// so the lookup normalizes its input the same way.
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*vendor.VendorProfile, error) {
	var profile vendor.VendorProfile
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save creates or updates a vendor profile
func (r *GormProfileRepository) Save(ctx context.Context, profile *vendor.VendorProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Ensure GormProfileRepository implements ProfileRepository
var _ vendor.ProfileRepository = (*GormProfileRepository)(nil)
