package shared

import "github.com/google/uuid"

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// Version backs the optimistic-concurrency check in the repositories:
// conditional writes compare it against the persisted value and fail
// with a retryable conflict when another writer got there first.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `json:"version" gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// VendorAggregateRoot extends BaseAggregateRoot with vendor ownership.
// VendorID is supplied by the (external) identity layer and is immutable.
type VendorAggregateRoot struct {
	BaseAggregateRoot
	VendorID uuid.UUID `json:"vendor_id" gorm:"type:uuid;not null;index"`
}

// NewVendorAggregateRoot creates a new vendor-scoped aggregate root
func NewVendorAggregateRoot(vendorID uuid.UUID) VendorAggregateRoot {
	return VendorAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		VendorID:          vendorID,
	}
}
