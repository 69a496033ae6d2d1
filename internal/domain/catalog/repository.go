package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/domain/shared"
)

// Filter keys understood by ProductRepository list operations, on top of the
// shared.Filter basics (Search matches name and SKU).
const (
	ProductFilterCategory = "category_id"
	ProductFilterActive   = "is_active"
	ProductFilterFeatured = "is_featured"
)

// ProductRepository defines persistence operations for vendor products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VendorProduct, error)
	FindByIDForVendor(ctx context.Context, vendorID, id uuid.UUID) (*VendorProduct, error)
	// FindBySKU looks a product up by SKU within one vendor's catalog;
	// SKUs are only unique per vendor.
	FindBySKU(ctx context.Context, vendorID uuid.UUID, sku string) (*VendorProduct, error)
	FindAllForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]VendorProduct, error)
	CountForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *VendorProduct) error
	// SaveWithLock commits the product only if its version still matches the
	// persisted one, failing with a retryable concurrency conflict otherwise.
	SaveWithLock(ctx context.Context, product *VendorProduct) error
	Delete(ctx context.Context, id uuid.UUID) error
}
