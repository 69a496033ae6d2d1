package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/domain/catalog"
	"github.com/verdantmarket/backend/internal/domain/shared"
)

// ProductRepository is an in-memory catalog.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*catalog.VendorProduct
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uuid.UUID]*catalog.VendorProduct)}
}

func cloneProduct(p *catalog.VendorProduct) *catalog.VendorProduct {
	c := *p
	c.Variants = append([]catalog.ProductVariant(nil), p.Variants...)
	return &c
}

// FindByID finds a product by its ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.VendorProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneProduct(product), nil
}

// FindByIDForVendor finds a product by ID within one vendor's catalog
func (r *ProductRepository) FindByIDForVendor(ctx context.Context, vendorID, id uuid.UUID) (*catalog.VendorProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || product.VendorID != vendorID {
		return nil, shared.ErrNotFound
	}
	return cloneProduct(product), nil
}

// FindBySKU finds a product by SKU within one vendor's catalog
func (r *ProductRepository) FindBySKU(ctx context.Context, vendorID uuid.UUID, sku string) (*catalog.VendorProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := strings.ToUpper(strings.TrimSpace(sku))
	for _, product := range r.products {
		if product.VendorID == vendorID && product.SKU == normalized {
			return cloneProduct(product), nil
		}
	}
	return nil, shared.ErrNotFound
}

func matchesProductFilter(product *catalog.VendorProduct, filter shared.Filter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(product.Name), needle) &&
			!strings.Contains(strings.ToLower(product.SKU), needle) {
			return false
		}
	}
	for key, value := range filter.Filters {
		switch key {
		case catalog.ProductFilterCategory:
			id, ok := value.(uuid.UUID)
			if ok && (product.CategoryID == nil || *product.CategoryID != id) {
				return false
			}
		case catalog.ProductFilterActive:
			if b, ok := value.(bool); ok && product.IsActive != b {
				return false
			}
		case catalog.ProductFilterFeatured:
			if b, ok := value.(bool); ok && product.IsFeatured != b {
				return false
			}
		}
	}
	return true
}

// FindAllForVendor finds all products for a vendor with filtering
func (r *ProductRepository) FindAllForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]catalog.VendorProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []catalog.VendorProduct
	for _, product := range r.products {
		if product.VendorID == vendorID && matchesProductFilter(product, filter) {
			matched = append(matched, *cloneProduct(product))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if strings.EqualFold(filter.OrderDir, "asc") {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Page > 0 && filter.PageSize > 0 {
		start := filter.Offset()
		if start >= len(matched) {
			return []catalog.VendorProduct{}, nil
		}
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, nil
}

// CountForVendor counts products for a vendor with optional filters
func (r *ProductRepository) CountForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, product := range r.products {
		if product.VendorID == vendorID && matchesProductFilter(product, filter) {
			count++
		}
	}
	return count, nil
}

// Save creates or updates a product unconditionally
func (r *ProductRepository) Save(ctx context.Context, product *catalog.VendorProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = cloneProduct(product)
	return nil
}

// SaveWithLock saves only when the caller's version still matches the stored
// one; the stored version is incremented on success.
func (r *ProductRepository) SaveWithLock(ctx context.Context, product *catalog.VendorProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if current.Version != product.Version {
		return shared.ErrConcurrencyConflict
	}

	product.Version++
	product.UpdatedAt = time.Now()
	r.products[product.ID] = cloneProduct(product)
	return nil
}

// Delete removes a product and its variants
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Ensure ProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*ProductRepository)(nil)
