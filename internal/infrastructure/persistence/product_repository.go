package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarket/backend/internal/domain/catalog"
	"github.com/verdantmarket/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.VendorProduct, error) {
	var product catalog.VendorProduct
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForVendor finds a product by ID within one vendor's catalog
func (r *GormProductRepository) FindByIDForVendor(ctx context.Context, vendorID, id uuid.UUID) (*catalog.VendorProduct, error) {
	var product catalog.VendorProduct
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("vendor_id = ? AND id = ?", vendorID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by SKU within one vendor's catalog
func (r *GormProductRepository) FindBySKU(ctx context.Context, vendorID uuid.UUID, sku string) (*catalog.VendorProduct, error) {
	var product catalog.VendorProduct
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("vendor_id = ? AND sku = ?", vendorID, strings.ToUpper(strings.TrimSpace(sku))).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAllForVendor finds all products for a vendor with filtering
func (r *GormProductRepository) FindAllForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]catalog.VendorProduct, error) {
	var products []catalog.VendorProduct
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.VendorProduct{}).Where("vendor_id = ?", vendorID),
		filter,
	)

	if err := query.Preload("Variants").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountForVendor counts products for a vendor with optional filters
func (r *GormProductRepository) CountForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.VendorProduct{}).Where("vendor_id = ?", vendorID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product with its variants
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.VendorProduct) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return err
		}
		return r.syncVariants(tx, product)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.VendorProduct) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		result := tx.Model(&catalog.VendorProduct{}).
			Where("id = ?", product.ID).
			Select("version").
			Scan(&currentVersion)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != product.Version {
			return shared.ErrConcurrencyConflict
		}

		product.Version++
		product.UpdatedAt = time.Now()

		update := tx.Model(&catalog.VendorProduct{}).
			Where("id = ? AND version = ?", product.ID, currentVersion).
			Updates(map[string]interface{}{
				"name":                   product.Name,
				"description":            product.Description,
				"short_description":      product.ShortDescription,
				"category_id":            product.CategoryID,
				"subcategory_id":         product.SubcategoryID,
				"brand":                  product.Brand,
				"price":                  product.Price,
				"compare_price":          product.ComparePrice,
				"cost_price":             product.CostPrice,
				"stock_quantity":         product.StockQuantity,
				"min_stock_quantity":     product.MinStockQuantity,
				"weight":                 product.Weight,
				"dimension_length":       product.Dimensions.Length,
				"dimension_width":        product.Dimensions.Width,
				"dimension_height":       product.Dimensions.Height,
				"images":                 product.Images,
				"tags":                   product.Tags,
				"is_active":              product.IsActive,
				"is_featured":            product.IsFeatured,
				"is_digital":             product.IsDigital,
				"requires_shipping":      product.RequiresShipping,
				"taxable":                product.Taxable,
				"tax_rate":               product.TaxRate,
				"track_quantity":         product.TrackQuantity,
				"continue_selling":       product.ContinueSelling,
				"sustainability_rating":  product.SustainabilityRating,
				"eco_friendly_features":  product.EcoFriendlyFeatures,
				"certifications":         product.Certifications,
				"materials":              product.Materials,
				"manufacturing_location": product.ManufacturingLocation,
				"origin_country":         product.OriginCountry,
				"care_instructions":      product.CareInstructions,
				"packaging_type":         product.PackagingType,
				"return_policy_days":     product.ReturnPolicyDays,
				"warranty_period_days":   product.WarrantyPeriodDays,
				"handling_time_days":     product.HandlingTimeDays,
				"version":                product.Version,
				"updated_at":             product.UpdatedAt,
			})

		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncVariants(tx, product)
	})
}

// syncVariants deletes removed variants and saves the remaining ones
func (r *GormProductRepository) syncVariants(tx *gorm.DB, product *catalog.VendorProduct) error {
	if product.ID == uuid.Nil {
		return nil
	}

	currentVariantIDs := make([]uuid.UUID, len(product.Variants))
	for i, v := range product.Variants {
		currentVariantIDs[i] = v.ID
	}

	if len(currentVariantIDs) > 0 {
		if err := tx.Where("product_id = ? AND id NOT IN ?", product.ID, currentVariantIDs).
			Delete(&catalog.ProductVariant{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("product_id = ?", product.ID).
			Delete(&catalog.ProductVariant{}).Error; err != nil {
			return err
		}
	}

	for i := range product.Variants {
		product.Variants[i].ProductID = product.ID
		if err := tx.Save(&product.Variants[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete removes a product and its variants
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&catalog.ProductVariant{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&catalog.VendorProduct{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR sku LIKE ?",
			searchPattern, strings.ToUpper(searchPattern))
	}

	for key, value := range filter.Filters {
		switch key {
		case catalog.ProductFilterCategory:
			query = query.Where("category_id = ?", value)
		case catalog.ProductFilterActive:
			query = query.Where("is_active = ?", value)
		case catalog.ProductFilterFeatured:
			query = query.Where("is_featured = ?", value)
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
