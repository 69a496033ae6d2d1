package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/domain/catalog"
	"github.com/verdantmarket/backend/internal/domain/shared"
	"github.com/verdantmarket/backend/internal/domain/vendor"
)

// ProductService handles vendor catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	orderRepo   vendor.OrderRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, orderRepo vendor.OrderRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Create creates a new product in the vendor's catalog
func (s *ProductService) Create(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindBySKU(ctx, vendorID, req.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrDuplicateSKU
	}

	product, err := catalog.NewVendorProduct(vendorID, req.Name, req.SKU, req.Description, req.Price)
	if err != nil {
		return nil, err
	}

	if err := product.SetPricing(req.Price, req.ComparePrice, req.CostPrice); err != nil {
		return nil, err
	}
	if err := product.UpdateStock(req.StockQuantity); err != nil {
		return nil, err
	}

	product.ShortDescription = req.ShortDescription
	product.CategoryID = req.CategoryID
	product.SubcategoryID = req.SubcategoryID
	product.Brand = req.Brand
	product.MinStockQuantity = req.MinStockQuantity
	product.Weight = req.Weight
	product.Dimensions = catalog.Dimensions{Length: req.Length, Width: req.Width, Height: req.Height}
	product.Images = req.Images
	product.Tags = req.Tags
	product.IsDigital = req.IsDigital
	product.TaxRate = req.TaxRate
	product.ContinueSelling = req.ContinueSelling
	if req.RequiresShipping != nil {
		product.RequiresShipping = *req.RequiresShipping
	}
	if req.Taxable != nil {
		product.Taxable = *req.Taxable
	}
	if req.TrackQuantity != nil {
		product.TrackQuantity = *req.TrackQuantity
	}
	if req.IsDigital {
		product.RequiresShipping = false
	}

	if err := product.SetSustainability(req.SustainabilityRating, req.EcoFriendlyFeatures, req.Certifications, req.Materials); err != nil {
		return nil, err
	}
	product.ManufacturingLocation = req.ManufacturingLocation
	product.OriginCountry = req.OriginCountry
	product.CareInstructions = req.CareInstructions
	product.PackagingType = req.PackagingType
	product.ReturnPolicyDays = req.ReturnPolicyDays
	product.WarrantyPeriodDays = req.WarrantyPeriodDays
	product.HandlingTimeDays = req.HandlingTimeDays

	if len(req.Variants) > 0 {
		defaults := 0
		defaultIndex := 0
		for i, input := range req.Variants {
			if input.IsDefault {
				defaults++
				defaultIndex = i
			}
		}
		if defaults != 1 {
			return nil, shared.NewValidationError("variants",
				fmt.Sprintf("Exactly one variant must be marked as default, found %d", defaults))
		}

		for _, input := range req.Variants {
			variant, err := catalog.NewProductVariant(input.Name, input.SKU, input.Price, input.StockQuantity, input.Attributes)
			if err != nil {
				return nil, err
			}
			if err := product.AddVariant(variant); err != nil {
				return nil, err
			}
		}
		if err := product.SetDefaultVariant(defaultIndex); err != nil {
			return nil, err
		}
		if err := product.ValidateVariants(); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves one of the vendor's products
func (s *ProductService) GetByID(ctx context.Context, vendorID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves the vendor's products with filtering and pagination
func (s *ProductService) List(ctx context.Context, vendorID uuid.UUID, filter ProductListFilter) (*shared.Paginated[ProductListItemResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize()

	if filter.CategoryID != nil {
		domainFilter.Filters[catalog.ProductFilterCategory] = *filter.CategoryID
	}
	if filter.IsActive != nil {
		domainFilter.Filters[catalog.ProductFilterActive] = *filter.IsActive
	}
	if filter.IsFeatured != nil {
		domainFilter.Filters[catalog.ProductFilterFeatured] = *filter.IsFeatured
	}

	products, err := s.productRepo.FindAllForVendor(ctx, vendorID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForVendor(ctx, vendorID, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToProductListItemResponses(products), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update applies a partial update to a product. The request's version must
// match the stored aggregate; the save re-checks it under the row lock so a
// concurrent writer loses with a conflict instead of overwriting.
func (s *ProductService) Update(ctx context.Context, vendorID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if product.Version != req.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	name := product.Name
	description := product.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if req.Price != nil || req.ComparePrice != nil || req.CostPrice != nil {
		price := product.Price
		compare := product.ComparePrice
		cost := product.CostPrice
		if req.Price != nil {
			price = *req.Price
		}
		if req.ComparePrice != nil {
			compare = *req.ComparePrice
		}
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if err := product.SetPricing(price, compare, cost); err != nil {
			return nil, err
		}
	}

	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	if req.TrackQuantity != nil {
		product.TrackQuantity = *req.TrackQuantity
	}
	if req.ContinueSelling != nil {
		product.ContinueSelling = *req.ContinueSelling
	}

	if req.SustainabilityRating != nil {
		features := product.EcoFriendlyFeatures
		certifications := product.Certifications
		materials := product.Materials
		if req.EcoFriendlyFeatures != nil {
			features = req.EcoFriendlyFeatures
		}
		if req.Certifications != nil {
			certifications = req.Certifications
		}
		if req.Materials != nil {
			materials = req.Materials
		}
		if err := product.SetSustainability(*req.SustainabilityRating, features, certifications, materials); err != nil {
			return nil, err
		}
	}
	if req.OriginCountry != nil {
		product.OriginCountry = *req.OriginCountry
	}
	if req.CareInstructions != nil {
		product.CareInstructions = *req.CareInstructions
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateStock sets the product's stock level under the version check
func (s *ProductService) UpdateStock(ctx context.Context, vendorID, productID uuid.UUID, req UpdateStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if product.Version != req.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	if err := product.UpdateStock(req.StockQuantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetActive publishes or hides the product
func (s *ProductService) SetActive(ctx context.Context, vendorID, productID uuid.UUID, isActive bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	product.SetActive(isActive)
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog. Products referenced by order
// line items cannot be hard deleted; deactivate them instead.
func (s *ProductService) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return err
	}

	referenced, err := s.orderRepo.HasItemsForProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("CONFLICT", "Product has order history and cannot be deleted; deactivate it instead")
	}

	return s.productRepo.Delete(ctx, product.ID)
}

// AddVariant adds a variant to a product
func (s *ProductService) AddVariant(ctx context.Context, vendorID, productID uuid.UUID, req AddVariantRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	variant, err := catalog.NewProductVariant(req.Name, req.SKU, req.Price, req.StockQuantity, req.Attributes)
	if err != nil {
		return nil, err
	}
	if err := product.AddVariant(variant); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// RemoveVariant removes the variant at the given position
func (s *ProductService) RemoveVariant(ctx context.Context, vendorID, productID uuid.UUID, index int) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.RemoveVariant(index); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetDefaultVariant marks the variant at the given position as default
func (s *ProductService) SetDefaultVariant(ctx context.Context, vendorID, productID uuid.UUID, index int) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetDefaultVariant(index); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}
