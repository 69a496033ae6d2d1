package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantmarket/backend/internal/domain/catalog"
)

// CreateVariantInput represents a variant in the create product request
type CreateVariantInput struct {
	Name          string               `json:"name" binding:"required,min=1,max=200"`
	SKU           string               `json:"sku" binding:"required,min=1,max=50"`
	Price         decimal.Decimal      `json:"price" binding:"required"`
	StockQuantity int                  `json:"stock_quantity" binding:"min=0"`
	Attributes    catalog.AttributeMap `json:"attributes"`
	IsDefault     bool                 `json:"is_default"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name             string          `json:"name" binding:"required,min=1,max=200"`
	SKU              string          `json:"sku" binding:"required,min=1,max=50"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description" binding:"max=500"`
	CategoryID       *uuid.UUID      `json:"category_id"`
	SubcategoryID    *uuid.UUID      `json:"subcategory_id"`
	Brand            string          `json:"brand" binding:"max=100"`
	Price            decimal.Decimal `json:"price" binding:"required"`
	ComparePrice     decimal.Decimal `json:"compare_price"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	StockQuantity    int             `json:"stock_quantity" binding:"min=0"`
	MinStockQuantity int             `json:"min_stock_quantity" binding:"min=0"`
	Weight           float64         `json:"weight"`
	Length           float64         `json:"length"`
	Width            float64         `json:"width"`
	Height           float64         `json:"height"`
	Images           []string        `json:"images"`
	Tags             []string        `json:"tags"`
	IsDigital        bool            `json:"is_digital"`
	RequiresShipping *bool           `json:"requires_shipping"`
	Taxable          *bool           `json:"taxable"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TrackQuantity    *bool           `json:"track_quantity"`
	ContinueSelling  bool            `json:"continue_selling"`

	SustainabilityRating  int      `json:"sustainability_rating" binding:"min=0,max=10"`
	EcoFriendlyFeatures   []string `json:"eco_friendly_features"`
	Certifications        []string `json:"certifications"`
	Materials             []string `json:"materials"`
	ManufacturingLocation string   `json:"manufacturing_location" binding:"max=200"`
	OriginCountry         string   `json:"origin_country" binding:"max=100"`
	CareInstructions      string   `json:"care_instructions"`
	PackagingType         string   `json:"packaging_type" binding:"max=100"`

	ReturnPolicyDays   int `json:"return_policy_days" binding:"min=0"`
	WarrantyPeriodDays int `json:"warranty_period_days" binding:"min=0"`
	HandlingTimeDays   int `json:"handling_time_days" binding:"min=0"`

	Variants []CreateVariantInput `json:"variants"`
}

// UpdateProductRequest represents a request to update a product.
// Version carries the caller's last-seen aggregate version; a stale version
// is rejected rather than silently overwriting a concurrent edit.
type UpdateProductRequest struct {
	Version          int              `json:"version" binding:"required,min=1"`
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description" binding:"omitempty,max=500"`
	CategoryID       *uuid.UUID       `json:"category_id"`
	Brand            *string          `json:"brand" binding:"omitempty,max=100"`
	Price            *decimal.Decimal `json:"price"`
	ComparePrice     *decimal.Decimal `json:"compare_price"`
	CostPrice        *decimal.Decimal `json:"cost_price"`
	Images           []string         `json:"images"`
	Tags             []string         `json:"tags"`
	IsFeatured       *bool            `json:"is_featured"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	TrackQuantity    *bool            `json:"track_quantity"`
	ContinueSelling  *bool            `json:"continue_selling"`

	SustainabilityRating *int     `json:"sustainability_rating" binding:"omitempty,min=0,max=10"`
	EcoFriendlyFeatures  []string `json:"eco_friendly_features"`
	Certifications       []string `json:"certifications"`
	Materials            []string `json:"materials"`
	OriginCountry        *string  `json:"origin_country" binding:"omitempty,max=100"`
	CareInstructions     *string  `json:"care_instructions"`
}

// UpdateStockRequest represents a stock level change
type UpdateStockRequest struct {
	StockQuantity int `json:"stock_quantity" binding:"min=0"`
	Version       int `json:"version" binding:"required,min=1"`
}

// SetActiveRequest toggles product visibility
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// AddVariantRequest represents a request to add a variant to a product
type AddVariantRequest struct {
	Name          string               `json:"name" binding:"required,min=1,max=200"`
	SKU           string               `json:"sku" binding:"required,min=1,max=50"`
	Price         decimal.Decimal      `json:"price" binding:"required"`
	StockQuantity int                  `json:"stock_quantity" binding:"min=0"`
	Attributes    catalog.AttributeMap `json:"attributes"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	IsActive   *bool      `form:"is_active"`
	IsFeatured *bool      `form:"is_featured"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VariantResponse represents a product variant in API responses
type VariantResponse struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	SKU           string               `json:"sku"`
	Price         decimal.Decimal      `json:"price"`
	StockQuantity int                  `json:"stock_quantity"`
	Attributes    catalog.AttributeMap `json:"attributes,omitempty"`
	IsActive      bool                 `json:"is_active"`
	IsDefault     bool                 `json:"is_default"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	VendorID         uuid.UUID       `json:"vendor_id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	CategoryID       *uuid.UUID      `json:"category_id,omitempty"`
	SubcategoryID    *uuid.UUID      `json:"subcategory_id,omitempty"`
	Brand            string          `json:"brand,omitempty"`
	Price            decimal.Decimal `json:"price"`
	ComparePrice     decimal.Decimal `json:"compare_price"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	StockQuantity    int             `json:"stock_quantity"`
	MinStockQuantity int             `json:"min_stock_quantity"`
	Weight           float64         `json:"weight"`
	Length           float64         `json:"length"`
	Width            float64         `json:"width"`
	Height           float64         `json:"height"`
	Images           []string        `json:"images"`
	Tags             []string        `json:"tags"`
	IsActive         bool            `json:"is_active"`
	IsFeatured       bool            `json:"is_featured"`
	IsDigital        bool            `json:"is_digital"`
	RequiresShipping bool            `json:"requires_shipping"`
	Taxable          bool            `json:"taxable"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TrackQuantity    bool            `json:"track_quantity"`
	ContinueSelling  bool            `json:"continue_selling"`

	SustainabilityRating  int      `json:"sustainability_rating"`
	EcoFriendlyFeatures   []string `json:"eco_friendly_features"`
	Certifications        []string `json:"certifications"`
	Materials             []string `json:"materials"`
	ManufacturingLocation string   `json:"manufacturing_location,omitempty"`
	OriginCountry         string   `json:"origin_country,omitempty"`
	CareInstructions      string   `json:"care_instructions,omitempty"`
	PackagingType         string   `json:"packaging_type,omitempty"`

	ReturnPolicyDays   int `json:"return_policy_days"`
	WarrantyPeriodDays int `json:"warranty_period_days"`
	HandlingTimeDays   int `json:"handling_time_days"`

	IsAvailableForPurchase bool `json:"is_available_for_purchase"`
	IsLowStock             bool `json:"is_low_stock"`

	Variants []VariantResponse `json:"variants"`
	Version  int               `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListItemResponse is the trimmed shape used in list views
type ProductListItemResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	SKU                  string          `json:"sku"`
	Price                decimal.Decimal `json:"price"`
	StockQuantity        int             `json:"stock_quantity"`
	IsActive             bool            `json:"is_active"`
	IsFeatured           bool            `json:"is_featured"`
	IsLowStock           bool            `json:"is_low_stock"`
	SustainabilityRating int             `json:"sustainability_rating"`
	VariantCount         int             `json:"variant_count"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToVariantResponse converts a domain variant to its response shape
func ToVariantResponse(v *catalog.ProductVariant) VariantResponse {
	return VariantResponse{
		ID:            v.ID,
		Name:          v.Name,
		SKU:           v.SKU,
		Price:         v.Price,
		StockQuantity: v.StockQuantity,
		Attributes:    v.Attributes,
		IsActive:      v.IsActive,
		IsDefault:     v.IsDefault,
	}
}

// ToProductResponse converts a domain product to its response shape
func ToProductResponse(p *catalog.VendorProduct) ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, ToVariantResponse(&p.Variants[i]))
	}

	return ProductResponse{
		ID:               p.ID,
		VendorID:         p.VendorID,
		Name:             p.Name,
		SKU:              p.SKU,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		CategoryID:       p.CategoryID,
		SubcategoryID:    p.SubcategoryID,
		Brand:            p.Brand,
		Price:            p.Price,
		ComparePrice:     p.ComparePrice,
		CostPrice:        p.CostPrice,
		StockQuantity:    p.StockQuantity,
		MinStockQuantity: p.MinStockQuantity,
		Weight:           p.Weight,
		Length:           p.Dimensions.Length,
		Width:            p.Dimensions.Width,
		Height:           p.Dimensions.Height,
		Images:           p.Images,
		Tags:             p.Tags,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		IsDigital:        p.IsDigital,
		RequiresShipping: p.RequiresShipping,
		Taxable:          p.Taxable,
		TaxRate:          p.TaxRate,
		TrackQuantity:    p.TrackQuantity,
		ContinueSelling:  p.ContinueSelling,

		SustainabilityRating:  p.SustainabilityRating,
		EcoFriendlyFeatures:   p.EcoFriendlyFeatures,
		Certifications:        p.Certifications,
		Materials:             p.Materials,
		ManufacturingLocation: p.ManufacturingLocation,
		OriginCountry:         p.OriginCountry,
		CareInstructions:      p.CareInstructions,
		PackagingType:         p.PackagingType,

		ReturnPolicyDays:   p.ReturnPolicyDays,
		WarrantyPeriodDays: p.WarrantyPeriodDays,
		HandlingTimeDays:   p.HandlingTimeDays,

		IsAvailableForPurchase: p.IsAvailableForPurchase(),
		IsLowStock:             p.IsLowStock(),

		Variants: variants,
		Version:  p.Version,

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToProductListItemResponses converts domain products to list item responses
func ToProductListItemResponses(products []catalog.VendorProduct) []ProductListItemResponse {
	items := make([]ProductListItemResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		items = append(items, ProductListItemResponse{
			ID:                   p.ID,
			Name:                 p.Name,
			SKU:                  p.SKU,
			Price:                p.Price,
			StockQuantity:        p.StockQuantity,
			IsActive:             p.IsActive,
			IsFeatured:           p.IsFeatured,
			IsLowStock:           p.IsLowStock(),
			SustainabilityRating: p.SustainabilityRating,
			VariantCount:         len(p.Variants),
			CreatedAt:            p.CreatedAt,
			UpdatedAt:            p.UpdatedAt,
		})
	}
	return items
}
