package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantmarket/backend/internal/domain/shared"
)

// StringSlice is a []string stored as a JSON column
type StringSlice []string

// Value implements driver.Valuer
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// Scan implements sql.Scanner
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("cannot scan %T into StringSlice", value)
}

// AttributeMap is a string-keyed attribute set (e.g. size/color) stored as JSON
type AttributeMap map[string]string

// Value implements driver.Valuer
func (m AttributeMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

// Scan implements sql.Scanner
func (m *AttributeMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("cannot scan %T into AttributeMap", value)
}

// Dimensions holds physical product dimensions in centimetres
type Dimensions struct {
	Length float64 `gorm:"column:dimension_length;default:0" json:"length"`
	Width  float64 `gorm:"column:dimension_width;default:0" json:"width"`
	Height float64 `gorm:"column:dimension_height;default:0" json:"height"`
}

// ProductVariant is a purchasable sub-configuration of a product with its
// own price and stock. Variants have no independent lifecycle: they are
// owned exclusively by one VendorProduct.
type ProductVariant struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"type:varchar(50);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	Attributes    AttributeMap    `gorm:"type:jsonb"`
	IsActive      bool            `gorm:"not null;default:true"`
	IsDefault     bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProductVariant creates a new variant
func NewProductVariant(name, sku string, price decimal.Decimal, stockQuantity int, attributes AttributeMap) (*ProductVariant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT_NAME", "Variant name cannot be empty")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_VARIANT_PRICE", "Variant price must be positive")
	}
	if stockQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_VARIANT_STOCK", "Variant stock quantity cannot be negative")
	}

	now := time.Now()
	return &ProductVariant{
		ID:            uuid.New(),
		Name:          name,
		SKU:           strings.ToUpper(strings.TrimSpace(sku)),
		Price:         price,
		StockQuantity: stockQuantity,
		Attributes:    attributes,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// VendorProduct is the catalog aggregate root. It owns its variants;
// the single-default invariant over them only changes through
// SetDefaultVariant.
type VendorProduct struct {
	shared.VendorAggregateRoot
	Name             string          `gorm:"type:varchar(200);not null"`
	SKU              string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_vendor_sku,priority:2"`
	Description      string          `gorm:"type:text"`
	ShortDescription string          `gorm:"type:varchar(500)"`
	CategoryID       *uuid.UUID      `gorm:"type:uuid;index"`
	SubcategoryID    *uuid.UUID      `gorm:"type:uuid"`
	Brand            string          `gorm:"type:varchar(100)"`
	Price            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ComparePrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockQuantity    int             `gorm:"not null;default:0"`
	MinStockQuantity int             `gorm:"not null;default:0"`
	Weight           float64         `gorm:"default:0"` // kilograms
	Dimensions       Dimensions      `gorm:"embedded"`
	Images           StringSlice     `gorm:"type:jsonb"`
	Tags             StringSlice     `gorm:"type:jsonb"`
	IsActive         bool            `gorm:"not null;default:true;index"`
	IsFeatured       bool            `gorm:"not null;default:false"`
	IsDigital        bool            `gorm:"not null;default:false"`
	RequiresShipping bool            `gorm:"not null;default:true"`
	Taxable          bool            `gorm:"not null;default:true"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	TrackQuantity    bool            `gorm:"not null;default:true"`
	ContinueSelling  bool            `gorm:"not null;default:false"`

	SustainabilityRating  int         `gorm:"not null;default:0"` // 0-10
	EcoFriendlyFeatures   StringSlice `gorm:"type:jsonb"`
	Certifications        StringSlice `gorm:"type:jsonb"`
	Materials             StringSlice `gorm:"type:jsonb"`
	ManufacturingLocation string      `gorm:"type:varchar(200)"`
	OriginCountry         string      `gorm:"type:varchar(100)"`
	CareInstructions      string      `gorm:"type:text"`
	PackagingType         string      `gorm:"type:varchar(100)"`

	ReturnPolicyDays   int `gorm:"not null;default:0"`
	WarrantyPeriodDays int `gorm:"not null;default:0"`
	HandlingTimeDays   int `gorm:"not null;default:0"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (VendorProduct) TableName() string {
	return "vendor_products"
}

// NewVendorProduct creates a new product with validated basics
func NewVendorProduct(vendorID uuid.UUID, name, sku, description string, price decimal.Decimal) (*VendorProduct, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	return &VendorProduct{
		VendorAggregateRoot: shared.NewVendorAggregateRoot(vendorID),
		Name:                name,
		SKU:                 strings.ToUpper(strings.TrimSpace(sku)),
		Description:         description,
		Price:               price,
		ComparePrice:        decimal.Zero,
		CostPrice:           decimal.Zero,
		TaxRate:             decimal.Zero,
		IsActive:            true,
		RequiresShipping:    true,
		Taxable:             true,
		TrackQuantity:       true,
	}, nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	return nil
}

// Update updates the product's basic information
func (p *VendorProduct) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()

	return nil
}

// SetPricing updates price fields. comparePrice and costPrice may be zero
// (unset) but never negative.
func (p *VendorProduct) SetPricing(price, comparePrice, costPrice decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if comparePrice.IsNegative() || costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Compare and cost prices cannot be negative")
	}

	p.Price = price
	p.ComparePrice = comparePrice
	p.CostPrice = costPrice
	p.UpdatedAt = time.Now()

	return nil
}

// UpdateStock replaces the product stock quantity
func (p *VendorProduct) UpdateStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()

	return nil
}

// SetSustainability updates the sustainability profile; rating is 0-10
func (p *VendorProduct) SetSustainability(rating int, features, certifications, materials StringSlice) error {
	if rating < 0 || rating > 10 {
		return shared.NewDomainError("INVALID_SUSTAINABILITY_RATING", "Sustainability rating must be between 0 and 10")
	}

	p.SustainabilityRating = rating
	p.EcoFriendlyFeatures = features
	p.Certifications = certifications
	p.Materials = materials
	p.UpdatedAt = time.Now()

	return nil
}

// SetActive toggles product visibility. Idempotent: toggling to the current
// state is a no-op. Deactivating never touches already-placed orders.
func (p *VendorProduct) SetActive(isActive bool) {
	if p.IsActive == isActive {
		return
	}
	p.IsActive = isActive
	p.UpdatedAt = time.Now()
}

// AddVariant appends a variant. The first variant added becomes the default.
func (p *VendorProduct) AddVariant(variant *ProductVariant) error {
	if variant == nil {
		return shared.NewDomainError("INVALID_VARIANT", "Variant cannot be nil")
	}
	for _, v := range p.Variants {
		if v.SKU != "" && v.SKU == variant.SKU {
			return shared.NewDomainError("DUPLICATE_SKU", fmt.Sprintf("Variant SKU %s already exists on this product", variant.SKU))
		}
	}

	variant.ProductID = p.ID
	variant.IsDefault = len(p.Variants) == 0
	p.Variants = append(p.Variants, *variant)
	p.UpdatedAt = time.Now()

	return nil
}

// RemoveVariant removes the variant at index. Rejected if it would leave the
// product with zero variants; removing the default promotes the first
// remaining variant so the single-default invariant holds.
func (p *VendorProduct) RemoveVariant(index int) error {
	if index < 0 || index >= len(p.Variants) {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "Variant index out of range")
	}
	if len(p.Variants) == 1 {
		return shared.NewDomainError("CONFLICT", "Cannot remove the last variant")
	}

	wasDefault := p.Variants[index].IsDefault
	p.Variants = append(p.Variants[:index], p.Variants[index+1:]...)
	if wasDefault {
		p.Variants[0].IsDefault = true
		p.Variants[0].UpdatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()

	return nil
}

// SetDefaultVariant marks the variant at index as the default and clears the
// flag on all others. This is the only way defaults change.
func (p *VendorProduct) SetDefaultVariant(index int) error {
	if index < 0 || index >= len(p.Variants) {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "Variant index out of range")
	}

	now := time.Now()
	for i := range p.Variants {
		p.Variants[i].IsDefault = i == index
		p.Variants[i].UpdatedAt = now
	}
	p.UpdatedAt = now

	return nil
}

// DefaultVariant returns the default variant, or nil when the product has none
func (p *VendorProduct) DefaultVariant() *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return &p.Variants[i]
		}
	}
	return nil
}

// ValidateVariants checks the single-default invariant and per-variant stock
func (p *VendorProduct) ValidateVariants() error {
	if len(p.Variants) == 0 {
		return nil
	}

	defaults := 0
	for _, v := range p.Variants {
		if v.IsDefault {
			defaults++
		}
		if v.StockQuantity < 0 {
			return shared.NewDomainError("INVALID_VARIANT_STOCK", "Variant stock quantity cannot be negative")
		}
	}
	if defaults != 1 {
		return shared.NewDomainError("INVALID_DEFAULT_VARIANT",
			fmt.Sprintf("Exactly one variant must be the default, found %d", defaults))
	}
	return nil
}

// IsAvailableForPurchase reports whether new order items may reference this
// product: it must be active and either have stock or be flagged to continue
// selling when out of stock.
func (p *VendorProduct) IsAvailableForPurchase() bool {
	if !p.IsActive {
		return false
	}
	if !p.TrackQuantity {
		return true
	}
	return p.StockQuantity > 0 || p.ContinueSelling
}

// IsLowStock reports whether stock has fallen to the reorder threshold
func (p *VendorProduct) IsLowStock() bool {
	return p.TrackQuantity && p.StockQuantity <= p.MinStockQuantity
}
