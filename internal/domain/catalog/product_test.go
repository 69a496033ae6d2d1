package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantmarket/backend/internal/domain/shared"
)

func createTestProduct(t *testing.T) *VendorProduct {
	t.Helper()
	product, err := NewVendorProduct(uuid.New(), "Organic Cotton Tote", "ECO-TOTE-01", "A sturdy tote bag", decimal.NewFromFloat(399))
	require.NoError(t, err)
	return product
}

func testVariant(t *testing.T, name, sku string, price float64, stock int) *ProductVariant {
	t.Helper()
	v, err := NewProductVariant(name, sku, decimal.NewFromFloat(price), stock, AttributeMap{"size": name})
	require.NoError(t, err)
	return v
}

func TestNewVendorProduct(t *testing.T) {
	product := createTestProduct(t)

	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "ECO-TOTE-01", product.SKU)
	assert.True(t, product.IsActive)
	assert.True(t, product.RequiresShipping)
	assert.True(t, product.TrackQuantity)
	assert.Equal(t, 1, product.Version)
	assert.Empty(t, product.Variants)
}

func TestNewVendorProduct_Validation(t *testing.T) {
	vendorID := uuid.New()

	tests := []struct {
		name  string
		sku   string
		price decimal.Decimal
		code  string
	}{
		{"", "SKU-1", decimal.NewFromInt(10), "INVALID_NAME"},
		{"Tote", "", decimal.NewFromInt(10), "INVALID_SKU"},
		{"Tote", "SKU-1", decimal.Zero, "INVALID_PRICE"},
		{"Tote", "SKU-1", decimal.NewFromInt(-5), "INVALID_PRICE"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			_, err := NewVendorProduct(vendorID, tt.name, tt.sku, "", tt.price)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}

	_, err := NewVendorProduct(uuid.Nil, "Tote", "SKU-1", "", decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestNewVendorProduct_SKUNormalized(t *testing.T) {
	product, err := NewVendorProduct(uuid.New(), "Tote", "  eco-tote-02 ", "", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "ECO-TOTE-02", product.SKU)
}

func TestVendorProduct_AddVariant(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.AddVariant(testVariant(t, "Small", "ECO-TOTE-01-S", 399, 10)))
	require.NoError(t, product.AddVariant(testVariant(t, "Large", "ECO-TOTE-01-L", 449, 5)))

	assert.Len(t, product.Variants, 2)
	// first variant added became the default
	assert.True(t, product.Variants[0].IsDefault)
	assert.False(t, product.Variants[1].IsDefault)
	assert.NoError(t, product.ValidateVariants())
	assert.Equal(t, product.ID, product.Variants[0].ProductID)
}

func TestVendorProduct_AddVariant_DuplicateSKU(t *testing.T) {
	product := createTestProduct(t)
	require.NoError(t, product.AddVariant(testVariant(t, "Small", "ECO-TOTE-01-S", 399, 10)))

	err := product.AddVariant(testVariant(t, "Small again", "ECO-TOTE-01-S", 399, 10))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_SKU", domainErr.Code)
}

func TestVendorProduct_RemoveVariant(t *testing.T) {
	product := createTestProduct(t)
	require.NoError(t, product.AddVariant(testVariant(t, "Small", "S", 399, 10)))

	// last variant cannot be removed
	err := product.RemoveVariant(0)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	require.NoError(t, product.AddVariant(testVariant(t, "Large", "L", 449, 5)))
	assert.Error(t, product.RemoveVariant(5))
	assert.Error(t, product.RemoveVariant(-1))

	// removing the default promotes the next variant
	require.NoError(t, product.RemoveVariant(0))
	require.Len(t, product.Variants, 1)
	assert.True(t, product.Variants[0].IsDefault)
	assert.NoError(t, product.ValidateVariants())
}

func TestVendorProduct_SetDefaultVariant(t *testing.T) {
	product := createTestProduct(t)
	require.NoError(t, product.AddVariant(testVariant(t, "Small", "S", 399, 10)))
	require.NoError(t, product.AddVariant(testVariant(t, "Medium", "M", 429, 8)))
	require.NoError(t, product.AddVariant(testVariant(t, "Large", "L", 449, 5)))

	require.NoError(t, product.SetDefaultVariant(2))

	defaults := 0
	for i, v := range product.Variants {
		if v.IsDefault {
			defaults++
			assert.Equal(t, 2, i)
		}
	}
	assert.Equal(t, 1, defaults)
	require.NotNil(t, product.DefaultVariant())
	assert.Equal(t, "Large", product.DefaultVariant().Name)
	assert.NoError(t, product.ValidateVariants())

	assert.Error(t, product.SetDefaultVariant(3))
}

func TestVendorProduct_ValidateVariants(t *testing.T) {
	product := createTestProduct(t)
	assert.NoError(t, product.ValidateVariants(), "no variants is valid")

	require.NoError(t, product.AddVariant(testVariant(t, "Small", "S", 399, 10)))
	require.NoError(t, product.AddVariant(testVariant(t, "Large", "L", 449, 5)))

	// corrupt the invariant directly to verify detection
	product.Variants[1].IsDefault = true
	err := product.ValidateVariants()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DEFAULT_VARIANT", domainErr.Code)

	product.Variants[0].IsDefault = false
	product.Variants[1].IsDefault = false
	assert.Error(t, product.ValidateVariants())
}

func TestVendorProduct_UpdateStock(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.UpdateStock(25))
	assert.Equal(t, 25, product.StockQuantity)

	err := product.UpdateStock(-1)
	require.Error(t, err)
	assert.Equal(t, 25, product.StockQuantity)
}

func TestVendorProduct_SetActive(t *testing.T) {
	product := createTestProduct(t)
	require.True(t, product.IsActive)

	product.SetActive(false)
	assert.False(t, product.IsActive)

	// idempotent
	product.SetActive(false)
	assert.False(t, product.IsActive)

	product.SetActive(true)
	assert.True(t, product.IsActive)
}

func TestVendorProduct_SetPricing(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.SetPricing(decimal.NewFromInt(499), decimal.NewFromInt(599), decimal.NewFromInt(250)))
	assert.True(t, product.Price.Equal(decimal.NewFromInt(499)))

	assert.Error(t, product.SetPricing(decimal.Zero, decimal.Zero, decimal.Zero))
	assert.Error(t, product.SetPricing(decimal.NewFromInt(499), decimal.NewFromInt(-1), decimal.Zero))
}

func TestVendorProduct_SetSustainability(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.SetSustainability(8, StringSlice{"biodegradable"}, StringSlice{"GOTS"}, StringSlice{"organic cotton"}))
	assert.Equal(t, 8, product.SustainabilityRating)

	assert.Error(t, product.SetSustainability(11, nil, nil, nil))
	assert.Error(t, product.SetSustainability(-1, nil, nil, nil))
}

func TestVendorProduct_IsAvailableForPurchase(t *testing.T) {
	product := createTestProduct(t)
	require.NoError(t, product.UpdateStock(10))
	assert.True(t, product.IsAvailableForPurchase())

	require.NoError(t, product.UpdateStock(0))
	assert.False(t, product.IsAvailableForPurchase())

	product.ContinueSelling = true
	assert.True(t, product.IsAvailableForPurchase())

	product.SetActive(false)
	assert.False(t, product.IsAvailableForPurchase())

	product.SetActive(true)
	product.ContinueSelling = false
	product.TrackQuantity = false
	assert.True(t, product.IsAvailableForPurchase())
}

func TestVendorProduct_IsLowStock(t *testing.T) {
	product := createTestProduct(t)
	product.MinStockQuantity = 5

	require.NoError(t, product.UpdateStock(10))
	assert.False(t, product.IsLowStock())

	require.NoError(t, product.UpdateStock(5))
	assert.True(t, product.IsLowStock())
}

func TestNewProductVariant_Validation(t *testing.T) {
	_, err := NewProductVariant("", "S", decimal.NewFromInt(10), 0, nil)
	assert.Error(t, err)

	_, err = NewProductVariant("Small", "S", decimal.Zero, 0, nil)
	assert.Error(t, err)

	_, err = NewProductVariant("Small", "S", decimal.NewFromInt(10), -1, nil)
	assert.Error(t, err)
}

func TestStringSlice_RoundTrip(t *testing.T) {
	s := StringSlice{"a", "b"}
	v, err := s.Value()
	require.NoError(t, err)

	var out StringSlice
	require.NoError(t, out.Scan(v))
	assert.Equal(t, s, out)

	var null StringSlice
	require.NoError(t, null.Scan(nil))
	assert.Nil(t, null)
}

func TestAttributeMap_RoundTrip(t *testing.T) {
	m := AttributeMap{"size": "L", "color": "green"}
	v, err := m.Value()
	require.NoError(t, err)

	var out AttributeMap
	require.NoError(t, out.Scan(v))
	assert.Equal(t, m, out)
}
