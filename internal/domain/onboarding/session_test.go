package onboarding

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantmarket/backend/internal/domain/shared"
)

func validBasicInfo() BasicInfo {
	return BasicInfo{
		BusinessName:  "Verdant Threads",
		ContactPerson: "Asha Rao",
		Email:         "asha@verdantthreads.example",
		Phone:         "+91 98765 43210",
		Password:      "s3cret-pass",
		AgreeToTerms:  true,
	}
}

func validBusinessProfile() BusinessProfile {
	return BusinessProfile{
		BusinessName:      "Verdant Threads Pvt Ltd",
		LegalEntityType:   "private_limited",
		PanGstNumber:      "29ABCDE1234F1Z5",
		BankName:          "State Bank",
		BankAccountNumber: "000123456789",
		IfscCode:          "SBIN0001234",
		BusinessAddress:   "14 MG Road, Bengaluru",
		PanCardURL:        "https://cdn.example/docs/pan.pdf",
		AddressProofURL:   "https://cdn.example/docs/address.pdf",
	}
}

func validProductInfo() ProductInfo {
	return ProductInfo{
		Name:             "Organic Cotton Tote",
		SKU:              "VT-TOTE-001",
		ShortDescription: "Everyday organic cotton tote",
		Description:      "A sturdy tote bag woven from certified organic cotton.",
		CategoryID:       "bags",
		BrandID:          "verdant-threads",
		Price:            decimal.NewFromInt(499),
		Images:           []string{"https://cdn.example/img/tote.jpg"},
	}
}

func validInventory() Inventory {
	return Inventory{
		Weight:        1.2,
		OriginCountry: "India",
		TrackQuantity: true,
	}
}

func validSustainability() Sustainability {
	return Sustainability{
		SustainabilityPractices: "GOTS certified cotton, plastic-free packaging",
	}
}

func sessionAtStep(t *testing.T, step int) *Session {
	t.Helper()
	s := NewSession()
	payloads := []StepData{validBasicInfo(), validBusinessProfile(), validProductInfo(), validInventory()}
	for i := FirstStep; i < step; i++ {
		require.NoError(t, s.Advance(i, payloads[i-1]))
	}
	require.Equal(t, step, s.CurrentStep)
	return s
}

func TestNewSession(t *testing.T) {
	s := NewSession()

	assert.Equal(t, FirstStep, s.CurrentStep)
	assert.False(t, s.Completed)
	assert.False(t, s.ProductSkipped)
	require.Len(t, s.FormData.Variants, 1)
	assert.False(t, s.FormData.Variants[0].IsDefault)
}

func TestSessionAdvance(t *testing.T) {
	t.Run("step mismatch is rejected", func(t *testing.T) {
		s := NewSession()

		err := s.Advance(2, validBusinessProfile())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STEP_MISMATCH", domainErr.Code)
		assert.Equal(t, FirstStep, s.CurrentStep)
	})

	t.Run("payload must belong to the submitted step", func(t *testing.T) {
		s := NewSession()

		err := s.Advance(1, validBusinessProfile())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STEP", domainErr.Code)
	})

	t.Run("final step cannot be submitted through advance", func(t *testing.T) {
		s := sessionAtStep(t, StepSustainability)

		err := s.Advance(5, validSustainability())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STEP", domainErr.Code)
	})

	t.Run("validation failure keeps the session in place", func(t *testing.T) {
		s := NewSession()
		info := validBasicInfo()
		info.Email = "not-an-email"
		info.AgreeToTerms = false

		err := s.Advance(1, info)

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "A valid email address is required", validationErr.Fields["email"])
		assert.Equal(t, "You must agree to the terms and conditions", validationErr.Fields["agree_to_terms"])
		assert.Equal(t, FirstStep, s.CurrentStep)
		assert.Empty(t, s.FormData.BasicInfo.BusinessName)
	})

	t.Run("inventory step reports every missing field", func(t *testing.T) {
		s := sessionAtStep(t, StepInventory)

		err := s.Advance(4, Inventory{Weight: 0, OriginCountry: ""})

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Len(t, validationErr.Fields, 2)
		assert.Equal(t, "Weight is required", validationErr.Fields["weight"])
		assert.Equal(t, "Origin country is required", validationErr.Fields["origin_country"])
		assert.Equal(t, StepInventory, s.CurrentStep)

		require.NoError(t, s.Advance(4, validInventory()))
		assert.Equal(t, StepSustainability, s.CurrentStep)
	})

	t.Run("product price must be positive", func(t *testing.T) {
		s := sessionAtStep(t, StepProductInfo)
		product := validProductInfo()
		product.Price = decimal.Zero

		err := s.Advance(3, product)

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Valid price is required", validationErr.Fields["price"])
	})

	t.Run("successful advance merges the payload", func(t *testing.T) {
		s := NewSession()

		require.NoError(t, s.Advance(1, validBasicInfo()))

		assert.Equal(t, 2, s.CurrentStep)
		assert.Equal(t, "Verdant Threads", s.FormData.BasicInfo.BusinessName)
	})
}

func TestSessionComplete(t *testing.T) {
	t.Run("completes from the final step", func(t *testing.T) {
		s := sessionAtStep(t, StepSustainability)

		require.NoError(t, s.Complete(validSustainability()))

		assert.True(t, s.Completed)
		assert.Equal(t, "GOTS certified cotton, plastic-free packaging", s.FormData.Sustainability.SustainabilityPractices)
	})

	t.Run("rejected before the final step", func(t *testing.T) {
		s := sessionAtStep(t, StepInventory)

		err := s.Complete(validSustainability())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STEP_MISMATCH", domainErr.Code)
		assert.False(t, s.Completed)
	})

	t.Run("validates the sustainability payload", func(t *testing.T) {
		s := sessionAtStep(t, StepSustainability)

		err := s.Complete(Sustainability{})

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Please describe your sustainability practices", validationErr.Fields["sustainability_practices"])
		assert.False(t, s.Completed)
	})

	t.Run("completed session rejects further writes", func(t *testing.T) {
		s := sessionAtStep(t, StepSustainability)
		require.NoError(t, s.Complete(validSustainability()))

		var domainErr *shared.DomainError
		require.ErrorAs(t, s.Complete(validSustainability()), &domainErr)
		assert.Equal(t, "SESSION_COMPLETED", domainErr.Code)
		require.ErrorAs(t, s.AddVariant(), &domainErr)
		assert.Equal(t, "SESSION_COMPLETED", domainErr.Code)
	})
}

func TestSessionSkipProduct(t *testing.T) {
	t.Run("skips from the product step straight to the final step", func(t *testing.T) {
		s := sessionAtStep(t, StepProductInfo)

		require.NoError(t, s.SkipProduct())

		assert.Equal(t, StepSustainability, s.CurrentStep)
		assert.True(t, s.ProductSkipped)
	})

	t.Run("only the product step can be skipped", func(t *testing.T) {
		s := NewSession()

		err := s.SkipProduct()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STEP_MISMATCH", domainErr.Code)
	})

	t.Run("advancing through the product step clears the skip flag", func(t *testing.T) {
		s := sessionAtStep(t, StepProductInfo)
		require.NoError(t, s.SkipProduct())
		require.NoError(t, s.GoBack())

		require.NoError(t, s.Advance(3, validProductInfo()))

		assert.False(t, s.ProductSkipped)
		assert.Equal(t, StepInventory, s.CurrentStep)
	})
}

func TestSessionGoBack(t *testing.T) {
	t.Run("keeps entered data", func(t *testing.T) {
		s := sessionAtStep(t, StepProductInfo)

		require.NoError(t, s.GoBack())

		assert.Equal(t, StepBusinessProfile, s.CurrentStep)
		assert.Equal(t, "Verdant Threads", s.FormData.BasicInfo.BusinessName)
		assert.Equal(t, "SBIN0001234", s.FormData.BusinessProfile.IfscCode)
	})

	t.Run("cannot back out of the first step", func(t *testing.T) {
		s := NewSession()

		err := s.GoBack()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STEP_MISMATCH", domainErr.Code)
	})

	t.Run("backing out of a skip returns to the product step", func(t *testing.T) {
		s := sessionAtStep(t, StepProductInfo)
		require.NoError(t, s.SkipProduct())

		require.NoError(t, s.GoBack())

		assert.Equal(t, StepProductInfo, s.CurrentStep)
		assert.False(t, s.ProductSkipped)
	})
}

func TestSessionVariants(t *testing.T) {
	t.Run("add appends a blank row", func(t *testing.T) {
		s := NewSession()

		require.NoError(t, s.AddVariant())

		assert.Len(t, s.FormData.Variants, 2)
	})

	t.Run("last row cannot be removed", func(t *testing.T) {
		s := NewSession()

		err := s.RemoveVariant(0)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		assert.Len(t, s.FormData.Variants, 1)
	})

	t.Run("removing the default row promotes the first remaining", func(t *testing.T) {
		s := NewSession()
		require.NoError(t, s.AddVariant())
		require.NoError(t, s.AddVariant())
		require.NoError(t, s.SetDefaultVariant(2))

		require.NoError(t, s.RemoveVariant(2))

		require.Len(t, s.FormData.Variants, 2)
		assert.True(t, s.FormData.Variants[0].IsDefault)
	})

	t.Run("set default clears every other row", func(t *testing.T) {
		s := NewSession()
		require.NoError(t, s.AddVariant())
		require.NoError(t, s.SetDefaultVariant(0))

		require.NoError(t, s.SetDefaultVariant(1))

		assert.False(t, s.FormData.Variants[0].IsDefault)
		assert.True(t, s.FormData.Variants[1].IsDefault)
	})

	t.Run("update keeps the default flag", func(t *testing.T) {
		s := NewSession()
		require.NoError(t, s.SetDefaultVariant(0))

		draft := VariantDraft{Name: "Small", SKU: "VT-TOTE-001-S", Price: decimal.NewFromInt(449), StockQuantity: 10}
		require.NoError(t, s.UpdateVariant(0, draft))

		assert.Equal(t, "Small", s.FormData.Variants[0].Name)
		assert.True(t, s.FormData.Variants[0].IsDefault)
	})

	t.Run("out of range index", func(t *testing.T) {
		s := NewSession()

		var domainErr *shared.DomainError
		require.ErrorAs(t, s.RemoveVariant(3), &domainErr)
		assert.Equal(t, "VARIANT_NOT_FOUND", domainErr.Code)
		require.ErrorAs(t, s.SetDefaultVariant(-1), &domainErr)
		assert.Equal(t, "VARIANT_NOT_FOUND", domainErr.Code)
	})
}
