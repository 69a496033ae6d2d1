package onboarding

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdantmarket/backend/internal/domain/catalog"
	"github.com/verdantmarket/backend/internal/domain/onboarding"
	"github.com/verdantmarket/backend/internal/domain/shared"
	"github.com/verdantmarket/backend/internal/domain/vendor"
)

// MockSessionRepository is a mock implementation of onboarding.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*onboarding.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*onboarding.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *onboarding.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of vendor.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.VendorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.VendorProfile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*vendor.VendorProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.VendorProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *vendor.VendorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.VendorProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.VendorProduct), args.Error(1)
}

func (m *MockProductRepository) FindByIDForVendor(ctx context.Context, vendorID, id uuid.UUID) (*catalog.VendorProduct, error) {
	args := m.Called(ctx, vendorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.VendorProduct), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, vendorID uuid.UUID, sku string) (*catalog.VendorProduct, error) {
	args := m.Called(ctx, vendorID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.VendorProduct), args.Error(1)
}

func (m *MockProductRepository) FindAllForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]catalog.VendorProduct, error) {
	args := m.Called(ctx, vendorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.VendorProduct), args.Error(1)
}

func (m *MockProductRepository) CountForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, vendorID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.VendorProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.VendorProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService() (*SessionService, *MockSessionRepository, *MockProfileRepository, *MockProductRepository) {
	sessionRepo := new(MockSessionRepository)
	profileRepo := new(MockProfileRepository)
	productRepo := new(MockProductRepository)
	return NewSessionService(sessionRepo, profileRepo, productRepo), sessionRepo, profileRepo, productRepo
}

func basicInfo() onboarding.BasicInfo {
	return onboarding.BasicInfo{
		BusinessName:  "Verdant Threads",
		ContactPerson: "Asha Rao",
		Email:         "asha@verdantthreads.example",
		Phone:         "+91 98765 43210",
		Password:      "s3cret-pass",
		AgreeToTerms:  true,
	}
}

// sessionAtFinalStep drives a session through steps 1-4
func sessionAtFinalStep(t *testing.T) *onboarding.Session {
	t.Helper()
	session := onboarding.NewSession()
	require.NoError(t, session.Advance(1, basicInfo()))
	require.NoError(t, session.Advance(2, onboarding.BusinessProfile{
		BusinessName:      "Verdant Threads Pvt Ltd",
		LegalEntityType:   "private_limited",
		PanGstNumber:      "29ABCDE1234F1Z5",
		BankName:          "State Bank",
		BankAccountNumber: "000123456789",
		IfscCode:          "SBIN0001234",
		BusinessAddress:   "14 MG Road, Bengaluru",
		PanCardURL:        "https://cdn.example/docs/pan.pdf",
		AddressProofURL:   "https://cdn.example/docs/address.pdf",
	}))
	require.NoError(t, session.Advance(3, onboarding.ProductInfo{
		Name:             "Organic Cotton Tote",
		SKU:              "VT-TOTE-001",
		ShortDescription: "Everyday organic cotton tote",
		Description:      "A sturdy tote bag woven from certified organic cotton.",
		CategoryID:       uuid.NewString(),
		BrandID:          "verdant-threads",
		Price:            decimal.NewFromInt(499),
		Images:           []string{"https://cdn.example/img/tote.jpg"},
	}))
	require.NoError(t, session.Advance(4, onboarding.Inventory{Weight: 1.2, OriginCountry: "India"}))
	return session
}

func TestSessionServiceStart(t *testing.T) {
	service, sessionRepo, _, _ := newService()
	ctx := context.Background()

	sessionRepo.On("Save", ctx, mock.AnythingOfType("*onboarding.Session")).Return(nil)

	resp, err := service.Start(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStep)
	assert.False(t, resp.Completed)
	sessionRepo.AssertExpectations(t)
}

func TestSessionServiceSubmitStep(t *testing.T) {
	ctx := context.Background()

	t.Run("advances and redacts the password", func(t *testing.T) {
		service, sessionRepo, profileRepo, _ := newService()
		session := onboarding.NewSession()

		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		profileRepo.On("FindByEmail", ctx, "asha@verdantthreads.example").Return(nil, shared.ErrNotFound)
		sessionRepo.On("Save", ctx, session).Return(nil)

		resp, err := service.SubmitStep(ctx, session.ID, 1, basicInfo())

		require.NoError(t, err)
		assert.Equal(t, 2, resp.CurrentStep)
		assert.Empty(t, resp.FormData.BasicInfo.Password)
		assert.Equal(t, "Verdant Threads", resp.FormData.BasicInfo.BusinessName)
	})

	t.Run("rejects an already registered email", func(t *testing.T) {
		service, sessionRepo, profileRepo, _ := newService()
		session := onboarding.NewSession()

		existing, err := vendor.NewVendorProfile("Other Shop", "Someone", "asha@verdantthreads.example", "+91 11111 11111", "x")
		require.NoError(t, err)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		profileRepo.On("FindByEmail", ctx, "asha@verdantthreads.example").Return(existing, nil)

		_, err = service.SubmitStep(ctx, session.ID, 1, basicInfo())

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "An account with this email already exists", validationErr.Fields["email"])
		assert.Equal(t, 1, session.CurrentStep)
		sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("propagates field validation errors without saving", func(t *testing.T) {
		service, sessionRepo, _, _ := newService()
		session := sessionAtFinalStep(t)
		require.NoError(t, session.GoBack())

		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

		_, err := service.SubmitStep(ctx, session.ID, 4, onboarding.Inventory{})

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Len(t, validationErr.Fields, 2)
		sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSessionServiceComplete(t *testing.T) {
	ctx := context.Background()
	sustainability := onboarding.Sustainability{SustainabilityPractices: "GOTS certified cotton"}

	t.Run("creates the profile and the draft product", func(t *testing.T) {
		service, sessionRepo, profileRepo, productRepo := newService()
		session := sessionAtFinalStep(t)

		var savedProfile *vendor.VendorProfile
		var savedProduct *catalog.VendorProduct
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		profileRepo.On("FindByEmail", ctx, "asha@verdantthreads.example").Return(nil, shared.ErrNotFound)
		profileRepo.On("Save", ctx, mock.AnythingOfType("*vendor.VendorProfile")).Run(func(args mock.Arguments) {
			savedProfile = args.Get(1).(*vendor.VendorProfile)
		}).Return(nil)
		productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.VendorProduct")).Run(func(args mock.Arguments) {
			savedProduct = args.Get(1).(*catalog.VendorProduct)
		}).Return(nil)
		sessionRepo.On("Delete", ctx, session.ID).Return(nil)

		resp, err := service.Complete(ctx, session.ID, sustainability)

		require.NoError(t, err)
		require.NotNil(t, savedProfile)
		assert.Equal(t, resp.VendorID, savedProfile.ID)
		assert.Equal(t, "Verdant Threads Pvt Ltd", savedProfile.BusinessName)
		assert.Equal(t, "GOTS certified cotton", savedProfile.SustainabilityPractices)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedProfile.PasswordHash), []byte("s3cret-pass")))

		require.NotNil(t, savedProduct)
		require.NotNil(t, resp.ProductID)
		assert.Equal(t, *resp.ProductID, savedProduct.ID)
		assert.Equal(t, savedProfile.ID, savedProduct.VendorID)
		assert.Equal(t, "VT-TOTE-001", savedProduct.SKU)
		assert.Equal(t, 1.2, savedProduct.Weight)
		assert.False(t, savedProduct.IsActive)

		sessionRepo.AssertExpectations(t)
	})

	t.Run("skipped product creates no draft", func(t *testing.T) {
		service, sessionRepo, profileRepo, productRepo := newService()
		session := onboarding.NewSession()
		require.NoError(t, session.Advance(1, basicInfo()))
		require.NoError(t, session.Advance(2, onboarding.BusinessProfile{
			BusinessName: "Verdant Threads Pvt Ltd", LegalEntityType: "llp", PanGstNumber: "X",
			BankName: "State Bank", BankAccountNumber: "1", IfscCode: "SBIN0001234",
			BusinessAddress: "14 MG Road", PanCardURL: "u", AddressProofURL: "u",
		}))
		require.NoError(t, session.SkipProduct())

		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		profileRepo.On("FindByEmail", ctx, "asha@verdantthreads.example").Return(nil, shared.ErrNotFound)
		profileRepo.On("Save", ctx, mock.AnythingOfType("*vendor.VendorProfile")).Return(nil)
		sessionRepo.On("Delete", ctx, session.ID).Return(nil)

		resp, err := service.Complete(ctx, session.ID, sustainability)

		require.NoError(t, err)
		assert.Nil(t, resp.ProductID)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects when the email got registered meanwhile", func(t *testing.T) {
		service, sessionRepo, profileRepo, _ := newService()
		session := sessionAtFinalStep(t)

		existing, err := vendor.NewVendorProfile("Other Shop", "Someone", "asha@verdantthreads.example", "+91 11111 11111", "x")
		require.NoError(t, err)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		profileRepo.On("FindByEmail", ctx, "asha@verdantthreads.example").Return(existing, nil)

		_, err = service.Complete(ctx, session.ID, sustainability)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_EXISTS", domainErr.Code)
		profileRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSessionServiceVariants(t *testing.T) {
	ctx := context.Background()

	service, sessionRepo, _, _ := newService()
	session := onboarding.NewSession()

	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	sessionRepo.On("Save", ctx, session).Return(nil)

	resp, err := service.AddVariant(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, resp.FormData.Variants, 2)

	resp, err = service.SetDefaultVariant(ctx, session.ID, 1)
	require.NoError(t, err)
	assert.True(t, resp.FormData.Variants[1].IsDefault)

	resp, err = service.UpdateVariant(ctx, session.ID, 0, onboarding.VariantDraft{
		Name: "Small", SKU: "VT-TOTE-001-S", Price: decimal.NewFromInt(449), StockQuantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Small", resp.FormData.Variants[0].Name)
}
