package onboarding

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdantmarket/backend/internal/domain/catalog"
	"github.com/verdantmarket/backend/internal/domain/onboarding"
	"github.com/verdantmarket/backend/internal/domain/shared"
	"github.com/verdantmarket/backend/internal/domain/vendor"
)

// SessionService drives the vendor onboarding wizard. Sessions live in the
// session store until completion, at which point the accumulated form data is
// turned into a vendor profile and, unless skipped, a draft product.
type SessionService struct {
	sessionRepo onboarding.SessionRepository
	profileRepo vendor.ProfileRepository
	productRepo catalog.ProductRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo onboarding.SessionRepository, profileRepo vendor.ProfileRepository, productRepo catalog.ProductRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		productRepo: productRepo,
	}
}

// Start opens a new onboarding session
func (s *SessionService) Start(ctx context.Context) (*SessionResponse, error) {
	session := onboarding.NewSession()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// Get retrieves an onboarding session
func (s *SessionService) Get(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// SubmitStep validates a step payload and advances the session. Step 1
// additionally checks that the email is not already registered.
func (s *SessionService) SubmitStep(ctx context.Context, sessionID uuid.UUID, step int, data onboarding.StepData) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if info, ok := data.(onboarding.BasicInfo); ok {
		existing, err := s.profileRepo.FindByEmail(ctx, info.Email)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewValidationError("email", "An account with this email already exists")
		}
	}

	if err := session.Advance(step, data); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// SkipProduct skips the product and inventory steps
func (s *SessionService) SkipProduct(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(session *onboarding.Session) error {
		return session.SkipProduct()
	})
}

// GoBack moves the session one step back
func (s *SessionService) GoBack(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(session *onboarding.Session) error {
		return session.GoBack()
	})
}

// AddVariant appends a blank variant row to the wizard
func (s *SessionService) AddVariant(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(session *onboarding.Session) error {
		return session.AddVariant()
	})
}

// RemoveVariant removes the variant row at the given position
func (s *SessionService) RemoveVariant(ctx context.Context, sessionID uuid.UUID, index int) (*SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(session *onboarding.Session) error {
		return session.RemoveVariant(index)
	})
}

// SetDefaultVariant marks the variant row at the given position as default
func (s *SessionService) SetDefaultVariant(ctx context.Context, sessionID uuid.UUID, index int) (*SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(session *onboarding.Session) error {
		return session.SetDefaultVariant(index)
	})
}

// UpdateVariant replaces the variant row at the given position
func (s *SessionService) UpdateVariant(ctx context.Context, sessionID uuid.UUID, index int, draft onboarding.VariantDraft) (*SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(session *onboarding.Session) error {
		return session.UpdateVariant(index, draft)
	})
}

func (s *SessionService) mutate(ctx context.Context, sessionID uuid.UUID, op func(*onboarding.Session) error) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := op(session); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// Complete finishes the wizard: it validates the final step, creates the
// vendor profile and the draft product, and discards the session.
func (s *SessionService) Complete(ctx context.Context, sessionID uuid.UUID, data onboarding.Sustainability) (*CompleteResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Complete(data); err != nil {
		return nil, err
	}

	profile, err := s.buildProfile(ctx, &session.FormData)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	var productID *uuid.UUID
	if !session.ProductSkipped {
		product, err := buildDraftProduct(profile.ID, &session.FormData)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return nil, err
		}
		productID = &product.ID
	}

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return nil, err
	}

	return &CompleteResponse{VendorID: profile.ID, ProductID: productID}, nil
}

func (s *SessionService) buildProfile(ctx context.Context, form *onboarding.FormData) (*vendor.VendorProfile, error) {
	basic := form.BasicInfo
	business := form.BusinessProfile

	existing, err := s.profileRepo.FindByEmail(ctx, basic.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(basic.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile, err := vendor.NewVendorProfile(basic.BusinessName, basic.ContactPerson, basic.Email, basic.Phone, string(hash))
	if err != nil {
		return nil, err
	}

	if business.BusinessName != "" {
		profile.BusinessName = business.BusinessName
	}
	profile.LegalEntityType = business.LegalEntityType
	profile.PanGstNumber = business.PanGstNumber
	profile.BankName = business.BankName
	profile.BankAccountNumber = business.BankAccountNumber
	profile.IfscCode = business.IfscCode
	profile.BusinessAddress = business.BusinessAddress
	profile.IsMsmeRegistered = business.IsMsmeRegistered
	profile.Website = business.Website
	profile.BusinessDescription = business.BusinessDescription

	profile.LogoURL = business.LogoURL
	profile.BannerURL = business.BannerURL
	profile.PanCardURL = business.PanCardURL
	profile.AddressProofURL = business.AddressProofURL
	profile.FssaiLicenseURL = business.FssaiLicenseURL
	profile.TradeLicenseURL = business.TradeLicenseURL
	profile.MsmeCertificateURL = business.MsmeCertificateURL
	profile.OtherDocumentURL = business.OtherDocumentURL
	profile.OtherDocumentName = business.OtherDocumentName

	profile.SustainabilityPractices = form.Sustainability.SustainabilityPractices
	profile.SustainabilityCertificateURL = form.Sustainability.SustainabilityCertificateURL

	return profile, nil
}

// buildDraftProduct assembles the vendor's first product from the wizard
// form. It starts inactive; the vendor publishes it from the catalog once
// the account is approved.
func buildDraftProduct(vendorID uuid.UUID, form *onboarding.FormData) (*catalog.VendorProduct, error) {
	info := form.ProductInfo
	inventory := form.Inventory

	product, err := catalog.NewVendorProduct(vendorID, info.Name, info.SKU, info.Description, info.Price)
	if err != nil {
		return nil, err
	}

	if err := product.SetPricing(info.Price, info.CompareAtPrice, info.CostPerItem); err != nil {
		return nil, err
	}

	product.ShortDescription = info.ShortDescription
	if categoryID, err := uuid.Parse(info.CategoryID); err == nil {
		product.CategoryID = &categoryID
	}
	product.Brand = info.BrandID
	product.Tags = info.Tags
	product.Images = info.Images

	product.Weight = inventory.Weight
	product.OriginCountry = inventory.OriginCountry
	product.CareInstructions = inventory.CareInstructions
	product.TrackQuantity = inventory.TrackQuantity
	product.ContinueSelling = inventory.ContinueSelling

	for _, draft := range form.Variants {
		if draft.Name == "" && draft.SKU == "" {
			continue
		}
		variant, err := catalog.NewProductVariant(draft.Name, draft.SKU, draft.Price, draft.StockQuantity, nil)
		if err != nil {
			return nil, err
		}
		if err := product.AddVariant(variant); err != nil {
			return nil, err
		}
		if draft.IsDefault {
			if err := product.SetDefaultVariant(len(product.Variants) - 1); err != nil {
				return nil, err
			}
		}
	}

	product.SetActive(false)

	return product, nil
}
