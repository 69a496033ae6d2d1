package onboarding

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Wizard steps, in order
const (
	StepBasicInfo       = 1
	StepBusinessProfile = 2
	StepProductInfo     = 3
	StepInventory       = 4
	StepSustainability  = 5

	FirstStep = StepBasicInfo
	FinalStep = StepSustainability
)

// StepData is the tagged union of per-step payloads. Each payload validates
// independently; Advance merges it into the session's accumulated FormData.
type StepData interface {
	Step() int
}

// BasicInfo is step 1: seller signup basics
type BasicInfo struct {
	BusinessName  string `json:"business_name" validate:"required"`
	ContactPerson string `json:"contact_person" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Password      string `json:"password" validate:"required,min=8"`
	AgreeToTerms  bool   `json:"agree_to_terms" validate:"eq=true"`
}

// Step implements StepData
func (BasicInfo) Step() int { return StepBasicInfo }

// BusinessProfile is step 2: business details and document uploads.
// Document fields carry opaque URLs produced by the external upload service.
type BusinessProfile struct {
	BusinessName        string `json:"business_name" validate:"required"`
	LegalEntityType     string `json:"legal_entity_type" validate:"required"`
	PanGstNumber        string `json:"pan_gst_number" validate:"required"`
	BankName            string `json:"bank_name" validate:"required"`
	BankAccountNumber   string `json:"bank_account_number" validate:"required"`
	IfscCode            string `json:"ifsc_code" validate:"required"`
	BusinessAddress     string `json:"business_address" validate:"required"`
	IsMsmeRegistered    bool   `json:"is_msme_registered"`
	Website             string `json:"website"`
	BusinessDescription string `json:"business_description"`

	LogoURL            string `json:"logo"`
	BannerURL          string `json:"banner"`
	PanCardURL         string `json:"pan_card" validate:"required"`
	AddressProofURL    string `json:"address_proof" validate:"required"`
	FssaiLicenseURL    string `json:"fssai_license"`
	TradeLicenseURL    string `json:"trade_license"`
	MsmeCertificateURL string `json:"msme_certificate"`
	OtherDocumentURL   string `json:"other_document"`
	OtherDocumentName  string `json:"other_document_name"`
}

// Step implements StepData
func (BusinessProfile) Step() int { return StepBusinessProfile }

// ProductInfo is step 3: the vendor's first product. The whole step is
// skippable; when provided, these fields are required.
type ProductInfo struct {
	Name             string          `json:"name" validate:"required"`
	SKU              string          `json:"sku" validate:"required"`
	ShortDescription string          `json:"short_description" validate:"required"`
	Description      string          `json:"description" validate:"required"`
	CategoryID       string          `json:"category_id" validate:"required"`
	BrandID          string          `json:"brand_id" validate:"required"`
	Price            decimal.Decimal `json:"price"`
	CompareAtPrice   decimal.Decimal `json:"compare_at_price"`
	CostPerItem      decimal.Decimal `json:"cost_per_item"`
	Tags             []string        `json:"tags"`
	Images           []string        `json:"images" validate:"required,min=1"`
}

// Step implements StepData
func (ProductInfo) Step() int { return StepProductInfo }

// extraErrors applies the price check validator tags cannot express on a
// decimal field.
func (p ProductInfo) extraErrors() map[string]string {
	if p.Price.LessThanOrEqual(decimal.Zero) {
		return map[string]string{"price": "Valid price is required"}
	}
	return nil
}

// Inventory is step 4: product logistics and variants
type Inventory struct {
	Weight           float64 `json:"weight" validate:"required,gt=0"`
	OriginCountry    string  `json:"origin_country" validate:"required"`
	CareInstructions string  `json:"care_instructions"`
	TrackQuantity    bool    `json:"track_quantity"`
	ContinueSelling  bool    `json:"continue_selling"`
}

// Step implements StepData
func (Inventory) Step() int { return StepInventory }

// Sustainability is step 5: the vendor's sustainability profile
type Sustainability struct {
	SustainabilityPractices      string `json:"sustainability_practices" validate:"required"`
	SustainabilityCertificateURL string `json:"sustainability_certificate"`
}

// Step implements StepData
func (Sustainability) Step() int { return StepSustainability }

// VariantDraft is a variant under construction inside the wizard
type VariantDraft struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	IsDefault     bool            `json:"is_default"`
}

// FormData is the single accumulating record of the wizard. Steps only ever
// merge into it; nothing is cleared between steps or on back-navigation.
type FormData struct {
	BasicInfo       BasicInfo       `json:"basic_info"`
	BusinessProfile BusinessProfile `json:"business_profile"`
	ProductInfo     ProductInfo     `json:"product_info"`
	Inventory       Inventory       `json:"inventory"`
	Sustainability  Sustainability  `json:"sustainability"`
	Variants        []VariantDraft  `json:"variants"`
}

// validate is shared across sessions; field names are reported from json tags
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldMessages carries the user-facing error texts per field; fields not
// listed fall back to a generic message.
var fieldMessages = map[string]string{
	"business_name":            "Business name is required",
	"contact_person":           "Contact person is required",
	"email":                    "A valid email address is required",
	"phone":                    "Phone number is required",
	"password":                 "Password must be at least 8 characters",
	"agree_to_terms":           "You must agree to the terms and conditions",
	"legal_entity_type":        "Legal entity type is required",
	"pan_gst_number":           "PAN/GST number is required",
	"bank_name":                "Bank name is required",
	"bank_account_number":      "Bank account number is required",
	"ifsc_code":                "IFSC code is required",
	"business_address":         "Business address is required",
	"pan_card":                 "PAN card is required",
	"address_proof":            "Address proof is required",
	"name":                     "Product name is required",
	"sku":                      "SKU is required",
	"short_description":        "Short description is required",
	"description":              "Description is required",
	"category_id":              "Category is required",
	"brand_id":                 "Brand is required",
	"price":                    "Valid price is required",
	"images":                   "At least one product image is required",
	"weight":                   "Weight is required",
	"origin_country":           "Origin country is required",
	"sustainability_practices": "Please describe your sustainability practices",
}

// validateStep runs validator tags over a step payload and returns a
// field-keyed error map, empty when the payload is valid.
func validateStep(data StepData) map[string]string {
	errs := make(map[string]string)

	if err := validate.Struct(data); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				field := fe.Field()
				if msg, ok := fieldMessages[field]; ok {
					errs[field] = msg
				} else {
					errs[field] = field + " is invalid"
				}
			}
		} else {
			errs["_"] = "invalid step payload"
		}
	}

	if p, ok := data.(ProductInfo); ok {
		for field, msg := range p.extraErrors() {
			errs[field] = msg
		}
	}

	return errs
}
