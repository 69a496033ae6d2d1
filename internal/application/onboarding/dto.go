package onboarding

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/domain/onboarding"
)

// SessionResponse represents an onboarding session in API responses.
// The password entered at step 1 is never echoed back.
type SessionResponse struct {
	ID             uuid.UUID           `json:"id"`
	CurrentStep    int                 `json:"current_step"`
	Completed      bool                `json:"completed"`
	ProductSkipped bool                `json:"product_skipped"`
	FormData       onboarding.FormData `json:"form_data"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CompleteResponse is returned once onboarding finishes: the new vendor
// account plus the draft product, when one was created.
type CompleteResponse struct {
	VendorID  uuid.UUID  `json:"vendor_id"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
}

// VariantIndexRequest addresses one variant row of the wizard
type VariantIndexRequest struct {
	Index int `json:"index" binding:"min=0"`
}

// UpdateVariantRequest replaces one variant row of the wizard
type UpdateVariantRequest struct {
	Index   int                     `json:"index" binding:"min=0"`
	Variant onboarding.VariantDraft `json:"variant"`
}

// ToSessionResponse converts a domain session to its response shape
func ToSessionResponse(s *onboarding.Session) SessionResponse {
	form := s.FormData
	form.BasicInfo.Password = ""

	return SessionResponse{
		ID:             s.ID,
		CurrentStep:    s.CurrentStep,
		Completed:      s.Completed,
		ProductSkipped: s.ProductSkipped,
		FormData:       form,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
