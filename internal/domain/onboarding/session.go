package onboarding

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/domain/shared"
)

// Session is a vendor onboarding wizard in progress. It advances strictly one
// step at a time, keeps everything the vendor has entered so far, and becomes
// immutable once completed.
type Session struct {
	ID             uuid.UUID `json:"id"`
	CurrentStep    int       `json:"current_step"`
	Completed      bool      `json:"completed"`
	ProductSkipped bool      `json:"product_skipped"`
	FormData       FormData  `json:"form_data"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSession starts a fresh session at step 1 with a single blank variant row
// ready for the product step.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.New(),
		CurrentStep: FirstStep,
		FormData: FormData{
			Variants: []VariantDraft{{}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// guard rejects writes to a finished session
func (s *Session) guard() error {
	if s.Completed {
		return shared.NewDomainError("SESSION_COMPLETED", "onboarding session is already completed")
	}
	return nil
}

// Advance validates the payload for the given step and, on success, merges it
// and moves to the next step. The step must match the session's current step.
// Validation failures leave the session untouched and report per-field
// messages. Advance handles steps 1 through 4; the final step goes through
// Complete.
func (s *Session) Advance(step int, data StepData) error {
	if err := s.guard(); err != nil {
		return err
	}
	if step < FirstStep || step >= FinalStep {
		return shared.NewDomainError("INVALID_STEP", "step must be between 1 and 4")
	}
	if step != s.CurrentStep {
		return shared.NewDomainError("STEP_MISMATCH", "submitted step does not match the session's current step")
	}
	if data.Step() != step {
		return shared.NewDomainError("INVALID_STEP", "payload does not belong to the submitted step")
	}

	if errs := validateStep(data); len(errs) > 0 {
		return shared.NewValidationErrors(errs)
	}

	s.merge(data)
	s.CurrentStep = step + 1
	s.touch()
	return nil
}

// Complete validates the final step, merges it, and marks the session done.
// Only a session sitting at the last step can complete.
func (s *Session) Complete(data Sustainability) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.CurrentStep != FinalStep {
		return shared.NewDomainError("STEP_MISMATCH", "session has not reached the final step")
	}

	if errs := validateStep(data); len(errs) > 0 {
		return shared.NewValidationErrors(errs)
	}

	s.FormData.Sustainability = data
	s.Completed = true
	s.touch()
	return nil
}

// SkipProduct jumps from the product step straight past inventory. Anything
// already typed into the product form is retained in case the vendor comes
// back.
func (s *Session) SkipProduct() error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.CurrentStep != StepProductInfo {
		return shared.NewDomainError("STEP_MISMATCH", "only the product step can be skipped")
	}
	s.ProductSkipped = true
	s.CurrentStep = StepSustainability
	s.touch()
	return nil
}

// GoBack moves one step back without discarding any entered data. Backing out
// of the sustainability step after a skip returns to the product step, and
// re-entering the product flow clears the skip flag.
func (s *Session) GoBack() error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.CurrentStep <= FirstStep {
		return shared.NewDomainError("STEP_MISMATCH", "already at the first step")
	}
	if s.ProductSkipped && s.CurrentStep == StepSustainability {
		s.CurrentStep = StepProductInfo
		s.ProductSkipped = false
	} else {
		s.CurrentStep--
	}
	s.touch()
	return nil
}

func (s *Session) merge(data StepData) {
	switch d := data.(type) {
	case BasicInfo:
		s.FormData.BasicInfo = d
	case BusinessProfile:
		s.FormData.BusinessProfile = d
	case ProductInfo:
		s.FormData.ProductInfo = d
		s.ProductSkipped = false
	case Inventory:
		s.FormData.Inventory = d
	case Sustainability:
		s.FormData.Sustainability = d
	}
}

// AddVariant appends a blank variant row
func (s *Session) AddVariant() error {
	if err := s.guard(); err != nil {
		return err
	}
	s.FormData.Variants = append(s.FormData.Variants, VariantDraft{})
	s.touch()
	return nil
}

// RemoveVariant deletes the row at index. The last remaining row cannot be
// removed; removing the default row promotes the first remaining one.
func (s *Session) RemoveVariant(index int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.FormData.Variants) {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "no variant at that position")
	}
	if len(s.FormData.Variants) == 1 {
		return shared.NewDomainError("CONFLICT", "at least one variant row must remain")
	}
	wasDefault := s.FormData.Variants[index].IsDefault
	s.FormData.Variants = append(s.FormData.Variants[:index], s.FormData.Variants[index+1:]...)
	if wasDefault {
		s.FormData.Variants[0].IsDefault = true
	}
	s.touch()
	return nil
}

// SetDefaultVariant marks the row at index as default and clears the flag on
// every other row.
func (s *Session) SetDefaultVariant(index int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.FormData.Variants) {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "no variant at that position")
	}
	for i := range s.FormData.Variants {
		s.FormData.Variants[i].IsDefault = i == index
	}
	s.touch()
	return nil
}

// UpdateVariant replaces the row at index
func (s *Session) UpdateVariant(index int, draft VariantDraft) error {
	if err := s.guard(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.FormData.Variants) {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "no variant at that position")
	}
	wasDefault := s.FormData.Variants[index].IsDefault
	draft.IsDefault = wasDefault
	s.FormData.Variants[index] = draft
	s.touch()
	return nil
}
