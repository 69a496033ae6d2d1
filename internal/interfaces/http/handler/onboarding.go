package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	apponboarding "github.com/verdantmarket/backend/internal/application/onboarding"
	"github.com/verdantmarket/backend/internal/domain/onboarding"
)

// OnboardingHandler exposes the vendor onboarding wizard over HTTP. The
// wizard runs unauthenticated; the session ID is the only credential.
type OnboardingHandler struct {
	BaseHandler
	sessionService *apponboarding.SessionService
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(sessionService *apponboarding.SessionService) *OnboardingHandler {
	return &OnboardingHandler{sessionService: sessionService}
}

// Start handles POST /api/v1/vendor/onboarding/sessions
func (h *OnboardingHandler) Start(c *gin.Context) {
	session, err := h.sessionService.Start(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// Get handles GET /api/v1/vendor/onboarding/sessions/:id
func (h *OnboardingHandler) Get(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// submitStepRequest wraps a step payload; the payload shape depends on the
// step number so it is decoded in a second pass.
type submitStepRequest struct {
	Step int             `json:"step" binding:"required,min=1,max=4"`
	Data json.RawMessage `json:"data" binding:"required"`
}

// SubmitStep handles POST /api/v1/vendor/onboarding/sessions/:id/steps
func (h *OnboardingHandler) SubmitStep(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req submitStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	data, err := decodeStepData(req.Step, req.Data)
	if err != nil {
		h.BadRequest(c, "Invalid step payload: "+err.Error())
		return
	}

	session, err := h.sessionService.SubmitStep(c.Request.Context(), sessionID, req.Step, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

func decodeStepData(step int, raw json.RawMessage) (onboarding.StepData, error) {
	switch step {
	case onboarding.StepBasicInfo:
		var data onboarding.BasicInfo
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	case onboarding.StepBusinessProfile:
		var data onboarding.BusinessProfile
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	case onboarding.StepProductInfo:
		var data onboarding.ProductInfo
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	default:
		var data onboarding.Inventory
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	}
}

// SkipProduct handles POST /api/v1/vendor/onboarding/sessions/:id/skip-product
func (h *OnboardingHandler) SkipProduct(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.SkipProduct(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// GoBack handles POST /api/v1/vendor/onboarding/sessions/:id/back
func (h *OnboardingHandler) GoBack(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GoBack(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// AddVariant handles POST /api/v1/vendor/onboarding/sessions/:id/variants
func (h *OnboardingHandler) AddVariant(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.AddVariant(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// RemoveVariant handles DELETE /api/v1/vendor/onboarding/sessions/:id/variants
func (h *OnboardingHandler) RemoveVariant(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req apponboarding.VariantIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.sessionService.RemoveVariant(c.Request.Context(), sessionID, req.Index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// UpdateVariant handles PUT /api/v1/vendor/onboarding/sessions/:id/variants
func (h *OnboardingHandler) UpdateVariant(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req apponboarding.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.sessionService.UpdateVariant(c.Request.Context(), sessionID, req.Index, req.Variant)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// SetDefaultVariant handles PUT /api/v1/vendor/onboarding/sessions/:id/variants/default
func (h *OnboardingHandler) SetDefaultVariant(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req apponboarding.VariantIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.sessionService.SetDefaultVariant(c.Request.Context(), sessionID, req.Index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Complete handles POST /api/v1/vendor/onboarding/sessions/:id/complete
func (h *OnboardingHandler) Complete(c *gin.Context) {
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	var data onboarding.Sustainability
	if err := c.ShouldBindJSON(&data); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.sessionService.Complete(c.Request.Context(), sessionID, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
