package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"crossroads-backend/application/services"
	"crossroads-backend/domain/core/entities"
	"crossroads-backend/pkg/auth"
	"crossroads-backend/pkg/common"
	"crossroads-backend/pkg/utils"
)

// AdvisorHandler serves the advisor profile endpoints.
type AdvisorHandler struct {
	advisors *services.AdvisorService
	logger   *zap.Logger
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(advisors *services.AdvisorService, logger *zap.Logger) *AdvisorHandler {
	return &AdvisorHandler{advisors: advisors, logger: logger}
}

type advisorRequest struct {
	Name   string   `json:"name" validate:"max=100"`
	Style  string   `json:"style" validate:"max=500"`
	Traits []string `json:"traits" validate:"max=10,dive,max=50"`
}

type advisorResponse struct {
	Name      string    `json:"name,omitempty"`
	Style     string    `json:"style,omitempty"`
	Traits    []string  `json:"traits,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetProfile handles GET /api/v1/advisor
func (h *AdvisorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	profile, err := h.advisors.GetProfile(r.Context(), user.UserID)
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	if profile == nil {
		common.RespondError(w, http.StatusNotFound, "ADVISOR_NOT_CONFIGURED", "No advisor profile configured")
		return
	}
	common.RespondJSON(w, http.StatusOK, toAdvisorResponse(profile))
}

// SaveProfile handles PUT /api/v1/advisor
func (h *AdvisorHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req advisorRequest
	if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	profile, err := h.advisors.SaveProfile(r.Context(), user.UserID, req.Name, req.Style, req.Traits)
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toAdvisorResponse(profile))
}

func toAdvisorResponse(profile *entities.AdvisorProfile) advisorResponse {
	return advisorResponse{
		Name:      profile.Name(),
		Style:     profile.Style(),
		Traits:    profile.Traits(),
		UpdatedAt: profile.UpdatedAt(),
	}
}
