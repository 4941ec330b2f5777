package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"crossroads-backend/application/services"
	"crossroads-backend/pkg/auth"
	"crossroads-backend/pkg/common"
	"crossroads-backend/pkg/utils"
)

// NavigationHandler serves the traversal endpoints: advance, back,
// conclusion, summary.
type NavigationHandler struct {
	trees  *services.TreeService
	logger *zap.Logger
}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler(trees *services.TreeService, logger *zap.Logger) *NavigationHandler {
	return &NavigationHandler{trees: trees, logger: logger}
}

type advanceRequest struct {
	OptionID string `json:"option_id" validate:"required,uuid4"`
}

type finalizeRequest struct {
	Force bool `json:"force"`
}

// Advance handles POST /api/v1/trees/{treeID}/advance
func (h *NavigationHandler) Advance(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req advanceRequest
	if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tree, revisited, err := h.trees.Advance(r.Context(), user.UserID, chi.URLParam(r, "treeID"), req.OptionID)
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tree":      toTreeResponse(tree),
		"revisited": revisited,
	})
}

// GoBack handles POST /api/v1/trees/{treeID}/back
func (h *NavigationHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tree, err := h.trees.GoBack(r.Context(), user.UserID, chi.URLParam(r, "treeID"))
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toTreeResponse(tree))
}

// CheckConclusion handles GET /api/v1/trees/{treeID}/conclusion. It reports
// whether the tree is ready for a final synthesis and returns the stored
// conclusion when one exists.
func (h *NavigationHandler) CheckConclusion(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tree, err := h.trees.GetTree(r.Context(), user.UserID, chi.URLParam(r, "treeID"))
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}

	payload := map[string]interface{}{
		"should_conclude": h.trees.ShouldConclude(tree, false),
		"node_count":      tree.NodeCount(),
	}
	if conclusion, ok := tree.Conclusion(); ok {
		payload["conclusion"] = conclusionResponse{
			NodeID:     conclusion.NodeID().String(),
			Decision:   conclusion.Decision(),
			Reflection: conclusion.Reflection(),
			CreatedAt:  conclusion.CreatedAt(),
		}
	}
	common.RespondJSON(w, http.StatusOK, payload)
}

// Finalize handles POST /api/v1/trees/{treeID}/conclusion
func (h *NavigationHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req finalizeRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
			common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
			return
		}
	}

	tree, conclusion, err := h.trees.Finalize(r.Context(), user.UserID, chi.URLParam(r, "treeID"), req.Force)
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"decision":   conclusion.Decision(),
		"reflection": conclusion.Reflection(),
		"tree":       toTreeResponse(tree),
	})
}

// Summary handles GET /api/v1/trees/{treeID}/summary
func (h *NavigationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	summary, err := h.trees.Summarize(r.Context(), user.UserID, chi.URLParam(r, "treeID"))
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})
}
