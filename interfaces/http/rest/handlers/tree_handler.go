package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"crossroads-backend/application/services"
	"crossroads-backend/domain/core/aggregates"
	"crossroads-backend/pkg/auth"
	"crossroads-backend/pkg/common"
	"crossroads-backend/pkg/utils"
)

// TreeHandler serves the tree lifecycle endpoints: create, fetch, list,
// delete. It only translates HTTP to service calls.
type TreeHandler struct {
	trees  *services.TreeService
	logger *zap.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(trees *services.TreeService, logger *zap.Logger) *TreeHandler {
	return &TreeHandler{trees: trees, logger: logger}
}

// Request/response DTOs

type createTreeRequest struct {
	Topic       string `json:"topic" validate:"required,min=1,max=500"`
	Context     string `json:"context" validate:"max=50000"`
	Personality string `json:"personality" validate:"max=200"`
	UseAdvisor  bool   `json:"use_advisor"`
}

type optionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type nodeResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Body           string           `json:"body,omitempty"`
	Options        []optionResponse `json:"options"`
	ParentID       string           `json:"parent_id,omitempty"`
	ParentOptionID string           `json:"parent_option_id,omitempty"`
	IsFinal        bool             `json:"is_final"`
}

type conclusionResponse struct {
	NodeID     string    `json:"node_id"`
	Decision   string    `json:"decision"`
	Reflection string    `json:"reflection,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type treeResponse struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Topic         string              `json:"topic"`
	Context       string              `json:"context,omitempty"`
	CurrentNodeID string              `json:"current_node_id"`
	NodeCount     int                 `json:"node_count"`
	Concluded     bool                `json:"concluded"`
	Conclusion    *conclusionResponse `json:"conclusion,omitempty"`
	Nodes         []nodeResponse      `json:"nodes"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type treeListItemResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	CurrentNodeID string    `json:"current_node_id"`
	NodeCount     int       `json:"node_count"`
	Concluded     bool      `json:"concluded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateTree handles POST /api/v1/trees
func (h *TreeHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req createTreeRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tree, err := h.trees.CreateTree(r.Context(), user.UserID, req.Topic, req.Context, req.Personality, req.UseAdvisor)
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, toTreeResponse(tree))
}

// GetTree handles GET /api/v1/trees/{treeID}
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
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
	common.RespondJSON(w, http.StatusOK, toTreeResponse(tree))
}

// ListTrees handles GET /api/v1/trees
func (h *TreeHandler) ListTrees(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	trees, err := h.trees.ListTrees(r.Context(), user.UserID, limit)
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}

	items := make([]treeListItemResponse, len(trees))
	for i, tree := range trees {
		items[i] = treeListItemResponse{
			ID:            tree.ID().String(),
			Title:         tree.Title(),
			Topic:         tree.Topic(),
			CurrentNodeID: tree.CurrentNodeID().String(),
			NodeCount:     tree.NodeCount(),
			Concluded:     tree.IsConcluded(),
			CreatedAt:     tree.CreatedAt(),
			UpdatedAt:     tree.UpdatedAt(),
		}
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"trees": items})
}

// DeleteTree handles DELETE /api/v1/trees/{treeID}
func (h *TreeHandler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.trees.DeleteTree(r.Context(), user.UserID, chi.URLParam(r, "treeID")); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toTreeResponse flattens the aggregate for the wire.
func toTreeResponse(tree *aggregates.DecisionTree) treeResponse {
	nodes := tree.Nodes()
	nodeResponses := make([]nodeResponse, 0, len(nodes))
	for _, node := range nodes {
		options := node.Options()
		optionResponses := make([]optionResponse, len(options))
		for i, option := range options {
			optionResponses[i] = optionResponse{ID: option.ID().String(), Text: option.Text()}
		}
		nr := nodeResponse{
			ID:             node.ID().String(),
			Title:          node.Content().Title(),
			Body:           node.Content().Body(),
			Options:        optionResponses,
			ParentOptionID: node.ParentOption().String(),
			IsFinal:        node.IsFinal(),
		}
		if parentID := node.ParentID(); parentID != nil {
			nr.ParentID = parentID.String()
		}
		nodeResponses = append(nodeResponses, nr)
	}

	resp := treeResponse{
		ID:            tree.ID().String(),
		Title:         tree.Title(),
		Topic:         tree.Topic(),
		Context:       tree.Context(),
		CurrentNodeID: tree.CurrentNodeID().String(),
		NodeCount:     tree.NodeCount(),
		Concluded:     tree.IsConcluded(),
		Nodes:         nodeResponses,
		CreatedAt:     tree.CreatedAt(),
		UpdatedAt:     tree.UpdatedAt(),
	}
	if conclusion, ok := tree.Conclusion(); ok {
		resp.Conclusion = &conclusionResponse{
			NodeID:     conclusion.NodeID().String(),
			Decision:   conclusion.Decision(),
			Reflection: conclusion.Reflection(),
			CreatedAt:  conclusion.CreatedAt(),
		}
	}
	return resp
}
