package dynamodb

import (
	"sort"
	"time"

	"crossroads-backend/domain/core/aggregates"
	"crossroads-backend/domain/core/entities"
	"crossroads-backend/domain/core/valueobjects"
	pkgerrors "crossroads-backend/pkg/errors"
)

// The snapshot types are the JSON shape of the authoritative Data blob.
// The denormalized item columns exist only for querying and sorting; a
// tree is always reconstructed from this blob.

type optionSnapshot struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type nodeSnapshot struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Body           string           `json:"body,omitempty"`
	Options        []optionSnapshot `json:"options"`
	ParentID       string           `json:"parent_id,omitempty"`
	ParentOptionID string           `json:"parent_option_id,omitempty"`
	IsFinal        bool             `json:"is_final,omitempty"`
}

type conclusionSnapshot struct {
	NodeID     string    `json:"node_id"`
	Decision   string    `json:"decision"`
	Reflection string    `json:"reflection,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type treeSnapshot struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Title         string              `json:"title"`
	Topic         string              `json:"topic"`
	Context       string              `json:"context,omitempty"`
	CurrentNodeID string              `json:"current_node_id"`
	Nodes         []nodeSnapshot      `json:"nodes"`
	Conclusion    *conclusionSnapshot `json:"conclusion,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// snapshotFromTree flattens the aggregate into its storable form. Nodes
// are ordered by id so the blob is byte-stable for identical trees.
func snapshotFromTree(tree *aggregates.DecisionTree) treeSnapshot {
	nodes := tree.Nodes()
	nodeSnaps := make([]nodeSnapshot, 0, len(nodes))
	for _, node := range nodes {
		nodeSnaps = append(nodeSnaps, snapshotFromNode(node))
	}
	sort.Slice(nodeSnaps, func(i, j int) bool { return nodeSnaps[i].ID < nodeSnaps[j].ID })

	snap := treeSnapshot{
		ID:            tree.ID().String(),
		UserID:        tree.UserID(),
		Title:         tree.Title(),
		Topic:         tree.Topic(),
		Context:       tree.Context(),
		CurrentNodeID: tree.CurrentNodeID().String(),
		Nodes:         nodeSnaps,
		CreatedAt:     tree.CreatedAt().UTC(),
		UpdatedAt:     tree.UpdatedAt().UTC(),
	}
	if conclusion, ok := tree.Conclusion(); ok {
		snap.Conclusion = &conclusionSnapshot{
			NodeID:     conclusion.NodeID().String(),
			Decision:   conclusion.Decision(),
			Reflection: conclusion.Reflection(),
			CreatedAt:  conclusion.CreatedAt().UTC(),
		}
	}
	return snap
}

func snapshotFromNode(node *entities.DecisionNode) nodeSnapshot {
	options := node.Options()
	optionSnaps := make([]optionSnapshot, len(options))
	for i, option := range options {
		optionSnaps[i] = optionSnapshot{ID: option.ID().String(), Text: option.Text()}
	}
	snap := nodeSnapshot{
		ID:             node.ID().String(),
		Title:          node.Content().Title(),
		Body:           node.Content().Body(),
		Options:        optionSnaps,
		ParentOptionID: node.ParentOption().String(),
		IsFinal:        node.IsFinal(),
	}
	if parentID := node.ParentID(); parentID != nil {
		snap.ParentID = parentID.String()
	}
	return snap
}

// treeFromSnapshot rebuilds the aggregate, re-running the invariant checks
// so a corrupted blob is rejected at the storage boundary.
func treeFromSnapshot(snap treeSnapshot) (*aggregates.DecisionTree, error) {
	treeID, err := valueobjects.NewTreeIDFromString(snap.ID)
	if err != nil {
		return nil, pkgerrors.ErrInvalidTreeState.WithCause(err)
	}
	currentNodeID, err := valueobjects.NewNodeIDFromString(snap.CurrentNodeID)
	if err != nil {
		return nil, pkgerrors.ErrInvalidTreeState.WithCause(err)
	}

	nodes := make([]*entities.DecisionNode, 0, len(snap.Nodes))
	for _, ns := range snap.Nodes {
		node, err := nodeFromSnapshot(ns)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	var conclusion *valueobjects.Conclusion
	if snap.Conclusion != nil {
		nodeID, err := valueobjects.NewNodeIDFromString(snap.Conclusion.NodeID)
		if err != nil {
			return nil, pkgerrors.ErrInvalidTreeState.WithCause(err)
		}
		c := valueobjects.ReconstructConclusion(nodeID, snap.Conclusion.Decision, snap.Conclusion.Reflection, snap.Conclusion.CreatedAt)
		conclusion = &c
	}

	return aggregates.ReconstructDecisionTree(
		treeID,
		snap.UserID,
		snap.Title,
		snap.Topic,
		snap.Context,
		nodes,
		currentNodeID,
		conclusion,
		snap.CreatedAt,
		snap.UpdatedAt,
	)
}

func nodeFromSnapshot(snap nodeSnapshot) (*entities.DecisionNode, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(snap.ID)
	if err != nil {
		return nil, pkgerrors.ErrInvalidTreeState.WithCause(err)
	}
	content, err := valueobjects.NewNodeContent(snap.Title, snap.Body)
	if err != nil {
		return nil, err
	}

	options := make([]valueobjects.Option, 0, len(snap.Options))
	for _, os := range snap.Options {
		optionID, err := valueobjects.NewOptionIDFromString(os.ID)
		if err != nil {
			return nil, pkgerrors.ErrInvalidTreeState.WithCause(err)
		}
		option, err := valueobjects.ReconstructOption(optionID, os.Text)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}

	var parentID valueobjects.NodeID
	if snap.ParentID != "" {
		parentID, err = valueobjects.NewNodeIDFromString(snap.ParentID)
		if err != nil {
			return nil, pkgerrors.ErrInvalidTreeState.WithCause(err)
		}
	}
	var parentOption valueobjects.OptionID
	if snap.ParentOptionID != "" {
		parentOption, err = valueobjects.NewOptionIDFromString(snap.ParentOptionID)
		if err != nil {
			return nil, pkgerrors.ErrInvalidTreeState.WithCause(err)
		}
	}

	return entities.ReconstructNode(nodeID, content, options, parentID, parentOption, snap.IsFinal)
}
