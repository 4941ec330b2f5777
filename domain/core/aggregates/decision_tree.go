package aggregates

import (
	"time"

	"crossroads-backend/domain/core/entities"
	"crossroads-backend/domain/core/valueobjects"
	"crossroads-backend/domain/events"
	pkgerrors "crossroads-backend/pkg/errors"
)

// DecisionTree is the aggregate root for one decision conversation: the full
// set of explored nodes, the user's current position, and the metadata the
// list views need.
//
// The consistency rules it enforces:
//   - every non-root node's parent exists in the tree, and the parent has
//     exactly the option named by the child's parentOption
//   - a (parent, option) pair produces at most one child; revisiting a
//     branch moves the pointer instead of growing the tree
//   - the current-node pointer always names a node in the tree
type DecisionTree struct {
	id            valueobjects.TreeID
	userID        string
	title         string
	topic         string
	context       string
	nodes         map[valueobjects.NodeID]*entities.DecisionNode
	currentNodeID valueobjects.NodeID
	conclusion    *valueobjects.Conclusion
	createdAt     time.Time
	updatedAt     time.Time
	events        []events.DomainEvent
}

// NewDecisionTree creates a tree from its freshly generated root node. The
// tree title defaults to the root node's title.
func NewDecisionTree(userID, topic, context string, root *entities.DecisionNode) (*DecisionTree, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "USER_ID_REQUIRED", "userID cannot be empty")
	}
	if topic == "" {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "TOPIC_REQUIRED", "topic cannot be empty")
	}
	if root == nil || !root.IsRoot() {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "ROOT_NODE_REQUIRED", "a tree must be created from a root node")
	}

	now := time.Now().UTC()
	tree := &DecisionTree{
		id:            valueobjects.NewTreeID(),
		userID:        userID,
		title:         root.Content().Title(),
		topic:         topic,
		context:       context,
		nodes:         map[valueobjects.NodeID]*entities.DecisionNode{root.ID(): root},
		currentNodeID: root.ID(),
		createdAt:     now,
		updatedAt:     now,
		events:        []events.DomainEvent{},
	}

	tree.addEvent(events.NewTreeCreated(tree.id.String(), userID, topic, root.ID().String(), now))
	return tree, nil
}

// ReconstructDecisionTree recreates a tree from stored data. Invariants are
// re-checked so a corrupted snapshot is rejected at the boundary rather than
// surfacing later as a dangling pointer.
func ReconstructDecisionTree(
	id valueobjects.TreeID,
	userID string,
	title string,
	topic string,
	context string,
	nodes []*entities.DecisionNode,
	currentNodeID valueobjects.NodeID,
	conclusion *valueobjects.Conclusion,
	createdAt time.Time,
	updatedAt time.Time,
) (*DecisionTree, error) {
	if id.IsZero() || userID == "" {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "TREE_FIELDS_REQUIRED", "required fields missing for tree reconstruction")
	}

	nodeMap := make(map[valueobjects.NodeID]*entities.DecisionNode, len(nodes))
	for _, node := range nodes {
		if _, exists := nodeMap[node.ID()]; exists {
			return nil, pkgerrors.ErrInvalidTreeState.WithDetail("node_id", node.ID().String())
		}
		nodeMap[node.ID()] = node
	}

	tree := &DecisionTree{
		id:            id,
		userID:        userID,
		title:         title,
		topic:         topic,
		context:       context,
		nodes:         nodeMap,
		currentNodeID: currentNodeID,
		conclusion:    conclusion,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		events:        []events.DomainEvent{},
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

// ID returns the tree's unique identifier.
func (t *DecisionTree) ID() valueobjects.TreeID { return t.id }

// UserID returns the owner's ID.
func (t *DecisionTree) UserID() string { return t.userID }

// Title returns the human label for list views.
func (t *DecisionTree) Title() string { return t.title }

// Topic returns the user's original question.
func (t *DecisionTree) Topic() string { return t.topic }

// Context returns the optional free-text background supplied at creation.
func (t *DecisionTree) Context() string { return t.context }

// CurrentNodeID returns the id of the user's current position.
func (t *DecisionTree) CurrentNodeID() valueobjects.NodeID { return t.currentNodeID }

// CreatedAt returns when the tree was created.
func (t *DecisionTree) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns when the tree last changed.
func (t *DecisionTree) UpdatedAt() time.Time { return t.updatedAt }

// NodeCount returns the number of explored nodes.
func (t *DecisionTree) NodeCount() int { return len(t.nodes) }

// Nodes returns all nodes keyed by id.
func (t *DecisionTree) Nodes() map[valueobjects.NodeID]*entities.DecisionNode {
	nodes := make(map[valueobjects.NodeID]*entities.DecisionNode, len(t.nodes))
	for k, v := range t.nodes {
		nodes[k] = v
	}
	return nodes
}

// Node retrieves a node by id.
func (t *DecisionTree) Node(id valueobjects.NodeID) (*entities.DecisionNode, bool) {
	node, ok := t.nodes[id]
	return node, ok
}

// Rename replaces the tree's list-view title.
func (t *DecisionTree) Rename(title string) {
	if title == "" || title == t.title {
		return
	}
	t.title = title
	t.touch()
}

// CurrentNode returns the node the pointer names. A miss is an
// invalid-state error: under the invariants it cannot happen, so surfacing
// it loudly beats papering over a corrupted aggregate.
func (t *DecisionTree) CurrentNode() (*entities.DecisionNode, error) {
	node, ok := t.nodes[t.currentNodeID]
	if !ok {
		return nil, pkgerrors.ErrInvalidTreeState.WithDetail("current_node_id", t.currentNodeID.String())
	}
	return node, nil
}

// Root returns the root node.
func (t *DecisionTree) Root() (*entities.DecisionNode, error) {
	for _, node := range t.nodes {
		if node.IsRoot() {
			return node, nil
		}
	}
	return nil, pkgerrors.ErrInvalidTreeState.WithDetail("reason", "no root node")
}

// ChildFor returns the child generated earlier for the (parent, option)
// pair, if any. This is the de-duplication lookup: a hit means the branch
// content already exists and must not be regenerated.
func (t *DecisionTree) ChildFor(parentID valueobjects.NodeID, optionID valueobjects.OptionID) (*entities.DecisionNode, bool) {
	for _, node := range t.nodes {
		p := node.ParentID()
		if p != nil && p.Equals(parentID) && node.ParentOption().Equals(optionID) {
			return node, true
		}
	}
	return nil, false
}

// AttachChild inserts a freshly generated child node and advances the
// pointer to it. The child must reference the current node via an option
// that exists on it, and the branch must not already be explored.
func (t *DecisionTree) AttachChild(child *entities.DecisionNode) error {
	if child == nil || child.IsRoot() {
		return pkgerrors.New(pkgerrors.ErrorTypeValidation, "CHILD_NODE_REQUIRED", "a non-root child node is required")
	}
	parentID := *child.ParentID()
	parent, ok := t.nodes[parentID]
	if !ok {
		return pkgerrors.ErrInvalidTreeState.WithDetail("parent_id", parentID.String())
	}
	if !parent.HasOption(child.ParentOption()) {
		return pkgerrors.ErrInvalidOption.WithDetail("option_id", child.ParentOption().String())
	}
	if _, exists := t.nodes[child.ID()]; exists {
		return pkgerrors.ErrInvalidTreeState.WithDetail("node_id", child.ID().String())
	}
	if _, explored := t.ChildFor(parentID, child.ParentOption()); explored {
		return pkgerrors.ErrDuplicateBranch.
			WithDetail("parent_id", parentID.String()).
			WithDetail("option_id", child.ParentOption().String())
	}

	t.nodes[child.ID()] = child
	t.currentNodeID = child.ID()
	t.touch()

	t.addEvent(events.NewBranchExplored(
		t.id.String(),
		parentID.String(),
		child.ParentOption().String(),
		child.ID().String(),
		t.updatedAt,
	))
	return nil
}

// MoveTo repositions the pointer on an existing node. Used when revisiting
// an already-explored branch.
func (t *DecisionTree) MoveTo(nodeID valueobjects.NodeID) error {
	if _, ok := t.nodes[nodeID]; !ok {
		return pkgerrors.ErrInvalidTreeState.WithDetail("node_id", nodeID.String())
	}
	t.currentNodeID = nodeID
	t.touch()
	t.addEvent(events.NewBranchRevisited(t.id.String(), nodeID.String(), t.updatedAt))
	return nil
}

// StepBack moves the pointer to the current node's parent. On the root it
// is a no-op and returns false; backing out of a finished exploration is
// not an error the user can commit.
func (t *DecisionTree) StepBack() (bool, error) {
	current, err := t.CurrentNode()
	if err != nil {
		return false, err
	}
	parentID := current.ParentID()
	if parentID == nil {
		return false, nil
	}
	if _, ok := t.nodes[*parentID]; !ok {
		return false, pkgerrors.ErrInvalidTreeState.WithDetail("parent_id", parentID.String())
	}
	t.currentNodeID = *parentID
	t.touch()
	return true, nil
}

// Path returns the chain of nodes from the root to the current node,
// following parent links.
func (t *DecisionTree) Path() ([]*entities.DecisionNode, error) {
	current, err := t.CurrentNode()
	if err != nil {
		return nil, err
	}
	var reversed []*entities.DecisionNode
	for node := current; ; {
		reversed = append(reversed, node)
		parentID := node.ParentID()
		if parentID == nil {
			break
		}
		parent, ok := t.nodes[*parentID]
		if !ok {
			return nil, pkgerrors.ErrInvalidTreeState.WithDetail("parent_id", parentID.String())
		}
		if len(reversed) > len(t.nodes) {
			return nil, pkgerrors.ErrInvalidTreeState.WithDetail("reason", "parent cycle")
		}
		node = parent
	}

	path := make([]*entities.DecisionNode, len(reversed))
	for i, node := range reversed {
		path[len(reversed)-1-i] = node
	}
	return path, nil
}

// RecordConclusion stores the synthesized recommendation and marks the
// current node final. The pointer does not move; the user may keep
// exploring afterwards, and a later conclusion replaces the stored one.
func (t *DecisionTree) RecordConclusion(decision, reflection string) error {
	current, err := t.CurrentNode()
	if err != nil {
		return err
	}
	conclusion, err := valueobjects.NewConclusion(current.ID(), decision, reflection)
	if err != nil {
		return err
	}
	current.MarkFinal()
	t.conclusion = &conclusion
	t.touch()
	t.addEvent(events.NewConclusionReached(t.id.String(), current.ID().String(), t.updatedAt))
	return nil
}

// Conclusion returns the stored conclusion, if one was reached.
func (t *DecisionTree) Conclusion() (valueobjects.Conclusion, bool) {
	if t.conclusion == nil {
		return valueobjects.Conclusion{}, false
	}
	return *t.conclusion, true
}

// IsConcluded reports whether the current node carries a recorded
// conclusion.
func (t *DecisionTree) IsConcluded() bool {
	node, ok := t.nodes[t.currentNodeID]
	return ok && node.IsFinal()
}

// Validate re-checks the aggregate invariants. Cheap relative to a
// completion call; run after reconstruction from storage.
func (t *DecisionTree) Validate() error {
	if len(t.nodes) == 0 {
		return pkgerrors.ErrInvalidTreeState.WithDetail("reason", "tree has no nodes")
	}
	if _, ok := t.nodes[t.currentNodeID]; !ok {
		return pkgerrors.ErrInvalidTreeState.WithDetail("current_node_id", t.currentNodeID.String())
	}

	roots := 0
	type branch struct {
		parent valueobjects.NodeID
		option valueobjects.OptionID
	}
	seen := make(map[branch]valueobjects.NodeID, len(t.nodes))
	for _, node := range t.nodes {
		parentID := node.ParentID()
		if parentID == nil {
			roots++
			continue
		}
		parent, ok := t.nodes[*parentID]
		if !ok {
			return pkgerrors.ErrInvalidTreeState.WithDetail("parent_id", parentID.String())
		}
		if !parent.HasOption(node.ParentOption()) {
			return pkgerrors.ErrInvalidTreeState.WithDetail("option_id", node.ParentOption().String())
		}
		b := branch{parent: *parentID, option: node.ParentOption()}
		if prev, dup := seen[b]; dup {
			return pkgerrors.ErrDuplicateBranch.
				WithDetail("parent_id", parentID.String()).
				WithDetail("children", []string{prev.String(), node.ID().String()})
		}
		seen[b] = node.ID()
	}
	if roots != 1 {
		return pkgerrors.ErrInvalidTreeState.WithDetail("root_count", roots)
	}
	return nil
}

// RecordDeleted raises the deletion event for publication. The aggregate
// itself is removed by the repository; there is no partial delete.
func (t *DecisionTree) RecordDeleted() {
	t.addEvent(events.NewTreeDeleted(t.id.String(), t.userID, time.Now().UTC()))
}

// GetUncommittedEvents returns the events raised since the last commit.
func (t *DecisionTree) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(t.events))
	copy(out, t.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted events.
func (t *DecisionTree) MarkEventsAsCommitted() {
	t.events = []events.DomainEvent{}
}

func (t *DecisionTree) touch() {
	t.updatedAt = time.Now().UTC()
}

func (t *DecisionTree) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}
