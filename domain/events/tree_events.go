package events

import "time"

// TreeCreated is raised when the initial generation call produces a tree.
type TreeCreated struct {
	BaseEvent
	TreeID     string `json:"tree_id"`
	UserID     string `json:"user_id"`
	Topic      string `json:"topic"`
	RootNodeID string `json:"root_node_id"`
}

// NewTreeCreated creates a TreeCreated event.
func NewTreeCreated(treeID, userID, topic, rootNodeID string, timestamp time.Time) TreeCreated {
	return TreeCreated{
		BaseEvent: BaseEvent{
			AggregateID: treeID,
			EventType:   "tree.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		TreeID:     treeID,
		UserID:     userID,
		Topic:      topic,
		RootNodeID: rootNodeID,
	}
}

// BranchExplored is raised when selecting an option generated a new child
// node.
type BranchExplored struct {
	BaseEvent
	TreeID   string `json:"tree_id"`
	ParentID string `json:"parent_id"`
	OptionID string `json:"option_id"`
	ChildID  string `json:"child_id"`
}

// NewBranchExplored creates a BranchExplored event.
func NewBranchExplored(treeID, parentID, optionID, childID string, timestamp time.Time) BranchExplored {
	return BranchExplored{
		BaseEvent: BaseEvent{
			AggregateID: treeID,
			EventType:   "tree.branch_explored",
			Timestamp:   timestamp,
			Version:     1,
		},
		TreeID:   treeID,
		ParentID: parentID,
		OptionID: optionID,
		ChildID:  childID,
	}
}

// BranchRevisited is raised when selecting an option moved the pointer to an
// already-generated child instead of calling the completion service.
type BranchRevisited struct {
	BaseEvent
	TreeID  string `json:"tree_id"`
	ChildID string `json:"child_id"`
}

// NewBranchRevisited creates a BranchRevisited event.
func NewBranchRevisited(treeID, childID string, timestamp time.Time) BranchRevisited {
	return BranchRevisited{
		BaseEvent: BaseEvent{
			AggregateID: treeID,
			EventType:   "tree.branch_revisited",
			Timestamp:   timestamp,
			Version:     1,
		},
		TreeID:  treeID,
		ChildID: childID,
	}
}

// ConclusionReached is raised when the conclusion protocol recorded a final
// recommendation at the current node.
type ConclusionReached struct {
	BaseEvent
	TreeID string `json:"tree_id"`
	NodeID string `json:"node_id"`
}

// NewConclusionReached creates a ConclusionReached event.
func NewConclusionReached(treeID, nodeID string, timestamp time.Time) ConclusionReached {
	return ConclusionReached{
		BaseEvent: BaseEvent{
			AggregateID: treeID,
			EventType:   "tree.conclusion_reached",
			Timestamp:   timestamp,
			Version:     1,
		},
		TreeID: treeID,
		NodeID: nodeID,
	}
}

// TreeDeleted is raised when a whole tree aggregate is removed.
type TreeDeleted struct {
	BaseEvent
	TreeID string `json:"tree_id"`
	UserID string `json:"user_id"`
}

// NewTreeDeleted creates a TreeDeleted event.
func NewTreeDeleted(treeID, userID string, timestamp time.Time) TreeDeleted {
	return TreeDeleted{
		BaseEvent: BaseEvent{
			AggregateID: treeID,
			EventType:   "tree.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		TreeID: treeID,
		UserID: userID,
	}
}
