package entities

import (
	"crossroads-backend/domain/core/valueobjects"
	pkgerrors "crossroads-backend/pkg/errors"
)

// DecisionNode is one titled point in a decision tree: body text explaining
// the consideration plus the ordered options the user can pick from.
//
// Nodes are immutable once attached except for the final-conclusion flag;
// the tree only grows or the current pointer moves.
type DecisionNode struct {
	id           valueobjects.NodeID
	content      valueobjects.NodeContent
	options      []valueobjects.Option
	parentID     *valueobjects.NodeID
	parentOption valueobjects.OptionID
	isFinal      bool
}

// NewRootNode creates the root node of a tree. Each option text receives a
// fresh id, preserving parse order.
func NewRootNode(content valueobjects.NodeContent, optionTexts []string) (*DecisionNode, error) {
	options, err := buildOptions(optionTexts)
	if err != nil {
		return nil, err
	}
	return &DecisionNode{
		id:      valueobjects.NewNodeID(),
		content: content,
		options: options,
	}, nil
}

// NewChildNode creates a node produced by selecting parentOption on the node
// identified by parentID.
func NewChildNode(
	content valueobjects.NodeContent,
	optionTexts []string,
	parentID valueobjects.NodeID,
	parentOption valueobjects.OptionID,
) (*DecisionNode, error) {
	if parentID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "PARENT_ID_REQUIRED", "child node requires a parent id")
	}
	if parentOption.IsZero() {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "PARENT_OPTION_REQUIRED", "child node requires the option that produced it")
	}
	options, err := buildOptions(optionTexts)
	if err != nil {
		return nil, err
	}
	return &DecisionNode{
		id:           valueobjects.NewNodeID(),
		content:      content,
		options:      options,
		parentID:     &parentID,
		parentOption: parentOption,
	}, nil
}

// ReconstructNode recreates a node from repository data with preserved ids.
// parentID may be zero for the root.
func ReconstructNode(
	id valueobjects.NodeID,
	content valueobjects.NodeContent,
	options []valueobjects.Option,
	parentID valueobjects.NodeID,
	parentOption valueobjects.OptionID,
	isFinal bool,
) (*DecisionNode, error) {
	if id.IsZero() {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "NODE_ID_REQUIRED", "node id cannot be empty")
	}
	if parentID.IsZero() != parentOption.IsZero() {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "PARENT_LINK_INCOMPLETE", "parent id and parent option must be set together")
	}
	if len(options) == 0 {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "NODE_OPTIONS_REQUIRED", "a node requires at least one option")
	}
	node := &DecisionNode{
		id:           id,
		content:      content,
		options:      append([]valueobjects.Option(nil), options...),
		parentOption: parentOption,
		isFinal:      isFinal,
	}
	if !parentID.IsZero() {
		node.parentID = &parentID
	}
	return node, nil
}

// ID returns the node's unique identifier.
func (n *DecisionNode) ID() valueobjects.NodeID {
	return n.id
}

// Content returns the node's title and body.
func (n *DecisionNode) Content() valueobjects.NodeContent {
	return n.content
}

// Options returns the node's options in display order.
func (n *DecisionNode) Options() []valueobjects.Option {
	options := make([]valueobjects.Option, len(n.options))
	copy(options, n.options)
	return options
}

// OptionByID looks up an option on this node.
func (n *DecisionNode) OptionByID(id valueobjects.OptionID) (valueobjects.Option, bool) {
	for _, opt := range n.options {
		if opt.ID().Equals(id) {
			return opt, true
		}
	}
	return valueobjects.Option{}, false
}

// HasOption reports whether id names an option on this node.
func (n *DecisionNode) HasOption(id valueobjects.OptionID) bool {
	_, ok := n.OptionByID(id)
	return ok
}

// ParentID returns the id of the node whose option produced this one, or nil
// for the root.
func (n *DecisionNode) ParentID() *valueobjects.NodeID {
	if n.parentID == nil {
		return nil
	}
	id := *n.parentID
	return &id
}

// ParentOption returns the option id on the parent that was selected to
// create this node; zero for the root.
func (n *DecisionNode) ParentOption() valueobjects.OptionID {
	return n.parentOption
}

// IsRoot reports whether this node is the tree's root.
func (n *DecisionNode) IsRoot() bool {
	return n.parentID == nil
}

// IsFinal reports whether a conclusion was recorded at this node.
func (n *DecisionNode) IsFinal() bool {
	return n.isFinal
}

// MarkFinal records that the conclusion protocol ran at this node. The node
// stays navigable; the flag is a structural record, not a lock.
func (n *DecisionNode) MarkFinal() {
	n.isFinal = true
}

func buildOptions(texts []string) ([]valueobjects.Option, error) {
	if len(texts) == 0 {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "NODE_OPTIONS_REQUIRED", "a node requires at least one option")
	}
	options := make([]valueobjects.Option, 0, len(texts))
	for _, text := range texts {
		opt, err := valueobjects.NewOption(text)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}
