package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// TreeID identifies a decision tree aggregate.
type TreeID struct {
	value string
}

// NewTreeID creates a new random TreeID.
func NewTreeID() TreeID {
	return TreeID{value: uuid.New().String()}
}

// NewTreeIDFromString creates a TreeID from an existing string.
func NewTreeIDFromString(id string) (TreeID, error) {
	if id == "" {
		return TreeID{}, errors.New("tree ID cannot be empty")
	}
	return TreeID{value: id}, nil
}

func (id TreeID) String() string       { return id.value }
func (id TreeID) Equals(o TreeID) bool { return id.value == o.value }
func (id TreeID) IsZero() bool         { return id.value == "" }

// NodeID identifies a single node within a tree.
//
// Node and option ids are random UUIDs: unique with overwhelming probability
// across calls and processes, with no central coordination. Callers treat the
// string form as opaque.
type NodeID struct {
	value string
}

// NewNodeID creates a new random NodeID.
func NewNodeID() NodeID {
	return NodeID{value: uuid.New().String()}
}

// NewNodeIDFromString creates a NodeID from an existing string.
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

func (id NodeID) String() string       { return id.value }
func (id NodeID) Equals(o NodeID) bool { return id.value == o.value }
func (id NodeID) IsZero() bool         { return id.value == "" }

// OptionID identifies one option on a node; unique within that node.
type OptionID struct {
	value string
}

// NewOptionID creates a new random OptionID.
func NewOptionID() OptionID {
	return OptionID{value: uuid.New().String()}
}

// NewOptionIDFromString creates an OptionID from an existing string.
func NewOptionIDFromString(id string) (OptionID, error) {
	if id == "" {
		return OptionID{}, errors.New("option ID cannot be empty")
	}
	return OptionID{value: id}, nil
}

func (id OptionID) String() string         { return id.value }
func (id OptionID) Equals(o OptionID) bool { return id.value == o.value }
func (id OptionID) IsZero() bool           { return id.value == "" }
