package valueobjects

import (
	"strings"
	"time"

	pkgerrors "crossroads-backend/pkg/errors"
)

// Conclusion is the synthesized outcome of a tree: the recommendation, the
// reflective rationale, and the node the user was on when it was produced.
type Conclusion struct {
	nodeID     NodeID
	decision   string
	reflection string
	createdAt  time.Time
}

// NewConclusion creates a conclusion reached at the given node.
func NewConclusion(nodeID NodeID, decision, reflection string) (Conclusion, error) {
	decision = strings.TrimSpace(decision)
	if nodeID.IsZero() || decision == "" {
		return Conclusion{}, pkgerrors.New(pkgerrors.ErrorTypeValidation, "CONCLUSION_FIELDS_REQUIRED", "a conclusion needs a node and a decision")
	}
	return Conclusion{
		nodeID:     nodeID,
		decision:   decision,
		reflection: strings.TrimSpace(reflection),
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructConclusion recreates a conclusion from stored data.
func ReconstructConclusion(nodeID NodeID, decision, reflection string, createdAt time.Time) Conclusion {
	return Conclusion{
		nodeID:     nodeID,
		decision:   decision,
		reflection: reflection,
		createdAt:  createdAt,
	}
}

// NodeID returns the node the conclusion was reached at.
func (c Conclusion) NodeID() NodeID { return c.nodeID }

// Decision returns the recommendation text.
func (c Conclusion) Decision() string { return c.decision }

// Reflection returns the reflective rationale.
func (c Conclusion) Reflection() string { return c.reflection }

// CreatedAt returns when the conclusion was produced.
func (c Conclusion) CreatedAt() time.Time { return c.createdAt }

// IsZero reports whether the conclusion is unset.
func (c Conclusion) IsZero() bool { return c.nodeID.IsZero() }
