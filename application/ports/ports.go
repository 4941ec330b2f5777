package ports

import (
	"context"

	"crossroads-backend/domain/core/aggregates"
	"crossroads-backend/domain/core/entities"
	"crossroads-backend/domain/core/valueobjects"
	"crossroads-backend/domain/events"
)

// SamplingConfig carries the generation parameters forwarded to the
// completion backend on every call.
type SamplingConfig struct {
	MaxTokens        int
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
}

// CompletionClient abstracts the AI completion backend. Implementations
// return the raw text of the first completion choice.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, sampling SamplingConfig) (string, error)
}

// TreeRepository persists decision tree aggregates.
type TreeRepository interface {
	// Save writes the full aggregate state, overwriting any previous version.
	Save(ctx context.Context, tree *aggregates.DecisionTree) error

	// GetByID loads a tree by its ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, treeID valueobjects.TreeID) (*aggregates.DecisionTree, error)

	// GetByUserID lists a user's trees, most recently updated first.
	// A limit of 0 means no limit.
	GetByUserID(ctx context.Context, userID string, limit int) ([]*aggregates.DecisionTree, error)

	// Delete removes a tree owned by the given user. Deleting an absent
	// tree is not an error.
	Delete(ctx context.Context, userID string, treeID valueobjects.TreeID) error
}

// AdvisorRepository persists advisor profiles, one per user.
type AdvisorRepository interface {
	Save(ctx context.Context, profile *entities.AdvisorProfile) error

	// GetByUserID loads a user's profile. Returns (nil, nil) when absent.
	GetByUserID(ctx context.Context, userID string) (*entities.AdvisorProfile, error)
}

// EventPublisher forwards domain events to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}
