package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crossroads-backend/application/parser"
	"crossroads-backend/application/ports"
	"crossroads-backend/domain/config"
	"crossroads-backend/domain/core/aggregates"
	"crossroads-backend/domain/core/entities"
	"crossroads-backend/domain/core/valueobjects"
	pkgerrors "crossroads-backend/pkg/errors"
)

// TreeService orchestrates the decision tree engine: it loads aggregates,
// drives the completion service, applies the parsed result to the tree, and
// persists the new snapshot. Each operation makes at most one completion
// call followed by one save; an upstream or storage failure leaves the
// stored snapshot untouched.
type TreeService struct {
	trees      ports.TreeRepository
	advisors   ports.AdvisorRepository
	completion ports.CompletionClient
	publisher  ports.EventPublisher
	cfg        *config.DomainConfig
	sampling   ports.SamplingConfig
	prompts    *promptBuilder
	logger     *zap.Logger
}

// NewTreeService creates a tree service.
func NewTreeService(
	trees ports.TreeRepository,
	advisors ports.AdvisorRepository,
	completion ports.CompletionClient,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	sampling ports.SamplingConfig,
	logger *zap.Logger,
) *TreeService {
	return &TreeService{
		trees:      trees,
		advisors:   advisors,
		completion: completion,
		publisher:  publisher,
		cfg:        cfg,
		sampling:   sampling,
		prompts:    newPromptBuilder(*cfg),
		logger:     logger,
	}
}

// CreateTree generates the root node for a new decision and persists the
// tree. personality is an optional tone hint; when useAdvisor is set the
// user's stored advisor persona is appended to the system prompt.
func (s *TreeService) CreateTree(
	ctx context.Context,
	userID string,
	topic string,
	treeContext string,
	personality string,
	useAdvisor bool,
) (*aggregates.DecisionTree, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "TOPIC_REQUIRED", "topic cannot be empty")
	}

	persona := ""
	if useAdvisor {
		persona = s.personaFor(ctx, userID)
	}

	raw, err := s.completion.Complete(ctx,
		s.prompts.SystemPrompt(personality, persona),
		s.prompts.CreatePrompt(topic, treeContext),
		s.sampling,
	)
	if err != nil {
		return nil, err
	}

	root, err := s.nodeFromCompletion(raw, topic, nil, valueobjects.OptionID{})
	if err != nil {
		return nil, err
	}

	tree, err := aggregates.NewDecisionTree(userID, topic, treeContext, root)
	if err != nil {
		return nil, err
	}
	if err := s.trees.Save(ctx, tree); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tree)

	s.logger.Info("Decision tree created",
		zap.String("treeID", tree.ID().String()),
		zap.String("userID", userID),
		zap.Int("options", len(root.Options())),
	)
	return tree, nil
}

// GetTree loads a tree owned by the user.
func (s *TreeService) GetTree(ctx context.Context, userID, treeID string) (*aggregates.DecisionTree, error) {
	return s.loadOwnedTree(ctx, userID, treeID)
}

// ListTrees lists the user's trees, most recently updated first. A limit of
// 0 means no limit.
func (s *TreeService) ListTrees(ctx context.Context, userID string, limit int) ([]*aggregates.DecisionTree, error) {
	return s.trees.GetByUserID(ctx, userID, limit)
}

// DeleteTree removes a tree. Deleting a tree that does not exist succeeds;
// the store does not distinguish absence from a completed delete.
func (s *TreeService) DeleteTree(ctx context.Context, userID, treeID string) error {
	id, err := valueobjects.NewTreeIDFromString(treeID)
	if err != nil {
		return err
	}
	tree, err := s.trees.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tree == nil || tree.UserID() != userID {
		return nil
	}
	if err := s.trees.Delete(ctx, userID, id); err != nil {
		return err
	}
	tree.RecordDeleted()
	s.publishEvents(ctx, tree)
	return nil
}

// Advance explores the given option on the tree's current node. If the
// branch was explored before, the pointer moves onto the existing child
// without a completion call; otherwise a new child node is generated and
// attached. The returned flag reports a revisit.
func (s *TreeService) Advance(ctx context.Context, userID, treeID, optionID string) (*aggregates.DecisionTree, bool, error) {
	tree, err := s.loadOwnedTree(ctx, userID, treeID)
	if err != nil {
		return nil, false, err
	}
	current, err := tree.CurrentNode()
	if err != nil {
		return nil, false, err
	}

	oid, err := valueobjects.NewOptionIDFromString(optionID)
	if err != nil {
		return nil, false, err
	}
	option, ok := current.OptionByID(oid)
	if !ok {
		return nil, false, pkgerrors.ErrInvalidOption.
			WithDetail("node_id", current.ID().String()).
			WithDetail("option_id", optionID)
	}

	if child, explored := tree.ChildFor(current.ID(), oid); explored {
		if err := tree.MoveTo(child.ID()); err != nil {
			return nil, false, err
		}
		if err := s.trees.Save(ctx, tree); err != nil {
			return nil, false, err
		}
		s.publishEvents(ctx, tree)
		return tree, true, nil
	}

	persona := s.personaFor(ctx, userID)
	raw, err := s.completion.Complete(ctx,
		s.prompts.SystemPrompt("", persona),
		s.prompts.AdvancePrompt(tree.Topic(), tree.Context(), current, option.Text()),
		s.sampling,
	)
	if err != nil {
		return nil, false, err
	}

	fallbackTitle := fmt.Sprintf("Exploring: %s", option.Text())
	child, err := s.nodeFromCompletion(raw, fallbackTitle, currentIDPtr(current), oid)
	if err != nil {
		return nil, false, err
	}
	if err := tree.AttachChild(child); err != nil {
		return nil, false, err
	}
	if err := s.trees.Save(ctx, tree); err != nil {
		return nil, false, err
	}
	s.publishEvents(ctx, tree)

	s.logger.Info("Branch explored",
		zap.String("treeID", tree.ID().String()),
		zap.String("nodeID", child.ID().String()),
		zap.Int("nodeCount", tree.NodeCount()),
	)
	return tree, false, nil
}

// GoBack moves the pointer to the current node's parent. On the root it is
// a no-op and the stored snapshot is left untouched.
func (s *TreeService) GoBack(ctx context.Context, userID, treeID string) (*aggregates.DecisionTree, error) {
	tree, err := s.loadOwnedTree(ctx, userID, treeID)
	if err != nil {
		return nil, err
	}
	moved, err := tree.StepBack()
	if err != nil {
		return nil, err
	}
	if !moved {
		return tree, nil
	}
	if err := s.trees.Save(ctx, tree); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tree)
	return tree, nil
}

// ShouldConclude reports whether the tree is ready for a final synthesis:
// always when forced, otherwise once the current path has accumulated the
// configured number of nodes.
func (s *TreeService) ShouldConclude(tree *aggregates.DecisionTree, force bool) bool {
	if force {
		return true
	}
	depth := tree.NodeCount()
	if path, err := tree.Path(); err == nil {
		depth = len(path)
	}
	return depth >= s.cfg.ConclusionThreshold
}

// Finalize synthesizes a recommendation from the path walked so far, marks
// the current node final, and stores the conclusion on the tree. The
// pointer does not move; the user may keep exploring afterwards.
func (s *TreeService) Finalize(ctx context.Context, userID, treeID string, force bool) (*aggregates.DecisionTree, valueobjects.Conclusion, error) {
	tree, err := s.loadOwnedTree(ctx, userID, treeID)
	if err != nil {
		return nil, valueobjects.Conclusion{}, err
	}
	if !s.ShouldConclude(tree, force) {
		return nil, valueobjects.Conclusion{}, pkgerrors.New(
			pkgerrors.ErrorTypeConflict,
			"CONCLUSION_NOT_READY",
			"The tree has not explored enough nodes to conclude",
		).WithDetail("node_count", tree.NodeCount()).
			WithDetail("threshold", s.cfg.ConclusionThreshold)
	}

	path, err := tree.Path()
	if err != nil {
		return nil, valueobjects.Conclusion{}, err
	}

	persona := s.personaFor(ctx, userID)
	raw, err := s.completion.Complete(ctx,
		s.prompts.SystemPrompt("", persona),
		s.prompts.ConclusionPrompt(tree.Topic(), path),
		s.sampling,
	)
	if err != nil {
		return nil, valueobjects.Conclusion{}, err
	}

	parsed := parser.ParseConclusion(raw)
	if err := tree.RecordConclusion(parsed.Decision, parsed.Reflection); err != nil {
		return nil, valueobjects.Conclusion{}, err
	}
	if err := s.trees.Save(ctx, tree); err != nil {
		return nil, valueobjects.Conclusion{}, err
	}
	s.publishEvents(ctx, tree)

	conclusion, _ := tree.Conclusion()
	s.logger.Info("Conclusion reached",
		zap.String("treeID", tree.ID().String()),
		zap.Int("pathLength", len(path)),
	)
	return tree, conclusion, nil
}

// Summarize produces a short best-effort label for list views. Any upstream
// or storage failure past loading the tree is swallowed and the stored
// title returned verbatim, so the label can never break a list view.
func (s *TreeService) Summarize(ctx context.Context, userID, treeID string) (string, error) {
	tree, err := s.loadOwnedTree(ctx, userID, treeID)
	if err != nil {
		return "", err
	}
	root, err := tree.Root()
	if err != nil {
		return tree.Title(), nil
	}

	raw, err := s.completion.Complete(ctx,
		"You write terse labels for decision topics.",
		s.prompts.SummaryPrompt(root),
		s.sampling,
	)
	if err != nil {
		s.logger.Warn("Summary generation failed, using stored title",
			zap.String("treeID", tree.ID().String()),
			zap.Error(err),
		)
		return tree.Title(), nil
	}

	label := firstLine(raw)
	if label == "" {
		return tree.Title(), nil
	}
	if max := s.cfg.MaxSummaryLength; max > 0 && len(label) > max {
		label = label[:max]
	}

	if label != tree.Title() {
		tree.Rename(label)
		if err := s.trees.Save(ctx, tree); err != nil {
			s.logger.Warn("Failed to persist summary label",
				zap.String("treeID", tree.ID().String()),
				zap.Error(err),
			)
		}
	}
	return label, nil
}

// loadOwnedTree loads a tree and checks ownership. A missing tree and a
// tree owned by someone else are both reported as not-found, so the API
// does not leak which tree ids exist.
func (s *TreeService) loadOwnedTree(ctx context.Context, userID, treeID string) (*aggregates.DecisionTree, error) {
	id, err := valueobjects.NewTreeIDFromString(treeID)
	if err != nil {
		return nil, err
	}
	tree, err := s.trees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tree == nil || tree.UserID() != userID {
		return nil, pkgerrors.ErrTreeNotFound.WithDetail("tree_id", treeID)
	}
	return tree, nil
}

// nodeFromCompletion parses raw completion text and builds a node from it.
// A nil parentID builds the root.
func (s *TreeService) nodeFromCompletion(
	raw string,
	fallbackTitle string,
	parentID *valueobjects.NodeID,
	parentOption valueobjects.OptionID,
) (*entities.DecisionNode, error) {
	parsed := parser.Parse(raw, fallbackTitle, s.cfg.FallbackOptions)
	content, err := valueobjects.NewNodeContent(parsed.Title, parsed.Body)
	if err != nil {
		return nil, err
	}
	if parentID == nil {
		return entities.NewRootNode(content, parsed.Options)
	}
	return entities.NewChildNode(content, parsed.Options, *parentID, parentOption)
}

// personaFor fetches the user's advisor persona clause. Personalization is
// best-effort: a missing profile or a store failure degrades to no persona
// rather than failing the operation.
func (s *TreeService) personaFor(ctx context.Context, userID string) string {
	profile, err := s.advisors.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load advisor profile",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return ""
	}
	if profile == nil {
		return ""
	}
	return profile.PersonaClause()
}

// publishEvents forwards the aggregate's uncommitted events to the bus.
// Publication is best-effort after a successful save; a bus failure is
// logged, not surfaced.
func (s *TreeService) publishEvents(ctx context.Context, tree *aggregates.DecisionTree) {
	events := tree.GetUncommittedEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, events); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.String("treeID", tree.ID().String()),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
	tree.MarkEventsAsCommitted()
}

func currentIDPtr(node *entities.DecisionNode) *valueobjects.NodeID {
	id := node.ID()
	return &id
}

func firstLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `"`))
		if line != "" {
			return line
		}
	}
	return ""
}
