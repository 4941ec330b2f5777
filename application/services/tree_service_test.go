package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crossroads-backend/application/ports"
	"crossroads-backend/domain/config"
	"crossroads-backend/domain/core/aggregates"
	"crossroads-backend/domain/core/entities"
	"crossroads-backend/domain/core/valueobjects"
	"crossroads-backend/domain/events"
	pkgerrors "crossroads-backend/pkg/errors"
)

type fakeTreeRepo struct {
	trees   map[string]*aggregates.DecisionTree
	saves   int
	saveErr error
	getErr  error
}

func newFakeTreeRepo() *fakeTreeRepo {
	return &fakeTreeRepo{trees: map[string]*aggregates.DecisionTree{}}
}

func (r *fakeTreeRepo) Save(_ context.Context, tree *aggregates.DecisionTree) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.trees[tree.ID().String()] = tree
	return nil
}

func (r *fakeTreeRepo) GetByID(_ context.Context, treeID valueobjects.TreeID) (*aggregates.DecisionTree, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.trees[treeID.String()], nil
}

func (r *fakeTreeRepo) GetByUserID(_ context.Context, userID string, limit int) ([]*aggregates.DecisionTree, error) {
	var out []*aggregates.DecisionTree
	for _, tree := range r.trees {
		if tree.UserID() == userID {
			out = append(out, tree)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTreeRepo) Delete(_ context.Context, userID string, treeID valueobjects.TreeID) error {
	delete(r.trees, treeID.String())
	return nil
}

type fakeAdvisorRepo struct {
	profile *entities.AdvisorProfile
	err     error
}

func (r *fakeAdvisorRepo) Save(_ context.Context, profile *entities.AdvisorProfile) error {
	r.profile = profile
	return nil
}

func (r *fakeAdvisorRepo) GetByUserID(_ context.Context, _ string) (*entities.AdvisorProfile, error) {
	return r.profile, r.err
}

type fakeCompletion struct {
	responses []string
	calls     int
	err       error
}

func (c *fakeCompletion) Complete(_ context.Context, _, _ string, _ ports.SamplingConfig) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", pkgerrors.ErrEmptyCompletion
	}
	raw := c.responses[0]
	c.responses = c.responses[1:]
	return raw, nil
}

type fakePublisher struct {
	published []events.DomainEvent
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, event events.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, batch...)
	return nil
}

type serviceFixture struct {
	service    *TreeService
	trees      *fakeTreeRepo
	advisors   *fakeAdvisorRepo
	completion *fakeCompletion
	publisher  *fakePublisher
}

func newServiceFixture(responses ...string) *serviceFixture {
	f := &serviceFixture{
		trees:      newFakeTreeRepo(),
		advisors:   &fakeAdvisorRepo{},
		completion: &fakeCompletion{responses: responses},
		publisher:  &fakePublisher{},
	}
	f.service = NewTreeService(
		f.trees,
		f.advisors,
		f.completion,
		f.publisher,
		config.DefaultDomainConfig(),
		ports.SamplingConfig{MaxTokens: 600, Temperature: 0.7},
		zap.NewNop(),
	)
	return f
}

// seedTree stores a hand-built single-node tree and returns it with its
// committed state, the way a repository load would.
func seedTree(t *testing.T, f *serviceFixture, userID string) *aggregates.DecisionTree {
	t.Helper()
	content, err := valueobjects.NewNodeContent("Career Crossroads", "Consider your finances.")
	require.NoError(t, err)
	root, err := entities.NewRootNode(content, []string{"Stay", "Leave", "Explore part-time"})
	require.NoError(t, err)
	tree, err := aggregates.NewDecisionTree(userID, "Should I change careers?", "", root)
	require.NoError(t, err)
	tree.MarkEventsAsCommitted()
	f.trees.trees[tree.ID().String()] = tree
	return tree
}

const rootCompletion = `# Career Crossroads
Consider your finances before anything else.
- Stay in your current role
- Take the new offer
- Negotiate a counteroffer`

const childCompletion = `# Taking the Offer
The new role pays more but resets your seniority.
- Accept immediately
- Ask for a start date in two months`

func TestCreateTree(t *testing.T) {
	f := newServiceFixture(rootCompletion)

	tree, err := f.service.CreateTree(context.Background(), "user1", "Should I change jobs?", "I have two offers", "", false)
	require.NoError(t, err)

	assert.Equal(t, "Career Crossroads", tree.Title())
	assert.Equal(t, "Should I change jobs?", tree.Topic())
	assert.Equal(t, 1, tree.NodeCount())

	root, err := tree.Root()
	require.NoError(t, err)
	assert.Len(t, root.Options(), 3)
	assert.Equal(t, "Stay in your current role", root.Options()[0].Text())

	assert.Equal(t, 1, f.completion.calls)
	assert.Equal(t, 1, f.trees.saves)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "tree.created", f.publisher.published[0].GetEventType())
	assert.Empty(t, tree.GetUncommittedEvents())
}

func TestCreateTree_EmptyTopic(t *testing.T) {
	f := newServiceFixture(rootCompletion)

	_, err := f.service.CreateTree(context.Background(), "user1", "   ", "", "", false)
	require.Error(t, err)
	assert.Equal(t, 0, f.completion.calls)
	assert.Equal(t, 0, f.trees.saves)
}

func TestCreateTree_CompletionFailure(t *testing.T) {
	f := newServiceFixture()
	f.completion.err = pkgerrors.ErrCompletionFailed

	_, err := f.service.CreateTree(context.Background(), "user1", "topic", "", "", false)
	assert.ErrorIs(t, err, pkgerrors.ErrCompletionFailed)
	assert.Equal(t, 0, f.trees.saves)
}

func TestCreateTree_UsesAdvisorPersona(t *testing.T) {
	f := newServiceFixture(rootCompletion)
	profile, err := entities.NewAdvisorProfile("user1", "Marcus", "stoic and direct", []string{"calm"})
	require.NoError(t, err)
	f.advisors.profile = profile

	_, err = f.service.CreateTree(context.Background(), "user1", "topic", "", "", true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.completion.calls)
}

func TestAdvance_NewBranch(t *testing.T) {
	f := newServiceFixture(childCompletion)
	tree := seedTree(t, f, "user1")
	root, err := tree.Root()
	require.NoError(t, err)

	updated, revisited, err := f.service.Advance(
		context.Background(), "user1", tree.ID().String(), root.Options()[1].ID().String())
	require.NoError(t, err)

	assert.False(t, revisited)
	assert.Equal(t, 2, updated.NodeCount())

	current, err := updated.CurrentNode()
	require.NoError(t, err)
	assert.Equal(t, "Taking the Offer", current.Content().Title())
	assert.Len(t, current.Options(), 2)
	assert.Equal(t, 1, f.completion.calls)
	assert.Equal(t, 1, f.trees.saves)
}

func TestAdvance_RevisitMakesNoCompletionCall(t *testing.T) {
	f := newServiceFixture(childCompletion)
	tree := seedTree(t, f, "user1")
	root, err := tree.Root()
	require.NoError(t, err)
	optionID := root.Options()[0].ID().String()

	first, revisited, err := f.service.Advance(context.Background(), "user1", tree.ID().String(), optionID)
	require.NoError(t, err)
	require.False(t, revisited)
	firstChild, err := first.CurrentNode()
	require.NoError(t, err)

	_, err = f.service.GoBack(context.Background(), "user1", tree.ID().String())
	require.NoError(t, err)

	second, revisited, err := f.service.Advance(context.Background(), "user1", tree.ID().String(), optionID)
	require.NoError(t, err)

	assert.True(t, revisited)
	assert.Equal(t, 2, second.NodeCount())
	current, err := second.CurrentNode()
	require.NoError(t, err)
	assert.Equal(t, firstChild.ID(), current.ID())
	// The existing child is reused; nothing is regenerated.
	assert.Equal(t, 1, f.completion.calls)
}

func TestAdvance_UnknownOption(t *testing.T) {
	f := newServiceFixture(childCompletion)
	tree := seedTree(t, f, "user1")

	_, _, err := f.service.Advance(
		context.Background(), "user1", tree.ID().String(), valueobjects.NewOptionID().String())
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidOption)
	assert.Equal(t, 0, f.completion.calls)
}

func TestLoadOwnedTree_HidesOtherUsersTrees(t *testing.T) {
	f := newServiceFixture()
	tree := seedTree(t, f, "user1")

	_, err := f.service.GetTree(context.Background(), "someone-else", tree.ID().String())
	assert.ErrorIs(t, err, pkgerrors.ErrTreeNotFound)

	_, err = f.service.GetTree(context.Background(), "user1", valueobjects.NewTreeID().String())
	assert.ErrorIs(t, err, pkgerrors.ErrTreeNotFound)
}

func TestGoBack_RootIsNoOp(t *testing.T) {
	f := newServiceFixture()
	tree := seedTree(t, f, "user1")
	rootID := tree.CurrentNodeID()

	updated, err := f.service.GoBack(context.Background(), "user1", tree.ID().String())
	require.NoError(t, err)
	assert.Equal(t, rootID, updated.CurrentNodeID())
	assert.Equal(t, 0, f.trees.saves)
}

func TestFinalize_NotReadyWithoutForce(t *testing.T) {
	f := newServiceFixture()
	tree := seedTree(t, f, "user1")

	_, _, err := f.service.Finalize(context.Background(), "user1", tree.ID().String(), false)
	require.Error(t, err)

	var de *pkgerrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "CONCLUSION_NOT_READY", de.Code)
	assert.Equal(t, 0, f.completion.calls)
}

func TestFinalize_Forced(t *testing.T) {
	f := newServiceFixture(
		"RECOMMENDATION: Take the new job\nREFLECTION: You have weighed risk and reward carefully",
	)
	tree := seedTree(t, f, "user1")

	updated, conclusion, err := f.service.Finalize(context.Background(), "user1", tree.ID().String(), true)
	require.NoError(t, err)

	assert.Equal(t, "Take the new job", conclusion.Decision())
	assert.Equal(t, "You have weighed risk and reward carefully", conclusion.Reflection())
	assert.True(t, updated.IsConcluded())

	current, err := updated.CurrentNode()
	require.NoError(t, err)
	assert.True(t, current.IsFinal())
	assert.Equal(t, current.ID(), conclusion.NodeID())
	assert.Equal(t, 1, f.trees.saves)
}

func TestFinalize_ReadyAtThresholdDepth(t *testing.T) {
	f := newServiceFixture(childCompletion, `# Grandchild
More detail.
- Option one
- Option two`,
		"RECOMMENDATION: Negotiate first\nREFLECTION: The path shows you value stability")
	tree := seedTree(t, f, "user1")
	root, err := tree.Root()
	require.NoError(t, err)

	updated, _, err := f.service.Advance(context.Background(), "user1", tree.ID().String(), root.Options()[0].ID().String())
	require.NoError(t, err)
	current, err := updated.CurrentNode()
	require.NoError(t, err)
	_, _, err = f.service.Advance(context.Background(), "user1", tree.ID().String(), current.Options()[0].ID().String())
	require.NoError(t, err)

	_, conclusion, err := f.service.Finalize(context.Background(), "user1", tree.ID().String(), false)
	require.NoError(t, err)
	assert.Equal(t, "Negotiate first", conclusion.Decision())
}

func TestSummarize_SwallowsCompletionFailure(t *testing.T) {
	f := newServiceFixture()
	f.completion.err = pkgerrors.ErrCompletionFailed
	tree := seedTree(t, f, "user1")

	label, err := f.service.Summarize(context.Background(), "user1", tree.ID().String())
	require.NoError(t, err)
	assert.Equal(t, tree.Title(), label)
	assert.Equal(t, 0, f.trees.saves)
}

func TestSummarize_RenamesTree(t *testing.T) {
	f := newServiceFixture(`"Job Change Dilemma"`)
	tree := seedTree(t, f, "user1")

	label, err := f.service.Summarize(context.Background(), "user1", tree.ID().String())
	require.NoError(t, err)
	assert.Equal(t, "Job Change Dilemma", label)
	assert.Equal(t, "Job Change Dilemma", tree.Title())
	assert.Equal(t, 1, f.trees.saves)
}

func TestSummarize_PropagatesLoadFailure(t *testing.T) {
	f := newServiceFixture()
	seedTree(t, f, "user1")

	_, err := f.service.Summarize(context.Background(), "user1", valueobjects.NewTreeID().String())
	assert.ErrorIs(t, err, pkgerrors.ErrTreeNotFound)
}

func TestDeleteTree(t *testing.T) {
	f := newServiceFixture()
	tree := seedTree(t, f, "user1")

	require.NoError(t, f.service.DeleteTree(context.Background(), "user1", tree.ID().String()))
	assert.Empty(t, f.trees.trees)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "tree.deleted", f.publisher.published[0].GetEventType())

	// Deleting again, or deleting another user's tree, succeeds quietly.
	require.NoError(t, f.service.DeleteTree(context.Background(), "user1", tree.ID().String()))

	other := seedTree(t, f, "user2")
	require.NoError(t, f.service.DeleteTree(context.Background(), "user1", other.ID().String()))
	assert.Len(t, f.trees.trees, 1)
}

func TestShouldConclude(t *testing.T) {
	f := newServiceFixture()
	tree := seedTree(t, f, "user1")

	assert.False(t, f.service.ShouldConclude(tree, false))
	assert.True(t, f.service.ShouldConclude(tree, true))
}
