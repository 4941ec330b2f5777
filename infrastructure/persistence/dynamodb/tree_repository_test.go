package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDynamo captures writes and serves canned query pages.
type fakeDynamo struct {
	putItems []map[string]types.AttributeValue
	pages    []*dynamodb.QueryOutput
	queries  []*dynamodb.QueryInput
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putItems = append(f.putItems, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	// Snapshot the input: the repository reuses one QueryInput across
	// pages, so storing the pointer would alias later mutations.
	captured := *params
	f.queries = append(f.queries, &captured)
	if len(f.pages) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, _ *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestGetByUserID_FollowsPagination(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewTreeRepository(fake, "crossroads", "TreeIndex", zap.NewNop())
	ctx := context.Background()

	first := buildTree(t)
	second := buildTree(t)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.Len(t, fake.putItems, 2)

	continuation := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userPK("user1")},
		"SK": &types.AttributeValueMemberS{Value: treeSK(first.ID())},
	}
	fake.pages = []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{fake.putItems[0]},
			LastEvaluatedKey: continuation,
		},
		{
			Items: []map[string]types.AttributeValue{fake.putItems[1]},
		},
	}

	trees, err := repo.GetByUserID(ctx, "user1", 0)
	require.NoError(t, err)
	assert.Len(t, trees, 2)

	require.Len(t, fake.queries, 2)
	assert.Nil(t, fake.queries[0].ExclusiveStartKey)
	assert.Equal(t, continuation, fake.queries[1].ExclusiveStartKey)
}

func TestGetByUserID_AppliesLimitAfterAllPages(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewTreeRepository(fake, "crossroads", "TreeIndex", zap.NewNop())
	ctx := context.Background()

	older := buildTree(t)
	newest := buildTree(t)
	newest.Rename("Most Recent Decision")
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newest))

	fake.pages = []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{fake.putItems[0]},
			LastEvaluatedKey: map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: "x"}},
		},
		{
			Items: []map[string]types.AttributeValue{fake.putItems[1]},
		},
	}

	trees, err := repo.GetByUserID(ctx, "user1", 1)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	// The most recently updated tree wins even when it arrives on a later
	// page.
	assert.Equal(t, newest.ID(), trees[0].ID())
	assert.Len(t, fake.queries, 2)
}

func TestGetByUserID_Empty(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewTreeRepository(fake, "crossroads", "TreeIndex", zap.NewNop())

	trees, err := repo.GetByUserID(context.Background(), "user1", 0)
	require.NoError(t, err)
	assert.Empty(t, trees)
}
