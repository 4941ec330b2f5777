package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"crossroads-backend/application/ports"
	"crossroads-backend/domain/core/aggregates"
	"crossroads-backend/domain/core/valueobjects"
	pkgerrors "crossroads-backend/pkg/errors"
)

// TreeRepository implements ports.TreeRepository on a single DynamoDB
// table. The item key scheme:
//
//	PK = USER#<userID>      SK = TREE#<treeID>
//	GSI1PK = TREEID#<treeID>  GSI1SK = METADATA
//
// The Data attribute holds the authoritative JSON snapshot; the flat
// columns are denormalized for list queries and kept in sync on every
// save.
type TreeRepository struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewTreeRepository creates a DynamoDB-backed tree repository.
func NewTreeRepository(client API, tableName, indexName string, logger *zap.Logger) ports.TreeRepository {
	return &TreeRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// treeItem represents the DynamoDB item structure for a tree
type treeItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"`
	GSI1SK        string `dynamodbav:"GSI1SK"`
	EntityType    string `dynamodbav:"EntityType"`
	TreeID        string `dynamodbav:"TreeID"`
	UserID        string `dynamodbav:"UserID"`
	Title         string `dynamodbav:"Title"`
	Topic         string `dynamodbav:"Topic"`
	Context       string `dynamodbav:"Context,omitempty"`
	CurrentNodeID string `dynamodbav:"CurrentNodeID"`
	NodeCount     int    `dynamodbav:"NodeCount"`
	Concluded     bool   `dynamodbav:"Concluded"`
	Data          string `dynamodbav:"Data"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

// Save upserts the full tree snapshot. Last writer wins; there is no
// optimistic concurrency token.
func (r *TreeRepository) Save(ctx context.Context, tree *aggregates.DecisionTree) error {
	snap := snapshotFromTree(tree)
	data, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.ErrTreeStorage.WithCause(err)
	}

	item := treeItem{
		PK:            userPK(tree.UserID()),
		SK:            treeSK(tree.ID()),
		GSI1PK:        treeGSI1PK(tree.ID()),
		GSI1SK:        "METADATA",
		EntityType:    "TREE",
		TreeID:        tree.ID().String(),
		UserID:        tree.UserID(),
		Title:         tree.Title(),
		Topic:         tree.Topic(),
		Context:       tree.Context(),
		CurrentNodeID: tree.CurrentNodeID().String(),
		NodeCount:     tree.NodeCount(),
		Concluded:     tree.IsConcluded(),
		Data:          string(data),
		CreatedAt:     tree.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:     tree.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.ErrTreeStorage.WithCause(err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}
	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save tree",
			zap.Error(err),
			zap.String("treeID", tree.ID().String()),
		)
		return pkgerrors.ErrTreeStorage.WithCause(err)
	}

	r.logger.Debug("Tree saved",
		zap.String("treeID", tree.ID().String()),
		zap.String("userID", tree.UserID()),
		zap.Int("nodeCount", tree.NodeCount()),
	)
	return nil
}

// GetByID retrieves a tree by its id via GSI1. A missing tree returns
// (nil, nil), not an error.
func (r *TreeRepository) GetByID(ctx context.Context, treeID valueobjects.TreeID) (*aggregates.DecisionTree, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: treeGSI1PK(treeID)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.ErrTreeStorage.WithCause(err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	return r.treeFromItem(result.Items[0])
}

// GetByUserID retrieves the user's trees, most recently updated first. A
// limit of 0 returns everything.
func (r *TreeRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*aggregates.DecisionTree, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userPK(userID)},
			":sk": &types.AttributeValueMemberS{Value: "TREE#"},
		},
	}

	// Sorting happens client-side, so every page must be read before the
	// limit is applied.
	var trees []*aggregates.DecisionTree
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.ErrTreeStorage.WithCause(err)
		}
		for _, raw := range result.Items {
			tree, err := r.treeFromItem(raw)
			if err != nil {
				r.logger.Warn("Skipping unreadable tree item",
					zap.String("userID", userID),
					zap.Error(err),
				)
				continue
			}
			trees = append(trees, tree)
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.Slice(trees, func(i, j int) bool {
		return trees[i].UpdatedAt().After(trees[j].UpdatedAt())
	})
	if limit > 0 && len(trees) > limit {
		trees = trees[:limit]
	}
	return trees, nil
}

// Delete removes a tree. Deleting an absent row is indistinguishable from
// success.
func (r *TreeRepository) Delete(ctx context.Context, userID string, treeID valueobjects.TreeID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: treeSK(treeID)},
		},
	}
	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.ErrTreeStorage.WithCause(err)
	}

	r.logger.Debug("Tree deleted",
		zap.String("treeID", treeID.String()),
		zap.String("userID", userID),
	)
	return nil
}

func (r *TreeRepository) treeFromItem(raw map[string]types.AttributeValue) (*aggregates.DecisionTree, error) {
	var item treeItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, pkgerrors.ErrTreeStorage.WithCause(err)
	}

	var snap treeSnapshot
	if err := json.Unmarshal([]byte(item.Data), &snap); err != nil {
		return nil, pkgerrors.ErrTreeStorage.
			WithCause(err).
			WithDetail("tree_id", item.TreeID)
	}
	return treeFromSnapshot(snap)
}

func userPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

func treeSK(treeID valueobjects.TreeID) string {
	return fmt.Sprintf("TREE#%s", treeID.String())
}

func treeGSI1PK(treeID valueobjects.TreeID) string {
	return fmt.Sprintf("TREEID#%s", treeID.String())
}
