package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"crossroads-backend/application/ports"
	"crossroads-backend/domain/core/entities"
	pkgerrors "crossroads-backend/pkg/errors"
)

// AdvisorRepository implements ports.AdvisorRepository on the same table
// as the trees. One item per user: PK = USER#<uid>, SK = ADVISOR.
type AdvisorRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewAdvisorRepository creates a DynamoDB-backed advisor repository.
func NewAdvisorRepository(client API, tableName string, logger *zap.Logger) ports.AdvisorRepository {
	return &AdvisorRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

const advisorSK = "ADVISOR"

// advisorItem represents the DynamoDB item structure for an advisor profile
type advisorItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	UserID     string   `dynamodbav:"UserID"`
	Name       string   `dynamodbav:"Name"`
	Style      string   `dynamodbav:"Style"`
	Traits     []string `dynamodbav:"Traits"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
}

// Save upserts the user's advisor profile.
func (r *AdvisorRepository) Save(ctx context.Context, profile *entities.AdvisorProfile) error {
	item := advisorItem{
		PK:         userPK(profile.UserID()),
		SK:         advisorSK,
		EntityType: "ADVISOR",
		UserID:     profile.UserID(),
		Name:       profile.Name(),
		Style:      profile.Style(),
		Traits:     profile.Traits(),
		UpdatedAt:  profile.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.ErrAdvisorStorage.WithCause(err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}
	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save advisor profile",
			zap.Error(err),
			zap.String("userID", profile.UserID()),
		)
		return pkgerrors.ErrAdvisorStorage.WithCause(err)
	}
	return nil
}

// GetByUserID loads the user's advisor profile. Returns (nil, nil) when
// the user has not configured one.
func (r *AdvisorRepository) GetByUserID(ctx context.Context, userID string) (*entities.AdvisorProfile, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: advisorSK},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.ErrAdvisorStorage.WithCause(err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item advisorItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.ErrAdvisorStorage.WithCause(err)
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		updatedAt = time.Time{}
	}
	return entities.ReconstructAdvisorProfile(item.UserID, item.Name, item.Style, item.Traits, updatedAt)
}
