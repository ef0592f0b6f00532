package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"memoryweb/application/ports"
	"memoryweb/domain/core/entities"
)

// CollectionRepository implements ports.CollectionRepository on DynamoDB
type CollectionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewCollectionRepository creates a DynamoDB-backed collection repository
func NewCollectionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.CollectionRepository {
	return &CollectionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type collectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	CollectionID string `dynamodbav:"CollectionID"`
	UserID       string `dynamodbav:"UserID"`
	Name         string `dynamodbav:"Name"`
	Description  string `dynamodbav:"Description,omitempty"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
	UpdatedAt    string `dynamodbav:"UpdatedAt"`
}

func collectionSK(id string) string {
	return fmt.Sprintf("COLLECTION#%s", id)
}

// Save persists a collection (create or update)
func (r *CollectionRepository) Save(ctx context.Context, collection *entities.Collection) error {
	item := collectionItem{
		PK:           memoryPK(collection.UserID()),
		SK:           collectionSK(collection.ID()),
		EntityType:   "COLLECTION",
		CollectionID: collection.ID(),
		UserID:       collection.UserID(),
		Name:         collection.Name(),
		Description:  collection.Description(),
		CreatedAt:    collection.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:    collection.UpdatedAt().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save collection",
			zap.String("collection_id", collection.ID()),
			zap.Error(err))
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// GetByID retrieves a collection, returning nil when absent
func (r *CollectionRepository) GetByID(ctx context.Context, userID, id string) (*entities.Collection, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: memoryPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: collectionSK(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item collectionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection: %w", err)
	}
	return toCollectionEntity(item)
}

// GetByUserID retrieves all of a user's collections in creation order
func (r *CollectionRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Collection, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(memoryPK(userID))).
		And(expression.Key("SK").BeginsWith("COLLECTION#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	var collections []*entities.Collection
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query collections: %w", err)
		}

		for _, raw := range out.Items {
			var item collectionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("skipping unreadable collection item", zap.Error(err))
				continue
			}
			c, err := toCollectionEntity(item)
			if err != nil {
				r.logger.Warn("skipping invalid collection item",
					zap.String("collection_id", item.CollectionID),
					zap.Error(err))
				continue
			}
			collections = append(collections, c)
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	sort.SliceStable(collections, func(i, j int) bool {
		return collections[i].CreatedAt().Before(collections[j].CreatedAt())
	})
	return collections, nil
}

// Delete removes a collection
func (r *CollectionRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: memoryPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: collectionSK(id)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

func toCollectionEntity(item collectionItem) (*entities.Collection, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid UpdatedAt: %w", err)
	}
	return entities.ReconstructCollection(
		item.CollectionID, item.UserID, item.Name, item.Description,
		createdAt, updatedAt,
	)
}
