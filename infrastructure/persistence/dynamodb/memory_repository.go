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
	"memoryweb/domain/core/valueobjects"
)

// Single-table layout: every item lives under PK "USER#<userID>"; the SK
// prefix (MEMORY#, EDGE#, COLLECTION#) discriminates the entity type.

// MemoryRepository implements ports.MemoryRepository on DynamoDB
type MemoryRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewMemoryRepository creates a DynamoDB-backed memory repository
func NewMemoryRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.MemoryRepository {
	return &MemoryRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type memoryItem struct {
	PK              string   `dynamodbav:"PK"`
	SK              string   `dynamodbav:"SK"`
	EntityType      string   `dynamodbav:"EntityType"`
	MemoryID        string   `dynamodbav:"MemoryID"`
	UserID          string   `dynamodbav:"UserID"`
	Title           string   `dynamodbav:"Title"`
	Body            string   `dynamodbav:"Body"`
	Format          string   `dynamodbav:"Format"`
	Tags            []string `dynamodbav:"Tags"`
	Images          []string `dynamodbav:"Images,omitempty"`
	Links           []string `dynamodbav:"Links,omitempty"`
	CollectionID    string   `dynamodbav:"CollectionID,omitempty"`
	PosX            float64  `dynamodbav:"PosX"`
	PosY            float64  `dynamodbav:"PosY"`
	PosZ            float64  `dynamodbav:"PosZ"`
	GlitchIntensity float64  `dynamodbav:"GlitchIntensity"`
	PulsePhase      float64  `dynamodbav:"PulsePhase"`
	CreatedAt       string   `dynamodbav:"CreatedAt"`
	UpdatedAt       string   `dynamodbav:"UpdatedAt"`
	Version         int      `dynamodbav:"Version"`
}

func memoryPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

func memorySK(id string) string {
	return fmt.Sprintf("MEMORY#%s", id)
}

// Save persists a memory (create or update)
func (r *MemoryRepository) Save(ctx context.Context, memory *entities.Memory) error {
	content := memory.Content()
	pos := memory.Position()

	item := memoryItem{
		PK:              memoryPK(memory.UserID()),
		SK:              memorySK(memory.ID().String()),
		EntityType:      "MEMORY",
		MemoryID:        memory.ID().String(),
		UserID:          memory.UserID(),
		Title:           content.Title(),
		Body:            content.Body(),
		Format:          string(content.Format()),
		Tags:            memory.Tags().Tags(),
		Images:          memory.Images(),
		Links:           memory.Links(),
		CollectionID:    memory.CollectionID(),
		PosX:            pos.X(),
		PosY:            pos.Y(),
		PosZ:            pos.Z(),
		GlitchIntensity: memory.GlitchIntensity(),
		PulsePhase:      memory.PulsePhase(),
		CreatedAt:       memory.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:       memory.UpdatedAt().Format(time.RFC3339Nano),
		Version:         memory.Version(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save memory",
			zap.String("memory_id", memory.ID().String()),
			zap.Error(err))
		return fmt.Errorf("failed to save memory: %w", err)
	}
	return nil
}

// GetByID retrieves a memory, returning nil when it does not exist
func (r *MemoryRepository) GetByID(ctx context.Context, userID string, id valueobjects.MemoryID) (*entities.Memory, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: memoryPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: memorySK(id.String())},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item memoryItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory: %w", err)
	}
	return r.toEntity(item)
}

// GetByUserID retrieves all of a user's memories in creation order
func (r *MemoryRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Memory, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(memoryPK(userID))).
		And(expression.Key("SK").BeginsWith("MEMORY#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	var memories []*entities.Memory
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
			return nil, fmt.Errorf("failed to query memories: %w", err)
		}

		for _, raw := range out.Items {
			var item memoryItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("skipping unreadable memory item", zap.Error(err))
				continue
			}
			m, err := r.toEntity(item)
			if err != nil {
				r.logger.Warn("skipping invalid memory item",
					zap.String("memory_id", item.MemoryID),
					zap.Error(err))
				continue
			}
			memories = append(memories, m)
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	sortMemoriesByCreation(memories)
	return memories, nil
}

// Delete removes a memory; deleting an absent id is a no-op
func (r *MemoryRepository) Delete(ctx context.Context, userID string, id valueobjects.MemoryID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: memoryPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: memorySK(id.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}

func (r *MemoryRepository) toEntity(item memoryItem) (*entities.Memory, error) {
	id, err := valueobjects.NewMemoryIDFromString(item.MemoryID)
	if err != nil {
		return nil, err
	}
	content, err := valueobjects.NewMemoryContent(item.Title, item.Body, valueobjects.ContentFormat(item.Format))
	if err != nil {
		return nil, err
	}
	position, err := valueobjects.NewPosition3D(item.PosX, item.PosY, item.PosZ)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid UpdatedAt: %w", err)
	}

	return entities.ReconstructMemory(
		id, item.UserID, content, item.Tags, item.Images, item.Links,
		item.CollectionID, position, item.GlitchIntensity, item.PulsePhase,
		createdAt, updatedAt,
	)
}

// sortMemoriesByCreation restores creation order; SK order is lexicographic
// by UUID, not chronological.
func sortMemoriesByCreation(memories []*entities.Memory) {
	sort.SliceStable(memories, func(i, j int) bool {
		if !memories[i].CreatedAt().Equal(memories[j].CreatedAt()) {
			return memories[i].CreatedAt().Before(memories[j].CreatedAt())
		}
		return memories[i].ID().String() < memories[j].ID().String()
	})
}
