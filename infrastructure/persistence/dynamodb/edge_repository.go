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

const batchWriteLimit = 25

// EdgeRepository implements ports.EdgeRepository on DynamoDB. Edges are keyed
// by their canonical pair key so re-deriving the same pair overwrites in place
// instead of duplicating.
type EdgeRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewEdgeRepository creates a DynamoDB-backed edge repository
func NewEdgeRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.EdgeRepository {
	return &EdgeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type edgeItem struct {
	PK           string   `dynamodbav:"PK"`
	SK           string   `dynamodbav:"SK"`
	EntityType   string   `dynamodbav:"EntityType"`
	EdgeID       string   `dynamodbav:"EdgeID"`
	SourceID     string   `dynamodbav:"SourceID"`
	TargetID     string   `dynamodbav:"TargetID"`
	SharedTags   []string `dynamodbav:"SharedTags"`
	GlitchOffset float64  `dynamodbav:"GlitchOffset"`
	CreatedAt    string   `dynamodbav:"CreatedAt"`
	Seq          int      `dynamodbav:"Seq"`
}

func edgeSK(pairKey string) string {
	return fmt.Sprintf("EDGE#%s", pairKey)
}

// SaveBatch persists a set of edges using batched writes
func (r *EdgeRepository) SaveBatch(ctx context.Context, userID string, edges []*entities.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(edges))
	for i, e := range edges {
		item := edgeItem{
			PK:           memoryPK(userID),
			SK:           edgeSK(e.PairKey()),
			EntityType:   "EDGE",
			EdgeID:       e.ID,
			SourceID:     e.SourceID.String(),
			TargetID:     e.TargetID.String(),
			SharedTags:   e.SharedTags,
			GlitchOffset: e.GlitchOffset,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339Nano),
			Seq:          i,
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal edge: %w", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}

	for start := 0; start < len(requests); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(requests) {
			end = len(requests)
		}
		batch := requests[start:end]

		for len(batch) > 0 {
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					r.tableName: batch,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to batch write edges: %w", err)
			}
			batch = out.UnprocessedItems[r.tableName]
		}
	}

	r.logger.Debug("saved edge batch",
		zap.String("user_id", userID),
		zap.Int("edge_count", len(edges)))
	return nil
}

// GetByUserID retrieves all edges for a user in the order they were derived
func (r *EdgeRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Edge, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(memoryPK(userID))).
		And(expression.Key("SK").BeginsWith("EDGE#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	type seqEdge struct {
		edge      *entities.Edge
		createdAt time.Time
		seq       int
	}
	var collected []seqEdge

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
			return nil, fmt.Errorf("failed to query edges: %w", err)
		}

		for _, raw := range out.Items {
			var item edgeItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("skipping unreadable edge item", zap.Error(err))
				continue
			}
			e, createdAt, err := r.toEntity(item)
			if err != nil {
				r.logger.Warn("skipping invalid edge item",
					zap.String("edge_id", item.EdgeID),
					zap.Error(err))
				continue
			}
			collected = append(collected, seqEdge{edge: e, createdAt: createdAt, seq: item.Seq})
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	// Derivation order drives downstream clustering; restore it from the
	// write timestamps and the within-batch sequence.
	sort.SliceStable(collected, func(i, j int) bool {
		if !collected[i].createdAt.Equal(collected[j].createdAt) {
			return collected[i].createdAt.Before(collected[j].createdAt)
		}
		return collected[i].seq < collected[j].seq
	})

	edges := make([]*entities.Edge, len(collected))
	for i, se := range collected {
		edges[i] = se.edge
	}
	return edges, nil
}

// DeleteByMemoryID removes every edge touching a memory
func (r *EdgeRepository) DeleteByMemoryID(ctx context.Context, userID string, memoryID valueobjects.MemoryID) error {
	edges, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	var requests []types.WriteRequest
	for _, e := range edges {
		if !e.Touches(memoryID) {
			continue
		}
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: memoryPK(userID)},
					"SK": &types.AttributeValueMemberS{Value: edgeSK(e.PairKey())},
				},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	for start := 0; start < len(requests); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(requests) {
			end = len(requests)
		}
		batch := requests[start:end]

		for len(batch) > 0 {
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					r.tableName: batch,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to batch delete edges: %w", err)
			}
			batch = out.UnprocessedItems[r.tableName]
		}
	}

	r.logger.Debug("deleted edges for memory",
		zap.String("user_id", userID),
		zap.String("memory_id", memoryID.String()),
		zap.Int("edge_count", len(requests)))
	return nil
}

func (r *EdgeRepository) toEntity(item edgeItem) (*entities.Edge, time.Time, error) {
	sourceID, err := valueobjects.NewMemoryIDFromString(item.SourceID)
	if err != nil {
		return nil, time.Time{}, err
	}
	targetID, err := valueobjects.NewMemoryIDFromString(item.TargetID)
	if err != nil {
		return nil, time.Time{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid CreatedAt: %w", err)
	}

	return &entities.Edge{
		ID:           item.EdgeID,
		SourceID:     sourceID,
		TargetID:     targetID,
		SharedTags:   item.SharedTags,
		GlitchOffset: item.GlitchOffset,
		CreatedAt:    createdAt,
	}, createdAt, nil
}
