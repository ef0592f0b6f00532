// Package main implements the WebSocket broadcast Lambda.
// It consumes domain events from EventBridge and pushes graph-update
// notifications to the owning user's live WebSocket connections.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"memoryweb/infrastructure/config"
)

const userConnectionIndex = "UserConnectionIndex"

var (
	awsCfg       aws.Config
	dynamoClient *dynamodb.Client
	cfg          *config.Config
	logger       *zap.Logger
)

// eventDetail mirrors the envelope published to EventBridge.
type eventDetail struct {
	EventType   string          `json:"eventType"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

// pushMessage is the frame delivered to connected clients.
type pushMessage struct {
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// connectionRef identifies one deliverable connection.
type connectionRef struct {
	ID       string
	Endpoint string
}

func init() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	cfg, err = config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	awsCfg, err = awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	dynamoClient = dynamodb.NewFromConfig(awsCfg)

	logger.Info("WebSocket broadcast handler initialized",
		zap.String("connectionsTable", cfg.ConnectionsTable))
}

// connectionsForUser queries the user index of the connection registry.
func connectionsForUser(ctx context.Context, userID string) ([]connectionRef, error) {
	input := &dynamodb.QueryInput{
		TableName:              &cfg.ConnectionsTable,
		IndexName:              aws.String(userConnectionIndex),
		KeyConditionExpression: aws.String("GSI1PK = :user"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
		},
	}

	var refs []connectionRef
	paginator := dynamodb.NewQueryPaginator(dynamoClient, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query connections: %w", err)
		}
		for _, item := range page.Items {
			id, _ := item["ConnectionID"].(*types.AttributeValueMemberS)
			endpoint, _ := item["Endpoint"].(*types.AttributeValueMemberS)
			if id == nil || endpoint == nil {
				continue
			}
			refs = append(refs, connectionRef{ID: id.Value, Endpoint: endpoint.Value})
		}
	}
	return refs, nil
}

func managementClient(endpoint string) *apigatewaymanagementapi.Client {
	return apigatewaymanagementapi.NewFromConfig(awsCfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String("https://" + endpoint)
	})
}

// removeStaleConnection drops a registry entry whose client is gone.
func removeStaleConnection(ctx context.Context, connectionID string) {
	_, err := dynamoClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &cfg.ConnectionsTable,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", connectionID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		logger.Warn("Failed to remove stale connection",
			zap.String("connectionId", connectionID),
			zap.Error(err))
	}
}

// pushToUser delivers the message to every live connection of the user.
// Gone connections are pruned from the registry and not counted as failures.
func pushToUser(ctx context.Context, userID string, message []byte) error {
	refs, err := connectionsForUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	clients := make(map[string]*apigatewaymanagementapi.Client)
	sent, failed := 0, 0
	for _, ref := range refs {
		client, ok := clients[ref.Endpoint]
		if !ok {
			client = managementClient(ref.Endpoint)
			clients[ref.Endpoint] = client
		}

		_, err := client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(ref.ID),
			Data:         message,
		})
		if err != nil {
			var gone *apigwtypes.GoneException
			if errors.As(err, &gone) {
				removeStaleConnection(ctx, ref.ID)
				continue
			}
			logger.Warn("Failed to push to connection",
				zap.String("connectionId", ref.ID),
				zap.Error(err))
			failed++
			continue
		}
		sent++
	}

	logger.Info("Broadcast complete",
		zap.String("userId", userID),
		zap.Int("sent", sent),
		zap.Int("failed", failed))

	if failed > 0 && sent == 0 {
		return fmt.Errorf("all %d pushes failed for user %s", failed, userID)
	}
	return nil
}

func handleBusEvent(ctx context.Context, event events.CloudWatchEvent) error {
	var detail eventDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return fmt.Errorf("parse event detail: %w", err)
	}

	var owner struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(detail.Payload, &owner); err != nil || owner.UserID == "" {
		logger.Warn("Event without user attribution, skipping",
			zap.String("detailType", event.DetailType))
		return nil
	}

	frame, err := json.Marshal(pushMessage{
		Type:      event.DetailType,
		Timestamp: detail.OccurredAt.Unix(),
		Data:      detail.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal push frame: %w", err)
	}

	return pushToUser(ctx, owner.UserID, frame)
}

func handler(ctx context.Context, raw json.RawMessage) error {
	var busEvent events.CloudWatchEvent
	if err := json.Unmarshal(raw, &busEvent); err == nil && busEvent.DetailType != "" {
		return handleBusEvent(ctx, busEvent)
	}

	// Direct invocation: {"user_id": "...", "type": "...", "data": {...}}
	var direct struct {
		UserID string          `json:"user_id"`
		Type   string          `json:"type"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &direct); err == nil && direct.UserID != "" {
		frame, err := json.Marshal(pushMessage{
			Type:      direct.Type,
			Timestamp: time.Now().Unix(),
			Data:      direct.Data,
		})
		if err != nil {
			return fmt.Errorf("marshal push frame: %w", err)
		}
		return pushToUser(ctx, direct.UserID, frame)
	}

	return fmt.Errorf("unrecognized event shape")
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		logger.Fatal("ws-broadcast only runs as a Lambda subscribed to the event bus")
	}
	defer logger.Sync()
	lambda.Start(handler)
}
