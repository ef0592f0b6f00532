// Package main implements the WebSocket $connect/$disconnect Lambda.
// It authenticates the connecting client and maintains the connection
// registry that ws-broadcast reads when pushing graph updates.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"memoryweb/infrastructure/config"
	"memoryweb/pkg/auth"
)

const connectionTTL = 24 * time.Hour

var (
	dynamoClient *dynamodb.Client
	validator    *auth.JWTValidator
	cfg          *config.Config
	logger       *zap.Logger
)

// connectionItem is the registry record for one live WebSocket connection.
// GSI1 keys let ws-broadcast find every connection belonging to a user.
type connectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"`
	GSI1SK       string `dynamodbav:"GSI1SK"`
	ConnectionID string `dynamodbav:"ConnectionID"`
	UserID       string `dynamodbav:"UserID"`
	Endpoint     string `dynamodbav:"Endpoint"`
	ConnectedAt  string `dynamodbav:"ConnectedAt"`
	TTL          int64  `dynamodbav:"TTL"`
}

func connectionPK(connectionID string) string {
	return fmt.Sprintf("CONNECTION#%s", connectionID)
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

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	dynamoClient = dynamodb.NewFromConfig(awsCfg)

	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}
	validator, err = auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
	if err != nil {
		logger.Fatal("Failed to create JWT validator", zap.Error(err))
	}

	logger.Info("WebSocket connect handler initialized",
		zap.String("connectionsTable", cfg.ConnectionsTable))
}

// extractToken pulls the JWT from the query string or Authorization header.
// Browsers cannot set headers on WebSocket upgrades, so the query
// parameter is the primary path.
func extractToken(request events.APIGatewayWebsocketProxyRequest) string {
	if token := request.QueryStringParameters["token"]; token != "" {
		return token
	}
	if header := request.Headers["Authorization"]; header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func storeConnection(ctx context.Context, item connectionItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal connection: %w", err)
	}
	_, err = dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &cfg.ConnectionsTable,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("store connection: %w", err)
	}
	return nil
}

func removeConnection(ctx context.Context, connectionID string) error {
	_, err := dynamoClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &cfg.ConnectionsTable,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: connectionPK(connectionID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	return nil
}

func handleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	token := extractToken(request)
	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket authentication failed",
			zap.String("connectionId", request.RequestContext.ConnectionID),
			zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusUnauthorized,
			Body:       `{"error":"unauthorized"}`,
		}, nil
	}

	now := time.Now()
	item := connectionItem{
		PK:           connectionPK(request.RequestContext.ConnectionID),
		SK:           "METADATA",
		GSI1PK:       fmt.Sprintf("USER#%s", claims.UserID),
		GSI1SK:       connectionPK(request.RequestContext.ConnectionID),
		ConnectionID: request.RequestContext.ConnectionID,
		UserID:       claims.UserID,
		Endpoint:     fmt.Sprintf("%s/%s", request.RequestContext.DomainName, request.RequestContext.Stage),
		ConnectedAt:  now.Format(time.RFC3339),
		TTL:          now.Add(connectionTTL).Unix(),
	}

	if err := storeConnection(ctx, item); err != nil {
		logger.Error("Failed to store connection",
			zap.String("connectionId", item.ConnectionID),
			zap.String("userId", claims.UserID),
			zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":"internal server error"}`,
		}, nil
	}

	logger.Info("WebSocket connection established",
		zap.String("connectionId", item.ConnectionID),
		zap.String("userId", claims.UserID))

	welcome, _ := json.Marshal(map[string]interface{}{
		"type":         "connection_established",
		"connectionId": item.ConnectionID,
		"timestamp":    now.Unix(),
	})
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       string(welcome),
	}, nil
}

func handleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := removeConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		logger.Error("Failed to remove connection",
			zap.String("connectionId", request.RequestContext.ConnectionID),
			zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	logger.Info("WebSocket connection closed",
		zap.String("connectionId", request.RequestContext.ConnectionID))
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$disconnect":
		return handleDisconnect(ctx, request)
	default:
		return handleConnect(ctx, request)
	}
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		logger.Fatal("ws-connect only runs as a Lambda behind the WebSocket API")
	}
	defer logger.Sync()
	lambda.Start(handler)
}
