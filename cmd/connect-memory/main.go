// Package main implements the Lambda consumer that re-derives tag
// connections asynchronously. It reacts to memory lifecycle events from
// EventBridge, so edge maintenance keeps working even when the synchronous
// write path skipped or failed derivation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"memoryweb/application/ports"
	"memoryweb/application/services"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/infrastructure/config"
	"memoryweb/infrastructure/di"
)

var (
	connections *services.ConnectionService
	memories    ports.MemoryRepository
	logger      *zap.Logger
)

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}

	connections = container.ConnectionService
	memories = container.MemoryRepo
	logger = container.Logger
}

// eventDetail is the envelope shape published to the bus
type eventDetail struct {
	EventType string `json:"eventType"`
	Payload   struct {
		MemoryID valueobjects.MemoryID `json:"memory_id"`
		UserID   string                `json:"user_id"`
	} `json:"payload"`
}

// rebuildRequest supports direct invocation for full-graph repair
type rebuildRequest struct {
	UserID string `json:"user_id"`
}

func handleBusEvent(ctx context.Context, event awsevents.CloudWatchEvent) error {
	var detail eventDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return fmt.Errorf("failed to parse event detail: %w", err)
	}

	userID := detail.Payload.UserID
	memoryID := detail.Payload.MemoryID
	if userID == "" || memoryID.IsZero() {
		logger.Warn("event missing identity, skipping",
			zap.String("detail_type", event.DetailType))
		return nil
	}

	switch event.DetailType {
	case "memory.created", "memory.tags_replaced":
		memory, err := memories.GetByID(ctx, userID, memoryID)
		if err != nil {
			return err
		}
		if memory == nil {
			// Deleted before the event arrived; edge cascade already ran.
			logger.Debug("memory gone, nothing to derive",
				zap.String("memory_id", memoryID.String()))
			return nil
		}
		_, err = connections.ReconnectAfterTagChange(ctx, userID, memory)
		return err

	case "memory.deleted":
		return connections.RemoveConnections(ctx, userID, memoryID)

	default:
		logger.Debug("ignoring event", zap.String("detail_type", event.DetailType))
		return nil
	}
}

func handler(ctx context.Context, event json.RawMessage) error {
	var busEvent awsevents.CloudWatchEvent
	if err := json.Unmarshal(event, &busEvent); err == nil && busEvent.DetailType != "" {
		return handleBusEvent(ctx, busEvent)
	}

	var rebuild rebuildRequest
	if err := json.Unmarshal(event, &rebuild); err == nil && rebuild.UserID != "" {
		edgeCount, err := connections.RebuildAll(ctx, rebuild.UserID)
		if err != nil {
			return err
		}
		logger.Info("rebuilt graph",
			zap.String("user_id", rebuild.UserID),
			zap.Int("edge_count", edgeCount))
		return nil
	}

	return fmt.Errorf("unable to parse event")
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(handler)
		return
	}

	// Local mode: rebuild the graph for a user named on the command line
	if len(os.Args) < 2 {
		log.Fatal("usage: connect-memory <user-id>")
	}
	edgeCount, err := connections.RebuildAll(context.Background(), os.Args[1])
	if err != nil {
		log.Fatalf("Rebuild failed: %v", err)
	}
	log.Printf("Rebuilt %d edges for user %s", edgeCount, os.Args[1])
}
