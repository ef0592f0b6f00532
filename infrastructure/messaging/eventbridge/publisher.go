// Package eventbridge publishes domain events to an AWS EventBridge bus so
// downstream consumers (edge rebuild workers, websocket push) can react
// without coupling to the write path.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"memoryweb/application/ports"
	"memoryweb/domain/events"
)

const eventSource = "memoryweb"

// putEventsLimit is the EventBridge PutEvents batch cap
const putEventsLimit = 10

// Publisher implements ports.EventBus on EventBridge
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates an EventBridge-backed event publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

type envelope struct {
	EventID     string      `json:"eventId"`
	EventType   string      `json:"eventType"`
	AggregateID string      `json:"aggregateId"`
	OccurredAt  time.Time   `json:"occurredAt"`
	Payload     interface{} `json:"payload"`
}

// Publish sends the events in batches. Partial failures are surfaced as a
// single error after every batch has been attempted.
func (p *Publisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(evts))
	for _, evt := range evts {
		detail, err := json.Marshal(envelope{
			EventID:     uuid.NewString(),
			EventType:   evt.GetEventType(),
			AggregateID: evt.GetAggregateID(),
			OccurredAt:  evt.GetTimestamp(),
			Payload:     evt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.GetEventType(), err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(evt.GetEventType()),
			Detail:       aws.String(string(detail)),
		})
	}

	var failed int
	for start := 0; start < len(entries); start += putEventsLimit {
		end := start + putEventsLimit
		if end > len(entries) {
			end = len(entries)
		}

		out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
			Entries: entries[start:end],
		})
		if err != nil {
			return fmt.Errorf("failed to publish events: %w", err)
		}
		if out.FailedEntryCount > 0 {
			failed += int(out.FailedEntryCount)
			for _, entry := range out.Entries {
				if entry.ErrorCode != nil {
					p.logger.Error("event rejected by bus",
						zap.String("error_code", aws.ToString(entry.ErrorCode)),
						zap.String("error_message", aws.ToString(entry.ErrorMessage)))
				}
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d events failed to publish", failed, len(entries))
	}

	p.logger.Debug("published events", zap.Int("count", len(entries)))
	return nil
}

var _ ports.EventBus = (*Publisher)(nil)
