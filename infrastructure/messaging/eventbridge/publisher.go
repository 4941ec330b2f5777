// Package eventbridge publishes domain events to an EventBridge bus so
// downstream consumers (analytics, notifications) can react to tree
// activity without coupling to the API.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"crossroads-backend/application/ports"
	"crossroads-backend/domain/events"
)

const eventSource = "crossroads.trees"

// maxEntriesPerCall is the PutEvents API limit.
const maxEntriesPerCall = 10

// Publisher implements ports.EventPublisher on EventBridge.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates an EventBridge publisher targeting the given bus.
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends a single domain event.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends events in PutEvents-sized chunks. The first failed
// chunk aborts the rest; callers treat publication as best-effort.
func (p *Publisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for start := 0; start < len(batch); start += maxEntriesPerCall {
		end := start + maxEntriesPerCall
		if end > len(batch) {
			end = len(batch)
		}
		if err := p.putEvents(ctx, batch[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) putEvents(ctx context.Context, batch []events.DomainEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))
	for _, event := range batch {
		detail, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", event.GetEventType(), err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
		})
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}
	if result.FailedEntryCount > 0 {
		for _, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Warn("Event entry rejected",
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d event entries rejected", result.FailedEntryCount)
	}

	p.logger.Debug("Events published", zap.Int("count", len(entries)))
	return nil
}
