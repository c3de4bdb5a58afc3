package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"todo-api/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// SourceTodoAPI is the EventBridge source of every audit event
const SourceTodoAPI = "todo-api.audit"

// EventBridge limits PutEvents to 10 entries per call
const batchSize = 10

// EventBridgeAPI is the subset of the EventBridge client the publisher uses
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// AuditPublisher implements ports.AuditPublisher using AWS EventBridge
type AuditPublisher struct {
	client       EventBridgeAPI
	eventBusName string
	source       string
	now          func() time.Time
	logger       *zap.Logger
}

var _ ports.AuditPublisher = (*AuditPublisher)(nil)

// NewAuditPublisher creates a new EventBridge audit publisher
func NewAuditPublisher(client EventBridgeAPI, eventBusName string, logger *zap.Logger) *AuditPublisher {
	return &AuditPublisher{
		client:       client,
		eventBusName: eventBusName,
		source:       SourceTodoAPI,
		now:          time.Now,
		logger:       logger,
	}
}

// Publish sends events to EventBridge in batches. Failed entries are reported, not retried.
func (p *AuditPublisher) Publish(ctx context.Context, events []ports.AuditEvent) error {
	for i := 0; i < len(events); i += batchSize {
		end := i + batchSize
		if end > len(events) {
			end = len(events)
		}
		if err := p.publishBatch(ctx, events[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// publishBatch publishes a batch of events (max 10)
func (p *AuditPublisher) publishBatch(ctx context.Context, events []ports.AuditEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(events))
	published := make([]ports.AuditEvent, 0, len(events))

	for _, event := range events {
		detail, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal audit event",
				zap.Error(err),
				zap.String("action", string(event.Action)),
			)
			continue
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(string(event.Action)),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(p.now()),
		})
		published = append(published, event)
	}

	if len(entries) == 0 {
		return nil
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to publish events to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil && i < len(published) {
				p.logger.Error("Failed to publish audit event",
					zap.String("action", string(published[i].Action)),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("Audit events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}
