package service

import (
	"context"
	"strings"
	"time"

	"notebook-be/internal/pkg/logger"
	"notebook-be/pkg/events"
	pktNats "notebook-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventSubscriber is the subscribing side of an in-process event bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string) (<-chan *message.Message, error)
}

// DurableSubscriber is a broker that keeps a named consumer position per
// subscription, such as the NATS JetStream subscriber.
type DurableSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

type IConsumerService interface {
	// Consume subscribes to every notebook event type and returns once the
	// subscriptions are live. Messages are processed until ctx is done.
	Consume(ctx context.Context) error
}

// consumerService writes every notebook event to the activity log.
type consumerService struct {
	subscriber EventSubscriber
	durable    DurableSubscriber
	logger     logger.ILogger
}

func NewConsumerService(subscriber EventSubscriber, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		logger:     log,
	}
}

// NewDurableConsumerService consumes from a broker with durable consumers.
func NewDurableConsumerService(subscriber DurableSubscriber, log logger.ILogger) IConsumerService {
	return &consumerService{
		durable: subscriber,
		logger:  log,
	}
}

var consumedEventTypes = []string{
	events.NotebookCreated,
	events.NotebookStepAdded,
	events.NotebookStepsReordered,
}

func (cs *consumerService) Consume(ctx context.Context) error {
	if cs.durable != nil {
		return cs.consumeDurable(ctx)
	}

	for _, eventType := range consumedEventTypes {
		messages, err := cs.subscriber.Subscribe(ctx, eventType)
		if err != nil {
			return err
		}

		go func() {
			for msg := range messages {
				cs.processMessage(msg)
			}
		}()
	}

	return nil
}

func (cs *consumerService) consumeDurable(ctx context.Context) error {
	for _, eventType := range consumedEventTypes {
		if err := cs.durable.Subscribe(ctx, eventType, durableName(eventType), cs.handleEvent); err != nil {
			return err
		}
	}
	return nil
}

// durableName gives each event type its own consumer, e.g.
// "activity-log-notebook-created".
func durableName(eventType string) string {
	return "activity-log-" + strings.ToLower(strings.ReplaceAll(eventType, "_", "-"))
}

// handleEvent never fails, so the broker acks every decoded event.
func (cs *consumerService) handleEvent(ctx context.Context, event events.Event) error {
	cs.logEvent(event.EventType(), event.Payload(), event.Timestamp())
	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// always ack, a redelivered message would fail the same way
	defer msg.Ack()

	env, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EventConsumer", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.logEvent(env.Type, env.Data, env.OccurredAt)
}

func (cs *consumerService) logEvent(eventType string, data map[string]interface{}, occurredAt time.Time) {
	cs.logger.Info("EventConsumer", "Event received", map[string]interface{}{
		"event":       eventType,
		"notebook_id": data["notebook_id"],
		"occurred_at": occurredAt,
	})
}
