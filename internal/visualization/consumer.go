package visualization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/angelmondragon/bouquet-backend/internal/prompt"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/metrics"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox/payloads"
)

// ConsumerName scopes idempotency markers for this consumer.
const ConsumerName = "visualization-worker"

type orderAttacher interface {
	AttachVisualization(ctx context.Context, orderID uuid.UUID, ref string) error
}

type renderer interface {
	Render(ctx context.Context, prompt string) Artifact
}

type claimGuard interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// ConsumerParams wires the order_placed consumer.
type ConsumerParams struct {
	Orders       orderAttacher
	Renderer     renderer
	Guard        claimGuard
	Subscription *pubsub.Subscriber
	Metrics      *metrics.VisualizationMetrics
	Logger       *logger.Logger
}

// Consumer renders a preview for every placed order and attaches it.
type Consumer struct {
	orders       orderAttacher
	renderer     renderer
	guard        claimGuard
	subscription *pubsub.Subscriber
	metrics      *metrics.VisualizationMetrics
	logg         *logger.Logger
}

func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("renderer required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		orders:       params.Orders,
		renderer:     params.Renderer,
		guard:        params.Guard,
		subscription: params.Subscription,
		metrics:      params.Metrics,
		logg:         params.Logger,
	}, nil
}

// Run receives messages until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if c.subscription == nil {
		return errors.New("visualization subscription required")
	}
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.handle(ctx, msg.ID, msg.Attributes, msg.Data).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	nack bool
}

var (
	ack  = processResult{}
	nack = processResult{nack: true}
)

func (c *Consumer) handle(ctx context.Context, messageID string, attrs map[string]string, data []byte) processResult {
	eventType := attrs["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"event_type": eventType,
	})

	if eventType != string(enums.EventOrderPlaced) {
		c.logg.Debug(logCtx, "skipping event not handled by visualization consumer")
		return ack
	}

	envelope, err := outbox.DecodeEnvelope(data)
	if err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return ack
	}

	var event payloads.OrderPlacedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil || event.OrderID == uuid.Nil {
		if err == nil {
			err = errors.New("order id missing")
		}
		c.logg.Error(logCtx, "failed to parse order_placed payload", err)
		return ack
	}
	logCtx = c.logg.WithFields(logCtx, map[string]any{"event_id": envelope.EventID, "order_id": event.OrderID.String()})
	logCtx = c.logg.WithOrderNumber(logCtx, event.OrderNumber)

	claimed, err := c.guard.Claim(ctx, envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return nack
	}
	if !claimed {
		c.metrics.ObserveAttach("duplicate")
		c.logg.Info(logCtx, "event already processed")
		return ack
	}

	artifact := c.renderer.Render(logCtx, prompt.Build(DetailFromEvent(event)))
	if err := c.orders.AttachVisualization(ctx, event.OrderID, artifact.URL); err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			c.metrics.ObserveAttach("not_found")
			c.logg.Warn(logCtx, "order.visualization_target_missing")
			return ack
		}
		c.metrics.ObserveAttach("failed")
		c.logg.Error(logCtx, "order.visualization_attach_failed", err)
		if relErr := c.guard.Release(ctx, envelope.EventID); relErr != nil {
			c.logg.Error(logCtx, "failed to release idempotency claim", relErr)
		}
		return nack
	}

	c.metrics.ObserveAttach("attached")
	c.logg.Info(c.logg.WithField(logCtx, "placeholder", artifact.Placeholder), "order.visualization_attached")
	return ack
}

// DetailFromEvent rebuilds the prompt input from an order snapshot.
func DetailFromEvent(event payloads.OrderPlacedEvent) prompt.Detail {
	detail := prompt.Detail{
		Flowers: make([]prompt.Flower, 0, len(event.Flowers)),
		Papers:  event.Papers,
		Ribbons: event.Ribbons,
	}
	for _, f := range event.Flowers {
		detail.Flowers = append(detail.Flowers, prompt.Flower{Name: f.Name, Quantity: f.Quantity})
	}
	return detail
}
