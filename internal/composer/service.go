package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bouquet-backend/internal/catalog"
	"github.com/angelmondragon/bouquet-backend/internal/orders"
	"github.com/angelmondragon/bouquet-backend/pkg/config"
	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/metrics"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox/payloads"
)

// SuccessMessage is returned with every committed order.
const SuccessMessage = "Order placed successfully"

// Service is the single authority turning an untrusted cart into a committed order.
type Service interface {
	Resolve(ctx context.Context, cart Cart) (*Resolution, error)
	Compose(ctx context.Context, cart Cart) (*Receipt, error)
}

// Receipt identifies a committed order.
type Receipt struct {
	OrderID             uuid.UUID
	OrderNumber         string
	TotalCents          int64
	Message             string
	VisualizationQueued bool
}

type productLookup interface {
	LookupMany(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams wires the composer dependencies.
type ServiceParams struct {
	Catalog productLookup
	Orders  orders.Repository
	Tx      txRunner
	Outbox  eventEmitter
	Config  config.OrdersConfig
	Metrics *metrics.OrderMetrics
	Logger  *logger.Logger
	// Now and NewOrderNumber default to the wall clock and NewOrderNumber.
	Now            func() time.Time
	NewOrderNumber func(time.Time) string
}

type service struct {
	catalog     productLookup
	orders      orders.Repository
	tx          txRunner
	outbox      eventEmitter
	cfg         config.OrdersConfig
	metrics     *metrics.OrderMetrics
	logg        *logger.Logger
	now         func() time.Time
	orderNumber func(time.Time) string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Config.MaxOrderNumberAttempts <= 0 {
		params.Config.MaxOrderNumberAttempts = 1
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.NewOrderNumber == nil {
		params.NewOrderNumber = NewOrderNumber
	}
	return &service{
		catalog:     params.Catalog,
		orders:      params.Orders,
		tx:          params.Tx,
		outbox:      params.Outbox,
		cfg:         params.Config,
		metrics:     params.Metrics,
		logg:        params.Logger,
		now:         params.Now,
		orderNumber: params.NewOrderNumber,
	}, nil
}

// NewOrderNumber derives ORD-<year>-<8 upper hex> from a random UUID.
func NewOrderNumber(now time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%d-%s", now.UTC().Year(), strings.ToUpper(raw[:8]))
}

func (s *service) Compose(ctx context.Context, cart Cart) (*Receipt, error) {
	res, err := s.Resolve(ctx, cart)
	if err != nil {
		if !pkgerrors.IsValidation(err) {
			return nil, err
		}
		s.metrics.ObserveRejected(issueKinds(IssuesOf(err)))
		if s.logg != nil {
			logCtx := s.logg.WithField(ctx, "issue_count", len(IssuesOf(err)))
			s.logg.Info(logCtx, "order.validation_failed")
		}
		return nil, err
	}
	s.checkClientTotal(ctx, cart, res)

	visualize := s.cfg.VisualizeOnOrder
	if cart.Visualize != nil {
		visualize = *cart.Visualize
	}

	var order *models.Order
	for attempt := 1; ; attempt++ {
		order = buildOrder(res, cart, s.orderNumber(s.now()))
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.orders.WithTx(tx).Commit(ctx, order); err != nil {
				return err
			}
			if !visualize {
				return nil
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderPlaced,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Data:          placedEvent(order, res),
				Version:       1,
				OccurredAt:    order.CreatedAt,
			})
		})
		if !errors.Is(err, orders.ErrOrderNumberTaken) || attempt >= s.cfg.MaxOrderNumberAttempts {
			break
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "order.number_collision")
		}
	}
	if err != nil {
		s.metrics.ObserveFailed()
		if errors.Is(err, orders.ErrOrderNumberTaken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "could not assign a unique order number")
		}
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodePersistence, err, "commit order")
		}
		return nil, err
	}

	s.metrics.ObserveCommitted(order.TotalCents)
	if s.logg != nil {
		logCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"total_cents": order.TotalCents,
			"line_count":  len(order.Lines),
			"visualize":   visualize,
		})
		s.logg.Info(logCtx, "order.composed")
	}

	return &Receipt{
		OrderID:             order.ID,
		OrderNumber:         order.OrderNumber,
		TotalCents:          order.TotalCents,
		Message:             SuccessMessage,
		VisualizationQueued: visualize,
	}, nil
}

func (s *service) checkClientTotal(ctx context.Context, cart Cart, res *Resolution) {
	if cart.ClientTotalCents == nil || *cart.ClientTotalCents == res.TotalCents || s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"client_total_cents": *cart.ClientTotalCents,
		"total_cents":        res.TotalCents,
	})
	s.logg.Warn(logCtx, "order.client_total_mismatch")
}

func buildOrder(res *Resolution, cart Cart, number string) *models.Order {
	order := &models.Order{
		OrderNumber: number,
		TotalCents:  res.TotalCents,
		Lines:       make([]models.OrderLine, 0, len(res.Lines)),
	}
	for _, line := range res.Lines {
		productID := line.Product.ID
		order.Lines = append(order.Lines, models.OrderLine{
			Slot:              line.Slot,
			Position:          line.Position,
			ProductID:         &productID,
			ProductName:       line.Product.Name,
			Category:          line.Product.Category,
			Quantity:          line.Quantity,
			PriceAtOrderCents: line.Product.UnitPriceCents,
			LineTotalCents:    line.LineTotalCents,
		})
	}
	if g := cart.Gift; g != nil && g.IsGift {
		order.IsGift = true
		order.RecipientName = optional(g.RecipientName)
		order.RecipientAddress = optional(g.RecipientAddress)
		order.GreetingCard = optional(g.GreetingCard)
	}
	if p := cart.Pickup; p != nil {
		order.PickupAlias = optional(p.Alias)
		order.PickupDate = optional(p.Date)
		order.PickupTime = optional(p.Time)
		order.PickupMethod = p.PickupMethod
		order.PaymentMethod = p.PaymentMethod
	}
	return order
}

func placedEvent(order *models.Order, res *Resolution) payloads.OrderPlacedEvent {
	detail := res.PromptDetail()
	event := payloads.OrderPlacedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalCents:  order.TotalCents,
		Flowers:     make([]payloads.PlacedFlower, 0, len(detail.Flowers)),
		Papers:      detail.Papers,
		Ribbons:     detail.Ribbons,
	}
	for _, f := range detail.Flowers {
		event.Flowers = append(event.Flowers, payloads.PlacedFlower{Name: f.Name, Quantity: f.Quantity})
	}
	return event
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
