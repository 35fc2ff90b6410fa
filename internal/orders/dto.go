package orders

import (
	"time"

	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	"github.com/angelmondragon/bouquet-backend/pkg/money"
)

// HistoryItem is one entry of the order history, rebuilt from the stored snapshot.
type HistoryItem struct {
	ID               string       `json:"id"`
	CreatedAt        time.Time    `json:"createdAt"`
	TotalPrice       money.Amount `json:"totalPrice"`
	Flowers          []FlowerLine `json:"flowers"`
	Papers           []WrapLine   `json:"papers"`
	Ribbons          []WrapLine   `json:"ribbons"`
	GiftOptions      *GiftOptions `json:"giftOptions,omitempty"`
	Pickup           *Pickup      `json:"pickup,omitempty"`
	VisualizationURL *string      `json:"visualizationUrl,omitempty"`
}

type FlowerLine struct {
	ID       *int64       `json:"id"`
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Price    money.Amount `json:"price"`
}

type WrapLine struct {
	ID    *int64       `json:"id"`
	Name  string       `json:"name"`
	Price money.Amount `json:"price"`
}

type GiftOptions struct {
	RecipientName    string  `json:"recipientName"`
	RecipientAddress string  `json:"recipientAddress"`
	GreetingCard     *string `json:"greetingCard,omitempty"`
}

type Pickup struct {
	Alias         *string              `json:"alias,omitempty"`
	Date          *string              `json:"date,omitempty"`
	Time          *string              `json:"time,omitempty"`
	PickupMethod  *enums.PickupMethod  `json:"pickupMethod,omitempty"`
	PaymentMethod *enums.PaymentMethod `json:"paymentMethod,omitempty"`
}

// ToHistoryItem maps a summary to its wire shape. Prices always come from the
// line snapshot.
func ToHistoryItem(s Summary) HistoryItem {
	item := HistoryItem{
		ID:               s.Order.OrderNumber,
		CreatedAt:        s.Order.CreatedAt.UTC(),
		TotalPrice:       money.FromCents(s.Order.TotalCents),
		Flowers:          []FlowerLine{},
		Papers:           []WrapLine{},
		Ribbons:          []WrapLine{},
		VisualizationURL: s.Order.VisualizationRef,
	}
	for _, line := range s.Lines {
		switch line.Slot {
		case enums.LineSlotFlower:
			item.Flowers = append(item.Flowers, FlowerLine{
				ID:       line.ProductID,
				Name:     line.DisplayName,
				Quantity: line.Quantity,
				Price:    money.FromCents(line.PriceAtOrderCents),
			})
		case enums.LineSlotPaper:
			item.Papers = append(item.Papers, wrapLine(line))
		case enums.LineSlotRibbon:
			item.Ribbons = append(item.Ribbons, wrapLine(line))
		}
	}
	if s.Order.IsGift {
		item.GiftOptions = &GiftOptions{
			RecipientName:    deref(s.Order.RecipientName),
			RecipientAddress: deref(s.Order.RecipientAddress),
			GreetingCard:     s.Order.GreetingCard,
		}
	}
	if hasPickup(s) {
		item.Pickup = &Pickup{
			Alias:         s.Order.PickupAlias,
			Date:          s.Order.PickupDate,
			Time:          s.Order.PickupTime,
			PickupMethod:  s.Order.PickupMethod,
			PaymentMethod: s.Order.PaymentMethod,
		}
	}
	return item
}

func wrapLine(line SummaryLine) WrapLine {
	return WrapLine{
		ID:    line.ProductID,
		Name:  line.DisplayName,
		Price: money.FromCents(line.PriceAtOrderCents),
	}
}

func hasPickup(s Summary) bool {
	o := s.Order
	return o.PickupAlias != nil || o.PickupDate != nil || o.PickupTime != nil || o.PickupMethod != nil || o.PaymentMethod != nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
