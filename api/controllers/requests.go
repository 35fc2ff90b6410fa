package controllers

import (
	"github.com/angelmondragon/bouquet-backend/api/validators"
	"github.com/angelmondragon/bouquet-backend/internal/composer"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	"github.com/angelmondragon/bouquet-backend/pkg/money"
)

const maxTextLen = 500

type flowerRequest struct {
	ID       int64 `json:"id" validate:"required"`
	Quantity int   `json:"quantity" validate:"max=10000"`
}

type wrapRequest struct {
	ID int64 `json:"id" validate:"required"`
}

type giftOptionsRequest struct {
	IsGift           bool   `json:"isGift"`
	RecipientName    string `json:"recipientName" validate:"max=200"`
	RecipientAddress string `json:"recipientAddress" validate:"max=500"`
	GreetingCard     string `json:"greetingCard" validate:"max=1000"`
}

type pickupRequest struct {
	Alias         string `json:"alias" validate:"max=100"`
	Date          string `json:"date" validate:"omitempty,isodate"`
	Time          string `json:"time" validate:"omitempty,clock"`
	PickupMethod  string `json:"pickupMethod" validate:"omitempty,oneof=in_store delivery"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,oneof=cash card online"`
}

// cartRequest is the body of both POST /api/orders and POST /api/visualization.
type cartRequest struct {
	Flowers     []flowerRequest     `json:"flowers" validate:"dive"`
	Papers      []wrapRequest       `json:"papers" validate:"dive"`
	Ribbons     []wrapRequest       `json:"ribbons" validate:"dive"`
	TotalPrice  *money.Amount       `json:"totalPrice,omitempty"`
	GiftOptions *giftOptionsRequest `json:"giftOptions,omitempty"`
	Pickup      *pickupRequest      `json:"pickup,omitempty"`
	Visualize   *bool               `json:"visualize,omitempty"`
}

// toCart keeps the request order: flowers, then papers, then ribbons.
func (r cartRequest) toCart() composer.Cart {
	cart := composer.Cart{
		Items:     make([]composer.Item, 0, len(r.Flowers)+len(r.Papers)+len(r.Ribbons)),
		Visualize: r.Visualize,
	}
	for _, f := range r.Flowers {
		cart.Items = append(cart.Items, composer.FlowerItem(f.ID, f.Quantity))
	}
	for _, p := range r.Papers {
		cart.Items = append(cart.Items, composer.PaperItem(p.ID))
	}
	for _, rb := range r.Ribbons {
		cart.Items = append(cart.Items, composer.RibbonItem(rb.ID))
	}
	if r.TotalPrice != nil {
		cents := r.TotalPrice.Cents()
		cart.ClientTotalCents = &cents
	}
	if g := r.GiftOptions; g != nil {
		cart.Gift = &composer.Gift{
			IsGift:           g.IsGift,
			RecipientName:    validators.SanitizeString(g.RecipientName, maxTextLen),
			RecipientAddress: validators.SanitizeString(g.RecipientAddress, maxTextLen),
			GreetingCard:     validators.SanitizeString(g.GreetingCard, 2*maxTextLen),
		}
	}
	if p := r.Pickup; p != nil {
		pickup := &composer.Pickup{
			Alias: validators.SanitizeString(p.Alias, maxTextLen),
			Date:  p.Date,
			Time:  p.Time,
		}
		if method, err := enums.ParsePickupMethod(p.PickupMethod); err == nil {
			pickup.PickupMethod = &method
		}
		if method, err := enums.ParsePaymentMethod(p.PaymentMethod); err == nil {
			pickup.PaymentMethod = &method
		}
		cart.Pickup = pickup
	}
	return cart
}
