package composer

import (
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
)

// Item is one cart selection. Slot is the discriminant: flower items carry a
// quantity, paper and ribbon items always count as one.
type Item struct {
	Slot      enums.LineSlot
	ProductID int64
	Quantity  int
}

func FlowerItem(productID int64, quantity int) Item {
	return Item{Slot: enums.LineSlotFlower, ProductID: productID, Quantity: quantity}
}

func PaperItem(productID int64) Item {
	return Item{Slot: enums.LineSlotPaper, ProductID: productID, Quantity: 1}
}

func RibbonItem(productID int64) Item {
	return Item{Slot: enums.LineSlotRibbon, ProductID: productID, Quantity: 1}
}

// effectiveQuantity is what the line is priced at.
func (i Item) effectiveQuantity() int {
	if i.Slot.Flat() {
		return 1
	}
	return i.Quantity
}

// Gift is stored only when IsGift is set.
type Gift struct {
	IsGift           bool
	RecipientName    string
	RecipientAddress string
	GreetingCard     string
}

// Pickup metadata is optional and stored verbatim.
type Pickup struct {
	Alias         string
	Date          string
	Time          string
	PickupMethod  *enums.PickupMethod
	PaymentMethod *enums.PaymentMethod
}

// Cart is the untrusted client selection.
type Cart struct {
	Items  []Item
	Gift   *Gift
	Pickup *Pickup
	// ClientTotalCents is only compared against the computed total.
	ClientTotalCents *int64
	// Visualize overrides the configured default for requesting a preview.
	Visualize *bool
}

func (c Cart) productIDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
