package composer

import (
	"context"
	"math"
	"strings"

	"github.com/angelmondragon/bouquet-backend/internal/catalog"
	"github.com/angelmondragon/bouquet-backend/internal/prompt"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
)

// MaxLineQuantity bounds the quantity of a single entry and the summed
// quantity of one product across entries.
const MaxLineQuantity = 10000

// Line is a validated, priced selection.
type Line struct {
	Slot           enums.LineSlot
	Position       int
	Product        catalog.Product
	Quantity       int
	LineTotalCents int64
}

// Resolution is a cart that passed validation, priced from the live catalog.
type Resolution struct {
	Lines      []Line
	TotalCents int64
}

// PromptDetail renders the resolution as prompt input.
func (r Resolution) PromptDetail() prompt.Detail {
	var detail prompt.Detail
	for _, line := range r.Lines {
		switch line.Slot {
		case enums.LineSlotFlower:
			detail.Flowers = append(detail.Flowers, prompt.Flower{Name: line.Product.Name, Quantity: line.Quantity})
		case enums.LineSlotPaper:
			detail.Papers = append(detail.Papers, line.Product.Name)
		case enums.LineSlotRibbon:
			detail.Ribbons = append(detail.Ribbons, line.Product.Name)
		}
	}
	return detail
}

// Resolve runs every validation step and prices the cart without committing.
func (s *service) Resolve(ctx context.Context, cart Cart) (*Resolution, error) {
	products, err := s.catalog.LookupMany(ctx, cart.productIDs())
	if err != nil {
		return nil, err
	}

	issues := s.check(cart, products)
	if len(issues) > 0 {
		return nil, validationError(issues)
	}
	return price(cart, products), nil
}

// check collects every problem in the cart instead of stopping at the first.
func (s *service) check(cart Cart, products map[int64]catalog.Product) []Issue {
	var issues []Issue
	slotCounts := map[enums.LineSlot]int{}
	requested := map[int64]int{}
	var order []int64
	flowers := 0
	var totalCents int64
	overflowed := false

	for _, item := range cart.Items {
		if !item.Slot.IsValid() {
			issues = append(issues, Issue{Kind: IssueInvalidSlot, Slot: item.Slot, ProductID: item.ProductID})
			continue
		}
		slotCounts[item.Slot]++
		if item.Slot == enums.LineSlotFlower {
			flowers++
		}
		if item.Quantity <= 0 {
			issues = append(issues, Issue{Kind: IssueInvalidQuantity, Slot: item.Slot, ProductID: item.ProductID, Requested: item.Quantity})
			continue
		}
		if item.Quantity > MaxLineQuantity {
			issues = append(issues, Issue{
				Kind:      IssueInvalidQuantity,
				Slot:      item.Slot,
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Limit:     MaxLineQuantity,
			})
			continue
		}

		product, ok := products[item.ProductID]
		if !ok {
			issues = append(issues, Issue{Kind: IssueNotFound, Slot: item.Slot, ProductID: item.ProductID})
			continue
		}
		if !product.Category.FitsSlot(item.Slot) {
			issues = append(issues, Issue{
				Kind:      IssueCategoryMismatch,
				Slot:      item.Slot,
				ProductID: item.ProductID,
				Name:      product.Name,
				Category:  product.Category,
			})
			continue
		}
		if _, seen := requested[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity

		lineCents, ok := mulCents(product.UnitPriceCents, item.effectiveQuantity())
		if ok {
			var sum int64
			if sum, ok = addCents(totalCents, lineCents); ok {
				totalCents = sum
			}
		}
		if !ok && !overflowed {
			overflowed = true
			issues = append(issues, Issue{
				Kind:      IssueInvalidQuantity,
				Slot:      item.Slot,
				ProductID: item.ProductID,
				Name:      product.Name,
				Requested: item.Quantity,
			})
		}
	}

	for _, slot := range []enums.LineSlot{enums.LineSlotPaper, enums.LineSlotRibbon} {
		if limit := slot.Capacity(); limit > 0 && slotCounts[slot] > limit {
			issues = append(issues, Issue{Kind: IssueCardinality, Slot: slot, Requested: slotCounts[slot], Limit: limit})
		}
	}

	// caps apply to the summed quantity of a product across duplicate entries
	for _, id := range order {
		product := products[id]
		if requested[id] > MaxLineQuantity {
			issues = append(issues, Issue{
				Kind:      IssueInvalidQuantity,
				Slot:      enums.LineSlotFlower,
				ProductID: id,
				Name:      product.Name,
				Requested: requested[id],
				Limit:     MaxLineQuantity,
			})
			continue
		}
		if product.Capped() && requested[id] > product.MaxQuantity {
			issues = append(issues, Issue{
				Kind:      IssueQuantityCap,
				Slot:      enums.LineSlotFlower,
				ProductID: id,
				Name:      product.Name,
				Requested: requested[id],
				Limit:     product.MaxQuantity,
			})
		}
	}

	if flowers == 0 && !s.cfg.AllowEmptyBouquet {
		issues = append(issues, Issue{Kind: IssueEmptyBouquet, Slot: enums.LineSlotFlower})
	}
	if g := cart.Gift; g != nil && g.IsGift {
		if strings.TrimSpace(g.RecipientName) == "" || strings.TrimSpace(g.RecipientAddress) == "" {
			issues = append(issues, Issue{Kind: IssueGiftRecipient})
		}
	}
	return issues
}

// price snapshots the current unit price on every line. Flower lines are
// quantity weighted; paper and ribbon lines are flat.
func price(cart Cart, products map[int64]catalog.Product) *Resolution {
	res := &Resolution{Lines: make([]Line, 0, len(cart.Items))}
	for i, item := range cart.Items {
		product := products[item.ProductID]
		quantity := item.effectiveQuantity()
		total := product.UnitPriceCents * int64(quantity)
		res.Lines = append(res.Lines, Line{
			Slot:           item.Slot,
			Position:       i,
			Product:        product,
			Quantity:       quantity,
			LineTotalCents: total,
		})
		res.TotalCents += total
	}
	return res
}

// mulCents and addCents report false instead of wrapping.
func mulCents(unit int64, quantity int) (int64, bool) {
	if unit < 0 || quantity < 0 {
		return 0, false
	}
	if unit != 0 && int64(quantity) > math.MaxInt64/unit {
		return 0, false
	}
	return unit * int64(quantity), true
}

func addCents(a, b int64) (int64, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

func issueKinds(issues []Issue) []string {
	kinds := make([]string, 0, len(issues))
	for _, issue := range issues {
		kinds = append(kinds, string(issue.Kind))
	}
	return kinds
}
