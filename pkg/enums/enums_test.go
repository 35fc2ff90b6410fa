package enums

import "testing"

func TestProductCategoryFitsSlot(t *testing.T) {
	cases := []struct {
		category ProductCategory
		slot     LineSlot
		want     bool
	}{
		{ProductCategoryFlower, LineSlotFlower, true},
		{ProductCategoryFoliage, LineSlotFlower, true},
		{ProductCategoryPaper, LineSlotFlower, false},
		{ProductCategoryPaper, LineSlotPaper, true},
		{ProductCategoryRibbon, LineSlotPaper, false},
		{ProductCategoryRibbon, LineSlotRibbon, true},
		{ProductCategoryFlower, LineSlotRibbon, false},
		{ProductCategoryFlower, LineSlot("vase"), false},
	}
	for _, tc := range cases {
		if got := tc.category.FitsSlot(tc.slot); got != tc.want {
			t.Fatalf("%s in %s: expected %v got %v", tc.category, tc.slot, tc.want, got)
		}
	}
}

func TestParseProductCategory(t *testing.T) {
	got, err := ParseProductCategory(" Foliage ")
	if err != nil || got != ProductCategoryFoliage {
		t.Fatalf("expected foliage, got %q err=%v", got, err)
	}
	if _, err := ParseProductCategory("vase"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
	if len(ProductCategories()) != 4 {
		t.Fatalf("expected 4 categories")
	}
}

func TestLineSlotCapacity(t *testing.T) {
	if LineSlotFlower.Capacity() != 0 || LineSlotFlower.Flat() {
		t.Fatal("flower slot should be unbounded and quantity-priced")
	}
	for _, slot := range []LineSlot{LineSlotPaper, LineSlotRibbon} {
		if slot.Capacity() != 1 || !slot.Flat() {
			t.Fatalf("%s should hold one flat-priced selection", slot)
		}
	}
}

func TestPickupAndPaymentParsing(t *testing.T) {
	if _, err := ParsePickupMethod("delivery"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParsePickupMethod("drone"); err == nil {
		t.Fatal("expected invalid pickup method")
	}
	if !PaymentMethodCard.IsValid() || PaymentMethod("barter").IsValid() {
		t.Fatal("unexpected payment method validity")
	}
}
