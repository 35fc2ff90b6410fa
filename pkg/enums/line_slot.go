package enums

import "fmt"

// LineSlot is the position an order line occupies in a bouquet.
type LineSlot string

const (
	LineSlotFlower LineSlot = "flower"
	LineSlotPaper  LineSlot = "paper"
	LineSlotRibbon LineSlot = "ribbon"
)

var validLineSlots = []LineSlot{LineSlotFlower, LineSlotPaper, LineSlotRibbon}

func (s LineSlot) String() string {
	return string(s)
}

func (s LineSlot) IsValid() bool {
	for _, candidate := range validLineSlots {
		if candidate == s {
			return true
		}
	}
	return false
}

// Capacity is the maximum number of selections allowed in the slot, 0 meaning unbounded.
func (s LineSlot) Capacity() int {
	switch s {
	case LineSlotPaper, LineSlotRibbon:
		return 1
	}
	return 0
}

// Flat reports whether lines in this slot are priced once regardless of quantity.
func (s LineSlot) Flat() bool {
	return s == LineSlotPaper || s == LineSlotRibbon
}

func ParseLineSlot(value string) (LineSlot, error) {
	for _, candidate := range validLineSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line slot %q", value)
}
