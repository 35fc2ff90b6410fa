package payloads

import (
	"github.com/google/uuid"
)

// OrderPlacedEvent is emitted when an order commits and a visualization was requested.
type OrderPlacedEvent struct {
	OrderID     uuid.UUID      `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	TotalCents  int64          `json:"total_cents"`
	Flowers     []PlacedFlower `json:"flowers"`
	Papers      []string       `json:"papers,omitempty"`
	Ribbons     []string       `json:"ribbons,omitempty"`
}

// PlacedFlower is the snapshot of a flower-slot line used to rebuild the prompt.
type PlacedFlower struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
