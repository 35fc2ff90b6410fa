package types

// SuccessEnvelope wraps operational payloads such as health probes. Catalog
// and order endpoints return their documents unwrapped.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the body of every failed request. Rejected carts carry the
// composer issue list in Details; RequestID echoes X-Request-Id so a customer
// can quote it when an order fails.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// OrderPlaced is the 201 body of POST /api/orders. OrderID is the human order
// number, not the internal uuid.
type OrderPlaced struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
