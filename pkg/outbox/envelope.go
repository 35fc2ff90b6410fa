package outbox

import (
	"encoding/json"
	"errors"
	"time"
)

// PayloadEnvelope is the stable payload structure stored in outbox_events and
// published as the Pub/Sub message body.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a message body and rejects envelopes without an event id or data.
func DecodeEnvelope(body []byte) (PayloadEnvelope, error) {
	var envelope PayloadEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return PayloadEnvelope{}, err
	}
	if envelope.EventID == "" {
		return PayloadEnvelope{}, errors.New("envelope event id missing")
	}
	if len(envelope.Data) == 0 {
		return PayloadEnvelope{}, errors.New("envelope data missing")
	}
	return envelope, nil
}
