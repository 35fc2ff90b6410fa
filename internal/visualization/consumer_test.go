package visualization

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox/payloads"
)

type stubAttacher struct {
	mu       sync.Mutex
	attached map[uuid.UUID]string
	err      error
}

func (s *stubAttacher) AttachVisualization(_ context.Context, id uuid.UUID, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.attached == nil {
		s.attached = map[uuid.UUID]string{}
	}
	s.attached[id] = ref
	return nil
}

type stubRenderer struct {
	prompts []string
}

func (s *stubRenderer) Render(_ context.Context, p string) Artifact {
	s.prompts = append(s.prompts, p)
	return Artifact{URL: "data:image/png;base64,AAAA"}
}

type memGuard struct {
	claimed  map[string]bool
	released []string
	err      error
}

func (g *memGuard) Claim(_ context.Context, id string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.claimed == nil {
		g.claimed = map[string]bool{}
	}
	if g.claimed[id] {
		return false, nil
	}
	g.claimed[id] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, id string) error {
	delete(g.claimed, id)
	g.released = append(g.released, id)
	return nil
}

func newTestConsumer(t *testing.T, attacher *stubAttacher, r *stubRenderer, guard *memGuard) *Consumer {
	t.Helper()
	c, err := NewConsumer(ConsumerParams{
		Orders:   attacher,
		Renderer: r,
		Guard:    guard,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return c
}

func orderPlacedMessage(t *testing.T, orderID uuid.UUID) []byte {
	t.Helper()
	data, err := json.Marshal(payloads.OrderPlacedEvent{
		OrderID:     orderID,
		OrderNumber: "ORD-2026-0A1B2C3D",
		Flowers:     []payloads.PlacedFlower{{Name: "Rose", Quantity: 2}},
		Papers:      []string{"Kraft"},
	})
	require.NoError(t, err)
	body, err := json.Marshal(outbox.PayloadEnvelope{Version: 1, EventID: uuid.NewString(), Data: data})
	require.NoError(t, err)
	return body
}

var placedAttrs = map[string]string{"event_type": string(enums.EventOrderPlaced)}

func TestHandleAttachesRenderedArtifact(t *testing.T) {
	attacher := &stubAttacher{}
	r := &stubRenderer{}
	c := newTestConsumer(t, attacher, r, &memGuard{})
	orderID := uuid.New()

	res := c.handle(context.Background(), "m1", placedAttrs, orderPlacedMessage(t, orderID))
	require.False(t, res.nack)
	require.Equal(t, "data:image/png;base64,AAAA", attacher.attached[orderID])
	require.Len(t, r.prompts, 1)
	require.Contains(t, r.prompts[0], "exactly 2 rose. Wrapped in kraft.")
}

func TestHandleSkipsRedelivery(t *testing.T) {
	r := &stubRenderer{}
	c := newTestConsumer(t, &stubAttacher{}, r, &memGuard{})
	body := orderPlacedMessage(t, uuid.New())

	require.False(t, c.handle(context.Background(), "m1", placedAttrs, body).nack)
	require.False(t, c.handle(context.Background(), "m1", placedAttrs, body).nack)
	require.Len(t, r.prompts, 1)
}

func TestHandleAcksMissingOrder(t *testing.T) {
	attacher := &stubAttacher{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	c := newTestConsumer(t, attacher, &stubRenderer{}, &memGuard{})

	res := c.handle(context.Background(), "m1", placedAttrs, orderPlacedMessage(t, uuid.New()))
	require.False(t, res.nack)
}

func TestHandleNacksAndReleasesOnStorageFailure(t *testing.T) {
	attacher := &stubAttacher{err: errors.New("connection reset")}
	guard := &memGuard{}
	c := newTestConsumer(t, attacher, &stubRenderer{}, guard)

	res := c.handle(context.Background(), "m1", placedAttrs, orderPlacedMessage(t, uuid.New()))
	require.True(t, res.nack)
	require.Len(t, guard.released, 1)
}

func TestHandleNacksWhenGuardUnavailable(t *testing.T) {
	c := newTestConsumer(t, &stubAttacher{}, &stubRenderer{}, &memGuard{err: errors.New("redis down")})
	require.True(t, c.handle(context.Background(), "m1", placedAttrs, orderPlacedMessage(t, uuid.New())).nack)
}

func TestHandleAcksUnhandledAndMalformed(t *testing.T) {
	r := &stubRenderer{}
	c := newTestConsumer(t, &stubAttacher{}, r, &memGuard{})

	require.False(t, c.handle(context.Background(), "m1", map[string]string{"event_type": "other"}, nil).nack)
	require.False(t, c.handle(context.Background(), "m2", placedAttrs, []byte("garbage")).nack)
	require.Empty(t, r.prompts)
}

func TestRunRequiresSubscription(t *testing.T) {
	c := newTestConsumer(t, &stubAttacher{}, &stubRenderer{}, &memGuard{})
	require.Error(t, c.Run(context.Background()))
}
