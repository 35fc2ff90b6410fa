package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	claimed     map[string]bool
	setNXError  error
	lastTTL     time.Duration
	lastDeleted string
}

func newFakeStore() *fakeStore {
	return &fakeStore{claimed: map[string]bool{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, ttl time.Duration) (bool, error) {
	if f.setNXError != nil {
		return false, f.setNXError
	}
	f.lastTTL = ttl
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.claimed, key)
		f.lastDeleted = key
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "bq:idempotency:" + scope + ":" + id
}

func TestClaimOnlyOnce(t *testing.T) {
	store := newFakeStore()
	guard, err := NewGuard(store, "visualization-worker", 24*time.Hour)
	require.NoError(t, err)

	ok, err := guard.Claim(context.Background(), "evt-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 24*time.Hour, store.lastTTL)

	ok, err = guard.Claim(context.Background(), "evt-1")
	require.NoError(t, err)
	require.False(t, ok, "redelivery must not be claimed twice")
}

func TestReleaseAllowsRetry(t *testing.T) {
	store := newFakeStore()
	guard, err := NewGuard(store, "visualization-worker", time.Hour)
	require.NoError(t, err)

	_, err = guard.Claim(context.Background(), "evt-2")
	require.NoError(t, err)
	require.NoError(t, guard.Release(context.Background(), "evt-2"))
	require.Equal(t, "bq:idempotency:evt:visualization-worker:evt-2", store.lastDeleted)

	ok, err := guard.Claim(context.Background(), "evt-2")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestClaimErrors(t *testing.T) {
	store := newFakeStore()
	store.setNXError = errors.New("boom")
	guard, err := NewGuard(store, "visualization-worker", time.Hour)
	require.NoError(t, err)

	_, err = guard.Claim(context.Background(), "evt-3")
	require.Error(t, err)

	_, err = guard.Claim(context.Background(), "")
	require.Error(t, err)
}

func TestNewGuardValidatesInput(t *testing.T) {
	_, err := NewGuard(nil, "c", time.Hour)
	require.Error(t, err)
	_, err = NewGuard(newFakeStore(), "", time.Hour)
	require.Error(t, err)
	_, err = NewGuard(newFakeStore(), "c", -time.Second)
	require.Error(t, err)
}
