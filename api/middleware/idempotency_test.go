package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

type countingHandler struct {
	calls  int
	status int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(h.status)
	_, _ = fmt.Fprintf(w, `{"orderId":"ORD-2026-%08d"}`, h.calls)
}

func post(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	next := &countingHandler{status: http.StatusCreated}
	handler := Idempotency(store, time.Hour, nil)(next)

	first := post(handler, "abc", `{"flowers":[]}`)
	second := post(handler, "abc", `{"flowers":[]}`)

	if next.calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", next.calls)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
	if second.Header().Get(replayedHeader) != "true" {
		t.Fatal("expected replay header")
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected stored content type, got %q", second.Header().Get("Content-Type"))
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newFakeStore()
	next := &countingHandler{status: http.StatusCreated}
	handler := Idempotency(store, time.Hour, nil)(next)

	post(handler, "abc", `{"flowers":[{"id":1,"quantity":1}]}`)
	rec := post(handler, "abc", `{"flowers":[{"id":1,"quantity":2}]}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), string(pkgerrors.CodeConflict)) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if next.calls != 1 {
		t.Fatalf("handler should not run on conflict, ran %d", next.calls)
	}
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	store := newFakeStore()
	next := &countingHandler{status: http.StatusCreated}
	handler := Idempotency(store, time.Hour, nil)(next)

	post(handler, "", `{}`)
	post(handler, "", `{}`)

	if next.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", next.calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key, got %v", store.data)
	}
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	store := newFakeStore()
	next := &countingHandler{status: http.StatusServiceUnavailable}
	handler := Idempotency(store, time.Hour, nil)(next)

	post(handler, "abc", `{}`)
	post(handler, "abc", `{}`)

	if next.calls != 2 {
		t.Fatalf("5xx responses must not be replayed, got %d calls", next.calls)
	}
}

type brokenStore struct{ fakeStore }

func (*brokenStore) SetNX(context.Context, string, any, time.Duration) (bool, error) {
	return false, fmt.Errorf("redis down")
}

func TestIdempotencyStoreFailureIsDependencyError(t *testing.T) {
	next := &countingHandler{status: http.StatusCreated}
	handler := Idempotency(&brokenStore{}, time.Hour, nil)(next)

	rec := post(handler, "abc", `{}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), string(pkgerrors.CodeDependency)) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if next.calls != 0 {
		t.Fatal("handler should not run when the store is unavailable")
	}
}

// blockingHandler holds the first request open until release is closed.
type blockingHandler struct {
	entered chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (h *blockingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	close(h.entered)
	<-h.release
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"orderId":"ORD-2026-0000000A"}`))
}

func TestIdempotencyConcurrentDuplicateIsRejected(t *testing.T) {
	store := newFakeStore()
	next := &blockingHandler{entered: make(chan struct{}), release: make(chan struct{})}
	handler := Idempotency(store, time.Hour, nil)(next)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- post(handler, "abc", `{"flowers":[]}`) }()
	<-next.entered

	dup := post(handler, "abc", `{"flowers":[]}`)
	if dup.Code != http.StatusConflict {
		t.Fatalf("expected 409 while the first request is running, got %d", dup.Code)
	}
	if !strings.Contains(dup.Body.String(), "in progress") {
		t.Fatalf("unexpected body %s", dup.Body.String())
	}

	close(next.release)
	first := <-done
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	replay := post(handler, "abc", `{"flowers":[]}`)
	if replay.Code != http.StatusCreated || replay.Header().Get(replayedHeader) != "true" {
		t.Fatalf("expected replayed 201 after completion, got %d", replay.Code)
	}
	if next.calls != 1 {
		t.Fatalf("handler should run once, ran %d", next.calls)
	}
}

func TestIdempotencyServerErrorReleasesKey(t *testing.T) {
	store := newFakeStore()
	next := &countingHandler{status: http.StatusInternalServerError}
	handler := Idempotency(store, time.Hour, nil)(next)

	post(handler, "abc", `{}`)
	if len(store.data) != 0 {
		t.Fatalf("in-flight marker should be released after a 5xx, got %v", store.data)
	}
}
