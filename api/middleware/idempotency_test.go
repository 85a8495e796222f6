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

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type memIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{data: map[string]string{}}
}

func (s *memIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = fmt.Sprint(value)
	return true, nil
}

func (s *memIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "pp:idempotency:" + scope + ":" + id
}

func (s *memIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func checkoutRequest(body, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dealer/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemIdempotencyStore()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	handler := Idempotency(store, time.Hour, nil)(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest(`{"po_ref":"PO-1"}`, "key-1"))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest(`{"po_ref":"PO-1"}`, "key-1"))
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs: %s vs %s", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotencyRejectsReusedKeyWithNewBody(t *testing.T) {
	store := newMemIdempotencyStore()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	handler := Idempotency(store, time.Hour, nil)(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest(`{"po_ref":"PO-1"}`, "key-1"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest(`{"po_ref":"PO-2"}`, "key-1"))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", second.Code)
	}
}

func TestIdempotencyRequiresKeyHeader(t *testing.T) {
	store := newMemIdempotencyStore()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	handler := Idempotency(store, time.Hour, nil)(next)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(`{}`, ""))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestIdempotencyGuardsCheckoutInsideSubrouter(t *testing.T) {
	store := newMemIdempotencyStore()
	calls := 0

	r := chi.NewRouter()
	r.Route("/api/v1/dealer", func(r chi.Router) {
		r.Use(Idempotency(store, time.Hour, nil))
		r.Post("/checkout", func(w http.ResponseWriter, req *http.Request) {
			calls++
			w.WriteHeader(http.StatusCreated)
		})
	})

	noKey := httptest.NewRecorder()
	r.ServeHTTP(noKey, checkoutRequest(`{}`, ""))
	if noKey.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key, got %d", noKey.Code)
	}
	if calls != 0 {
		t.Fatalf("handler ran without an idempotency key")
	}

	withKey := httptest.NewRecorder()
	r.ServeHTTP(withKey, checkoutRequest(`{}`, "key-1"))
	if withKey.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("expected guarded handler to run once, got code %d calls %d", withKey.Code, calls)
	}

	replay := httptest.NewRecorder()
	r.ServeHTTP(replay, checkoutRequest(`{}`, "key-1"))
	if replay.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("expected replay without a second run, got code %d calls %d", replay.Code, calls)
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	store := newMemIdempotencyStore()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	handler := Idempotency(store, time.Hour, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dealer/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || calls != 1 {
		t.Fatalf("expected pass-through, got code %d calls %d", resp.Code, calls)
	}
}
