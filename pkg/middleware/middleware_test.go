package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestActor(t *testing.T) {
	log := zap.NewNop()
	var got utils.Actor
	h := Actor(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = utils.GetActorFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "not-a-uuid")
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	id := uuid.New()
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, id.String())
	req.Header.Set(RoleHeader, "superuser")
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, got.UserID)
	assert.Equal(t, utils.RoleCustomer, got.Role)
}

func TestAdmin(t *testing.T) {
	log := zap.NewNop()
	h := Actor(log)(Admin(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, uuid.NewString())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req.Header.Set(RoleHeader, "Admin")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	h := Idempotency(IdempotencyConfig{Redis: store}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		utils.ResponseCreated(w, "success", map[string]int{"n": calls})
	}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	first := send(`{"a":1}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := send(`{"a":1}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	reused := send(`{"a":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, reused.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotency_InFlightAndServerErrors(t *testing.T) {
	store := newFakeRedis()
	h := Idempotency(IdempotencyConfig{Redis: store}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseInternalError(w, "Internal server error")
	}))

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-2")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, store.data, "5xx responses are not cached")

	// a processing record for the same request is reported as in flight
	hash := requestHash(httptest.NewRequest(http.MethodPost, "/x", nil), nil)
	require.True(t, trySetRecord(context.Background(), store, IdempotencyKeyPrefix+"key-3",
		&IdempotencyRecord{Key: "key-3", Status: StatusProcessing, RequestHash: hash}, time.Minute))

	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-3")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	h := Idempotency(IdempotencyConfig{Redis: store}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}

func TestRecover_ReraisesAbort(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithError(t, http.ErrAbortHandler.Error(), func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogger_PassesStatusThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tea", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
