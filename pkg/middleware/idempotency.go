package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"court-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "X-Idempotency-Key"
	IdempotencyKeyPrefix = "idempotency:"
	// replayed responses carry this header
	IdempotentReplayHeader = "X-Idempotent-Replay"

	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultProcessingTTL  = 60 * time.Second
)

type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord stores the state of an idempotent request
type IdempotencyRecord struct {
	Key          string            `json:"key"`
	Status       IdempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RedisClient is the subset of *redis.Client the middleware needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type IdempotencyConfig struct {
	Redis         RedisClient
	TTL           time.Duration // completed records
	ProcessingTTL time.Duration // in-flight records
}

// Idempotency replays the stored response for a repeated X-Idempotency-Key.
// Requests without the header pass through untouched. Redis failures fail
// open.
func Idempotency(config IdempotencyConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if config.TTL <= 0 {
		config.TTL = DefaultIdempotencyTTL
	}
	if config.ProcessingTTL <= 0 {
		config.ProcessingTTL = DefaultProcessingTTL
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" || config.Redis == nil {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			ctx := r.Context()
			redisKey := IdempotencyKeyPrefix + key
			hash := requestHash(r, body)

			existing, err := getRecord(ctx, config.Redis, redisKey)
			if err != nil && !errors.Is(err, redis.Nil) {
				logger.Warn("Idempotency lookup failed, continuing", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if existing != nil {
				replay(w, existing, hash)
				return
			}

			record := &IdempotencyRecord{
				Key:         key,
				Status:      StatusProcessing,
				RequestHash: hash,
				CreatedAt:   time.Now(),
			}

			if !trySetRecord(ctx, config.Redis, redisKey, record, config.ProcessingTTL) {
				// lost the race to a concurrent request
				if existing, _ = getRecord(ctx, config.Redis, redisKey); existing != nil {
					replay(w, existing, hash)
					return
				}
			}

			rw := &capturingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			// server errors are not cached so the client can retry
			if rw.status >= http.StatusInternalServerError {
				config.Redis.Del(ctx, redisKey)
				return
			}

			record.Status = StatusCompleted
			record.ResponseCode = rw.status
			record.ResponseBody = rw.body.String()
			if err := saveRecord(ctx, config.Redis, redisKey, record, config.TTL); err != nil {
				logger.Warn("Failed to store idempotency record",
					zap.String("key", key),
					zap.Error(err))
			}
		})
	}
}

func replay(w http.ResponseWriter, record *IdempotencyRecord, hash string) {
	if record.RequestHash != hash {
		utils.ResponseJSON(w, http.StatusUnprocessableEntity, false,
			"Idempotency key already used with a different request", nil, nil)
		return
	}

	if record.Status == StatusProcessing {
		utils.ResponseConflict(w, "A request with this idempotency key is already being processed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(record.ResponseCode)
	w.Write([]byte(record.ResponseBody))
}

type capturingWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func requestHash(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte(r.URL.Path))
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		h.Write([]byte(userID.String()))
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func getRecord(ctx context.Context, client RedisClient, key string) (*IdempotencyRecord, error) {
	result, err := client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var record IdempotencyRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func trySetRecord(ctx context.Context, client RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) bool {
	data, err := json.Marshal(record)
	if err != nil {
		return false
	}

	ok, err := client.SetNX(ctx, key, string(data), ttl).Result()
	if err != nil {
		return false
	}
	return ok
}

func saveRecord(ctx context.Context, client RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, string(data), ttl).Err()
}
