package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// HeaderIdempotencyKey is the header carrying the client's idempotency key.
	HeaderIdempotencyKey = "Idempotency-Key"
	// DefaultIdempotencyTTL is how long a stored response is replayed.
	DefaultIdempotencyTTL = 24 * time.Hour

	idempotencyKeyPrefix = "idempotency:"
	idempotencyLockTTL   = 30 * time.Second
)

// storedResponse is the replayable result of a completed request.
type storedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// replayWriter captures the response body while it streams to the client.
type replayWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *replayWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a completed POST that carried
// the same Idempotency-Key, and rejects a concurrent retry with 409 while the
// first attempt is still running. Requests without the header pass through.
// The stored key is scoped to method, route, and customer, so one customer's
// key can never replay another's response.
func Idempotency(client redis.UniversalClient, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyCacheKey(c, key)

		if data, err := client.Get(ctx, cacheKey).Bytes(); err == nil {
			var stored storedResponse
			if json.Unmarshal(data, &stored) == nil {
				c.Data(stored.StatusCode, stored.ContentType, stored.Body)
				c.Abort()
				return
			}
		}

		// Lock fails open: better to run the request twice during a Redis
		// outage than to refuse it.
		locked, err := client.SetNX(ctx, cacheKey+":lock", "1", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock", zap.Error(err))
			c.Next()
			return
		}
		if !locked {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": gin.H{
					"code":    "REQUEST_IN_PROGRESS",
					"message": "A request with this idempotency key is already being processed",
				},
			})
			return
		}
		defer client.Del(ctx, cacheKey+":lock")

		w := &replayWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = w

		c.Next()

		// 5xx responses are not stored so the client may retry them.
		status := c.Writer.Status()
		if status < 200 || status >= 500 {
			return
		}
		data, err := json.Marshal(&storedResponse{
			StatusCode:  status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
			log.Warn("store idempotent response", zap.Error(err))
		}
	}
}

func idempotencyCacheKey(c *gin.Context, key string) string {
	sum := sha256.Sum256([]byte(c.Request.Method + ":" + c.FullPath() + ":" + GetCustomerID(c).String() + ":" + key))
	return idempotencyKeyPrefix + hex.EncodeToString(sum[:])
}
