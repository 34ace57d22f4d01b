package middleware

import (
	"bytes"
	"encoding/json"
	"time"

	"wallet-ledger-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderIdempotencyKey names the client-supplied deduplication key.
const HeaderIdempotencyKey = "Idempotency-Key"

// cachedResponse is the envelope stored in the idempotency cache.
type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the cached response for a repeated Idempotency-Key
// instead of re-running the mutation. Requests without the header pass
// through untouched; only successful responses are cached.
func Idempotency(cache ports.IdempotencyCache, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}

		cached, err := cache.Get(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency cache unavailable, processing request")
		} else if cached != nil {
			var stored cachedResponse
			if err := json.Unmarshal(cached, &stored); err == nil {
				c.Header("Idempotent-Replay", "true")
				c.Data(stored.Status, "application/json", stored.Body)
				c.Abort()
				return
			}
			log.Warn().Str("key", key).Msg("malformed idempotency cache entry, processing request")
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		entry, err := json.Marshal(cachedResponse{Status: status, Body: cw.buf.Bytes()})
		if err != nil {
			return
		}
		if err := cache.Set(c.Request.Context(), key, entry, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotent response")
		}
	}
}
