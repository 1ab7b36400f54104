package cache

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves GET requests from the cache and stores 200 responses.
// A nil cache disables it. Redis errors fall through to the handler.
func Middleware(c *Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil || ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}
		reqCtx := ctx.Request.Context()

		version, err := c.Version(reqCtx)
		if err != nil {
			c.logger.Warn("cache version lookup failed", zap.Error(err))
			ctx.Next()
			return
		}
		key := c.Key(version, ctx.Request.URL.Path, ctx.Request.URL.Query())

		entry, ok, err := c.Get(reqCtx, key)
		if err != nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			ctx.Header("X-Cache", "HIT")
			ctx.Data(entry.Status, entry.ContentType, entry.Body)
			ctx.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = w
		ctx.Header("X-Cache", "MISS")
		ctx.Next()

		if w.Status() != http.StatusOK {
			return
		}
		entry = &Entry{
			Status:      http.StatusOK,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := c.Set(reqCtx, key, entry); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
