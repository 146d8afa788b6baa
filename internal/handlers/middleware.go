package handlers

import (
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

const (
	ctxUsernameKey = "username"
	bearerPrefix   = "Bearer "

	errUnauthorized    = "Unauthorized"
	errInvalidToken    = "Invalid token"
	errInternal        = "Internal server error"
	errTooManyRequests = "Too many requests"
)

// tokenMiddleware rejects requests without a valid token in the
// Authorization header. The header carries the raw token; a "Bearer "
// prefix is accepted too.
func (h *Handler) tokenMiddleware(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	username, err := h.services.ParseToken(token)
	if err != nil {
		h.log.Debugw("auth_token_rejected", "path", c.Request.URL.Path, "err", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
		return
	}

	c.Set(ctxUsernameKey, username)
	c.Next()
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}

// recovery turns panics into a generic 500. The stack goes to the log only.
func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		h.log.Errorw("panic_recovered",
			"err", recovered,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternal})
	})
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	cc := cors.New(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
	return fromHTTPMiddleware(cc.Handler)
}

// tokenRateLimiter bounds credential guessing per client IP.
func (h *Handler) tokenRateLimiter() gin.HandlerFunc {
	limit := httprate.Limit(
		h.opts.TokenRateLimit,
		h.opts.TokenRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.log.Infow("auth_rate_limited", "remote_addr", r.RemoteAddr)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":"`+errTooManyRequests+`"}`)
		}),
	)
	return fromHTTPMiddleware(limit)
}
