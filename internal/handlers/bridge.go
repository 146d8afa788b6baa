package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// fromHTTPMiddleware runs a net/http middleware inside a gin chain. The rest
// of the chain only runs if the middleware calls its next handler; otherwise
// the request is aborted with whatever the middleware wrote.
func fromHTTPMiddleware(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
