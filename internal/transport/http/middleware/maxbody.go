package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard-bff/internal/transport/http/response"
)

// MaxBodyBytes bounds request bodies. Sized above the 5 MiB asset cap so the
// handlers, not the transport, own that rejection.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				response.Error(response.CodeBadRequest, "request body too large"))
		}
	}
}
