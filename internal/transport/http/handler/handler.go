// Package handler implements the façade's resource handlers. Each handler is
// a stateless sequence of upstream calls: referential checks first, then the
// delegated write, then response reshaping. The check-then-write sequences
// are not transactional against the store; concurrent requests can race past
// a check. Known limitation.
package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"dashboard-bff/internal/supabase"
	"dashboard-bff/internal/transport/http/response"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// fail surfaces upstream failures and unanticipated errors uniformly as 500
// with the upstream detail embedded.
func fail(c *gin.Context, err error) {
	var ue *supabase.UpstreamError
	if errors.As(err, &ue) {
		response.Internal(c, ue.Error())
		return
	}
	response.Internal(c, err.Error())
}
