package show

import (
	"strconv"

	"theatre-production-manager/internal/errors"

	"github.com/gin-gonic/gin"
)

func parseUserParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid user id", err))
		return 0, false
	}
	return id, true
}
