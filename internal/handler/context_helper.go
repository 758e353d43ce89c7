package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/campushq/school-records-api/pkg/errors"
	"github.com/campushq/school-records-api/pkg/response"
)

// pathID parses a numeric path parameter. On failure it writes the
// validation error and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s parameter", name)))
		return 0, false
	}
	return id, true
}

func bindError(c *gin.Context, err error) {
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
}
