package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

var errInvalidBody = errors.New("Invalid request body")

// bindJSON decodes the request body into obj. An empty body leaves obj at
// its zero value.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}
