// Package respond writes envelope responses for the gin handlers.
//
// Handled requests always answer HTTP 200; the logical outcome travels in the
// envelope status. Only undecodable bodies (422) and rejected credentials (401)
// change the HTTP status.
package respond

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/domain/envelope"
)

func OK[T any](c *gin.Context, status int, message string, data T) {
	c.JSON(http.StatusOK, envelope.OK(status, message, data))
}

func Done(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope.Done(message))
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(http.StatusOK, envelope.Fail[struct{}](status, message))
}

// Unauthorized aborts the chain with HTTP 401.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope.Fail[struct{}](http.StatusUnauthorized, message))
}

// BindJSON decodes the request body into dst. An empty body leaves dst untouched
// when optional is set. On failure it answers HTTP 422 and returns false.
func BindJSON(c *gin.Context, dst any, optional bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	Unprocessable(c, "请求体格式错误: "+err.Error())
	return false
}

// Unprocessable answers HTTP 422 for a request body that cannot be used.
func Unprocessable(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, envelope.Fail[struct{}](http.StatusUnprocessableEntity, message))
}

// UUIDParam parses a path parameter. A malformed id cannot name a record, so it
// is reported with notFound as a 404 envelope.
func UUIDParam(c *gin.Context, name, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		Fail(c, http.StatusNotFound, notFound+c.Param(name))
		return uuid.Nil, false
	}
	return id, true
}

// IntQuery returns the integer query parameter, or def when absent or malformed.
func IntQuery(c *gin.Context, name string, def int) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// BoolQuery returns the boolean query parameter, or def when absent or malformed.
func BoolQuery(c *gin.Context, name string, def bool) bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}
