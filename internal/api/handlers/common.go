package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elevohq/interview-engine/internal/utils"
)

// APIError is the JSON body for every non-2xx response.
type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if !errors.As(err, &ae) {
		c.JSON(status, APIError{Code: utils.CodeInternal, Message: http.StatusText(status)})
		return
	}

	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.JSON(status, APIError{Code: ae.Code, Message: msg})
}

// requireUserID reads the caller identity set by the Identity middleware.
// It writes the 401 itself so handlers can just return on !ok.
func requireUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	writeError(c, utils.E(utils.CodeUnauthorized, "Identity", "missing caller identity", nil))
	return "", false
}
