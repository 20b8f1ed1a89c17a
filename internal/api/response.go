package api

import (
	"net/http"

	"shop-service/internal/errs"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape: {message, data?, statusCode}.
type Envelope struct {
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	StatusCode int         `json:"statusCode"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Message: message, Data: data, StatusCode: status})
}

// respondErr maps the error taxonomy onto HTTP status codes and forwards the
// error message in the envelope.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindInvalid, errs.KindConflict:
		status = http.StatusBadRequest
	case errs.KindUnauthorized:
		status = http.StatusUnauthorized
	case errs.KindForbidden:
		status = http.StatusForbidden
	}
	c.AbortWithStatusJSON(status, Envelope{Message: err.Error(), StatusCode: status})
}
