package handler

import (
	"errors"
	"net/http"

	"salesanalytics/internal/apperr"
	"salesanalytics/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, verr.Error()))
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case apperr.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "Order store unavailable, please retry"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}
