package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/dto"
)

// Titles shown in the error field per status
var statusTitles = map[int]string{
	http.StatusBadRequest:          "Bad request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not found",
	http.StatusConflict:            "Conflict",
	http.StatusBadGateway:          "Upstream error",
	http.StatusInternalServerError: "Internal server error",
}

// WriteError maps a service error onto the HTTP response. Wrapped causes
// are only exposed outside production.
func WriteError(c *gin.Context, err error, exposeDetails bool) {
	appErr := apperrors.From(err)

	title, ok := statusTitles[appErr.Status]
	if !ok {
		title = "Error"
	}

	resp := dto.ErrorResponse{
		Error:   title,
		Message: appErr.Message,
	}
	if exposeDetails && appErr.Err != nil {
		resp.Details = appErr.Err.Error()
	}

	c.JSON(appErr.Status, resp)
}

// WriteValidationError reports a request binding failure.
func WriteValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Validation failed",
		Message: err.Error(),
	})
}
