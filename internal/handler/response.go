package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// RespondError writes err as {error: message}. Errors outside the AppError
// taxonomy become a 500 and their cause is only logged.
func RespondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	_ = c.Error(err)
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, NewErrorResponse(appErr.Message))
}

// Deleted writes the response for a delete: {success:true} or a 404.
func Deleted(c *gin.Context, ok bool, resource string) {
	if !ok {
		RespondError(c, apperrors.NotFound(resource, nil))
		return
	}
	c.JSON(http.StatusOK, model.DeleteResponse{Success: true})
}
