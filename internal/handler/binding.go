package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

// BindJSON decodes the body into obj and runs binding validation. Failures
// are returned as validation AppErrors with a readable message.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return BindError(err)
	}
	return nil
}

// BindError turns a binding failure into a validation error.
func BindError(err error) error {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return apperrors.Validation(strings.Join(msgs, "; "), err)
	case errors.As(err, &typeErr):
		return apperrors.Validation(fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type), err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.Validation("Malformed JSON body", err)
	case errors.Is(err, io.EOF):
		return apperrors.Validation("Request body is required", err)
	case errors.As(err, &maxErr):
		return apperrors.Validation("Request body too large", err)
	default:
		return apperrors.Validation("Invalid request body", err)
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return field + " must not be empty"
			}
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "isodate":
		return field + " must be a date in YYYY-MM-DD format"
	case "hhmm":
		return field + " must be a time in HH:MM format"
	case "appointmentstatus", "poststatus":
		return "Invalid status"
	case "postcategory":
		return "Invalid category"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ParseID reads a UUID path parameter. Malformed ids fail with
// "invalid <name> ID".
func ParseID(c *gin.Context, param, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperrors.Validation(fmt.Sprintf("invalid %s ID", name), err)
	}
	return id, nil
}

// MissingFieldsOnly reports whether err is a validation failure made up only
// of absent required fields.
func MissingFieldsOnly(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			return false
		}
	}
	return true
}
