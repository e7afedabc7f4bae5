package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes a success envelope.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// ErrorResponse writes an error envelope with the given status.
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Envelope{Success: false, Error: message})
}

// BadRequestResponse writes a 400 envelope from a validation result.
func BadRequestResponse(c echo.Context, verr interface{}) error {
	return ErrorResponse(c, http.StatusBadRequest, validationMessage(verr))
}

// NotFoundResponse writes a 404 envelope.
func NotFoundResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusNotFound, message)
}

// InternalServerErrorResponse writes a 500 envelope. The message is fixed so
// internal detail never reaches the caller.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong")
}

// AppErrorResponse writes an envelope for an application error.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message)
	}
	return InternalServerErrorResponse(c)
}

// validationMessage flattens the result of ReadAndValidateRequest into a
// single user-facing string for the error envelope.
func validationMessage(verr interface{}) string {
	errs, ok := verr.([]ValidationError)
	if !ok || len(errs) == 0 {
		return "invalid request"
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
		}
	}
	if len(msgs) == 0 {
		return "invalid request"
	}
	return strings.Join(msgs, "; ")
}
