// Package apperr carries user facing error messages from the service layer to
// the HTTP edge and renders every failure as {"error": "<message>"}.
package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/logging"
)

var (
	ErrValidation      = errors.New("validation")        // 400
	ErrUnauthenticated = errors.New("unauthenticated")   // 401
	ErrForbidden       = errors.New("forbidden")         // 403
	ErrNotFound        = errors.New("not found")         // 404
	ErrTooManyRequests = errors.New("too many requests") // 429
)

const InternalMessage = "Errore interno del server"

type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string) error      { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error        { return &Error{Kind: ErrNotFound, Message: msg} }

// Status maps an error to its HTTP status; anything unknown is a 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// Message returns the text safe to show to a client.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		if s, ok := he.Message.(string); ok && s != "" {
			return s
		}
		return http.StatusText(he.Code)
	}
	return InternalMessage
}

// HTTP converts a service error into the echo error returned by handlers.
func HTTP(err error) *echo.HTTPError {
	status := Status(err)
	he := echo.NewHTTPError(status, Message(err))
	if status >= http.StatusInternalServerError {
		he = he.SetInternal(err)
	}
	return he
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := Status(err)
	msg := Message(err)
	if status >= http.StatusInternalServerError {
		msg = InternalMessage
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, map[string]string{"error": msg})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}
