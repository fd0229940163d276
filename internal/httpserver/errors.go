package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/middleware/auth"
	"github.com/micca12/Progetto-IW/internal/tokens"
)

const msgInvalidBody = "Richiesta non valida"

// fail logs the failure under event and converts it for the error handler.
func fail(l *slog.Logger, event string, err error) error {
	he := apperr.HTTP(err)
	if he.Code >= http.StatusInternalServerError {
		l.Error(event, "status", he.Code, "error", err)
	} else {
		l.Warn(event, "status", he.Code, "reason", apperr.Message(err))
	}
	return he
}

func badBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
}

// principal is only called behind a Require middleware.
func principal(c echo.Context) (tokens.Principal, error) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return tokens.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, auth.MsgTokenMissing)
	}
	return p, nil
}
