package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/tokens"
)

const principalKey = "principal"

const (
	MsgTokenMissing = "Token mancante"
	MsgTokenInvalid = "Token non valido"
	MsgAdminOnly    = "Accesso riservato agli admin"
	MsgBrandOnly    = "Accesso riservato alle marche"
)

type Verifier interface {
	Verify(raw string) (tokens.Principal, error)
}

type Middleware struct {
	Tokens Verifier
}

func New(v Verifier) *Middleware {
	return &Middleware{Tokens: v}
}

// ValidatorFunc runs after the token is accepted and may reject the caller.
type ValidatorFunc func(p tokens.Principal) error

// RequireAuth accepts any caller with a valid bearer token.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, nil)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, func(p tokens.Principal) error {
		if !p.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, MsgAdminOnly)
		}
		return nil
	})
}

func (m *Middleware) RequireBrand(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, func(p tokens.Principal) error {
		if !p.IsBrand() {
			return echo.NewHTTPError(http.StatusForbidden, MsgBrandOnly)
		}
		return nil
	})
}

func (m *Middleware) requireWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("mw", "auth")

		raw := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
		if raw == "" {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenMissing)
		}

		p, err := m.Tokens.Verify(raw)
		if err != nil {
			l.Warn("auth_rejected", "status", http.StatusForbidden, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, MsgTokenInvalid)
		}

		if validator != nil {
			if verr := validator(p); verr != nil {
				l.Warn("auth_rejected", "status", http.StatusForbidden, "reason", "role", "role", string(p.Role), "user_id", p.UserID)
				return verr
			}
		}

		c.Set(principalKey, p)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(
			c.Request().Context(),
			logging.FromContext(c.Request().Context()).With("user_id", p.UserID),
		)))
		return next(c)
	}
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// PrincipalFrom returns the caller set by one of the Require middlewares.
func PrincipalFrom(c echo.Context) (tokens.Principal, bool) {
	p, ok := c.Get(principalKey).(tokens.Principal)
	return p, ok
}
