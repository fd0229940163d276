package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micca12/Progetto-IW/internal/tokens"
)

func issue(t *testing.T, iss *tokens.Issuer, role tokens.Role, brandID *uint) string {
	t.Helper()
	p, err := tokens.NewPrincipal(7, "x@example.com", role, brandID)
	require.NoError(t, err)
	raw, err := iss.Issue(p)
	require.NoError(t, err)
	return raw
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	iss := tokens.NewIssuer([]byte("secret"), time.Hour)
	other := tokens.NewIssuer([]byte("another-secret"), time.Hour)
	brandID := uint(3)
	m := New(iss)

	userTok := issue(t, iss, tokens.RoleUser, nil)
	adminTok := issue(t, iss, tokens.RoleAdmin, nil)
	brandTok := issue(t, iss, tokens.RoleBrand, &brandID)
	forged := issue(t, other, tokens.RoleAdmin, nil)

	ok := func(c echo.Context) error {
		p, found := PrincipalFrom(c)
		if !found {
			return errors.New("principal not set")
		}
		return c.String(http.StatusOK, string(p.Role))
	}

	tests := []struct {
		name   string
		mw     echo.MiddlewareFunc
		header string
		status int
		msg    string
	}{
		{"missing header", m.RequireAuth, "", http.StatusUnauthorized, MsgTokenMissing},
		{"wrong scheme", m.RequireAuth, "Basic " + userTok, http.StatusUnauthorized, MsgTokenMissing},
		{"garbage token", m.RequireAuth, "Bearer abc.def", http.StatusForbidden, MsgTokenInvalid},
		{"foreign signature", m.RequireAuth, "Bearer " + forged, http.StatusForbidden, MsgTokenInvalid},
		{"user ok", m.RequireAuth, "Bearer " + userTok, http.StatusOK, ""},
		{"lowercase scheme", m.RequireAuth, "bearer " + userTok, http.StatusOK, ""},
		{"admin gate rejects user", m.RequireAdmin, "Bearer " + userTok, http.StatusForbidden, MsgAdminOnly},
		{"admin gate accepts admin", m.RequireAdmin, "Bearer " + adminTok, http.StatusOK, ""},
		{"brand gate rejects admin", m.RequireBrand, "Bearer " + adminTok, http.StatusForbidden, MsgBrandOnly},
		{"brand gate accepts brand", m.RequireBrand, "Bearer " + brandTok, http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := tc.mw(ok)(c)
			if tc.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tc.status, he.Code)
			assert.Equal(t, tc.msg, he.Message)
		})
	}
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "tok", bearer("Bearer tok"))
	assert.Equal(t, "tok", bearer("  Bearer   tok "))
	assert.Equal(t, "", bearer("Bearer"))
	assert.Equal(t, "", bearer("tok"))
}
