package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusAndMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", Validation("Nome prodotto obbligatorio"), 400, "Nome prodotto obbligatorio"},
		{"wrapped not found", fmt.Errorf("load: %w", NotFound("Prodotto non trovato")), 404, "Prodotto non trovato"},
		{"unauthenticated", Unauthenticated("Credenziali non valide"), 401, "Credenziali non valide"},
		{"forbidden", Forbidden("Accesso riservato agli admin"), 403, "Accesso riservato agli admin"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), 405, "Method Not Allowed"},
		{"unknown", errors.New("pq: connection refused"), 500, InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.msg, Message(tt.err))
		})
	}
}

func TestHTTPErrorHandler_WritesEnvelope(t *testing.T) {
	e := echo.New()

	for _, tc := range []struct {
		err    error
		status int
		body   string
	}{
		{NotFound("Marca non trovata"), 404, "Marca non trovata"},
		{errors.New("db exploded"), 500, InternalMessage},
		{echo.NewHTTPError(500, "leaky detail"), 500, InternalMessage},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		HTTPErrorHandler(tc.err, c)

		require.Equal(t, tc.status, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.body, body["error"])
	}
}
