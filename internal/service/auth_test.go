package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/tokens"
	"github.com/micca12/Progetto-IW/internal/transport"
)

func TestAuth_RegisterValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.RegisterRequest
		msg  string
	}{
		{
			name: "single missing field",
			req:  transport.RegisterRequest{Email: "a@example.com", Password: "password1", FirstName: "Anna"},
			msg:  "Cognome è obbligatorio",
		},
		{
			name: "several missing fields",
			req:  transport.RegisterRequest{Email: "a@example.com"},
			msg:  "I seguenti campi sono obbligatori: Password, Nome, Cognome",
		},
		{
			name: "short password",
			req:  transport.RegisterRequest{Email: "a@example.com", Password: "short", FirstName: "A", LastName: "B"},
			msg:  "La password deve essere di almeno 8 caratteri",
		},
		{
			name: "bad email",
			req:  transport.RegisterRequest{Email: "not-an-email", Password: "password1", FirstName: "A", LastName: "B"},
			msg:  "Email non valida",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
			assert.Equal(t, tc.msg, apperr.Message(err))
		})
	}
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, transport.RegisterRequest{
		Email: "  Anna@Example.COM ", Password: "password1", FirstName: " Anna ", LastName: "Rossi",
	})
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", res.User.Email)
	assert.Equal(t, "Anna", res.User.FirstName)
	assert.Equal(t, "user", res.User.Role)
	assert.Nil(t, res.User.BrandID)

	p, err := env.issuer.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.UserID)
	assert.Equal(t, tokens.RoleUser, p.Role)
	assert.Equal(t, []string{"user_registered"}, env.events.Types(events.TopicUsers))

	_, err = env.auth.Register(ctx, transport.RegisterRequest{
		Email: "ANNA@example.com", Password: "password1", FirstName: "A", LastName: "B",
	})
	require.Error(t, err)
	assert.Equal(t, "Email già in uso", apperr.Message(err))

	login, err := env.auth.Login(ctx, transport.LoginRequest{Email: "Anna@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	u, err := env.repo.FindUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, u.LastLogin)
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	env.user(t, "active@example.com")
	brandID := env.brand(t, "Colorificio Nord", "nord@example.com")
	_, err := env.admin.SetActive(ctx, brandID, false)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  transport.LoginRequest
	}{
		{"unknown email", transport.LoginRequest{Email: "ghost@example.com", Password: "password1"}},
		{"wrong password", transport.LoginRequest{Email: "active@example.com", Password: "password2"}},
		{"inactive account", transport.LoginRequest{Email: "nord@example.com", Password: "password1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.Login(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))
			assert.Equal(t, "Credenziali non valide", apperr.Message(err))
		})
	}
}

func TestAuth_BrandLoginCarriesBrand(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	brandID := env.brand(t, "Vernici Sud", "sud@example.com")

	res, err := env.auth.Login(ctx, transport.LoginRequest{Email: "sud@example.com", Password: "password1"})
	require.NoError(t, err)
	require.NotNil(t, res.User.BrandID)
	assert.Equal(t, brandID, *res.User.BrandID)
	assert.Equal(t, "Vernici Sud", res.User.BrandName)
	assert.Equal(t, "marca", res.User.Role)

	p, err := env.issuer.Verify(res.Token)
	require.NoError(t, err)
	assert.True(t, p.IsBrand())
	assert.Equal(t, brandID, p.BrandID)
}

func TestAuth_UpdateProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.user(t, "anna@example.com")
	env.user(t, "taken@example.com")
	p := tokens.Principal{UserID: u.ID, Email: u.Email, Role: tokens.RoleUser}

	_, err := env.auth.UpdateProfile(ctx, p, transport.UpdateProfileRequest{
		FirstName: "Anna", LastName: "Bianchi", Email: "Taken@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, "Email già in uso", apperr.Message(err))

	// keeping the same address skips the uniqueness check
	res, err := env.auth.UpdateProfile(ctx, p, transport.UpdateProfileRequest{
		FirstName: "Anna", LastName: "Bianchi", Email: "anna@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bianchi", res.User.LastName)

	res, err = env.auth.UpdateProfile(ctx, p, transport.UpdateProfileRequest{
		FirstName: "Anna", LastName: "Bianchi", Email: "anna.b@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "anna.b@example.com", res.User.Email)

	np, err := env.issuer.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "anna.b@example.com", np.Email)

	_, err = env.auth.UpdateProfile(ctx, p, transport.UpdateProfileRequest{Email: "x@example.com"})
	require.Error(t, err)
	assert.Equal(t, "I seguenti campi sono obbligatori: Nome, Cognome", apperr.Message(err))
}

func TestAuth_ChangePassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.user(t, "anna@example.com")
	p := tokens.Principal{UserID: u.ID, Email: u.Email, Role: tokens.RoleUser}

	err := env.auth.ChangePassword(ctx, p, transport.ChangePasswordRequest{
		CurrentPassword: "wrong-one", NewPassword: "newpassword1",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))
	assert.Equal(t, "Password corrente non corretta", apperr.Message(err))

	err = env.auth.ChangePassword(ctx, p, transport.ChangePasswordRequest{CurrentPassword: "password1"})
	require.Error(t, err)
	assert.Equal(t, "Nuova password è obbligatorio", apperr.Message(err))

	require.NoError(t, env.auth.ChangePassword(ctx, p, transport.ChangePasswordRequest{
		CurrentPassword: "password1", NewPassword: "newpassword1",
	}))

	_, err = env.auth.Login(ctx, transport.LoginRequest{Email: u.Email, Password: "password1"})
	require.Error(t, err)
	_, err = env.auth.Login(ctx, transport.LoginRequest{Email: u.Email, Password: "newpassword1"})
	require.NoError(t, err)
}

func TestAuth_MeMissingUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.auth.Me(context.Background(), tokens.Principal{UserID: 999, Role: tokens.RoleUser})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
	assert.Equal(t, "Utente non trovato", apperr.Message(err))
}
