package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

const (
	msgLoginFailed    = "Credenziali non valide"
	msgRegisterFailed = "Errore durante la registrazione"
	msgProfileFailed  = "Errore nell'aggiornamento"
	msgPasswordFailed = "Errore nell'aggiornamento password"
)

type AuthStore struct {
	api *API

	mu      sync.RWMutex
	user    *User
	token   string
	loading bool
	err     string
}

func NewAuthStore(api *API) *AuthStore {
	s := &AuthStore{api: api}
	if sess := api.Session(); sess != nil {
		s.token = sess.Token()
	}
	return s
}

func (s *AuthStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AuthStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *AuthStore) IsAuthenticated() bool { return s.Token() != "" }

func (s *AuthStore) IsAdmin() bool { return s.hasRole(RoleAdmin) }

func (s *AuthStore) IsBrand() bool { return s.hasRole(RoleBrand) }

func (s *AuthStore) hasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == role
}

func (s *AuthStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *AuthStore) finish(err error, fallback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = ErrorMessage(err, fallback)
	}
	return err
}

func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	s.begin()
	var out AuthResponse
	err := s.api.Post(ctx, "/auth/login", map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}, &out)
	if err == nil {
		err = s.setAuth(out.User, out.Token)
	}
	return s.finish(err, msgLoginFailed)
}

func (s *AuthStore) Register(ctx context.Context, data RegisterData) error {
	s.begin()
	var out AuthResponse
	err := s.api.Post(ctx, "/auth/register", data, &out)
	if err == nil {
		err = s.setAuth(out.User, out.Token)
	}
	return s.finish(err, msgRegisterFailed)
}

// FetchCurrentUser refreshes the profile. Without a token it does nothing;
// any failure ends the session.
func (s *AuthStore) FetchCurrentUser(ctx context.Context) error {
	if s.Token() == "" {
		return nil
	}
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var u User
	err := s.api.Get(ctx, "/auth/me", &u)

	if err != nil {
		logoutErr := s.Logout()
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return errors.Join(err, logoutErr)
	}
	s.mu.Lock()
	s.user = &u
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *AuthStore) UpdateProfile(ctx context.Context, p Profile) error {
	s.begin()
	var out AuthResponse
	err := s.api.Put(ctx, "/auth/me", p, &out)
	if err == nil {
		err = s.setAuth(out.User, out.Token)
	}
	return s.finish(err, msgProfileFailed)
}

func (s *AuthStore) UpdatePassword(ctx context.Context, current, next string) error {
	s.begin()
	err := s.api.Put(ctx, "/auth/password", map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}, nil)
	return s.finish(err, msgPasswordFailed)
}

// Logout drops the user and the stored token. The in-memory state is
// always cleared; the error reports a token that may still be on disk.
func (s *AuthStore) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.err = ""
	s.mu.Unlock()
	if sess := s.api.Session(); sess != nil {
		if err := sess.ClearToken(); err != nil {
			return fmt.Errorf("clear session token: %w", err)
		}
	}
	return nil
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *AuthStore) setAuth(u User, token string) error {
	s.mu.Lock()
	s.user = &u
	s.token = token
	s.mu.Unlock()
	if sess := s.api.Session(); sess != nil {
		return sess.SetToken(token)
	}
	return nil
}
