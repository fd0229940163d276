package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/hash"
	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/models"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/tokens"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

const (
	msgInvalidCredentials = "Credenziali non valide"
	msgEmailInUse         = "Email già in uso"
	msgUserNotFound       = "Utente non trovato"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
	Events events.Publisher
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PrincipalOf builds the token identity of a stored user.
func PrincipalOf(u *models.User) (tokens.Principal, error) {
	return tokens.NewPrincipal(u.ID, u.Email, tokens.Role(u.Role.Name), u.BrandID)
}

func (s *AuthService) session(u *models.User) (*transport.AuthResponse, error) {
	p, err := PrincipalOf(u)
	if err != nil {
		return nil, fmt.Errorf("principal for user %d: %w", u.ID, err)
	}
	token, err := s.Tokens.Issue(p)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &transport.AuthResponse{User: transport.UserFrom(u), Token: token}, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string, excludeID uint) error {
	taken, err := s.Repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return apperr.Validation(msgEmailInUse)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validate.Required(
		validate.F("Email", req.Email),
		validate.F("Password", req.Password),
		validate.F("Nome", req.FirstName),
		validate.F("Cognome", req.LastName),
	); err != nil {
		return nil, err
	}
	if err := validate.Password(req.Password); err != nil {
		return nil, err
	}

	email := validate.NormalizeEmail(req.Email)
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	role, err := s.Repo.RoleByName(ctx, models.RoleNameUser)
	if err != nil {
		return nil, fmt.Errorf("load user role: %w", err)
	}
	pw, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Email:        email,
		PasswordHash: pw,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		RoleID:       role.ID,
		Role:         *role,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation(msgEmailInUse)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	l.Info("user_registered", "user_id", u.ID)
	publish(ctx, s.Events, events.TopicUsers, strconv.FormatUint(uint64(u.ID), 10), "user_registered",
		map[string]any{"id": u.ID, "email": u.Email})
	return s.session(&u)
}

// Login answers unknown, inactive and wrong-password attempts identically.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validate.Required(
		validate.F("Email", req.Email),
		validate.F("Password", req.Password),
	); err != nil {
		return nil, err
	}

	u, err := s.Repo.FindUserByEmail(ctx, validate.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, apperr.Unauthenticated(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !u.Active {
		l.Warn("login_failed", "status", 401, "reason", "inactive user", "user_id", u.ID)
		return nil, apperr.Unauthenticated(msgInvalidCredentials)
	}
	if !hash.CheckPassword(u.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", u.ID)
		return nil, apperr.Unauthenticated(msgInvalidCredentials)
	}

	at := s.now().UTC()
	if err := s.Repo.TouchLastLogin(ctx, u.ID, at); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	u.LastLogin = &at

	return s.session(u)
}

func (s *AuthService) Me(ctx context.Context, p tokens.Principal) (*transport.User, error) {
	u, err := s.Repo.FindUserByID(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, msgUserNotFound, "find user")
	}
	out := transport.UserFrom(u)
	return &out, nil
}

// UpdateProfile re-issues the token so the new email is carried by it.
func (s *AuthService) UpdateProfile(ctx context.Context, p tokens.Principal, req transport.UpdateProfileRequest) (*transport.AuthResponse, error) {
	if err := validate.Required(
		validate.F("Nome", req.FirstName),
		validate.F("Cognome", req.LastName),
		validate.F("Email", req.Email),
	); err != nil {
		return nil, err
	}

	email := validate.NormalizeEmail(req.Email)
	if email != strings.ToLower(p.Email) {
		if err := validate.Email(email); err != nil {
			return nil, err
		}
		if err := s.ensureEmailFree(ctx, email, p.UserID); err != nil {
			return nil, err
		}
	}

	err := s.Repo.UpdateUserFields(ctx, p.UserID, map[string]any{
		"nome":    strings.TrimSpace(req.FirstName),
		"cognome": strings.TrimSpace(req.LastName),
		"email":   email,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation(msgEmailInUse)
		}
		return nil, notFound(err, msgUserNotFound, "update user")
	}

	u, err := s.Repo.FindUserByID(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, msgUserNotFound, "reload user")
	}
	return s.session(u)
}

func (s *AuthService) ChangePassword(ctx context.Context, p tokens.Principal, req transport.ChangePasswordRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password")

	if err := validate.Required(
		validate.F("Password corrente", req.CurrentPassword),
		validate.F("Nuova password", req.NewPassword),
	); err != nil {
		return err
	}
	if err := validate.Password(req.NewPassword); err != nil {
		return err
	}

	u, err := s.Repo.FindUserByID(ctx, p.UserID)
	if err != nil {
		return notFound(err, msgUserNotFound, "find user")
	}
	if !hash.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		l.Warn("change_password_failed", "status", 401, "reason", "wrong current password", "user_id", u.ID)
		return apperr.Unauthenticated("Password corrente non corretta")
	}

	pw, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Repo.UpdateUserFields(ctx, u.ID, map[string]any{"password_hash": pw}); err != nil {
		return notFound(err, msgUserNotFound, "update password")
	}
	return nil
}
