package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleBrand Role = "marca"
)

// Principal is the authenticated caller. BrandID is set only for RoleBrand.
type Principal struct {
	UserID  uint
	Email   string
	Role    Role
	BrandID uint
}

// NewPrincipal rejects role/brand combinations that cannot exist.
func NewPrincipal(userID uint, email string, role Role, brandID *uint) (Principal, error) {
	p := Principal{UserID: userID, Email: email, Role: role}
	if userID == 0 {
		return Principal{}, ErrInvalidToken
	}
	switch role {
	case RoleAdmin, RoleUser:
	case RoleBrand:
		if brandID == nil || *brandID == 0 {
			return Principal{}, ErrInvalidToken
		}
		p.BrandID = *brandID
	default:
		return Principal{}, ErrInvalidToken
	}
	return p, nil
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
func (p Principal) IsBrand() bool { return p.Role == RoleBrand && p.BrandID != 0 }

type Claims struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"ruolo"`
	BrandID *uint  `json:"marca_id,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{Secret: secret, TTL: ttl, Now: time.Now}
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

func (i *Issuer) Issue(p Principal) (string, error) {
	now := i.now()
	claims := Claims{
		ID:    p.UserID,
		Email: p.Email,
		Role:  string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
			ID:        uuid.NewString(),
		},
	}
	if p.Role == RoleBrand {
		brandID := p.BrandID
		claims.BrandID = &brandID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
}

// Verify never returns partial data: any failure is ErrInvalidToken.
func (i *Issuer) Verify(raw string) (Principal, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.Secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return Principal{}, ErrInvalidToken
	}
	return NewPrincipal(claims.ID, claims.Email, Role(claims.Role), claims.BrandID)
}
