package jwt

import (
	"errors"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenError represents JWT token related errors
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	DefaultAccessTokenExpire  = time.Hour * 24 * 7
	DefaultRefreshTokenExpire = time.Hour * 24 * 30

	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	ErrInvalidToken      = TokenError("invalid or expired token")
)

// Token kinds carried in the "typ" claim
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims is the token body. Access tokens carry email and role; refresh
// tokens carry only the subject.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Kind  string `json:"typ"`
	jwtstd.RegisteredClaims
}

// UserID returns the principal id held in the subject claim
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenConfig overrides token lifetimes
type TokenConfig struct {
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// TokenManager handles JWT token operations
type TokenManager struct {
	key           []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewTokenManager creates a new TokenManager instance
func NewTokenManager(key string, cfg ...*TokenConfig) *TokenManager {
	m := &TokenManager{
		key:           []byte(key),
		accessExpiry:  DefaultAccessTokenExpire,
		refreshExpiry: DefaultRefreshTokenExpire,
		now:           time.Now,
	}
	if len(cfg) > 0 && cfg[0] != nil {
		if cfg[0].AccessTokenExpiry != 0 {
			m.accessExpiry = cfg[0].AccessTokenExpiry
		}
		if cfg[0].RefreshTokenExpiry != 0 {
			m.refreshExpiry = cfg[0].RefreshTokenExpiry
		}
	}
	return m
}

// validateKey validates the token key
func (m *TokenManager) validateKey() error {
	if len(m.key) == 0 {
		return ErrNeedTokenProvider
	}
	return nil
}

// sign signs claims with HS256 after stamping id and times
func (m *TokenManager) sign(claims *Claims, expiry time.Duration) (string, error) {
	if err := m.validateKey(); err != nil {
		return "", err
	}

	now := m.now()
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwtstd.NewNumericDate(now)
	claims.ExpiresAt = jwtstd.NewNumericDate(now.Add(expiry))

	return jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims).SignedString(m.key)
}

// GenerateAccessToken issues a token asserting {user id, email, role}
func (m *TokenManager) GenerateAccessToken(userID, email, role string) (string, error) {
	return m.sign(&Claims{
		Email:            email,
		Role:             role,
		Kind:             KindAccess,
		RegisteredClaims: jwtstd.RegisteredClaims{Subject: userID},
	}, m.accessExpiry)
}

// GenerateRefreshToken issues a renewal token asserting only the user id
func (m *TokenManager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(&Claims{
		Kind:             KindRefresh,
		RegisteredClaims: jwtstd.RegisteredClaims{Subject: userID},
	}, m.refreshExpiry)
}

// parse verifies signature, algorithm and expiry. Every failure is
// reported as ErrInvalidToken.
func (m *TokenManager) parse(tokenString, kind string) (*Claims, error) {
	if err := m.validateKey(); err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwtstd.ParseWithClaims(tokenString, claims, func(*jwtstd.Token) (any, error) {
		return m.key, nil
	},
		jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}),
		jwtstd.WithExpirationRequired(),
		jwtstd.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeToken verifies an access token and returns its claims
func (m *TokenManager) DecodeToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, KindAccess)
}

// DecodeRefreshToken verifies a renewal token and returns its claims
func (m *TokenManager) DecodeRefreshToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, KindRefresh)
}

// IsInvalidToken reports whether err came from token verification
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

// AccessTokenExpiry returns the configured access token lifetime
func (m *TokenManager) AccessTokenExpiry() time.Duration {
	return m.accessExpiry
}
