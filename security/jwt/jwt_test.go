package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret)

	token, err := m.GenerateAccessToken("u1", "a@x.com", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken: %v", err)
	}
	if claims.UserID() != "u1" || claims.Email != "a@x.com" || claims.Role != "student" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != DefaultAccessTokenExpire {
		t.Errorf("expected default access lifetime, got %v", ttl)
	}
}

func TestRefreshTokenCarriesOnlySubject(t *testing.T) {
	m := NewTokenManager(testSecret)

	token, err := m.GenerateRefreshToken("u1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := m.DecodeRefreshToken(token)
	if err != nil {
		t.Fatalf("DecodeRefreshToken: %v", err)
	}
	if claims.UserID() != "u1" || claims.Email != "" || claims.Role != "" {
		t.Errorf("refresh token should only carry the subject: %+v", claims)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != 30*24*time.Hour {
		t.Errorf("expected 30 day lifetime, got %v", ttl)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := NewTokenManager(testSecret)
	access, _ := m.GenerateAccessToken("u1", "a@x.com", "user")
	refresh, _ := m.GenerateRefreshToken("u1")

	if _, err := m.DecodeToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := m.DecodeRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
}

func TestExpiredTokenIsInvalid(t *testing.T) {
	m := NewTokenManager(testSecret, &TokenConfig{AccessTokenExpiry: time.Minute})
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.GenerateAccessToken("u1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	m.now = time.Now
	_, err = m.DecodeToken(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err.Error() != "invalid or expired token" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestRejectsForeignAndMalformedTokens(t *testing.T) {
	m := NewTokenManager(testSecret)
	other := NewTokenManager("other-secret")

	foreign, _ := other.GenerateAccessToken("u1", "a@x.com", "admin")

	valid, _ := m.GenerateAccessToken("u1", "a@x.com", "user")
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwtstd.NewWithClaims(jwtstd.SigningMethodNone, &Claims{
		Role:             "admin",
		Kind:             KindAccess,
		RegisteredClaims: jwtstd.RegisteredClaims{Subject: "u1", ExpiresAt: jwtstd.NewNumericDate(time.Now().Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwtstd.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, token := range map[string]string{
		"foreign secret": foreign,
		"tampered":       tampered,
		"alg none":       unsigned,
		"garbage":        "not.a.token",
		"empty":          "",
	} {
		if _, err := m.DecodeToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenWithoutExpiryIsInvalid(t *testing.T) {
	m := NewTokenManager(testSecret)
	raw := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, &Claims{
		Kind:             KindAccess,
		RegisteredClaims: jwtstd.RegisteredClaims{Subject: "u1"},
	})
	token, _ := raw.SignedString([]byte(testSecret))

	if _, err := m.DecodeToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for token without exp, got %v", err)
	}
}

func TestEmptyKey(t *testing.T) {
	m := NewTokenManager("")
	if _, err := m.GenerateAccessToken("u1", "a@x.com", "user"); !errors.Is(err, ErrNeedTokenProvider) {
		t.Errorf("expected ErrNeedTokenProvider, got %v", err)
	}
}
