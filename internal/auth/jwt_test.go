package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	InitJWT("test-secret")

	name := "Sam Seller"
	valid := signToken(t, "test-secret", Claims{
		Email: "seller@example.com",
		Name:  &name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|abc123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ValidateToken(valid)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "auth0|abc123" {
		t.Errorf("expected subject auth0|abc123, got %s", claims.Subject)
	}
	if claims.Email != "seller@example.com" {
		t.Errorf("expected email to round-trip, got %s", claims.Email)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	InitJWT("test-secret")

	wrongKey := signToken(t, "other-secret", Claims{
		Email:            "seller@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|abc123"},
	})
	if _, err := ValidateToken(wrongKey); err == nil {
		t.Error("expected rejection for wrong signing key")
	}

	expired := signToken(t, "test-secret", Claims{
		Email: "seller@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|abc123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if _, err := ValidateToken(expired); err == nil {
		t.Error("expected rejection for expired token")
	}

	noSubject := signToken(t, "test-secret", Claims{Email: "seller@example.com"})
	if _, err := ValidateToken(noSubject); err == nil {
		t.Error("expected rejection for missing subject")
	}

	noEmail := signToken(t, "test-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|abc123"},
	})
	if _, err := ValidateToken(noEmail); err == nil {
		t.Error("expected rejection for missing email")
	}
}
