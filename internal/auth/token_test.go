package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", 60)

	token, exp, err := tm.GenerateToken("a@x.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > 61*time.Minute {
		t.Fatalf("expiry not about an hour out: %v", until)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("email claim mismatch: got %q", claims.Email)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("right-secret", 60).GenerateToken("a@x.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := NewTokenManager("wrong-secret", 60).ParseToken(token); err == nil {
		t.Fatal("expected error for invalid signature")
	}
}

func TestParseTokenExpired(t *testing.T) {
	t.Parallel()

	secret := "secret"
	claims := &Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := NewTokenManager(secret, 60).ParseToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseTokenMalformed(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("k", 60).ParseToken("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
