package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/filevault/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestNewTokenManager(t *testing.T) {
	t.Run("falls back to default ttl", func(t *testing.T) {
		m := NewTokenManager("secret", 0)
		if m.ttl != defaultTokenTTL {
			t.Fatalf("expected ttl %v, got %v", defaultTokenTTL, m.ttl)
		}
	})

	t.Run("keeps positive ttl", func(t *testing.T) {
		m := NewTokenManager("secret", 2*time.Hour)
		if m.ttl != 2*time.Hour {
			t.Fatalf("expected ttl 2h, got %v", m.ttl)
		}
	})
}

func TestGenerateAndValidate(t *testing.T) {
	user := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Email:     "user@example.com",
	}

	t.Run("round trips sub and email", func(t *testing.T) {
		m := NewTokenManager("roundtrip-secret", time.Hour)

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("expected token generation to succeed, got error: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("expected token validation to succeed, got error: %v", err)
		}

		userID, err := claims.UserID()
		if err != nil || userID != user.ID {
			t.Fatalf("expected subject %s, got %s (%v)", user.ID, claims.Subject, err)
		}
		if claims.Email != user.Email {
			t.Fatalf("expected claims email %q, got %q", user.Email, claims.Email)
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
			t.Fatalf("expected token to have a future expiration, got %v", claims.ExpiresAt)
		}
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		token, err := NewTokenManager("one", time.Hour).Generate(user)
		if err != nil {
			t.Fatalf("failed generating token: %v", err)
		}
		if _, err := NewTokenManager("two", time.Hour).Validate(token); err == nil {
			t.Fatal("expected validation with a different secret to fail")
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		m := NewTokenManager("expired-secret", time.Hour)
		m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("failed generating token: %v", err)
		}

		m.now = time.Now
		if _, err := m.Validate(token); err == nil {
			t.Fatal("expected expired token validation to fail, but it succeeded")
		}
	})

	t.Run("rejects token without a uuid subject", func(t *testing.T) {
		m := NewTokenManager("subject-secret", time.Hour)
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Email: "x@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "not-a-uuid",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := raw.SignedString(m.secret)
		if err != nil {
			t.Fatalf("failed signing token: %v", err)
		}
		if _, err := m.Validate(signed); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects malformed token string", func(t *testing.T) {
		if _, err := NewTokenManager("s", time.Hour).Validate("not-a-jwt"); err == nil {
			t.Fatal("expected malformed token validation to fail, but it succeeded")
		}
	})

	t.Run("rejects token signed with unexpected method", func(t *testing.T) {
		privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate rsa key for test: %v", err)
		}

		rsaToken := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			Subject:   uuid.New().String(),
		})
		signedToken, err := rsaToken.SignedString(privateKey)
		if err != nil {
			t.Fatalf("failed to sign rsa token for test: %v", err)
		}

		_, err = NewTokenManager("s", time.Hour).Validate(signedToken)
		if err == nil || !strings.Contains(err.Error(), "unexpected signing method") {
			t.Fatalf("expected signing method error, got: %v", err)
		}
	})
}
