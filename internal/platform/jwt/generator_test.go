package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)

			if gen == nil {
				t.Fatal("expected generator to be non-nil")
			}
			if string(gen.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(gen.secret))
			}
			if gen.TTL() != tt.expiration {
				t.Errorf("expected expiration %v, got %v", tt.expiration, gen.TTL())
			}
		})
	}
}

func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     uint
		wantSub    string
		expiration time.Duration
	}{
		{"basic user", 1, "1", time.Hour},
		{"large user id", 999999, "999999", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", tt.expiration)
			tokenStr, err := gen.GenerateToken(tt.userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var claims jwt.RegisteredClaims
			token, err := jwt.ParseWithClaims(tokenStr, &claims, func(tok *jwt.Token) (interface{}, error) {
				if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
					t.Errorf("unexpected signing method: %v", tok.Header["alg"])
				}
				return []byte("test-secret"), nil
			})
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}
			if !token.Valid {
				t.Error("expected token to be valid")
			}
			if claims.Subject != tt.wantSub {
				t.Errorf("expected sub %q, got %q", tt.wantSub, claims.Subject)
			}
			if claims.ExpiresAt == nil || claims.IssuedAt == nil {
				t.Fatal("expected exp and iat claims to be set")
			}
			if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != tt.expiration {
				t.Errorf("expected lifetime %v, got %v", tt.expiration, got)
			}
		})
	}
}

func TestGenerator_GenerateToken_FixedClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator("test-secret", time.Hour)
	gen.now = func() time.Time { return fixed }

	tokenStr, err := gen.GenerateToken(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var claims jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(tokenStr, &claims)
	if err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}
	if !claims.IssuedAt.Time.Equal(fixed) {
		t.Errorf("expected iat %v, got %v", fixed, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)) {
		t.Errorf("expected exp %v, got %v", fixed.Add(time.Hour), claims.ExpiresAt.Time)
	}
}

func TestGenerator_GenerateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("correct-secret", time.Hour)
	tokenStr, err := gen.GenerateToken(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Error("expected error when parsing with wrong secret")
	}
}
