package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	tok, err := issuer.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	id, err := issuer.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if id != "user-1" {
		t.Errorf("ParseToken() = %q, want user-1", id)
	}
}

func TestParseTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	tok, _ := issuer.GenerateToken("user-1")

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	oldTok, _ := expired.GenerateToken("user-1")

	other := NewTokenIssuer("other-secret", time.Hour)

	tests := []struct {
		name   string
		issuer *TokenIssuer
		token  string
	}{
		{"garbage", issuer, "not-a-jwt"},
		{"empty", issuer, ""},
		{"wrong secret", other, tok},
		{"expired", issuer, oldTok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.issuer.ParseToken(tt.token); err != ErrInvalidToken {
				t.Fatalf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	again, _ := HashPassword("hunter22")
	if again == hash {
		t.Error("two hashes of the same password should differ by salt")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("CheckPassword accepted the wrong password")
	}
}

func TestHashPasswordLength(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("x", MaxPasswordBytes)); err != nil {
		t.Fatalf("HashPassword(72 bytes) error = %v", err)
	}
	if _, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("HashPassword(73 bytes) error = %v, want ErrPasswordTooLong", err)
	}
}
