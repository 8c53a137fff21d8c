package auth

import (
	"bytes"
	"testing"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, _ = VerifyPassword(hash, "wrong password")
	if ok {
		t.Error("wrong password should not verify")
	}

	ok, _ = VerifyPassword("not-a-hash", "anything")
	if ok {
		t.Error("malformed hash should not verify")
	}

	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	svc, err := NewTokenService(key, 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	user := &domain.User{ID: "usr-1", Email: "admin@church.example", IsRoot: true}
	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != "usr-1" || claims.Email != "admin@church.example" || !claims.IsRoot {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	svc, err := NewTokenService(key, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := svc.GenerateAccessToken(&domain.User{ID: "usr-1"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expired token should not verify")
	}
}

func TestNewTokenService_BadKey(t *testing.T) {
	if _, err := NewTokenService([]byte("short"), time.Minute, time.Hour); err == nil {
		t.Error("short key should be rejected")
	}
}

func TestHashRefreshToken_Stable(t *testing.T) {
	svc, err := NewTokenService(bytes.Repeat([]byte{0x01}, 32), time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	token, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	if HashRefreshToken(token) != HashRefreshToken(token) {
		t.Error("hash must be deterministic")
	}
	other, _ := svc.GenerateRefreshToken()
	if HashRefreshToken(token) == HashRefreshToken(other) {
		t.Error("distinct tokens must hash differently")
	}
}
