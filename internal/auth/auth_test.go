package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/protomem/preach-tracker/internal/model"
)

func TestJWTer_RoundTrip(t *testing.T) {
	j := NewJWTer("secret", "preach-tracker", time.Hour)

	token, err := j.Issue(model.User{ID: "u-1", Login: "ann", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := j.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != "u-1" || !claims.IsAdmin() || claims.Subject != "ann" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTer_Rejects(t *testing.T) {
	issued := time.Date(2024, time.January, 7, 10, 0, 0, 0, time.UTC)

	j := NewJWTer("secret", "preach-tracker", time.Hour)
	j.now = func() time.Time { return issued }

	token, err := j.Issue(model.User{ID: "u-1", Login: "ann", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name  string
		jwter *JWTer
		token string
	}{
		{"wrong secret", &JWTer{Secret: []byte("other"), Issuer: "preach-tracker", now: j.now}, token},
		{"wrong issuer", &JWTer{Secret: []byte("secret"), Issuer: "someone-else", now: j.now}, token},
		{"expired", &JWTer{Secret: []byte("secret"), Issuer: "preach-tracker", now: func() time.Time { return issued.Add(2 * time.Hour) }}, token},
		{"garbage", j, "not.a.token"},
		{"tampered", j, token[:strings.LastIndex(token, ".")] + ".AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.jwter.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("expected password to match")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("expected wrong password to fail")
	}

	if _, err := HashPassword(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}
