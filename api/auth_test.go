package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func newTestAuth(t *testing.T, secret string) *Auth {
	t.Helper()
	t.Setenv(envAuth0TestMode, "1")
	t.Setenv(envTestJWTSecret, secret)
	return NewAuth(nil, "", "")
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestUserIDFromAuthHeader(t *testing.T) {
	a := newTestAuth(t, "secret")
	token := signHS256(t, "secret", jwt.MapClaims{
		"sub": "auth0|alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	sub, err := a.UserIDFromAuthHeader("Bearer " + token)
	if err != nil {
		t.Fatalf("UserIDFromAuthHeader: %v", err)
	}
	if sub != "auth0|alice" {
		t.Fatalf("sub = %q, want auth0|alice", sub)
	}
}

func TestUserIDFromAuthHeaderRejectsAnonymous(t *testing.T) {
	a := newTestAuth(t, "secret")
	if _, err := a.UserIDFromAuthHeader(""); err != errMissingAuthorization {
		t.Fatalf("empty header: got %v", err)
	}
	if _, err := a.UserIDFromAuthHeader("   "); err != errMissingAuthorization {
		t.Fatalf("blank header: got %v", err)
	}
}

func TestUserIDFromAuthHeaderRejectsMalformed(t *testing.T) {
	a := newTestAuth(t, "secret")
	for _, header := range []string{
		"Basic abc",
		"Bearer ",
		"Bearer not-a-jwt",
		"Bearer one.part",
	} {
		if _, err := a.UserIDFromAuthHeader(header); err == nil {
			t.Fatalf("header %q accepted", header)
		}
	}
}

func TestUserIDFromAuthHeaderRejectsWrongSecret(t *testing.T) {
	a := newTestAuth(t, "secret")
	token := signHS256(t, "other-secret", jwt.MapClaims{
		"sub": "auth0|alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := a.UserIDFromAuthHeader("Bearer " + token); err == nil {
		t.Fatal("token signed with wrong secret accepted")
	}
}

func TestUserIDFromAuthHeaderRejectsExpired(t *testing.T) {
	a := newTestAuth(t, "secret")
	token := signHS256(t, "secret", jwt.MapClaims{
		"sub": "auth0|alice",
		"exp": time.Now().Add(-2 * time.Hour).Unix(),
	})
	if _, err := a.UserIDFromAuthHeader("Bearer " + token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestUserIDFromAuthHeaderRequiresSub(t *testing.T) {
	a := newTestAuth(t, "secret")
	token := signHS256(t, "secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := a.UserIDFromAuthHeader("Bearer " + token); err == nil {
		t.Fatal("token without sub accepted")
	}
}

func TestBearerToken(t *testing.T) {
	if _, err := bearerToken("Bearer a.b.c"); err != nil {
		t.Fatalf("well-formed token rejected: %v", err)
	}
	if tok, err := bearerToken("  Bearer a.b.c  "); err != nil || tok != "a.b.c" {
		t.Fatalf("surrounding whitespace not trimmed: %q, %v", tok, err)
	}
	if _, err := bearerToken("Bearer a.b.c.d"); err != errBadAuthorization {
		t.Fatalf("four-segment token: got %v", err)
	}
}
