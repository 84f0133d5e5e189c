package domain

import (
	"context"
	"testing"
)

func TestAuthDisabledWithoutSecret(t *testing.T) {
	auth := NewAuthService("", "whatever")

	if auth.Enabled() {
		t.Fatal("expected auth disabled with empty secret")
	}

	if _, err := auth.Login(context.Background(), "whatever"); err == nil {
		t.Fatal("expected login to fail when disabled")
	}

	ok, err := auth.ValidateToken(context.Background(), "anything")
	if err != nil || !ok {
		t.Fatalf("disabled auth must accept any token, got ok=%v err=%v", ok, err)
	}
}

func TestAuthLoginAndValidate(t *testing.T) {
	auth := NewAuthService("s3cret", "pass123")

	if _, err := auth.Login(context.Background(), "wrong"); err == nil {
		t.Fatal("expected wrong password to be rejected")
	}

	token, err := auth.Login(context.Background(), "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	ok, err := auth.ValidateToken(context.Background(), token)
	if err != nil || !ok {
		t.Fatalf("expected token to validate, got ok=%v err=%v", ok, err)
	}

	ok, _ = auth.ValidateToken(context.Background(), token+"x")
	if ok {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestAuthTokenDependsOnSecret(t *testing.T) {
	a := NewAuthService("secret-a", "pass")
	b := NewAuthService("secret-b", "pass")

	ta, _ := a.Login(context.Background(), "pass")

	ok, _ := b.ValidateToken(context.Background(), ta)
	if ok {
		t.Fatal("token minted under one secret validated under another")
	}
}
