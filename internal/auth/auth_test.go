package auth

import (
	"context"
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("secret")

	token, err := m.GenerateToken("alice", "user")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	identity, role, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if identity != "alice" || role != "user" {
		t.Fatalf("expected alice/user, got %s/%s", identity, role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").GenerateToken("alice", "user")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, _, err := NewManager("secret-b").ParseToken(token); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !CheckPassword("hunter2", hash) {
		t.Fatal("correct password must verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestContextAuthorizer(t *testing.T) {
	a := ContextAuthorizer{}

	t.Run("no identity on context", func(t *testing.T) {
		err := a.RequireAuthorized(context.Background(), "alice")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("different identity", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), "bob")
		err := a.RequireAuthorized(ctx, "alice")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("matching identity", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), "alice")
		if err := a.RequireAuthorized(ctx, "alice"); err != nil {
			t.Fatalf("matching identity must pass, got %v", err)
		}
	})
}
