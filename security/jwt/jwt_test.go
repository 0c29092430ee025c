package jwt

import (
	"testing"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue(Identity{Email: "staff@example.com", Role: "staff"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Payload.Email != "staff@example.com" {
		t.Errorf("Payload.Email = %v, want %v", claims.Payload.Email, "staff@example.com")
	}
	if claims.Payload.Role != "staff" {
		t.Errorf("Payload.Role = %v, want %v", claims.Payload.Role, "staff")
	}
	if claims.Subject != "staff@example.com" {
		t.Errorf("Subject = %v, want %v", claims.Subject, "staff@example.com")
	}
	if claims.ID == "" {
		t.Error("ID is empty")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("lifetime = %v, want %v", got, time.Hour)
	}
}

func TestParseExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(Identity{Email: "a@b.c", Role: "staff"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	m.now = time.Now
	if _, err := m.Parse(token); err == nil {
		t.Error("Parse() expected error for an expired token")
	}
}

func TestParseWrongKey(t *testing.T) {
	token, err := NewTokenManager("one", 0).Issue(Identity{Email: "a@b.c", Role: "staff"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := NewTokenManager("two", 0).Parse(token); err == nil {
		t.Error("Parse() expected error for a foreign signature")
	}
}

func TestParseIncompleteIdentity(t *testing.T) {
	m := NewTokenManager("secret", 0)
	token, err := m.Issue(Identity{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := m.Parse(token); err != ErrInvalidToken {
		t.Errorf("Parse() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestParseRejectsNone(t *testing.T) {
	raw := jwtstd.NewWithClaims(jwtstd.SigningMethodNone, &Claims{Payload: Identity{Email: "a@b.c", Role: "manager"}})
	token, err := raw.SignedString(jwtstd.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := NewTokenManager("secret", 0).Parse(token); err == nil {
		t.Error("Parse() expected error for an unsigned token")
	}
}

func TestMissingKey(t *testing.T) {
	if _, err := NewTokenManager("", 0).Issue(Identity{}); err != ErrMissingKey {
		t.Errorf("Issue() error = %v, want %v", err, ErrMissingKey)
	}
}
