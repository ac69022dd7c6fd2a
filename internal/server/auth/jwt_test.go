package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), time.Hour)

	tok, err := issuer.Issue("42")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	sub, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if sub != "42" {
		t.Fatalf("subject mismatch: got %q want %q", sub, "42")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	issuer := NewTokenIssuer([]byte("secret"), 15*time.Minute, WithClock(clock))
	tok, err := issuer.Issue("1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := issuer.Verify(tok); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	now = now.Add(16 * time.Minute)

	_, err = issuer.Verify(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer([]byte("right-secret"), time.Hour).Issue("2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenIssuer([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "not.a.jwt", "abc"} {
		_, err := NewTokenIssuer([]byte("k"), time.Hour).Verify(s)
		if !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("%q: expected common.ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	claims := jwt.RegisteredClaims{Subject: "3", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	issuer := NewTokenIssuer(secret, time.Hour)
	for _, tok := range []string{hs512, none} {
		if _, err := issuer.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("expected common.ErrInvalidToken, got %v", err)
		}
	}
}

func TestVerify_MissingSubjectOrExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	issuer := NewTokenIssuer(secret, time.Hour)

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "4"}).SignedString(secret)

	for _, tok := range []string{noSub, noExp} {
		if _, err := issuer.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("expected common.ErrInvalidToken, got %v", err)
		}
	}
}
