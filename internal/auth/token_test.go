package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseTokenExtractsUserID(t *testing.T) {
	signed := mintToken(t, jwt.MapClaims{
		"user_id": "u-alice",
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	claims, err := ParseToken(signed)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u-alice" {
		t.Errorf("UserID = %q, want u-alice", claims.UserID)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	signed := mintToken(t, jwt.MapClaims{
		"user_id": "u-alice",
		"exp":     jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	if _, err := ParseToken(signed); err == nil {
		t.Error("ParseToken accepted an expired token")
	}
}

func TestParseTokenRejectsMissingUserID(t *testing.T) {
	signed := mintToken(t, jwt.MapClaims{
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	if _, err := ParseToken(signed); err == nil {
		t.Error("ParseToken accepted a token without user_id")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("ParseToken accepted malformed input")
	}
}
