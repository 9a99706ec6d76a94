package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/places-api/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/places-api/internal/common/crypto"
	"github.com/AlibekovAA/places-api/internal/common/jwtverify"
)

type TokenIssuer struct {
	jwtSecret   []byte
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	ttl         time.Duration
}

func NewTokenIssuer(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	ttl time.Duration,
	clock clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:   []byte(jwtSecret),
		idGenerator: idGenerator,
		clock:       clock,
		ttl:         ttl,
	}
}

// IssueToken signs an HS256 token for the user. Every token carries a fresh
// jti, so two tokens issued in the same second still differ.
func (ti *TokenIssuer) IssueToken(userID, email string) (string, error) {
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := ti.clock.Now()
	claims := jwt.MapClaims{
		jwtverify.ClaimUserID: userID,
		jwtverify.ClaimEmail:  email,
		"jti":                 jti,
		"iat":                 now.Unix(),
		"exp":                 now.Add(ti.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementTokensIssued()
	return tokenString, nil
}
