package ingest

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "coverhub-sync"

// SignSyncToken mints a short-lived HS256 token for pushing batches. The
// scraper side shares the secret out of band.
func SignSyncToken(secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign sync token: %w", err)
	}
	return s, nil
}

func parseSyncToken(secret []byte, tokenString string) error {
	tok, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return fmt.Errorf("parse sync token: %w", err)
	}
	if !tok.Valid {
		return fmt.Errorf("invalid sync token")
	}
	return nil
}
