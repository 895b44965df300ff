package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/models"
)

// Claims are the fields the CMS puts in the tokens it issues.
type Claims struct {
	ID         models.DocID `json:"id"`
	Collection string       `json:"collection"`
	Email      string       `json:"email"`
	jwt.RegisteredClaims
}

var ErrNoToken = errors.New("token is empty")

// ValidateToken checks a CMS token. With an empty secret the signature is
// not verified and only the expiry is enforced, leaving verification to the
// CMS on the next call.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, err
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now()) {
			return nil, jwt.ErrTokenExpired
		}
		return claims, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateToken signs claims with secret. The CMS issues real tokens; this
// exists for tests and local tooling.
func GenerateToken(claims Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

var now = time.Now
