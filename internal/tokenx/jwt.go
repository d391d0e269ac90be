// Package tokenx reads the claims of the bearer tokens issued by the server.
//
// The client never holds the signing key, so tokens are parsed without
// signature verification and only used to decide whether a persisted token
// is obviously stale. The server remains the authority on validity.
package tokenx

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the registered claims plus the user id the server embeds.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
}

// GenerateToken signs an HS256 token. The client only needs it to mint
// tokens for fake servers in tests and local tooling.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// Parse extracts claims without verifying the signature. Opaque (non-JWT)
// tokens yield common.ErrInvalidToken.
func Parse(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return claims, nil
}

// Expired reports whether token carries an exp claim that lies before now.
// Opaque tokens and tokens without exp are never considered expired.
func Expired(token string, now time.Time) bool {
	claims, err := Parse(token)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Check returns common.ErrTokenExpired for expired tokens and nil otherwise.
func Check(token string, now time.Time) error {
	if token == "" {
		return common.ErrInvalidToken
	}
	if Expired(token, now) {
		return common.ErrTokenExpired
	}
	return nil
}

// IsExpired is a convenience for errors.Is(err, common.ErrTokenExpired).
func IsExpired(err error) bool {
	return errors.Is(err, common.ErrTokenExpired)
}
