package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
)

// Identity is the resolved caller of a verified token. SubjectID is set only
// for identities managed by an external provider; locally-issued tokens
// identify the user by email alone.
type Identity struct {
	SubjectID   string
	Email       string
	DisplayName string
}

// Verifier turns a raw bearer token into an Identity, or fails. The core
// never authenticates requests itself beyond this capability.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

// HSVerifier verifies the HS256 access tokens this service issues itself.
type HSVerifier struct {
	Secret []byte
}

func (v HSVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.Secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.Unauthorized("Invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.Unauthorized("Invalid claims")
	}
	if claims["type"] == "refresh" {
		return Identity{}, apperr.Unauthorized("Refresh token cannot be used for access")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Identity{}, apperr.Unauthorized("Invalid claims")
	}
	return Identity{Email: email}, nil
}
