package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified subject record reported by the identity provider.
type Identity struct {
	Subject       string
	DisplayName   string
	Email         string
	ProfilePicURL *string
}

// Verifier checks a bearer credential and returns the identity it asserts.
type Verifier interface {
	Verify(token string) (Identity, error)
}

type idTokenClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates provider-issued ID tokens signed with a shared HMAC
// secret.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier constructs a JWTVerifier.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates the token, returning the subject identity.
func (v *JWTVerifier) Verify(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &idTokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*idTokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	ident := Identity{
		Subject:     claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}
	if claims.Picture != "" {
		picture := claims.Picture
		ident.ProfilePicURL = &picture
	}
	return ident, nil
}
