package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the admin-only claim set: the control plane has no player
// accounts, so the only fact a token asserts is IsAdmin.
type Claims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateAdminToken mints an admin bearer token signed with secret,
// valid for ttl.
func GenerateAdminToken(secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "terra-engine",
			Subject:   "admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAdminToken checks tokenString against secret and reports
// whether it is a currently-valid token asserting IsAdmin.
func ValidateAdminToken(tokenString string, secret []byte) (isAdmin bool, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return false, err
	}
	if !token.Valid {
		return false, errors.New("token invalid")
	}
	return claims.IsAdmin, nil
}

// GenerateSecureSecret generates a new random base64-encoded secret,
// suitable for admin_jwt_secret in the engine config.
func GenerateSecureSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeSecret decodes a base64 secret from config; it must be at least
// 32 bytes once decoded.
func DecodeSecret(secret string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, err
	}
	if len(decoded) < 32 {
		return nil, errors.New("secret key must be at least 32 bytes")
	}
	return decoded, nil
}
