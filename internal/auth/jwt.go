package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceClaims represents the claims in an admin service token
type ServiceClaims struct {
	Subject string `json:"subject"`
	Role    string `json:"role"` // "service"
	jwt.RegisteredClaims
}

// GenerateServiceToken generates a JWT token granting access to the
// admin endpoints. Tokens are minted offline via the token command and
// handed to operators or schedulers.
func GenerateServiceToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	claims := &ServiceClaims{
		Subject: subject,
		Role:    "service",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(secret []byte, tokenString string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ServiceClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
