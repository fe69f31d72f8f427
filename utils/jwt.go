package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"laptoppos/auth"
	"laptoppos/config"
)

// JWTClaims represents the claims in the JWT token. IssuedAt doubles as
// the session record's issue stamp: refreshing a session issues a new
// token with a fresh IssuedAt.
type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a signed session token for a user
func GenerateJWT(userID uint, username, role string, issuedAt time.Time) (string, error) {
	claims := JWTClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(config.GetSessionTTL())),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateJWT validates a session token and extracts its claims. Any
// parse or validation failure is reported as an error so callers treat
// the session as expired, never as authenticated by default.
func ValidateJWT(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// SessionFromClaims rebuilds the session record carried by a token.
func SessionFromClaims(claims *JWTClaims) *auth.Session {
	s := &auth.Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     auth.Role(claims.Role),
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s
}
