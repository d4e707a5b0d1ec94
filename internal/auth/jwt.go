// SPDX-License-Identifier: MIT
package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/thatcatcamp/themer/internal/config"
)

// Claims identify the designer session a browser belongs to
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// getSessionSecret returns the signing secret from env var or config
func getSessionSecret() string {
	// Environment variable takes precedence
	if secret := os.Getenv("THEMER_SESSION_SECRET"); secret != "" {
		return secret
	}
	if secret := config.GetString("sessions.secret"); secret != "" {
		return secret
	}
	return devSecret
}

// devSecret signs tokens when nothing is configured, e.g. in tests
const devSecret = "themer-development-secret"

// GenerateToken creates a signed token for a session
func GenerateToken(sessionID string, ttl time.Duration) (string, error) {
	if sessionID == "" {
		return "", errors.New("session id is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour // Default fallback
	}

	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(getSessionSecret()))
}

// ValidateToken parses and validates a session token
func ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(getSessionSecret()), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.SessionID == "" {
		return nil, errors.New("token has no session id")
	}

	return claims, nil
}
