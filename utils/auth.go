// utils/auth.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Context key holding the authenticated user's id.
const UserIDKey = "userId"

var ErrInvalidToken = errors.New("invalid token")

// Generate JWT secret key (run once initially)
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Hash password
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Generate JWT token
func (m *TokenManager) Generate(userID string) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("JWT secret not set")
	}
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
	})
	return token.SignedString(m.secret)
}

// Parse validates tokenString and returns the user id it carries.
func (m *TokenManager) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// UserExists reports whether the token subject still names a user.
type UserExists func(ctx context.Context, userID string) (bool, error)

// Auth middleware
func AuthMiddleware(tm *TokenManager, exists UserExists) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if scheme, rest, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
			tokenString = strings.TrimSpace(rest)
		}
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "No token provided")
			c.Abort()
			return
		}

		userID, err := tm.Parse(tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Unauthorized - Invalid token")
			c.Abort()
			return
		}

		if exists != nil {
			ok, err := exists(c.Request.Context(), userID)
			if err != nil {
				RespondWithError(c, http.StatusInternalServerError, "Failed to verify user")
				c.Abort()
				return
			}
			if !ok {
				RespondWithError(c, http.StatusUnauthorized, "User not found")
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
