package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/kickoff-academy/field-booking-backend/account"
)

type UserLookup interface {
	GetUser(ctx context.Context, id string) (account.User, error)
}

// JWTAuth accepts HS256 bearer tokens whose subject is a known user and
// stores that user under "user".
func JWTAuth(secret []byte, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")

		if !ok || len(raw) == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication"})
			c.Abort()
			return
		}

		subject, err := token.Claims.GetSubject()

		if err != nil || subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication"})
			c.Abort()
			return
		}

		user, err := users.GetUser(c.Request.Context(), subject)

		if err != nil {
			if !errors.Is(err, account.ErrUserNotFound) {
				c.Error(err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication"})
			c.Abort()
			return
		}

		c.Set("user", user)
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(account.User)

		if !user.Role.Privileged() {
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
			c.Abort()
			return
		}
	}
}

func currentUser(c *gin.Context) account.User {
	return c.MustGet("user").(account.User)
}
