package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/api"
	"github.com/stretchr/testify/assert"
)

var secret = []byte("test-secret")

type userTable map[string]account.User

func (u userTable) GetUser(_ context.Context, id string) (account.User, error) {
	user, ok := u[id]
	if !ok {
		return account.User{}, account.ErrUserNotFound
	}
	return user, nil
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	assert.NoError(t, err)
	return token
}

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.JWTAuth(secret, userTable{"coach": coach, "admin": admin}))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.MustGet("user").(account.User).ID})
	})
	router.GET("/admin", api.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func request(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	router := setupAuthRouter()
	expires := jwt.NewNumericDate(time.Now().Add(time.Hour))

	t.Run("valid token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "coach", ExpiresAt: expires})

		w := request(router, "/me", "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"coach"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := request(router, "/me", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"missing authentication"}`, w.Body.String())
	})

	t.Run("not a bearer token", func(t *testing.T) {
		w := request(router, "/me", "Basic Y29hY2g6cGFzcw==")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"missing authentication"}`, w.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "coach", ExpiresAt: expires})

		w := request(router, "/me", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid authentication"}`, w.Body.String())
	})

	t.Run("expired", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{
			Subject:   "coach",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})

		w := request(router, "/me", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, secret, jwt.RegisteredClaims{Subject: "coach", ExpiresAt: expires})

		w := request(router, "/me", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no subject", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{ExpiresAt: expires})

		w := request(router, "/me", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid authentication"}`, w.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "ghost", ExpiresAt: expires})

		w := request(router, "/me", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid authentication"}`, w.Body.String())
	})
}

func TestAdminOnly(t *testing.T) {
	router := setupAuthRouter()
	expires := jwt.NewNumericDate(time.Now().Add(time.Hour))

	t.Run("admin", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: expires})

		w := request(router, "/admin", "Bearer "+token)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("coach", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "coach", ExpiresAt: expires})

		w := request(router, "/admin", "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"not allowed"}`, w.Body.String())
	})
}
