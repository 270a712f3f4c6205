package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, key []byte, username string) string {
	t.Helper()
	claims := &Claims{
		Username: username,
		UserHash: UserHashFromUsername(username, key),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func invoke(key []byte, authHeader string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/rounds", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := JWT(key)(next)(c)
	return rec, err
}

func TestJWT(t *testing.T) {
	key := []byte("test-signing-key")

	t.Run("valid token passes and sets identity", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/admin/rounds", nil)
		req.Header.Set("Authorization", signedToken(t, key, "matt"))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		next := func(c echo.Context) error {
			assert.Equal(t, "matt", c.Get("username"))
			assert.Equal(t, UserHashFromUsername("matt", key), c.Get("user_hash"))
			return c.NoContent(http.StatusOK)
		}
		require.NoError(t, JWT(key)(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		_, err := invoke(key, "")
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("token signed with wrong key rejected", func(t *testing.T) {
		_, err := invoke(key, signedToken(t, []byte("other-key"), "matt"))
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.NotEqual(t, http.StatusOK, httpErr.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		claims := &Claims{
			Username: "matt",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		require.NoError(t, err)

		_, err = invoke(key, token)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.NotEqual(t, http.StatusOK, httpErr.Code)
	})
}

func TestUserHashFromUsername(t *testing.T) {
	key := []byte("k")
	assert.Equal(t, UserHashFromUsername("Matt ", key), UserHashFromUsername("matt", key))
	assert.NotEqual(t, UserHashFromUsername("matt", key), UserHashFromUsername("jake", key))
}
