package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pquerna/otp/totp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func newAuthConfig(t *testing.T) (*viper.Viper, string) {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "dugout",
		AccountName: "coach",
	})
	require.NoError(t, err)

	config := viper.New()
	config.Set("JWT_SIGNING_KEY", testSigningKey)
	config.Set("OTP_SECRET", key.Secret())
	return config, key.Secret()
}

func perform(t *testing.T, h echo.HandlerFunc, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func signToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}

func TestTokenExchange(t *testing.T) {
	logger := log.New(io.Discard)
	config, secret := newAuthConfig(t)

	passcode, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	rec := perform(t, handleGetToken(logger, config), map[string]string{"Passcode": passcode})
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)

	rec = perform(t, handlePostVerifyToken(logger, config), map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenExchangeRejections(t *testing.T) {
	logger := log.New(io.Discard)
	config, _ := newAuthConfig(t)
	h := handleGetToken(logger, config)

	rec := perform(t, h, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing passcode")

	rec = perform(t, h, map[string]string{"Passcode": "12345"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "bad passcode")
}

func TestVerifyTokenRejections(t *testing.T) {
	logger := log.New(io.Discard)
	config, _ := newAuthConfig(t)
	h := handlePostVerifyToken(logger, config)

	t.Run("missing token", func(t *testing.T) {
		rec := perform(t, h, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		rec := perform(t, h, map[string]string{"Authorization": "Bearer garbage"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "malformed token", rec.Body.String())
	})

	t.Run("expired token", func(t *testing.T) {
		expired := signToken(t, jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		})
		rec := perform(t, h, map[string]string{"Authorization": "Bearer " + expired})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "token expired", rec.Body.String())
	})

	t.Run("wrong issuer", func(t *testing.T) {
		foreign := signToken(t, jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		})
		rec := perform(t, h, map[string]string{"Authorization": "Bearer " + foreign})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequireAuthMiddleware(t *testing.T) {
	logger := log.New(io.Discard)
	config, secret := newAuthConfig(t)

	called := false
	guarded := requireAuthMiddleware(logger, config)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	rec := perform(t, guarded, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "handler must not run without a token")

	passcode, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	rec = perform(t, handleGetToken(logger, config), map[string]string{"Passcode": passcode})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, guarded, map[string]string{"Authorization": "Bearer " + rec.Body.String()})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
