package handler

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/auth"
	"github.com/Eursukkul/expo-draw-service/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAuth() *mockAuthenticator {
	return &mockAuthenticator{
		checkFn: func(username, password string) error {
			if username == "" || password == "" {
				return auth.ErrMissingCredentials
			}
			if username != "admin" || password != "pw" {
				return auth.ErrInvalidCredentials
			}
			return nil
		},
		issueFn: func(username string) (string, time.Time, error) {
			return "token-for-" + username, time.Now().Add(time.Hour), nil
		},
	}
}

func TestLogin_Success(t *testing.T) {
	h := NewAuthHandler(newMockAuth(), 8*time.Hour)
	c, rec := jsonContext(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"pw"}`)

	require.NoError(t, h.Login(c))
	assert.JSONEq(t, `{"ok":true,"token":"token-for-admin"}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, "token-for-admin", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int((8 * time.Hour).Seconds()), cookies[0].MaxAge)
	assert.False(t, cookies[0].Secure)
}

func TestLogin_SecureBehindTLSProxy(t *testing.T) {
	h := NewAuthHandler(newMockAuth(), time.Hour)
	c, rec := jsonContext(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"pw"}`)
	c.Request().Header.Set("X-Forwarded-Proto", "https, http")

	require.NoError(t, h.Login(c))
	require.Len(t, rec.Result().Cookies(), 1)
	assert.True(t, rec.Result().Cookies()[0].Secure)
}

func TestLogin_Rejected(t *testing.T) {
	h := NewAuthHandler(newMockAuth(), time.Hour)

	c, rec := jsonContext(http.MethodPost, "/api/admin/login", `{"username":"admin"}`)
	assertHTTPError(t, h.Login(c), http.StatusBadRequest, "missing")
	assert.Empty(t, rec.Result().Cookies())

	c, rec = jsonContext(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"nope"}`)
	assertHTTPError(t, h.Login(c), http.StatusUnauthorized, "invalid")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(newMockAuth(), time.Hour)
	c, rec := jsonContext(http.MethodPost, "/api/admin/logout", "")

	require.NoError(t, h.Logout(c))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAdminQR(t *testing.T) {
	pngMagic := []byte("\x89PNG\r\n\x1a\n")

	c, rec := jsonContext(http.MethodGet, "/api/admin/qr", "")
	require.NoError(t, NewQRHandler("https://expo.example.com/").AdminQR(c))
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))
}

func TestAdminQR_URL(t *testing.T) {
	c, _ := jsonContext(http.MethodGet, "/api/admin/qr", "")
	assert.Equal(t, "https://expo.example.com/admin/", NewQRHandler("https://expo.example.com/").adminURL(c))

	c, _ = jsonContext(http.MethodGet, "/api/admin/qr", "")
	c.Request().Host = "10.0.0.5:8082"
	assert.Equal(t, "http://10.0.0.5:8082/admin/", NewQRHandler("").adminURL(c))

	c.Request().Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://10.0.0.5:8082/admin/", NewQRHandler("").adminURL(c))
}
