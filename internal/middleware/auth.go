package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/expo-draw-service/internal/auth"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "admin_session"
	// AdminContextKey holds the verified admin username on the echo context.
	AdminContextKey = "admin"
)

type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// RequireAdmin lets a request through when any of the bearer header, the
// token or t query parameters, or the session cookie carries a valid token.
func RequireAdmin(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, token := range candidateTokens(c) {
				if subject, err := v.VerifyToken(token); err == nil {
					c.Set(AdminContextKey, subject)
					return next(c)
				}
			}
			return &echo.HTTPError{
				Code:     http.StatusUnauthorized,
				Message:  auth.ErrUnauthorized.Message,
				Internal: auth.ErrUnauthorized,
			}
		}
	}
}

func candidateTokens(c echo.Context) []string {
	var tokens []string
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		tokens = append(tokens, strings.TrimSpace(h[len("Bearer "):]))
	}
	for _, name := range []string{"token", "t"} {
		if q := c.QueryParam(name); q != "" {
			tokens = append(tokens, q)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	return tokens
}
