package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/dto"
	"github.com/Eursukkul/expo-draw-service/internal/middleware"
	"github.com/google/logger"
	"github.com/labstack/echo/v4"
)

type Authenticator interface {
	CheckCredentials(username, password string) error
	IssueToken(username string) (string, time.Time, error)
}

type AuthHandler struct {
	auth       Authenticator
	sessionTTL time.Duration
}

func NewAuthHandler(auth Authenticator, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: sessionTTL}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/admin/login", h.Login)
	e.POST("/api/admin/logout", h.Logout)
}

// Login returns a bearer token and also sets it as the session cookie, so both
// header-based and browser clients are served.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid", "invalid request body")
	}

	if err := h.auth.CheckCredentials(req.Username, req.Password); err != nil {
		logger.Warningf("[AuthHandler] login rejected for %q from %s", req.Username, c.RealIP())
		return httpError(err)
	}

	token, _, err := h.auth.IssueToken(req.Username)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   isHTTPS(c),
		SameSite: http.SameSiteLaxMode,
	})

	logger.Infof("[AuthHandler] admin %q logged in", req.Username)
	return c.JSON(http.StatusOK, dto.LoginResponse{OK: true, Token: token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isHTTPS(c),
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func isHTTPS(c echo.Context) bool {
	return requestScheme(c) == "https"
}

// requestScheme honors X-Forwarded-Proto, taking its first entry.
func requestScheme(c echo.Context) string {
	if fwd := c.Request().Header.Get(echo.HeaderXForwardedProto); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if c.Request().TLS != nil {
		return "https"
	}
	return "http"
}
