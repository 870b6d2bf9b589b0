// Package auth checks admin credentials and issues and verifies the signed,
// time-limited tokens that gate the admin API.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingCredentials = apperr.New(apperr.KindInvalidInput, "missing", "username and password are required")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid", "invalid username or password")
	ErrUnauthorized       = apperr.New(apperr.KindUnauthorized, "unauthorized", "admin authentication required")
)

type Options struct {
	Username string
	// PasswordHash is a bcrypt hash. When set, Password is ignored.
	PasswordHash string
	Password     string
	Secret       string
	TokenTTL     time.Duration
}

type Authenticator struct {
	username     string
	passwordHash []byte
	password     []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(opts Options) *Authenticator {
	a := &Authenticator{
		username: opts.Username,
		password: []byte(opts.Password),
		secret:   []byte(opts.Secret),
		ttl:      opts.TokenTTL,
		now:      time.Now,
	}
	if opts.PasswordHash != "" {
		a.passwordHash = []byte(opts.PasswordHash)
	}
	return a
}

// CheckCredentials compares a login attempt against the configured admin.
// With no admin configured every attempt fails.
func (a *Authenticator) CheckCredentials(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if a.username == "" || (a.passwordHash == nil && len(a.password) == 0) {
		return ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1

	var passOK bool
	if a.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), a.password) == 1
	}

	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken returns an HS256 token for username that expires after the
// configured TTL.
func (a *Authenticator) IssueToken(username string) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken returns the subject of a valid, unexpired token.
func (a *Authenticator) VerifyToken(token string) (string, error) {
	if token == "" || a.username == "" {
		return "", ErrUnauthorized
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.Wrap(apperr.KindUnauthorized, "unauthorized", "token expired", err)
		}
		return "", apperr.Wrap(apperr.KindUnauthorized, "unauthorized", "invalid token", err)
	}
	if !parsed.Valid || claims.Subject != a.username {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}
