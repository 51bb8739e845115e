/*
auth.go - Bearer-token authentication

PURPOSE:
  The dashboard talks to the API with a JWT bearer token obtained from
  POST /api/auth/login. Every other /api route requires it. Tokens are
  HS256, signed with the configured secret, expiring after the
  configured TTL.

FAILURE MODES:
  Missing, malformed, or expired credentials produce 401 with the
  uniform error body. Auth failures are distinct from validation (400)
  and not-found (404) so clients can route the user back to login.
*/
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator issues and verifies bearer tokens for the single
// operator account the dashboard uses.
type Authenticator struct {
	secret   []byte
	ttl      time.Duration
	username string
	password string
}

func NewAuthenticator(secret string, ttl time.Duration, username, password string) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		ttl:      ttl,
		username: username,
		password: password,
	}
}

// Login validates the credential pair and issues a signed token.
func (a *Authenticator) Login(username, password string) (token string, expiresAt time.Time, ok bool) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return "", time.Time{}, false
	}

	expiresAt = time.Now().Add(a.ttl)
	claims := jwt.MapClaims{
		"sub": username,
		"exp": jwt.NewNumericDate(expiresAt),
		"iat": jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, false
	}
	return signed, expiresAt, true
}

// Verify checks a compact token string.
func (a *Authenticator) Verify(token string) bool {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && parsed.Valid
}

// Middleware rejects requests without a valid bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}
		if !a.Verify(token) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
