// Package auth provides password hashing and signed session tokens.
//
// SESSION FLOW OVERVIEW:
//  1. User POSTs /login with email + password
//  2. The user service verifies the bcrypt hash
//  3. SessionManager.Start signs a JWT carrying the user's id and display name
//  4. The token is stored in an HttpOnly "session" cookie
//  5. On later requests, middleware validates the cookie and puts the
//     Identity into the request context
//
// WHY JWT?
// The session is stateless. The server keeps no session table; everything
// needed (user id, display name, expiry) is inside the signed token, and the
// HMAC signature makes it tamper-evident.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"sub":"42","name":"Ana","jti":"...","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "session"

	// DefaultSessionTTL is used when NewSessionManager gets a non-positive ttl.
	DefaultSessionTTL = 24 * time.Hour

	issuer = "travel-together"
)

// Identity is the authenticated user as seen by request handlers.
type Identity struct {
	UserID int64
	Name   string
}

// SessionManager signs and validates session tokens.
//
// It holds the HMAC secret used for both operations. Rotating the secret
// logs everybody out, which is the only server-side invalidation there is.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a SessionManager with the given secret and lifetime.
// The secret should be at least 32 bytes of random data in production.
// Example: SECRET_KEY=$(openssl rand -hex 32)
func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt and ID.
//
// "sub" holds the numeric user id as a decimal string; "name" is the display
// name shown in page headers so pages don't need a user lookup.
type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Start issues a session token for the identity, valid for the manager's ttl.
func (s *SessionManager) Start(id Identity) (string, error) {
	return s.startWithDuration(id, s.ttl)
}

// startWithDuration is Start with an explicit lifetime. Tests use a negative
// duration to mint already-expired tokens.
func (s *SessionManager) startWithDuration(id Identity, d time.Duration) (string, error) {
	if id.UserID <= 0 {
		return "", fmt.Errorf("auth: invalid user id %d", id.UserID)
	}

	now := time.Now()
	c := claims{
		Name: id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session: %w", err)
	}

	return signed, nil
}

// Current returns the identity carried by a session token.
// It reports false when the token is empty, expired, tampered with, or not
// a token at all.
func (s *SessionManager) Current(token string) (Identity, bool) {
	id, err := s.parse(token)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

// parse validates the token and extracts the identity.
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods prevents this.
func (s *SessionManager) parse(tokenStr string) (Identity, error) {
	if tokenStr == "" {
		return Identity{}, errors.New("auth: empty session token")
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: session expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid session: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid session claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, fmt.Errorf("auth: session has no valid subject")
	}

	return Identity{UserID: userID, Name: c.Name}, nil
}

// SetCookie writes the session token as an HttpOnly cookie.
//
// HttpOnly = JavaScript cannot read this cookie (XSS protection).
// SameSite=Lax = sent on top-level navigations but not cross-site POSTs.
// Secure should be true in production (HTTPS only). It stays false for local dev.
func (s *SessionManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie ends the session on the client by expiring the cookie.
//
// The token itself stays valid until it expires, but without the cookie
// the browser can no longer present it.
func (s *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest reads and validates the session cookie of r.
func (s *SessionManager) FromRequest(r *http.Request) (Identity, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		// http.ErrNoCookie: anonymous request
		return Identity{}, false
	}
	return s.Current(cookie.Value)
}
