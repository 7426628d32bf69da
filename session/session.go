// Package session holds the bearer credential and the authenticated
// user's profile. The session object is passed explicitly to everything
// that needs it; there is no ambient lookup.
package session

import (
	"context"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/braynkanth/assistant-tui/api"
)

// Session is the authenticated state of the client. User is set only
// after the token was last validated successfully.
type Session struct {
	Token string
	User  *api.User
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Identity is the part of the API client the restore flow needs.
type Identity interface {
	Me(ctx context.Context) (api.User, error)
}

// Restore rebuilds the session at startup. A freshly supplied token
// (the login-redirect case) is persisted first and wins over the stored
// one. If a token is present it is validated once against the identity
// endpoint; on any failure the stored token is cleared and an
// unauthenticated session is returned. No retry.
func Restore(ctx context.Context, store *Store, fresh string, dial func(token string) Identity) *Session {
	if fresh != "" {
		if err := store.Save(fresh); err != nil {
			log.Printf("Session: could not persist token: %v", err)
		}
	}

	token, err := store.Load()
	if err != nil {
		log.Printf("Session: could not read stored token: %v", err)
		return &Session{}
	}
	if token == "" {
		return &Session{}
	}

	if Expired(token, time.Now()) {
		log.Println("Session: stored token is expired, clearing.")
		store.Clear()
		return &Session{}
	}

	user, err := dial(token).Me(ctx)
	if err != nil {
		log.Printf("Session: identity check failed: %v", err)
		store.Clear()
		return &Session{}
	}
	return &Session{Token: token, User: &user}
}

// Expired reports whether a token is a JWT whose exp claim has passed.
// The token is treated as opaque (not expired) when it does not parse;
// the server remains the authority either way, this only skips an
// identity check that is certain to fail.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
