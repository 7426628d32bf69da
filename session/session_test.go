package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/braynkanth/assistant-tui/api"
)

type fakeIdentity struct {
	user api.User
	err  error
}

func (f fakeIdentity) Me(ctx context.Context) (api.User, error) {
	return f.user, f.err
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "token.json"))
}

func TestStoreRoundTrip(t *testing.T) {
	s := tempStore(t)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if got != "" {
		t.Errorf("Load on missing file = %q, want empty", got)
	}

	if err := s.Save("tok123"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "tok123" {
		t.Errorf("Load = %q, want %q", got, "tok123")
	}

	s.Clear()
	got, err = s.Load()
	if err != nil || got != "" {
		t.Errorf("Load after Clear = %q, %v; want empty, nil", got, err)
	}
	s.Clear() // clearing twice is fine
}

func TestRestoreValidatesStoredToken(t *testing.T) {
	s := tempStore(t)
	if err := s.Save("stored-token"); err != nil {
		t.Fatal(err)
	}

	var dialedWith string
	sess := Restore(context.Background(), s, "", func(token string) Identity {
		dialedWith = token
		return fakeIdentity{user: api.User{ID: 1, Name: "Ada", Email: "ada@x.y"}}
	})

	if dialedWith != "stored-token" {
		t.Errorf("dialed with %q, want the stored token", dialedWith)
	}
	if !sess.Authenticated() {
		t.Fatal("session not authenticated after successful identity check")
	}
	if sess.User.Name != "Ada" {
		t.Errorf("User = %+v", sess.User)
	}
}

func TestRestorePersistsFreshToken(t *testing.T) {
	s := tempStore(t)
	if err := s.Save("old-token"); err != nil {
		t.Fatal(err)
	}

	sess := Restore(context.Background(), s, "fresh-token", func(token string) Identity {
		return fakeIdentity{user: api.User{ID: 2}}
	})

	if sess.Token != "fresh-token" {
		t.Errorf("session token = %q, want the fresh token to win", sess.Token)
	}
	stored, _ := s.Load()
	if stored != "fresh-token" {
		t.Errorf("stored token = %q, want the fresh token persisted", stored)
	}
}

func TestRestoreClearsRejectedToken(t *testing.T) {
	s := tempStore(t)
	if err := s.Save("bad-token"); err != nil {
		t.Fatal(err)
	}

	calls := 0
	sess := Restore(context.Background(), s, "", func(token string) Identity {
		calls++
		return fakeIdentity{err: errors.New("401")}
	})

	if sess.Authenticated() {
		t.Error("session authenticated despite rejected token")
	}
	if calls != 1 {
		t.Errorf("identity check called %d times, want exactly 1 (no retry)", calls)
	}
	stored, _ := s.Load()
	if stored != "" {
		t.Errorf("stored token = %q, want cleared", stored)
	}
}

func TestRestoreWithNoToken(t *testing.T) {
	s := tempStore(t)
	dialed := false
	sess := Restore(context.Background(), s, "", func(token string) Identity {
		dialed = true
		return fakeIdentity{}
	})
	if sess.Authenticated() {
		t.Error("empty store produced an authenticated session")
	}
	if dialed {
		t.Error("identity endpoint called with no token")
	}
}

func TestRestoreSkipsExpiredJWT(t *testing.T) {
	s := tempStore(t)
	expired := unsignedJWT(t, time.Now().Add(-time.Hour))
	if err := s.Save(expired); err != nil {
		t.Fatal(err)
	}

	dialed := false
	sess := Restore(context.Background(), s, "", func(token string) Identity {
		dialed = true
		return fakeIdentity{}
	})
	if dialed {
		t.Error("identity endpoint called for a locally expired token")
	}
	if sess.Authenticated() {
		t.Error("expired token produced an authenticated session")
	}
	stored, _ := s.Load()
	if stored != "" {
		t.Errorf("expired token left in store: %q", stored)
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"expired jwt", unsignedJWT(t, now.Add(-time.Minute)), true},
		{"live jwt", unsignedJWT(t, now.Add(time.Hour)), false},
		{"opaque token is never locally expired", "some-opaque-session-token", false},
		{"empty token", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expired(tt.token, now); got != tt.want {
				t.Errorf("Expired(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestAuthenticated(t *testing.T) {
	var nilSess *Session
	if nilSess.Authenticated() {
		t.Error("nil session reports authenticated")
	}
	if (&Session{Token: "t"}).Authenticated() {
		t.Error("token without user reports authenticated")
	}
	full := &Session{Token: "t", User: &api.User{ID: 1}}
	if !full.Authenticated() {
		t.Error("complete session reports unauthenticated")
	}
}

// unsignedJWT builds a structurally valid JWT with the given exp claim
// and an empty signature, enough for the unverified parse.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	enc := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}
	header := enc(`{"alg":"none","typ":"JWT"}`)
	claims := enc(fmt.Sprintf(`{"sub":"1","exp":%d}`, exp.Unix()))
	return header + "." + claims + "."
}
