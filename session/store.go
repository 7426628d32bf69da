package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Store persists the bearer token as a small JSON file. It is the only
// durable client-side state.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

type tokenFile struct {
	Token string `json:"token"`
}

// Load returns the stored token, or "" when none is stored.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}
	return tf.Token, nil
}

func (s *Store) Save(token string) error {
	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the stored token. Missing files are fine; logout
// always succeeds.
func (s *Store) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("Session: could not remove token file: %v", err)
	}
}
