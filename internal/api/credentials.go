package api

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// Credentials is what a login leaves behind: the bearer token plus the
// user it was issued to.
type Credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// CredentialStore persists credentials between runs. Load returns
// (nil, nil) when nothing is stored.
type CredentialStore interface {
	Load() (*Credentials, error)
	Save(creds Credentials) error
	Clear() error
}

// FileCredentialStore keeps credentials in a JSON file. The file is
// written 0600 since the token is a secret.
type FileCredentialStore struct {
	Path string
}

func (s *FileCredentialStore) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return &creds, nil
}

func (s *FileCredentialStore) Save(creds Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemCredentialStore holds credentials for the process lifetime only.
type MemCredentialStore struct {
	creds *Credentials
}

func (s *MemCredentialStore) Load() (*Credentials, error) {
	return s.creds, nil
}

func (s *MemCredentialStore) Save(creds Credentials) error {
	s.creds = &creds
	return nil
}

func (s *MemCredentialStore) Clear() error {
	s.creds = nil
	return nil
}
