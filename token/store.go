package token

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Store persists the current refresh token to a file so that later
// runs can exchange it instead of repeating the authorization code
// grant. Xero rotates refresh tokens on every exchange, so the file
// is overwritten with the replacement token as soon as one arrives.
type Store struct {
	path string
}

// NewStore makes a Store writing to path
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("refresh token file path is empty")
	}
	return &Store{path: path}, nil
}

// Load reads the stored refresh token. A missing or empty file is not
// an error; it reports ok == false, meaning no token is stored and
// the caller needs to run the authorization code grant.
func (s *Store) Load() (refresh string, ok bool, err error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("refresh token read error: %s", err)
	}
	refresh = strings.TrimSpace(string(b))
	if refresh == "" {
		return "", false, nil
	}
	return refresh, true, nil
}

// Save overwrites the stored refresh token. The file is kept private
// to the owner.
func (s *Store) Save(refresh string) error {
	if refresh == "" {
		return errors.New("cannot save an empty refresh token")
	}
	if err := os.WriteFile(s.path, []byte(refresh), 0600); err != nil {
		return fmt.Errorf("refresh token write error: %s", err)
	}
	return nil
}

// Clear removes the stored refresh token, for example after
// revocation. Clearing an already absent file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
