// Package tokens persists the merchant's Square OAuth credentials.
//
// Credentials follow a hybrid model: environment variables win when set
// (production deployments), otherwise a local JSON file is used (local
// development). The file is rewritten after every successful OAuth
// exchange so a restart picks up the latest grant.
package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/smoothbar/studio-backend/pkg/logging"
)

// Credentials holds the merchant tokens returned by the OAuth exchange.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	MerchantID   string    `json:"merchant_id"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Connected reports whether an access token is available.
func (c Credentials) Connected() bool {
	return c.AccessToken != ""
}

// Store is a file-backed credential store with env-var override.
type Store struct {
	mu     sync.RWMutex
	path   string
	creds  Credentials
	logger *logging.Logger
}

// Options carries env-sourced credentials that take precedence over the file.
type Options struct {
	AccessToken  string
	RefreshToken string
	MerchantID   string
}

// NewStore loads credentials from opts first, then the file at path.
// A missing file is not an error; the store simply starts disconnected.
func NewStore(path string, opts Options, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Store{path: path, logger: logger}

	fileCreds, err := readFile(path)
	if err != nil {
		return nil, err
	}

	s.creds = fileCreds
	if opts.AccessToken != "" {
		s.creds.AccessToken = opts.AccessToken
	}
	if opts.RefreshToken != "" {
		s.creds.RefreshToken = opts.RefreshToken
	}
	if opts.MerchantID != "" {
		s.creds.MerchantID = opts.MerchantID
	}

	source := "none"
	switch {
	case opts.AccessToken != "":
		source = "environment"
	case fileCreds.AccessToken != "":
		source = "file"
	}
	logger.Info("token store initialized", "path", path, "connected", s.creds.Connected(), "source", source)

	return s, nil
}

func readFile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("tokens: read %s: %w", path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("tokens: parse %s: %w", path, err)
	}
	return creds, nil
}

// Get returns the current credentials.
func (s *Store) Get() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Save updates the in-memory credentials and rewrites the token file
// atomically (temp file + rename, 0600).
func (s *Store) Save(creds Credentials) error {
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("tokens: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tokens-*.tmp")
	if err != nil {
		return fmt.Errorf("tokens: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tokens: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokens: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("tokens: chmod: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("tokens: rename: %w", err)
	}

	s.creds = creds
	s.logger.Info("tokens saved", "path", s.path, "merchant_id", creds.MerchantID)
	return nil
}
