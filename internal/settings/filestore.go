package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// FileName is the default file holding the settings envelope.
const FileName = "settings.json"

type envelope struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
	SameSite  string    `json:"same_site"`
}

// FileStore keeps the blob in a JSON envelope on disk.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// DefaultPath returns <user config dir>/pwgen/<profile>.json, falling back
// to FileName in the working directory when no config dir is known.
func DefaultPath(profile string) string {
	name := FileName
	if profile != "" {
		name = profile + ".json"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "pwgen", name)
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load implements Store. An unreadable envelope is reported as ErrCorrupt.
func (f *FileStore) Load(ctx context.Context) (string, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading settings file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if !env.ExpiresAt.IsZero() && !f.now().Before(env.ExpiresAt) {
		if err := f.Clear(ctx); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return env.Value, true, nil
}

// Save implements Store. The file is replaced atomically.
func (f *FileStore) Save(ctx context.Context, blob string, opts StoreOptions) error {
	env := envelope{Value: blob, SameSite: SameSiteName(opts.SameSite)}
	if opts.TTL > 0 {
		env.ExpiresAt = f.now().Add(opts.TTL).UTC()
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding settings envelope: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing settings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}

// Clear implements Store.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing settings file: %w", err)
	}
	return nil
}

// SameSiteName returns the lowercase cookie attribute name of s.
func SameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteLaxMode:
		return "lax"
	case http.SameSiteNoneMode:
		return "none"
	default:
		return "default"
	}
}
