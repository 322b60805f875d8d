package annotate

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrCacheMiss is returned by a Store when no cached response exists.
var ErrCacheMiss = errors.New("no cached response")

// Store persists the last raw analysis response between sessions.
type Store interface {
	Load() (string, error)
	Save(raw string) error
	Clear() error
}

// FileStore keeps the cached response in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a Store writing to dir/morphology_last_response.json.
// An empty dir uses the OS user cache directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "nakdan")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, "morphology_last_response.json")}, nil
}

func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return string(data), nil
}

func (s *FileStore) Save(raw string) error {
	return os.WriteFile(s.path, []byte(raw), 0o644)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
