package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is the durable key/value medium behind a Store.
type Backend interface {
	Load() (map[string]string, error)
	Save(values map[string]string) error
}

// FilePersistence keeps the whole session as one JSON document on disk.
type FilePersistence struct {
	path string
	mu   sync.Mutex
}

const fileName = "session.json"

// NewFilePersistence ensures dataDir exists and returns a backend writing to
// dataDir/session.json.
func NewFilePersistence(dataDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	return &FilePersistence{path: filepath.Join(dataDir, fileName)}, nil
}

func (p *FilePersistence) Path() string { return p.path }

// Load returns the stored values. A missing file is an empty session.
func (p *FilePersistence) Load() (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	content, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("failed to decode session file %s: %w", p.path, err)
	}
	return values, nil
}

// Save writes values to a temp file and renames it over the session file, so
// a crash leaves either the old or the new session, never a torn one.
func (p *FilePersistence) Save(values map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	bytes, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tempPath := p.path + ".tmp"
	if err := os.WriteFile(tempPath, bytes, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tempPath, p.path)
}
