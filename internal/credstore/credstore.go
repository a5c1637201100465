// Package credstore caches provider credentials between runs as small JSON
// files under the base config directory.
package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaegashi/jupyterops/internal/logging"
)

// ProviderKey names a cached credential set.
type ProviderKey string

const (
	DO  ProviderKey = "DO"
	AWS ProviderKey = "AWS"
)

// Filename returns the cache file name for key.
func (k ProviderKey) Filename() string {
	if k == DO {
		return "do.json"
	}
	return "aws.json"
}

// Fields is one provider's credential set, e.g. {"token": "..."} for DO or
// {"keyId": "...", "key": "..."} for AWS.
type Fields map[string]string

// Empty reports whether no credential is present.
func (f Fields) Empty() bool {
	for _, v := range f {
		if v != "" {
			return false
		}
	}
	return true
}

// Snapshot is the cache content loaded at start-up.
type Snapshot struct {
	DO  Fields
	AWS Fields
}

// For returns the fields cached for key.
func (s Snapshot) For(key ProviderKey) Fields {
	if key == DO {
		return s.DO
	}
	return s.AWS
}

// Store reads and writes the cache files in Dir.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Load reads every cache file. Missing or unreadable files yield empty
// fields; Load never fails.
func (s *Store) Load(ctx context.Context) Snapshot {
	return Snapshot{DO: s.load(ctx, DO), AWS: s.load(ctx, AWS)}
}

func (s *Store) load(ctx context.Context, key ProviderKey) Fields {
	path := filepath.Join(s.Dir, key.Filename())
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.FromContext(ctx).Warn(ctx, "cannot read credential cache", "path", path, "error", err.Error())
		}
		return Fields{}
	}
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		logging.FromContext(ctx).Warn(ctx, "ignoring malformed credential cache", "path", path, "error", err.Error())
		return Fields{}
	}
	if f == nil {
		f = Fields{}
	}
	return f
}

// Save writes fields for key, replacing the previous content. Failures are
// logged and otherwise ignored.
func (s *Store) Save(ctx context.Context, key ProviderKey, fields Fields) {
	data, err := json.Marshal(fields)
	if err == nil {
		err = WriteFile(s.Dir, key.Filename(), data, 0o600)
	}
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "cannot save credentials", "provider", string(key), "error", err.Error())
	}
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title string) (bool, error)
}

// ReusePrompt is the question asked before reusing cached credentials.
const ReusePrompt = "Would you like to use the same credentials as your last run?"

// ShouldReuse asks whether cached credentials should be reused. With nothing
// cached it returns false without asking.
func ShouldReuse(ctx context.Context, c Confirmer, cached Fields) (bool, error) {
	if cached.Empty() {
		return false, nil
	}
	return c.Confirm(ctx, ReusePrompt)
}

// WriteFile creates dir if needed and writes name inside it.
func WriteFile(dir, name string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
