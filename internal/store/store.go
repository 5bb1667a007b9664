package store

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/vidpeek/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// RefPrefix starts every object reference handed out by the store
const RefPrefix = "blob:vidpeek/"

var bucketObjects = []byte("objects")

// object is the stored form of a materialized resource
type object struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// ObjectStore hands out local references for in-memory resources, the way a
// browser hands out object URLs. Nothing outlives the session: the backing
// BoltDB and exported files live in a private directory that Close removes.
type ObjectStore struct {
	db  *bolt.DB
	dir string       // Session directory, created on first export in memory mode
	mu  sync.RWMutex // Protects memory cache and dir

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]object
}

// NewObjectStore opens a session store under baseDir.
// An empty baseDir keeps everything in memory.
func NewObjectStore(baseDir string) (*ObjectStore, error) {
	if baseDir == "" {
		return &ObjectStore{cache: make(map[string]object)}, nil
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp(baseDir, "session-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, "objects.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketObjects)
		return err
	})
	if err != nil {
		db.Close()
		os.RemoveAll(dir)
		return nil, err
	}

	return &ObjectStore{db: db, dir: dir, cache: make(map[string]object)}, nil
}

// Close releases the database and removes everything the session stored
func (s *ObjectStore) Close() error {
	s.mu.Lock()
	s.cache = make(map[string]object)
	dir := s.dir
	s.dir = ""
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
	}
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}

// Create stores data and returns a reference to it
func (s *ObjectStore) Create(data []byte, mimeType string) (string, error) {
	ref := RefPrefix + uuid.NewString()
	obj := object{MimeType: mimeType, Data: append([]byte(nil), data...)}

	if s.db != nil {
		encoded, err := json.Marshal(obj)
		if err != nil {
			return "", err
		}
		err = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketObjects).Put([]byte(ref), encoded)
		})
		if err != nil {
			return "", fmt.Errorf("failed to store object: %w", err)
		}
	}

	s.mu.Lock()
	s.cache[ref] = obj
	s.mu.Unlock()

	return ref, nil
}

// Open returns the data and mime type behind ref
func (s *ObjectStore) Open(ref string) ([]byte, string, error) {
	s.mu.RLock()
	if obj, ok := s.cache[ref]; ok {
		s.mu.RUnlock()
		return obj.Data, obj.MimeType, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, "", fmt.Errorf("%s: %w", ref, domain.ErrObjectNotFound)
	}

	var encoded []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketObjects).Get([]byte(ref)); v != nil {
			encoded = make([]byte, len(v))
			copy(encoded, v)
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object: %w", err)
	}
	if encoded == nil {
		return nil, "", fmt.Errorf("%s: %w", ref, domain.ErrObjectNotFound)
	}

	var obj object
	if err := json.Unmarshal(encoded, &obj); err != nil {
		return nil, "", fmt.Errorf("failed to decode object: %w", err)
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[ref] = obj
	s.mu.Unlock()

	return obj.Data, obj.MimeType, nil
}

// Revoke drops ref. Revoking an unknown ref is a no-op.
func (s *ObjectStore) Revoke(ref string) error {
	s.mu.Lock()
	delete(s.cache, ref)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketObjects).Delete([]byte(ref))
	})
	if err != nil {
		return fmt.Errorf("failed to revoke %s: %w", ref, err)
	}
	return nil
}

// Export writes the object behind ref to a new file in dir and returns its
// path. An empty dir means the session directory, removed by Close.
// External players need a file, not a reference.
func (s *ObjectStore) Export(ref, dir string) (string, error) {
	data, mimeType, err := s.Open(ref)
	if err != nil {
		return "", err
	}

	if dir == "" {
		if dir, err = s.sessionDir(); err != nil {
			return "", err
		}
	}

	f, err := os.CreateTemp(dir, "vidpeek-*"+extensionFor(mimeType))
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return f.Name(), nil
}

// sessionDir returns the session directory, creating a private one under the
// system temp dir on first use in memory mode
func (s *ObjectStore) sessionDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir != "" {
		return s.dir, nil
	}
	dir, err := os.MkdirTemp("", "vidpeek-session-*")
	if err != nil {
		return "", fmt.Errorf("failed to create session dir: %w", err)
	}
	s.dir = dir
	return dir, nil
}

// extensionFor picks a file extension for mimeType
func extensionFor(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "text/vtt":
		return ".vtt"
	case "":
		return ""
	}
	if exts, err := mime.ExtensionsByType(base); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
