package metadata

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
)

// bump when Document changes shape
const cacheSchemaVersion uint16 = 1

// Digest is the BLAKE3-256 hash of a model file's bytes.
type Digest [32]byte

func DigestOf(data []byte) Digest { return blake3.Sum256(data) }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Cache keeps decoded documents on disk so large JSON descriptions are
// parsed once. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema   uint16    `msgpack:"schema"`
	Document *Document `msgpack:"document"`
}

// OpenCache uses dir, creating it when needed.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// DefaultCacheDir is $XDG_CACHE_HOME/<app>/models, falling back to
// ~/.cache.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app, "models"), nil
}

func (c *Cache) Dir() string { return c.dir }

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, key.String()+".mp")
}

// Put stores doc under key. The file is written to a temporary name and
// renamed into place.
func (c *Cache) Put(key Digest, doc *Document) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(&cachePayload{Schema: cacheSchemaVersion, Document: doc}); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), c.pathFor(key))
}

// Get returns the document stored under key. Entries written with another
// schema version are misses.
func (c *Cache) Get(key Digest) (*Document, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != cacheSchemaVersion || payload.Document == nil {
		return nil, false, nil
	}
	return payload.Document, true, nil
}

// DropAll removes every cached entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
