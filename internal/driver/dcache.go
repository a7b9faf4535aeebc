package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache keeps generated IR on disk, keyed by document content and the
// generation options. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached generation result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16
	// Key is stored again so a renamed file cannot serve the wrong entry.
	Key uint64
	IR  string
}

// CacheKey hashes a document and the option strings that affect its IR.
func CacheKey(data []byte, options ...string) uint64 {
	d := xxhash.New()
	_, _ = d.Write(data)
	for _, o := range options {
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(o)
	}
	return d.Sum64()
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app>/ir.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app, "ir"))
}

// NewDiskCache opens a cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key uint64) string {
	return filepath.Join(c.dir, strconv.FormatUint(key, 16)+".mp")
}

// Put writes the IR for key, replacing any previous entry atomically.
func (c *DiskCache) Put(key uint64, ir string) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(&DiskPayload{Schema: diskCacheSchemaVersion, Key: key, IR: ir}); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	err = os.Rename(tmp, c.pathFor(key))
	return err
}

// Get returns the cached IR for key. Entries written by another schema or
// that fail to decode count as misses.
func (c *DiskCache) Get(key uint64) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	defer f.Close()
	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return "", false, nil
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Key != key {
		return "", false, nil
	}
	return payload.IR, true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return fmt.Errorf("failed to drop cache: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
