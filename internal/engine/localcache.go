package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileCache is a LocalCache backed by an in-memory map with optional
// write-through to a single JSON file. Operations are synchronous by design:
// a completed exercise must be durable locally before any network write is
// attempted.
type FileCache struct {
	mu   sync.Mutex
	path string // empty for memory-only
	data map[string]json.RawMessage
}

// NewMemoryCache returns a cache without file persistence, used by tests and
// by embedders that manage durability themselves.
func NewMemoryCache() *FileCache {
	return &FileCache{data: make(map[string]json.RawMessage)}
}

// NewFileCache loads the cache file if it exists and writes every mutation
// back to it. A corrupt or missing file yields an empty cache rather than an
// error; the cache is a fallback tier, not a source of truth worth failing on.
func NewFileCache(path string) (*FileCache, error) {
	c := &FileCache{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(raw, &c.data); err != nil {
			c.data = make(map[string]json.RawMessage)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return c, nil
}

func (c *FileCache) Get(key string, v interface{}) (bool, error) {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (c *FileCache) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return c.flushLocked()
}

func (c *FileCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return c.flushLocked()
}

func (c *FileCache) flushLocked() error {
	if c.path == "" {
		return nil
	}

	raw, err := json.Marshal(c.data)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
