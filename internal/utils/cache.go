package utils

import (
	"os"
	"sync"
	"time"
)

// stamp identifies one version of a file on disk
type stamp struct {
	modTime time.Time
	size    int64
}

func stampOf(info os.FileInfo) stamp {
	return stamp{modTime: info.ModTime(), size: info.Size()}
}

type cacheEntry[V any] struct {
	value V
	stamp stamp
}

// FileCache holds one value per file path and drops it as soon as the file
// changes size or modification time. It is safe for concurrent use.
type FileCache[V any] struct {
	items map[string]cacheEntry[V]
	mutex sync.RWMutex
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		items: make(map[string]cacheEntry[V]),
	}
}

// Get returns the value cached for path if the file is unchanged since it
// was stored. A stale or unreadable entry is evicted.
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mutex.RLock()
	entry, exists := c.items[path]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if info, err := os.Stat(path); err == nil && stampOf(info) == entry.stamp {
		return entry.value, true
	}

	c.Delete(path)
	return zero, false
}

// Set stores value for path, stamped with the file's current metadata
func (c *FileCache[V]) Set(path string, value V) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	c.store(path, value, info)
	return nil
}

func (c *FileCache[V]) store(path string, value V, info os.FileInfo) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[path] = cacheEntry[V]{value: value, stamp: stampOf(info)}
}

// Delete removes the entry for path
func (c *FileCache[V]) Delete(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, path)
}

// Clear removes all entries
func (c *FileCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items = make(map[string]cacheEntry[V])
}

// Size returns the number of entries
func (c *FileCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}
