// Package assets locates and caches model and texture files across
// configured search roots.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manager resolves relative asset paths against a list of root
// directories. Roots are searched in reverse order (last added =
// highest priority), so a user-supplied root can shadow bundled data.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a directory to the search path.
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("asset root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset root %s is not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()

	return nil
}

// Resolve returns the absolute path of the first root containing the
// relative path. Absolute inputs are returned unchanged when they
// exist.
func (m *Manager) Resolve(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		if _, err := os.Stat(relPath); err != nil {
			return "", fmt.Errorf("asset not found: %s", relPath)
		}
		return relPath, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		full := filepath.Join(m.roots[i], relPath)
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}
	}

	return "", fmt.Errorf("asset not found: %s", relPath)
}

// Load reads an asset's bytes, consulting the cache first.
func (m *Manager) Load(relPath string) ([]byte, error) {
	if data, ok := m.cache.Get(relPath); ok {
		return data, nil
	}

	full, err := m.Resolve(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading asset %s: %w", relPath, err)
	}

	m.cache.Set(relPath, data)
	return data, nil
}

// Close clears the cache and forgets the search roots.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.data[key]
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
}
