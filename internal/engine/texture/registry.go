package texture

import (
	"errors"
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Handle identifies an uploaded texture. Zero means no texture.
type Handle uint32

// Registry is an in-memory texture store for headless use. It hands out
// sequential handles starting at 1.
type Registry struct {
	mu     sync.Mutex
	next   Handle
	images map[Handle]*image.RGBA
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{images: make(map[Handle]*image.RGBA)}
}

// Upload stores img and returns its handle.
func (r *Registry) Upload(img *image.RGBA) (Handle, error) {
	if img == nil {
		return 0, errors.New("nil image")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.images[r.next] = img
	return r.next, nil
}

// Image returns the image stored under h.
func (r *Registry) Image(h Handle) (*image.RGBA, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[h]
	return img, ok
}

// Release forgets h.
func (r *Registry) Release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, h)
}

// Len returns the number of live textures.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.images)
}

// Cache maps resolved texture paths to uploaded handles. Evicted and purged
// handles are passed to release when it is non-nil. With a nil release the
// cache is only a lookup index and the owner frees handles itself, which is
// how assets.Manager uses it.
type Cache struct {
	lru *lru.Cache[string, Handle]
}

// NewCache creates a cache holding up to size handles.
func NewCache(size int, release func(Handle)) (*Cache, error) {
	c, err := lru.NewWithEvict[string, Handle](size, func(_ string, h Handle) {
		if release != nil {
			release(h)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Get returns the handle cached for path.
func (c *Cache) Get(path string) (Handle, bool) {
	return c.lru.Get(path)
}

// Add caches h under path, possibly evicting the least recently used entry.
func (c *Cache) Add(path string, h Handle) {
	c.lru.Add(path, h)
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache, passing every handle to release.
func (c *Cache) Purge() {
	c.lru.Purge()
}
