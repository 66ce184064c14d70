package store

import (
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// media refs stored in entries point into the cache instead of
// embedding the blob in the database.
const mediaScheme = "media://"

// MediaCache holds uploaded media blobs on disk, outside the database.
type MediaCache struct {
	dv *diskv.Diskv
}

// NewMediaCache creates a cache rooted at dir.
func NewMediaCache(dir string) *MediaCache {
	return &MediaCache{
		dv: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return nil },
			CacheSizeMax: 8 * 1024 * 1024,
		}),
	}
}

// Put stores the blob under id and returns the media reference to keep
// in the entry.
func (c *MediaCache) Put(id string, data []byte) (string, error) {
	if err := c.dv.Write(id, data); err != nil {
		return "", fmt.Errorf("cache media %s: %w", id, err)
	}
	return mediaScheme + id, nil
}

// Get resolves a media reference back to the blob.
func (c *MediaCache) Get(ref string) ([]byte, error) {
	id, ok := strings.CutPrefix(ref, mediaScheme)
	if !ok {
		return nil, fmt.Errorf("not a media reference: %q", ref)
	}
	data, err := c.dv.Read(id)
	if err != nil {
		return nil, fmt.Errorf("read media %s: %w", id, err)
	}
	return data, nil
}

// Delete removes the blob behind a media reference. Non-media refs are
// a no-op.
func (c *MediaCache) Delete(ref string) error {
	id, ok := strings.CutPrefix(ref, mediaScheme)
	if !ok {
		return nil
	}
	return c.dv.Erase(id)
}

// IsMediaRef reports whether ref points into the cache.
func IsMediaRef(ref string) bool {
	return strings.HasPrefix(ref, mediaScheme)
}
