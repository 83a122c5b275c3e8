package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
)

// FrameCache provides thread-safe caching of decoded frames loaded from disk.
//
// The CLI and the stdio service address frames by file path; decoding the
// same frame for a detect call and a follow-up verify call would double the
// I/O, so decoded images are kept keyed by their exact path string. The cache
// is safe for concurrent use.
//
// Cached frames stay resident until Evict or Clear; long-running services
// should clear between sessions to bound memory.
type FrameCache struct {
	mu     sync.RWMutex
	frames map[string]image.Image
}

// NewFrameCache creates an empty frame cache ready for use.
func NewFrameCache() *FrameCache {
	return &FrameCache{frames: make(map[string]image.Image)}
}

// Load returns the decoded frame for path, reading from disk on a miss.
//
// Supported formats are PNG, JPEG and GIF. The frame is cached under the
// exact path string provided; relative and absolute paths to the same file
// produce separate entries.
func (c *FrameCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.frames[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	c.mu.Lock()
	c.frames[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes a single frame from the cache. Unknown paths are a no-op.
func (c *FrameCache) Evict(path string) {
	c.mu.Lock()
	delete(c.frames, path)
	c.mu.Unlock()
}

// Clear drops all cached frames, freeing the associated memory.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	c.frames = make(map[string]image.Image)
	c.mu.Unlock()
}
