package projtree

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const cacheTTL = 5 * time.Minute

type cachedResult struct {
	result   Result
	cachedAt time.Time
}

// Cache memoizes tree builds per option set. Entries expire after the TTL or
// as soon as fsnotify reports a change under the project root, whichever
// comes first. The cache is owned by the caller; the tree builder itself
// stays a pure computation.
type Cache struct {
	root string

	mu      sync.RWMutex
	entries map[string]cachedResult

	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewCache(root string) *Cache {
	c := &Cache{
		root:    root,
		entries: map[string]cachedResult{},
		done:    make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("projtree level=warn event=watch_unavailable error=%v", err)
		return c
	}
	if err := watcher.Add(root); err != nil {
		log.Printf("projtree level=warn event=watch_add_failed root=%s error=%v", root, err)
		_ = watcher.Close()
		return c
	}

	c.watcher = watcher
	go c.watchLoop()
	return c
}

// Get returns a cached result or builds a fresh one.
func (c *Cache) Get(opts Options) (Result, error) {
	key := cacheKey(opts)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.cachedAt) < cacheTTL {
		log.Printf("projtree level=info event=cache_hit key=%s", key)
		return entry.result, nil
	}

	result, err := Build(c.root, opts)
	if err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	c.entries[key] = cachedResult{result: result, cachedAt: time.Now()}
	c.mu.Unlock()
	return result, nil
}

// Invalidate drops every cached tree.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = map[string]cachedResult{}
	c.mu.Unlock()
}

// Close stops the filesystem watcher.
func (c *Cache) Close() {
	close(c.done)
	if c.watcher != nil {
		_ = c.watcher.Close()
	}
}

func (c *Cache) watchLoop() {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			log.Printf("projtree level=info event=cache_invalidated trigger=%s", event.Op)
			c.Invalidate()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("projtree level=warn event=watch_error error=%v", err)
		}
	}
}

func cacheKey(opts Options) string {
	return fmt.Sprintf("stats=%t_filter=%s", opts.IncludeStats, opts.FilterExt)
}
