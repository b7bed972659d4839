package engine

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
)

var (
	// ErrStaleCache means the cache does not belong to the current image.
	ErrStaleCache = errors.New("pixel cache is stale for the current image")

	// ErrNoImage means no image has been loaded yet.
	ErrNoImage = errors.New("no image loaded")
)

// Options configures a Coordinator. Zero values fall back to defaults.
type Options struct {
	CacheChunk    int
	QuantizeChunk int
	Progress      ProgressFunc
	Logger        Logger
}

// Build is the handle of one cache build. Every caller that asked for the
// same epoch while it was running holds the same *Build.
type Build struct {
	epoch uint64
	done  chan struct{}
	cache *PixelCache
	err   error
}

// Epoch is the image epoch the build was started for.
func (b *Build) Epoch() uint64 {
	return b.epoch
}

// Done is closed once the build has completed or aborted.
func (b *Build) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the build resolves or ctx ends. A superseded build
// returns ErrBuildAborted.
func (b *Build) Wait(ctx context.Context) (*PixelCache, error) {
	select {
	case <-b.done:
		return b.cache, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Coordinator owns the current image, its epoch and its pixel cache.
//
// The epoch is advanced on every LoadNewImage. A cache is usable only when
// the build that produced it was started for the current epoch and ran to
// completion.
type Coordinator struct {
	opts    Options
	current atomic.Uint64

	mu         sync.Mutex
	img        image.Image
	identity   string
	buildEpoch uint64
	inflight   *Build
	cache      *PixelCache
	started    int
}

// NewCoordinator returns a Coordinator with no image loaded.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.CacheChunk <= 0 {
		opts.CacheChunk = DefaultCacheChunk
	}
	if opts.QuantizeChunk <= 0 {
		opts.QuantizeChunk = DefaultQuantizeChunk
	}
	return &Coordinator{opts: opts}
}

// LoadNewImage makes img the current image and returns the new epoch.
//
// A build still running for the previous image is not interrupted; it
// notices the new epoch at its next chunk boundary and discards its work.
func (c *Coordinator) LoadNewImage(img image.Image, identity string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.img = img
	c.identity = identity
	c.cache = nil
	epoch := c.current.Add(1)
	c.opts.Logger.Printf("image %s loaded as epoch %d", identity, epoch)
	return epoch
}

// Epoch returns the current image epoch.
func (c *Coordinator) Epoch() uint64 {
	return c.current.Load()
}

// Identity returns the identity passed with the current image.
func (c *Coordinator) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Image returns the current image, or nil.
func (c *Coordinator) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img
}

// RequestBuild returns the build for the current image.
//
// A build already running for the current epoch is shared. A build running
// for a superseded epoch is allowed to wind down first so that at most one
// build runs at a time. If the current cache is already usable the returned
// handle is resolved.
func (c *Coordinator) RequestBuild(ctx context.Context) (*Build, error) {
	for {
		c.mu.Lock()
		if c.img == nil {
			c.mu.Unlock()
			return nil, ErrNoImage
		}
		epoch := c.current.Load()

		if b := c.inflight; b != nil {
			if b.epoch == epoch {
				c.mu.Unlock()
				return b, nil
			}
			c.mu.Unlock()
			select {
			case <-b.done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if c.usableLocked() {
			b := &Build{epoch: epoch, done: make(chan struct{}), cache: c.cache}
			close(b.done)
			c.mu.Unlock()
			return b, nil
		}

		b := &Build{epoch: epoch, done: make(chan struct{})}
		c.inflight = b
		c.buildEpoch = epoch
		c.started++
		img := c.img
		c.mu.Unlock()

		go c.run(b, img)
		return b, nil
	}
}

func (c *Coordinator) run(b *Build, img image.Image) {
	cache, err := BuildCache(img, b.epoch, BuildOptions{
		ChunkSize: c.opts.CacheChunk,
		Progress:  c.opts.Progress,
		Current:   c.current.Load,
	})

	c.mu.Lock()
	// LoadNewImage may have run between the last check and the lock.
	if err == nil && b.epoch != c.current.Load() {
		cache, err = nil, ErrBuildAborted
	}
	switch {
	case err == nil:
		c.cache = cache
		c.opts.Logger.Printf("pixel cache for epoch %d ready (%dx%d)", b.epoch, cache.Width, cache.Height)
	case errors.Is(err, ErrBuildAborted):
		c.opts.Logger.Printf("discarded stale pixel cache build for epoch %d (current %d)", b.epoch, c.current.Load())
	default:
		c.opts.Logger.Printf("pixel cache build for epoch %d failed: %v", b.epoch, err)
	}
	b.cache, b.err = cache, err
	close(b.done)
	c.inflight = nil
	c.mu.Unlock()
}

// IsCacheUsable reports whether a completed cache exists for the current
// image.
func (c *Coordinator) IsCacheUsable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usableLocked()
}

func (c *Coordinator) usableLocked() bool {
	epoch := c.current.Load()
	return c.cache != nil && c.buildEpoch == epoch && c.cache.Epoch == epoch
}

// Current returns the usable cache without building. It fails with
// ErrStaleCache when the cache is missing or belongs to an older image.
func (c *Coordinator) Current() (*PixelCache, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.img == nil {
		return nil, ErrNoImage
	}
	if !c.usableLocked() {
		return nil, ErrStaleCache
	}
	return c.cache, nil
}

// Acquire returns the usable cache, requesting a build and waiting for it
// when needed. Builds aborted by a newer image are retried for that image.
func (c *Coordinator) Acquire(ctx context.Context) (*PixelCache, error) {
	for {
		cache, err := c.Current()
		if err == nil {
			return cache, nil
		}
		if !errors.Is(err, ErrStaleCache) {
			return nil, err
		}

		b, err := c.RequestBuild(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := b.Wait(ctx); err != nil && !errors.Is(err, ErrBuildAborted) {
			return nil, err
		}
	}
}
