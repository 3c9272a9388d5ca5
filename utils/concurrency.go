package utils

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/puzpuzpuz/xsync/v3"
)

type refMutex struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex serializes work per key. Unrelated keys never contend, and a key's
// mutex is dropped once nobody holds or waits for it.
type KeyedMutex struct {
	locks *xsync.MapOf[string, *refMutex]
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: xsync.NewMapOf[string, *refMutex]()}
}

// Lock blocks until key is free and returns the function that releases it.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	m, _ := k.locks.Compute(key, func(old *refMutex, loaded bool) (*refMutex, bool) {
		if !loaded {
			old = &refMutex{}
		}
		old.refs++
		return old, false
	})
	m.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Unlock()
			k.locks.Compute(key, func(old *refMutex, loaded bool) (*refMutex, bool) {
				if !loaded {
					return nil, true
				}
				old.refs--
				return old, old.refs <= 0
			})
		})
	}
}

// Len returns the number of keys currently held or waited on.
func (k *KeyedMutex) Len() int {
	return k.locks.Size()
}

// Cooldowns remembers when a key last acted and refuses a new action until the
// window has passed. Entries expire on their own once the window is over.
type Cooldowns struct {
	mu     sync.Mutex
	window time.Duration
	last   *cache.Cache
}

func NewCooldowns(window time.Duration) *Cooldowns {
	cleanup := 2 * window
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Cooldowns{
		window: window,
		last:   cache.New(window, cleanup),
	}
}

// Acquire stamps key with now when its cooldown is over and returns a restore
// function that undoes the stamp. When the key is still cooling down it returns
// ok=false and the remaining wait.
func (c *Cooldowns) Acquire(key string, now time.Time) (restore func(), remaining time.Duration, ok bool) {
	if c.window <= 0 {
		return func() {}, 0, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, found := c.last.Get(key)
	if found {
		elapsed := now.Sub(prev.(time.Time))
		if elapsed < c.window {
			return nil, c.window - elapsed, false
		}
	}

	c.last.Set(key, now, cache.DefaultExpiration)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.last.Get(key); !ok || !cur.(time.Time).Equal(now) {
			return
		}
		if found {
			c.last.Set(key, prev, cache.DefaultExpiration)
		} else {
			c.last.Delete(key)
		}
	}, 0, true
}

// Remaining returns how long key still has to wait, zero when it is free.
func (c *Cooldowns) Remaining(key string, now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, found := c.last.Get(key)
	if !found {
		return 0
	}
	if elapsed := now.Sub(prev.(time.Time)); elapsed < c.window {
		return c.window - elapsed
	}
	return 0
}
