package basis

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Cache memoizes Bezier power matrices, keyed by degree. A Cache is safe for
// concurrent use. Matrices handed out are copies, so entries are never
// modified after they have been computed.
//
// The zero value is not usable; create caches with NewCache.
type Cache struct {
	mu    sync.RWMutex
	power map[int]*mat.Dense
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		power: make(map[int]*mat.Dense),
	}
}

// PowerMatrix returns the Bezier-to-power-basis matrix of degree p, see
// function PowerMatrix. A nil cache computes the matrix without memoizing it.
func (c *Cache) PowerMatrix(p int) *mat.Dense {
	if c == nil {
		return PowerMatrix(p)
	}
	c.mu.RLock()
	M, ok := c.power[p]
	c.mu.RUnlock()
	if !ok {
		M = PowerMatrix(p)
		c.mu.Lock()
		if prev, found := c.power[p]; found {
			M = prev
		} else {
			tracer().Debugf("caching power matrix for degree %d", p)
			c.power[p] = M
		}
		c.mu.Unlock()
	}
	return mat.DenseCopyOf(M)
}

// Len returns the number of cached matrices.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.power)
}
