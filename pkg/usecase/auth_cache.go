package usecase

import (
	"sync"
	"time"
)

// revocationList remembers logged-out token IDs until the token itself
// would have expired.
type revocationList struct {
	entries sync.Map
}

func newRevocationList() *revocationList {
	return &revocationList{}
}

func (c *revocationList) revoke(tokenID string, until time.Time) {
	if tokenID == "" {
		return
	}
	c.entries.Store(tokenID, until)
	c.sweep(time.Now())
}

func (c *revocationList) isRevoked(tokenID string) bool {
	val, ok := c.entries.Load(tokenID)
	if !ok {
		return false
	}

	if time.Now().After(val.(time.Time)) {
		c.entries.Delete(tokenID)
		return false
	}
	return true
}

func (c *revocationList) sweep(now time.Time) {
	c.entries.Range(func(key, val any) bool {
		if now.After(val.(time.Time)) {
			c.entries.Delete(key)
		}
		return true
	})
}
