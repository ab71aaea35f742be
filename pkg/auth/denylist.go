package auth

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Denylist remembers revoked token IDs until the tokens would have expired anyway.
type Denylist struct {
	entries *cache.Cache
	now     func() time.Time
}

func NewDenylist(cleanupInterval time.Duration) *Denylist {
	return &Denylist{
		entries: cache.New(cache.NoExpiration, cleanupInterval),
		now:     time.Now,
	}
}

// Revoke marks the token ID as unusable until expiresAt.
func (d *Denylist) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return
	}
	d.entries.Set(tokenID, struct{}{}, ttl)
}

func (d *Denylist) IsRevoked(tokenID string) bool {
	_, found := d.entries.Get(tokenID)
	return found
}
