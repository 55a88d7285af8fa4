package presence

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	userKeyPrefix = "user:"
	connKeyPrefix = "conn:"
)

// IdentityCache is the process-local fast path for identity resolution.
// It holds the userID/connectionID mapping in both directions and is never
// authoritative: a miss always falls through to the directory. Entries are
// time-boxed so the cache cannot grow without bound across many users.
type IdentityCache struct {
	store *gocache.Cache
}

func NewIdentityCache(ttl time.Duration) *IdentityCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &IdentityCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Set records the mapping in both directions. If the user previously had a
// different connection, the old reverse entry is dropped so stale
// connection ids cannot resolve back to the user.
func (c *IdentityCache) Set(userID, connectionID string) {
	if prev, found := c.store.Get(userKeyPrefix + userID); found {
		if prevConn, ok := prev.(string); ok && prevConn != connectionID {
			c.store.Delete(connKeyPrefix + prevConn)
		}
	}
	c.store.SetDefault(userKeyPrefix+userID, connectionID)
	c.store.SetDefault(connKeyPrefix+connectionID, userID)
}

// Get resolves a user to their cached connection id.
func (c *IdentityCache) Get(userID string) (string, bool) {
	v, found := c.store.Get(userKeyPrefix + userID)
	if !found {
		return "", false
	}
	connID, ok := v.(string)
	return connID, ok
}

// GetUserID resolves a connection id back to its cached user.
func (c *IdentityCache) GetUserID(connectionID string) (string, bool) {
	v, found := c.store.Get(connKeyPrefix + connectionID)
	if !found {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok
}

// DeleteUser removes the user's entry and its reverse mapping.
func (c *IdentityCache) DeleteUser(userID string) {
	if connID, found := c.Get(userID); found {
		c.store.Delete(connKeyPrefix + connID)
	}
	c.store.Delete(userKeyPrefix + userID)
}

// DeleteConnection removes the connection's entry and its reverse mapping.
func (c *IdentityCache) DeleteConnection(connectionID string) {
	if userID, found := c.GetUserID(connectionID); found {
		c.store.Delete(userKeyPrefix + userID)
	}
	c.store.Delete(connKeyPrefix + connectionID)
}

// Len reports the number of live entries, counting both directions.
func (c *IdentityCache) Len() int {
	return c.store.ItemCount()
}
