//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mohae/deepcopy"

	"github.com/stackport/ownerengine/pkg/core/model"
)

type cacheEntry struct {
	snapshot   *model.OwnershipSnapshot
	computedAt time.Time
}

// resolutionCache holds computed ownership snapshots keyed by user and
// application set, bounded by a freshness TTL. Entries are evicted lazily
// when a lookup finds them expired and eagerly on invalidation.
//
// The clock is injectable so freshness boundaries can be tested without
// sleeping.
type resolutionCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

func newResolutionCache(enabled bool, ttl time.Duration, now func() time.Time) *resolutionCache {
	if now == nil {
		now = time.Now
	}
	return &resolutionCache{
		entries: map[string]cacheEntry{},
		ttl:     ttl,
		enabled: enabled,
		now:     now,
	}
}

// get returns a copy of the cached snapshot when the entry is still fresh.
// An entry older than the TTL is evicted and reported absent.
func (c *resolutionCache) get(key string) (*model.OwnershipSnapshot, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.computedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	return cloneSnapshot(entry.snapshot), true
}

// put stores a copy of the snapshot, stamped with the current time. Copies
// flow in both directions so neither the caller nor the cache can mutate
// the other's view.
func (c *resolutionCache) put(key string, snapshot *model.OwnershipSnapshot) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		snapshot:   cloneSnapshot(snapshot),
		computedAt: c.now(),
	}
}

// invalidate evicts every entry whose key contains ref. The empty string is
// contained in every key, so it clears the cache entirely.
func (c *resolutionCache) invalidate(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.Contains(key, ref) {
			delete(c.entries, key)
		}
	}
}

func (c *resolutionCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func cloneSnapshot(snapshot *model.OwnershipSnapshot) *model.OwnershipSnapshot {
	return deepcopy.Copy(snapshot).(*model.OwnershipSnapshot)
}

// cacheKey derives the cache key for a user and application set. The user
// reference is kept verbatim so invalidation can match on it; the
// application names are order-insensitively digested.
func cacheKey(userRef string, applications []*model.Application) string {
	names := make([]string, 0, len(applications))
	seen := map[string]struct{}{}

	for _, application := range applications {
		if _, ok := seen[application.Name]; ok {
			continue
		}
		seen[application.Name] = struct{}{}
		names = append(names, application.Name)
	}

	sort.Strings(names)

	digest := sha256.New()
	for _, name := range names {
		digest.Write([]byte(name))
		digest.Write([]byte{0})
	}

	return fmt.Sprintf("%s|%x", userRef, digest.Sum(nil))
}
