package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	minCacheSizeMB = 1
	defaultTTL     = time.Hour
)

// ChatCache keeps AI chat answers for identical prompts so repeated
// questions do not reach the model again.
type ChatCache struct {
	cache     *freecache.Cache
	expireSec int
}

// NewChatCache allocates sizeMB megabytes up front. A non-positive ttl
// falls back to one hour.
func NewChatCache(sizeMB int, ttl time.Duration) *ChatCache {
	if sizeMB < minCacheSizeMB {
		sizeMB = minCacheSizeMB
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	expire := int(ttl / time.Second)
	if expire < 1 {
		expire = 1
	}
	return &ChatCache{
		cache:     freecache.NewCache(sizeMB * 1024 * 1024),
		expireSec: expire,
	}
}

// Key hashes the prompt. Only surrounding whitespace is ignored.
func Key(prompt string) []byte {
	sum := sha256.Sum256([]byte(strings.TrimSpace(prompt)))
	return []byte("chat:" + hex.EncodeToString(sum[:]))
}

// Get returns the cached answer and whether it was found.
func (c *ChatCache) Get(prompt string) (string, bool) {
	val, err := c.cache.Get(Key(prompt))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Warnf("chat cache get: %s", err)
		}
		return "", false
	}
	return string(val), true
}

// Set stores the answer. Values larger than the cache allows are skipped.
func (c *ChatCache) Set(prompt, answer string) {
	if err := c.cache.Set(Key(prompt), []byte(answer), c.expireSec); err != nil {
		log.Warnf("chat cache set: %s", err)
	}
}

// EntryCount is the number of cached answers.
func (c *ChatCache) EntryCount() int64 {
	return c.cache.EntryCount()
}

// Clear drops every cached answer.
func (c *ChatCache) Clear() {
	c.cache.Clear()
}
