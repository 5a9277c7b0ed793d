package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response-cache middleware applied to
// catalog and seating read endpoints.  Caching is disabled when
// Enabled is false or no Redis client could be constructed.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration
	Prefix       string // key namespace; also used for invalidation scans
	MaxBodyBytes int    // responses larger than this are not cached
}

// LoadCacheConfig builds a CacheConfig from the environment with
// defaults suitable for short-lived read caching.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
