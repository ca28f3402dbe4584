package config

import (
	"strings"
	"time"
)

// CacheConfig tunes the Redis response cache sitting in front of the
// public read endpoints (voting list, leaderboard, artist pages). Those
// routes back every page load of the voting site and their data only
// moves when votes land, so short TTLs shed most of the read traffic.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration
	KeyStrategy  string // which request parts form the cache key
	Prefix       string // key namespace in Redis
	MaxBodyBytes int    // responses larger than this are not cached
}

// LoadCacheConfig builds a CacheConfig from environment variables,
// falling back to defaults suited to leaderboard-style traffic.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
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
