package payment

import (
	"context"
	"sync"
	"time"
)

// tokenCache holds a vendor bearer token together with its expiry and
// refreshes it lazily through the injected fetch function. Refreshing is
// idempotent at the vendor, so the cache only needs a mutex around the
// value, not single-flight semantics.
type tokenCache struct {
	mu      sync.Mutex
	token   string
	expires time.Time
	fetch   func(ctx context.Context) (token string, expires time.Time, err error)
}

func newTokenCache(fetch func(ctx context.Context) (string, time.Time, error)) *tokenCache {
	return &tokenCache{fetch: fetch}
}

// Get returns the cached token, fetching a fresh one when absent or
// expired. A small safety margin avoids handing out tokens that expire
// mid-request.
func (tc *tokenCache) Get(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.token != "" && time.Now().Add(30*time.Second).Before(tc.expires) {
		return tc.token, nil
	}
	token, expires, err := tc.fetch(ctx)
	if err != nil {
		return "", err
	}
	tc.token = token
	tc.expires = expires
	return token, nil
}
