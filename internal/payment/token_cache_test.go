package payment

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenCacheReusesUnexpiredToken(t *testing.T) {
	calls := 0
	tc := newTokenCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		return "tok", time.Now().Add(time.Hour), nil
	})
	for i := 0; i < 5; i++ {
		tok, err := tc.Get(context.Background())
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if tok != "tok" {
			t.Fatalf("token = %q", tok)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestTokenCacheRefreshesNearExpiry(t *testing.T) {
	calls := 0
	tc := newTokenCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		// Inside the 30s safety margin, so every Get refetches.
		return "tok", time.Now().Add(10 * time.Second), nil
	})
	_, _ = tc.Get(context.Background())
	_, _ = tc.Get(context.Background())
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2", calls)
	}
}

func TestTokenCachePropagatesFetchError(t *testing.T) {
	wantErr := errors.New("auth down")
	tc := newTokenCache(func(ctx context.Context) (string, time.Time, error) {
		return "", time.Time{}, wantErr
	})
	if _, err := tc.Get(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
