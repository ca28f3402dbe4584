package config

import (
	"reflect"
	"testing"
	"time"
)

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"*", []string{"*"}},
		{"https://a.com,https://b.com", []string{"https://a.com", "https://b.com"}},
		{" https://a.com , ,https://b.com ", []string{"https://a.com", "https://b.com"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := splitOrigins(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitOrigins(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, head ,POST")
	for _, want := range []string{"GET", "HEAD", "POST"} {
		if !m[want] {
			t.Errorf("method %s missing from %v", want, m)
		}
	}
	if len(m) != 3 {
		t.Errorf("got %d methods, want 3", len(m))
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DUR", "90s")
	t.Setenv("TEST_BAD_INT", "nope")

	if got := envStr("TEST_STR", "d"); got != "value" {
		t.Errorf("envStr = %q", got)
	}
	if got := envStr("TEST_UNSET", "d"); got != "d" {
		t.Errorf("envStr default = %q", got)
	}
	if got := envInt("TEST_INT", 0); got != 42 {
		t.Errorf("envInt = %d", got)
	}
	if got := envInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("envInt on garbage = %d, want default", got)
	}
	if !envBool("TEST_BOOL", false) {
		t.Error("envBool did not parse true")
	}
	if got := envDur("TEST_DUR", time.Second); got != 90*time.Second {
		t.Errorf("envDur = %v", got)
	}
}

func TestLoadRateLimitConfigClampsTTL(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	if cfg.TTL < 5*time.Minute {
		t.Errorf("TTL = %v, want at least 5x the refill interval", cfg.TTL)
	}
}
