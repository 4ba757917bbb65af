package geo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeProvider struct {
	name string
	code string
	err  error

	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Lookup(_ context.Context, _ string) (string, error) {
	p.calls++
	return p.code, p.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	return nil
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"valid uppercase", "IN", "IN"},
		{"valid lowercase", "us", "US"},
		{"surrounding whitespace", " de ", "DE"},
		{"empty", "", ""},
		{"too long", "IND", ""},
		{"too short", "I", ""},
		{"digits", "12", ""},
		{"mixed alnum", "I1", ""},
		{"unknown sentinel rejected", "XX", ""},
		{"unknown sentinel lowercase", "xx", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCode(tt.code)
			if got != tt.want {
				t.Errorf("NormalizeCode(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestFromHeader(t *testing.T) {
	if got := FromHeader("IN"); got != "IN" {
		t.Errorf("FromHeader(IN) = %q, want IN", got)
	}
	if got := FromHeader("XX"); got != "" {
		t.Errorf("FromHeader(XX) = %q, want empty", got)
	}
	if got := FromHeader(""); got != "" {
		t.Errorf("FromHeader(empty) = %q, want empty", got)
	}
}

func TestResolveProviderChain(t *testing.T) {
	failing := &fakeProvider{name: "down", err: errors.New("timeout")}
	working := &fakeProvider{name: "up", code: "BR"}

	r := NewResolver([]Provider{failing, working}, nil, 0)
	got := r.Resolve(context.Background(), "203.0.113.9")

	if got != "BR" {
		t.Errorf("Resolve = %q, want BR", got)
	}
	if failing.calls != 1 || working.calls != 1 {
		t.Errorf("provider calls = %d/%d, want 1/1", failing.calls, working.calls)
	}
}

func TestResolveAllProvidersFail(t *testing.T) {
	r := NewResolver([]Provider{
		&fakeProvider{name: "a", err: errors.New("boom")},
		&fakeProvider{name: "b", code: "invalid"},
	}, nil, 0)

	if got := r.Resolve(context.Background(), "203.0.113.9"); got != UnknownCountry {
		t.Errorf("Resolve = %q, want %q", got, UnknownCountry)
	}
}

func TestResolveEmptyIP(t *testing.T) {
	p := &fakeProvider{name: "up", code: "IN"}
	r := NewResolver([]Provider{p}, nil, 0)

	if got := r.Resolve(context.Background(), ""); got != UnknownCountry {
		t.Errorf("Resolve(empty ip) = %q, want %q", got, UnknownCountry)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times for empty ip, want 0", p.calls)
	}
}

func TestResolveCaches(t *testing.T) {
	p := &fakeProvider{name: "up", code: "IN"}
	cache := newMemCache()
	r := NewResolver([]Provider{p}, cache, time.Hour)

	first := r.Resolve(context.Background(), "203.0.113.9")
	second := r.Resolve(context.Background(), "203.0.113.9")

	if first != "IN" || second != "IN" {
		t.Errorf("Resolve = %q/%q, want IN/IN", first, second)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1 (second hit should come from cache)", p.calls)
	}
}

func TestResolveDoesNotCacheUnknown(t *testing.T) {
	p := &fakeProvider{name: "down", err: errors.New("boom")}
	cache := newMemCache()
	r := NewResolver([]Provider{p}, cache, time.Hour)

	r.Resolve(context.Background(), "203.0.113.9")
	r.Resolve(context.Background(), "203.0.113.9")

	if p.calls != 2 {
		t.Errorf("provider called %d times, want 2 (failures must not be cached)", p.calls)
	}
}
