package cache

import (
	"context"
	"testing"
	"time"
)

// newUnreachableCache points at an address nothing listens on, so Redis
// calls fail fast instead of hanging — mirrors redishealth's
// newUnreachableClient test helper.
func newUnreachableCache() *Cache {
	return New("127.0.0.1:1", "", 0, time.Minute)
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("schema.graphql", []byte("type Query { hero: String }"))
	b := Key("schema.graphql", []byte("type Query { hero: String }"))
	if a != b {
		t.Errorf("Key should be deterministic: %q != %q", a, b)
	}
}

func TestKeyDistinguishesNameAndBody(t *testing.T) {
	a := Key("a.graphql", []byte("x"))
	b := Key("b.graphql", []byte("x"))
	if a == b {
		t.Error("Key should differ by source name")
	}
	c := Key("a.graphql", []byte("y"))
	if a == c {
		t.Error("Key should differ by source body")
	}
}

func TestPingUnreachable(t *testing.T) {
	c := newUnreachableCache()
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err == nil {
		t.Error("expected Ping to fail against an unreachable address")
	}
}

func TestGetUnreachable(t *testing.T) {
	c := newUnreachableCache()
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, found, err := c.Get(ctx, "lex-cache:deadbeef")
	if err == nil {
		t.Error("expected Get to fail against an unreachable address")
	}
	if found {
		t.Error("found should be false on error")
	}
}
