package lru

import (
	"reflect"
	"testing"
	"time"
)

func TestLRU_OrderAndEviction(t *testing.T) {
	var evicted []string
	lc := NewLRU[string, string](3, func(k, v string) { evicted = append(evicted, k) }, 0)
	lc.Add("k1", "v1")
	lc.Add("k2", "v2")
	lc.Add("k3", "v3")

	if got := lc.Keys(); !reflect.DeepEqual(got, []string{"k1", "k2", "k3"}) {
		t.Fatalf("Keys() = %v, want [k1 k2 k3]", got)
	}

	// touching k1 makes k2 the oldest
	if v, ok := lc.Get("k1"); !ok || v != "v1" {
		t.Fatalf("Get(k1) = %v, %v", v, ok)
	}

	if !lc.Add("k4", "v4") {
		t.Fatalf("expected eviction when adding k4")
	}
	if _, ok := lc.Get("k2"); ok {
		t.Fatalf("expected k2 to be evicted")
	}
	if !reflect.DeepEqual(evicted, []string{"k2"}) {
		t.Fatalf("evicted = %v, want [k2]", evicted)
	}
	if got := lc.Keys(); !reflect.DeepEqual(got, []string{"k3", "k1", "k4"}) {
		t.Fatalf("Keys() after eviction = %v", got)
	}
}

func TestLRU_Expiration(t *testing.T) {
	lc := NewLRU[string, int](0, nil, time.Minute)
	current := time.Unix(1000, 0)
	lc.now = func() time.Time { return current }

	lc.Add("a", 1)
	if v, ok := lc.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}

	current = current.Add(2 * time.Minute)
	if _, ok := lc.Get("a"); ok {
		t.Fatalf("expected a to expire")
	}
	if lc.Len() != 0 {
		t.Fatalf("expired entry should be removed, len = %d", lc.Len())
	}
}

func TestLRU_RemoveAndPurge(t *testing.T) {
	lc := NewLRU[int, int](0, nil, 0)
	for i := 0; i < 5; i++ {
		lc.Add(i, i*i)
	}

	if !lc.Remove(2) || lc.Remove(2) {
		t.Fatalf("Remove should report presence once")
	}
	if lc.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", lc.Len())
	}

	lc.Purge()
	if lc.Len() != 0 || len(lc.Keys()) != 0 {
		t.Fatalf("Purge should clear the cache")
	}
}
