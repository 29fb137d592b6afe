package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[int](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should report absent")
	}

	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", got, ok)
	}

	c.Set("a", 2)
	if got, _ := c.Get("a"); got != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after overwrite", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // a becomes most recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should not be returned")
	}
}

func TestLRUInvalidatePrefix(t *testing.T) {
	c := NewLRU[int](10, time.Minute)

	c.Set("item-1:finance", 1)
	c.Set("item-1:calendar:2025-01", 2)
	c.Set("item-2:finance", 3)

	dropped := c.InvalidatePrefix("item-1:")
	if dropped != 2 {
		t.Errorf("InvalidatePrefix dropped %d, want 2", dropped)
	}
	if _, ok := c.Get("item-2:finance"); !ok {
		t.Error("other item's entries should survive")
	}
	if _, ok := c.Get("item-1:finance"); ok {
		t.Error("invalidated entry should be gone")
	}
}

func TestLRUPurge(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	purged := c.Purge()
	if purged != 2 {
		t.Errorf("Purge() = %d, want 2", purged)
	}
	if c.Len() != 1 {
		t.Errorf("Len() after purge = %d, want 1", c.Len())
	}
}

func TestJanitor(t *testing.T) {
	c := NewLRU[int](10, time.Millisecond)
	j := NewJanitor()
	j.Register(c)

	c.Set("a", 1)
	j.Start(5 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	j.Stop()

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want janitor to purge expired entries", c.Len())
	}

	// Second Stop is a no-op.
	j.Stop()
}
